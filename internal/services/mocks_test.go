package services

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/brightpath-edu/assessment-engine/internal/cache"
	"github.com/brightpath-edu/assessment-engine/internal/events"
	"github.com/brightpath-edu/assessment-engine/internal/models"
	"github.com/brightpath-edu/assessment-engine/internal/repositories"
	"github.com/brightpath-edu/assessment-engine/internal/utils"
)

func testLogger() utils.Logger {
	return utils.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testPublisher() *events.MockEventPublisher {
	return events.NewMockEventPublisher(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// mockRepository is an in-memory repositories.Repository for service tests.
type mockRepository struct {
	quizzes   *mockQuizRepo
	attempts  *mockAttemptRepo
	gradebook *mockGradebookRepo
	configs   *mockGradeConfigRepo
	history   *mockGradeHistoryRepo
	goals     *mockGoalRepo
	xp        *mockXPRepo
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		quizzes:   &mockQuizRepo{records: make(map[uint]*models.QuizRecord)},
		attempts:  &mockAttemptRepo{},
		gradebook: &mockGradebookRepo{},
		configs:   &mockGradeConfigRepo{records: make(map[uint]*models.GradeConfigRecord)},
		history:   &mockGradeHistoryRepo{},
		goals:     &mockGoalRepo{records: make(map[goalKey]*models.ProgressGoal)},
		xp:        &mockXPRepo{profiles: make(map[uint]*models.XPProfile)},
	}
}

func (m *mockRepository) Quiz() repositories.QuizRepository { return m.quizzes }
func (m *mockRepository) Attempt() repositories.AttemptRepository { return m.attempts }
func (m *mockRepository) Gradebook() repositories.GradebookRepository { return m.gradebook }
func (m *mockRepository) GradeConfig() repositories.GradeConfigRepository { return m.configs }
func (m *mockRepository) GradeHistory() repositories.GradeHistoryRepository { return m.history }
func (m *mockRepository) Goal() repositories.GoalRepository { return m.goals }
func (m *mockRepository) XP() repositories.XPRepository { return m.xp }
func (m *mockRepository) Ping(ctx context.Context) error { return nil }
func (m *mockRepository) Close() error { return nil }

type mockQuizRepo struct {
	mu      sync.Mutex
	nextID  uint
	records map[uint]*models.QuizRecord
}

func (m *mockQuizRepo) Create(ctx context.Context, quiz *models.QuizRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if quiz.ID == 0 {
		m.nextID++
		quiz.ID = m.nextID
	}
	quiz.CreatedAt = time.Now()
	m.records[quiz.ID] = quiz
	return nil
}

func (m *mockQuizRepo) GetByID(ctx context.Context, id uint) (*models.QuizRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return record, nil
}

func (m *mockQuizRepo) GetByCourse(ctx context.Context, courseID uint) ([]*models.QuizRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.QuizRecord
	for _, record := range m.records {
		if record.CourseID == courseID {
			out = append(out, record)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockQuizRepo) Delete(ctx context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, id)
	return nil
}

type mockAttemptRepo struct {
	mu      sync.Mutex
	nextID  uint
	records []*models.AttemptRecord
}

func (m *mockAttemptRepo) Create(ctx context.Context, attempt *models.AttemptRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	attempt.ID = m.nextID
	attempt.CreatedAt = time.Now()
	m.records = append(m.records, attempt)
	return nil
}

func (m *mockAttemptRepo) GetByID(ctx context.Context, id uint) (*models.AttemptRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, record := range m.records {
		if record.ID == id {
			return record, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAttemptRepo) GetByStudent(ctx context.Context, studentID uint, filters repositories.AttemptFilters) ([]*models.AttemptRecord, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.AttemptRecord
	for _, record := range m.records {
		if record.StudentID != studentID {
			continue
		}
		if filters.CourseID != nil && record.CourseID != *filters.CourseID {
			continue
		}
		if filters.QuizID != nil && record.QuizID != *filters.QuizID {
			continue
		}
		out = append(out, record)
	}
	return out, int64(len(out)), nil
}

func (m *mockAttemptRepo) GetByQuiz(ctx context.Context, quizID uint) ([]*models.AttemptRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.AttemptRecord
	for _, record := range m.records {
		if record.QuizID == quizID {
			out = append(out, record)
		}
	}
	return out, nil
}

type mockGradebookRepo struct {
	mu     sync.Mutex
	nextID uint
	items  []*models.GradebookItem
}

func (m *mockGradebookRepo) Create(ctx context.Context, item *models.GradebookItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	item.ID = m.nextID
	m.items = append(m.items, item)
	return nil
}

func (m *mockGradebookRepo) Update(ctx context.Context, item *models.GradebookItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.items {
		if existing.ID == item.ID {
			m.items[i] = item
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockGradebookRepo) GetByID(ctx context.Context, id uint) (*models.GradebookItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, item := range m.items {
		if item.ID == id {
			return item, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGradebookRepo) List(ctx context.Context, courseID, studentID uint) ([]*models.GradebookItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.GradebookItem
	for _, item := range m.items {
		if item.CourseID == courseID && item.StudentID == studentID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (m *mockGradebookRepo) Totals(ctx context.Context, courseID, studentID uint) (models.CategoryTotals, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	totals := make(models.CategoryTotals)
	for _, item := range m.items {
		if item.CourseID != courseID || item.StudentID != studentID || !item.Completed {
			continue
		}
		score := totals[item.Category]
		score.Earned += item.EarnedPoints
		score.Possible += item.PossiblePoints
		totals[item.Category] = score
	}
	return totals, nil
}

func (m *mockGradebookRepo) Remaining(ctx context.Context, courseID, studentID uint, category models.GradeCategory) (*models.RemainingWork, error) {
	all, err := m.RemainingAll(ctx, courseID, studentID)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].Category == category {
			return &all[i], nil
		}
	}
	return &models.RemainingWork{Category: category}, nil
}

func (m *mockGradebookRepo) RemainingAll(ctx context.Context, courseID, studentID uint) ([]models.RemainingWork, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	byCategory := make(map[models.GradeCategory]*models.RemainingWork)
	for _, item := range m.items {
		if item.CourseID != courseID || item.StudentID != studentID || item.Completed {
			continue
		}
		work, ok := byCategory[item.Category]
		if !ok {
			work = &models.RemainingWork{Category: item.Category}
			byCategory[item.Category] = work
		}
		work.ItemCount++
		work.PossiblePoints += item.PossiblePoints
	}
	var out []models.RemainingWork
	for _, work := range byCategory {
		out = append(out, *work)
	}
	return out, nil
}

type mockGradeConfigRepo struct {
	mu      sync.Mutex
	records map[uint]*models.GradeConfigRecord
}

func (m *mockGradeConfigRepo) Upsert(ctx context.Context, config *models.GradeConfigRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[config.CourseID] = config
	return nil
}

func (m *mockGradeConfigRepo) GetByCourse(ctx context.Context, courseID uint) (*models.GradeConfigRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[courseID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return record, nil
}

type mockGradeHistoryRepo struct {
	mu      sync.Mutex
	nextID  uint
	records []*models.CourseGradeRecord
}

func (m *mockGradeHistoryRepo) Create(ctx context.Context, record *models.CourseGradeRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	record.ID = m.nextID
	m.records = append(m.records, record)
	return nil
}

func (m *mockGradeHistoryRepo) Latest(ctx context.Context, courseID, studentID uint) (*models.CourseGradeRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.records) - 1; i >= 0; i-- {
		if m.records[i].CourseID == courseID && m.records[i].StudentID == studentID {
			return m.records[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGradeHistoryRepo) History(ctx context.Context, courseID, studentID uint, limit int) ([]*models.CourseGradeRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.CourseGradeRecord
	for i := len(m.records) - 1; i >= 0; i-- {
		if m.records[i].CourseID == courseID && m.records[i].StudentID == studentID {
			out = append(out, m.records[i])
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

type goalKey struct {
	courseID  uint
	studentID uint
}

type mockGoalRepo struct {
	mu      sync.Mutex
	records map[goalKey]*models.ProgressGoal
}

func (m *mockGoalRepo) Save(ctx context.Context, goal *models.ProgressGoal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[goalKey{goal.CourseID, goal.StudentID}] = goal
	return nil
}

func (m *mockGoalRepo) Get(ctx context.Context, courseID, studentID uint) (*models.ProgressGoal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	goal, ok := m.records[goalKey{courseID, studentID}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return goal, nil
}

func (m *mockGoalRepo) Delete(ctx context.Context, courseID, studentID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, goalKey{courseID, studentID})
	return nil
}

type mockXPRepo struct {
	mu       sync.Mutex
	profiles map[uint]*models.XPProfile
}

func (m *mockXPRepo) Get(ctx context.Context, studentID uint) (*models.XPProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	profile, ok := m.profiles[studentID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return profile, nil
}

func (m *mockXPRepo) Add(ctx context.Context, studentID uint, amount int) (*models.XPProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	profile, ok := m.profiles[studentID]
	if !ok {
		profile = &models.XPProfile{StudentID: studentID}
		m.profiles[studentID] = profile
	}
	profile.TotalXP += amount
	profile.UpdatedAt = time.Now()
	return profile, nil
}

// mockCache is an in-memory cache.CacheService.
type mockCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	sets    int
	hits    int
	misses  int
}

func newMockCache() *mockCache {
	return &mockCache{entries: make(map[string][]byte)}
}

func (m *mockCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = payload
	m.sets++
	return nil
}

func (m *mockCache) Get(ctx context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	payload, ok := m.entries[key]
	if !ok {
		m.misses++
		m.mu.Unlock()
		return cache.ErrCacheMiss
	}
	m.hits++
	m.mu.Unlock()
	return json.Unmarshal(payload, dest)
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func (m *mockCache) DeletePattern(ctx context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string][]byte)
	return nil
}
