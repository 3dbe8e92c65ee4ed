package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"

	"github.com/brightpath-edu/assessment-engine/internal/events"
	"github.com/brightpath-edu/assessment-engine/internal/models"
	"github.com/brightpath-edu/assessment-engine/internal/repositories"
	"github.com/brightpath-edu/assessment-engine/internal/utils"
)

// AttemptService orchestrates live quiz sessions: it loads definitions, hosts
// the in-memory state machines, drives their countdowns, and persists the
// result when a session ends.
type AttemptService interface {
	// Quiz management
	CreateQuiz(ctx context.Context, quiz *models.QuizDefinition) (*models.QuizDefinition, error)
	GetQuiz(ctx context.Context, quizID uint) (*models.QuizDefinition, error)
	ListQuizzes(ctx context.Context, courseID uint) ([]*models.QuizDefinition, error)
	DeleteQuiz(ctx context.Context, quizID uint) error

	// Live session operations
	Start(ctx context.Context, quizID, studentID uint) (*SessionView, error)
	Answer(ctx context.Context, sessionID string, questionIndex int, answer models.Answer) (*SessionView, error)
	Advance(ctx context.Context, sessionID string) (*SessionView, error)
	Retreat(ctx context.Context, sessionID string) (*SessionView, error)
	GetSession(ctx context.Context, sessionID string) (*SessionView, error)
	Submit(ctx context.Context, sessionID string) (*models.AttemptResult, error)

	// Finished attempts
	GetAttempt(ctx context.Context, attemptID uint) (*models.AttemptRecord, error)
	ListAttempts(ctx context.Context, studentID uint, filters repositories.AttemptFilters) ([]*models.AttemptRecord, int64, error)

	// RunClock drives the per-second countdown of every live session until the
	// context is cancelled.
	RunClock(ctx context.Context)
}

// SessionView is the learner-facing snapshot of a live session. Remaining is
// -1 for untimed quizzes.
type SessionView struct {
	SessionID     string               `json:"session_id"`
	QuizID        uint                 `json:"quiz_id"`
	QuizTitle     string               `json:"quiz_title"`
	StudentID     uint                 `json:"student_id"`
	Cursor        int                  `json:"cursor"`
	QuestionCount int                  `json:"question_count"`
	Remaining     int                  `json:"remaining_seconds"`
	Status        models.AttemptStatus `json:"status"`
	CanSubmit     bool                 `json:"can_submit"`
}

type attemptService struct {
	repo      repositories.Repository
	scoring   ScoringService
	publisher events.EventPublisher
	xp        XPService
	logger    utils.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewAttemptService(repo repositories.Repository, scoring ScoringService, xp XPService, publisher events.EventPublisher, logger utils.Logger) AttemptService {
	return &attemptService{
		repo:      repo,
		scoring:   scoring,
		xp:        xp,
		publisher: publisher,
		logger:    logger,
		sessions:  make(map[string]*Session),
	}
}

// ===== QUIZ MANAGEMENT =====

func (s *attemptService) CreateQuiz(ctx context.Context, quiz *models.QuizDefinition) (*models.QuizDefinition, error) {
	if err := quiz.Validate(); err != nil {
		return nil, err
	}

	record, err := models.NewQuizRecord(quiz)
	if err != nil {
		return nil, fmt.Errorf("failed to encode quiz: %w", err)
	}
	if err := s.repo.Quiz().Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create quiz: %w", err)
	}

	s.logger.Info("Quiz created",
		"quiz_id", record.ID,
		"course_id", record.CourseID,
		"questions", len(record.Questions))

	return record.Definition()
}

func (s *attemptService) GetQuiz(ctx context.Context, quizID uint) (*models.QuizDefinition, error) {
	record, err := s.repo.Quiz().GetByID(ctx, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}
	return record.Definition()
}

func (s *attemptService) ListQuizzes(ctx context.Context, courseID uint) ([]*models.QuizDefinition, error) {
	records, err := s.repo.Quiz().GetByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}

	quizzes := make([]*models.QuizDefinition, 0, len(records))
	for _, record := range records {
		quiz, err := record.Definition()
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, quiz)
	}
	return quizzes, nil
}

func (s *attemptService) DeleteQuiz(ctx context.Context, quizID uint) error {
	if _, err := s.repo.Quiz().GetByID(ctx, quizID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrQuizNotFound
		}
		return fmt.Errorf("failed to get quiz: %w", err)
	}
	return s.repo.Quiz().Delete(ctx, quizID)
}

// ===== LIVE SESSION OPERATIONS =====

func (s *attemptService) Start(ctx context.Context, quizID, studentID uint) (*SessionView, error) {
	quiz, err := s.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}

	session, err := NewSession(quiz, studentID, s.scoring, s.logger)
	if err != nil {
		return nil, err
	}

	sessionID := watermill.NewUUID()
	s.mu.Lock()
	s.sessions[sessionID] = session
	s.mu.Unlock()

	s.logger.Info("Quiz session started",
		"session_id", sessionID,
		"quiz_id", quizID,
		"student_id", studentID,
		"time_limit_minutes", quiz.TimeLimit)

	return s.view(sessionID, session), nil
}

func (s *attemptService) Answer(ctx context.Context, sessionID string, questionIndex int, answer models.Answer) (*SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrAttemptNotFound
	}
	if err := session.Answer(questionIndex, answer); err != nil {
		return nil, err
	}
	return s.view(sessionID, session), nil
}

func (s *attemptService) Advance(ctx context.Context, sessionID string) (*SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrAttemptNotFound
	}
	if err := session.Advance(); err != nil {
		return nil, err
	}
	return s.view(sessionID, session), nil
}

func (s *attemptService) Retreat(ctx context.Context, sessionID string) (*SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrAttemptNotFound
	}
	if err := session.Retreat(); err != nil {
		return nil, err
	}
	return s.view(sessionID, session), nil
}

func (s *attemptService) GetSession(ctx context.Context, sessionID string) (*SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrAttemptNotFound
	}
	return s.view(sessionID, session), nil
}

// Submit finalizes a session on the learner's request. The readiness gate
// applies here only; the timeout path bypasses it.
func (s *attemptService) Submit(ctx context.Context, sessionID string) (*models.AttemptResult, error) {
	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrAttemptNotFound
	}
	if session.Status() == models.AttemptInProgress && !session.CanSubmit() {
		s.mu.Unlock()
		return nil, ErrSessionNotReady
	}

	alreadyFinal := session.Status() == models.AttemptSubmitted
	result := session.Submit()
	delete(s.sessions, sessionID)
	startedAt := session.StartedAt()
	s.mu.Unlock()

	if alreadyFinal {
		return result, nil
	}
	if err := s.persistResult(ctx, session.Quiz(), result, startedAt); err != nil {
		return nil, err
	}
	return result, nil
}

// ===== FINISHED ATTEMPTS =====

func (s *attemptService) GetAttempt(ctx context.Context, attemptID uint) (*models.AttemptRecord, error) {
	record, err := s.repo.Attempt().GetByID(ctx, attemptID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("failed to get attempt: %w", err)
	}
	return record, nil
}

func (s *attemptService) ListAttempts(ctx context.Context, studentID uint, filters repositories.AttemptFilters) ([]*models.AttemptRecord, int64, error) {
	return s.repo.Attempt().GetByStudent(ctx, studentID, filters)
}

// ===== CLOCK =====

// RunClock ticks every live session once per second. Sessions that hit zero
// finalize with the timeout reason and are persisted exactly like a voluntary
// submission.
func (s *attemptService) RunClock(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tickAll(ctx)
		}
	}
}

func (s *attemptService) tickAll(ctx context.Context) {
	type expired struct {
		quiz      *models.QuizDefinition
		result    *models.AttemptResult
		startedAt time.Time
	}

	s.mu.Lock()
	var done []expired
	for id, session := range s.sessions {
		session.Tick()
		if session.Status() == models.AttemptSubmitted {
			done = append(done, expired{session.Quiz(), session.Result(), session.StartedAt()})
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, e := range done {
		if err := s.persistResult(ctx, e.quiz, e.result, e.startedAt); err != nil {
			s.logger.Error("Failed to persist timed-out attempt",
				"quiz_id", e.quiz.ID,
				"student_id", e.result.StudentID,
				"error", err)
		}
	}
}

// ===== PERSISTENCE =====

// persistResult stores the attempt, records the gradebook data point, awards
// XP and publishes the completion event.
func (s *attemptService) persistResult(ctx context.Context, quiz *models.QuizDefinition, result *models.AttemptResult, startedAt time.Time) error {
	record := &models.AttemptRecord{
		QuizID:                 result.QuizID,
		CourseID:               result.CourseID,
		StudentID:              result.StudentID,
		Score:                  result.Score,
		AutoGradableCount:      result.AutoGradableCount,
		CorrectCount:           result.CorrectCount,
		HasPendingManualReview: result.HasPendingManualReview,
		EndReason:              result.EndReason,
		StartedAt:              startedAt,
		SubmittedAt:            result.SubmittedAt,
	}

	answersJSON, err := models.MarshalSnapshots(result.Answers)
	if err != nil {
		return fmt.Errorf("failed to encode answers: %w", err)
	}
	record.Answers = answersJSON

	award, err := s.xp.AwardForAttempt(ctx, result)
	if err != nil {
		s.logger.Error("Failed to award XP",
			"student_id", result.StudentID,
			"error", err)
	} else {
		record.XPAwarded = award.Amount
	}

	if err := s.repo.Attempt().Create(ctx, record); err != nil {
		return fmt.Errorf("failed to store attempt: %w", err)
	}

	item := &models.GradebookItem{
		CourseID:       result.CourseID,
		StudentID:      result.StudentID,
		Category:       models.CategoryQuizzes,
		Title:          quiz.Title,
		EarnedPoints:   result.Score,
		PossiblePoints: 100,
		Completed:      true,
	}
	if err := s.repo.Gradebook().Create(ctx, item); err != nil {
		s.logger.Error("Failed to record gradebook item",
			"attempt_id", record.ID,
			"error", err)
	}

	if err := s.publisher.PublishEngineEvent(ctx, events.NewAttemptCompletedEvent(record.ID, quiz, result, result.SubmittedAt)); err != nil {
		s.logger.Error("Failed to publish attempt event",
			"attempt_id", record.ID,
			"error", err)
	}

	s.logger.Info("Attempt persisted",
		"attempt_id", record.ID,
		"quiz_id", result.QuizID,
		"student_id", result.StudentID,
		"score", result.Score,
		"end_reason", string(result.EndReason))

	return nil
}

func (s *attemptService) view(sessionID string, session *Session) *SessionView {
	return &SessionView{
		SessionID:     sessionID,
		QuizID:        session.Quiz().ID,
		QuizTitle:     session.Quiz().Title,
		StudentID:     session.StudentID(),
		Cursor:        session.Cursor(),
		QuestionCount: len(session.Quiz().Questions),
		Remaining:     session.Remaining(),
		Status:        session.Status(),
		CanSubmit:     session.CanSubmit(),
	}
}
