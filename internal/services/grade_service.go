package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/brightpath-edu/assessment-engine/internal/cache"
	"github.com/brightpath-edu/assessment-engine/internal/events"
	"github.com/brightpath-edu/assessment-engine/internal/models"
	"github.com/brightpath-edu/assessment-engine/internal/repositories"
	"github.com/brightpath-edu/assessment-engine/internal/utils"
)

// GradeService owns the course-grade pipeline: weight configuration,
// gradebook items, computation, history and the cached latest result.
type GradeService interface {
	// Weight configuration
	SetWeights(ctx context.Context, courseID uint, weights models.GradeWeights) error
	GetWeights(ctx context.Context, courseID uint) (models.GradeWeights, error)

	// Gradebook items
	AddItem(ctx context.Context, item *models.GradebookItem) error
	UpdateItem(ctx context.Context, item *models.GradebookItem) error
	ListItems(ctx context.Context, courseID, studentID uint) ([]*models.GradebookItem, error)

	// Computation
	ComputeCourseGrade(ctx context.Context, courseID, studentID uint) (*models.CourseGradeResult, error)
	GetLatest(ctx context.Context, courseID, studentID uint) (*models.CourseGradeResult, error)
	History(ctx context.Context, courseID, studentID uint, limit int) ([]*models.CourseGradeResult, error)
}

const gradeCacheTTL = 10 * time.Minute

func gradeCacheKey(courseID, studentID uint) string {
	return fmt.Sprintf("grade:course:%d:student:%d", courseID, studentID)
}

type gradeService struct {
	repo       repositories.Repository
	aggregator Aggregator
	cache      cache.CacheService
	publisher  events.EventPublisher
	validator  *utils.Validator
	logger     utils.Logger
}

func NewGradeService(repo repositories.Repository, aggregator Aggregator, cacheService cache.CacheService, publisher events.EventPublisher, validator *utils.Validator, logger utils.Logger) GradeService {
	return &gradeService{
		repo:       repo,
		aggregator: aggregator,
		cache:      cacheService,
		publisher:  publisher,
		validator:  validator,
		logger:     logger,
	}
}

// ===== WEIGHT CONFIGURATION =====

func (s *gradeService) SetWeights(ctx context.Context, courseID uint, weights models.GradeWeights) error {
	if !weights.Valid() {
		return ErrInvalidWeightConfiguration
	}

	record := &models.GradeConfigRecord{
		CourseID:      courseID,
		Assignments:   weights.Assignments,
		Quizzes:       weights.Quizzes,
		Participation: weights.Participation,
		Midterm:       weights.Midterm,
		FinalExam:     weights.FinalExam,
	}
	if err := s.repo.GradeConfig().Upsert(ctx, record); err != nil {
		return fmt.Errorf("failed to store grade config: %w", err)
	}

	s.logger.Info("Grade weights configured",
		"course_id", courseID,
		"sum", weights.Sum())
	return nil
}

func (s *gradeService) GetWeights(ctx context.Context, courseID uint) (models.GradeWeights, error) {
	record, err := s.repo.GradeConfig().GetByCourse(ctx, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return models.GradeWeights{}, ErrGradeConfigNotFound
		}
		return models.GradeWeights{}, fmt.Errorf("failed to get grade config: %w", err)
	}
	return record.Weights(), nil
}

// ===== GRADEBOOK ITEMS =====

func (s *gradeService) AddItem(ctx context.Context, item *models.GradebookItem) error {
	if err := s.validator.Validate(item); err != nil {
		return err
	}
	if !item.Category.Valid() {
		return NewValidationError("category", "unknown grade category", string(item.Category))
	}
	return s.repo.Gradebook().Create(ctx, item)
}

func (s *gradeService) UpdateItem(ctx context.Context, item *models.GradebookItem) error {
	if _, err := s.repo.Gradebook().GetByID(ctx, item.ID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get gradebook item: %w", err)
	}
	return s.repo.Gradebook().Update(ctx, item)
}

func (s *gradeService) ListItems(ctx context.Context, courseID, studentID uint) ([]*models.GradebookItem, error) {
	return s.repo.Gradebook().List(ctx, courseID, studentID)
}

// ===== COMPUTATION =====

// ComputeCourseGrade derives fresh totals from the gradebook, aggregates them
// under the course's weights, appends the result to history, refreshes the
// cache and publishes the grade event. The previous history head feeds trend.
func (s *gradeService) ComputeCourseGrade(ctx context.Context, courseID, studentID uint) (*models.CourseGradeResult, error) {
	weights, err := s.GetWeights(ctx, courseID)
	if err != nil {
		return nil, err
	}

	totals, err := s.repo.Gradebook().Totals(ctx, courseID, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to derive category totals: %w", err)
	}

	var previous *models.CourseGradeResult
	previousRecord, err := s.repo.GradeHistory().Latest(ctx, courseID, studentID)
	if err != nil && !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to get previous grade: %w", err)
	}
	if previousRecord != nil {
		if previous, err = previousRecord.Result(); err != nil {
			return nil, fmt.Errorf("failed to decode previous grade: %w", err)
		}
	}

	result, err := s.aggregator.Aggregate(courseID, studentID, weights, totals, previous)
	if err != nil {
		return nil, err
	}

	record, err := models.NewCourseGradeRecord(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode grade record: %w", err)
	}
	if err := s.repo.GradeHistory().Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to store grade record: %w", err)
	}

	if err := s.cache.Set(ctx, gradeCacheKey(courseID, studentID), result, gradeCacheTTL); err != nil {
		s.logger.Warn("Failed to cache course grade",
			"course_id", courseID,
			"student_id", studentID,
			"error", err)
	}

	if err := s.publisher.PublishEngineEvent(ctx, events.NewGradeComputedEvent(result, result.ComputedAt)); err != nil {
		s.logger.Error("Failed to publish grade event",
			"course_id", courseID,
			"student_id", studentID,
			"error", err)
	}

	s.logger.Info("Course grade computed",
		"course_id", courseID,
		"student_id", studentID,
		"overall", result.Overall,
		"letter", result.Letter,
		"trend", string(result.Trend))

	return result, nil
}

// GetLatest serves the cached result when present and falls back to the
// history head, repopulating the cache on the way out.
func (s *gradeService) GetLatest(ctx context.Context, courseID, studentID uint) (*models.CourseGradeResult, error) {
	var cached models.CourseGradeResult
	err := s.cache.Get(ctx, gradeCacheKey(courseID, studentID), &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("Grade cache lookup failed",
			"course_id", courseID,
			"student_id", studentID,
			"error", err)
	}

	record, err := s.repo.GradeHistory().Latest(ctx, courseID, studentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseGradeNotFound
		}
		return nil, fmt.Errorf("failed to get latest grade: %w", err)
	}

	result, err := record.Result()
	if err != nil {
		return nil, fmt.Errorf("failed to decode grade record: %w", err)
	}

	if err := s.cache.Set(ctx, gradeCacheKey(courseID, studentID), result, gradeCacheTTL); err != nil {
		s.logger.Warn("Failed to repopulate grade cache",
			"course_id", courseID,
			"student_id", studentID,
			"error", err)
	}
	return result, nil
}

func (s *gradeService) History(ctx context.Context, courseID, studentID uint, limit int) ([]*models.CourseGradeResult, error) {
	records, err := s.repo.GradeHistory().History(ctx, courseID, studentID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get grade history: %w", err)
	}

	results := make([]*models.CourseGradeResult, 0, len(records))
	for _, record := range records {
		result, err := record.Result()
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}
