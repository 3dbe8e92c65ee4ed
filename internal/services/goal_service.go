package services

import (
	"context"
	"fmt"

	"github.com/brightpath-edu/assessment-engine/internal/events"
	"github.com/brightpath-edu/assessment-engine/internal/models"
	"github.com/brightpath-edu/assessment-engine/internal/repositories"
	"github.com/brightpath-edu/assessment-engine/internal/utils"
)

// GoalService manages learner targets and turns them into projections over
// the remaining gradebook work.
type GoalService interface {
	SetGoal(ctx context.Context, courseID, studentID uint, targetLetter string) (*models.ProgressGoal, error)
	GetGoal(ctx context.Context, courseID, studentID uint) (*models.ProgressGoal, error)
	DeleteGoal(ctx context.Context, courseID, studentID uint) error

	// Projection computes the required average on remaining work for the
	// stored goal and classifies the learner's standing.
	Projection(ctx context.Context, courseID, studentID uint) (*models.GoalProjection, error)
}

type goalService struct {
	repo      repositories.Repository
	grades    GradeService
	projector Projector
	publisher events.EventPublisher
	logger    utils.Logger
}

func NewGoalService(repo repositories.Repository, grades GradeService, projector Projector, publisher events.EventPublisher, logger utils.Logger) GoalService {
	return &goalService{
		repo:      repo,
		grades:    grades,
		projector: projector,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *goalService) SetGoal(ctx context.Context, courseID, studentID uint, targetLetter string) (*models.ProgressGoal, error) {
	targetPct, err := models.PercentageForLetter(targetLetter)
	if err != nil {
		return nil, err
	}

	goal := &models.ProgressGoal{
		CourseID:      courseID,
		StudentID:     studentID,
		TargetLetter:  targetLetter,
		TargetPercent: targetPct,
	}
	if err := s.repo.Goal().Save(ctx, goal); err != nil {
		return nil, fmt.Errorf("failed to save goal: %w", err)
	}

	s.logger.Info("Progress goal set",
		"course_id", courseID,
		"student_id", studentID,
		"target_letter", targetLetter,
		"target_percent", targetPct)
	return goal, nil
}

func (s *goalService) GetGoal(ctx context.Context, courseID, studentID uint) (*models.ProgressGoal, error) {
	goal, err := s.repo.Goal().Get(ctx, courseID, studentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrGoalNotFound
		}
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}
	return goal, nil
}

func (s *goalService) DeleteGoal(ctx context.Context, courseID, studentID uint) error {
	return s.repo.Goal().Delete(ctx, courseID, studentID)
}

// Projection projects against the category holding the largest block of
// remaining possible points; with no remaining work anywhere the required
// average is nil and the status is decided by the current overall alone.
func (s *goalService) Projection(ctx context.Context, courseID, studentID uint) (*models.GoalProjection, error) {
	goal, err := s.GetGoal(ctx, courseID, studentID)
	if err != nil {
		return nil, err
	}

	current, err := s.grades.GetLatest(ctx, courseID, studentID)
	if err != nil {
		return nil, err
	}

	remainingAll, err := s.repo.Gradebook().RemainingAll(ctx, courseID, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get remaining work: %w", err)
	}

	remaining := pickProjectionTarget(remainingAll)
	required := s.projector.RequiredAverage(current, goal.TargetPercent, remaining)
	status := s.projector.Classify(current, goal.TargetPercent, required)

	projection := &models.GoalProjection{
		CourseID:        courseID,
		StudentID:       studentID,
		TargetLetter:    goal.TargetLetter,
		TargetPercent:   goal.TargetPercent,
		CurrentOverall:  current.Overall,
		Category:        remaining.Category,
		RemainingItems:  remaining.ItemCount,
		RequiredAverage: required,
		Status:          status,
	}

	if err := s.publisher.PublishEngineEvent(ctx, events.NewGoalProgressEvent(projection)); err != nil {
		s.logger.Error("Failed to publish goal event",
			"course_id", courseID,
			"student_id", studentID,
			"error", err)
	}

	return projection, nil
}

// pickProjectionTarget selects the category with the most remaining possible
// points. The zero RemainingWork stands for "nothing left anywhere".
func pickProjectionTarget(remaining []models.RemainingWork) models.RemainingWork {
	var best models.RemainingWork
	for _, r := range remaining {
		if r.PossiblePoints > best.PossiblePoints {
			best = r
		}
	}
	return best
}
