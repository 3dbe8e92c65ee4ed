package events

import (
	"time"

	"github.com/ThreeDotsLabs/watermill"

	"github.com/brightpath-edu/assessment-engine/internal/models"
)

// EventType identifies the kinds of events the engine emits.
type EventType string

const (
	// Attempt events
	EventAttemptCompleted EventType = "attempt.completed"

	// Grade events
	EventGradeComputed EventType = "grade.computed"

	// Goal events
	EventGoalProgress EventType = "goal.progress"

	// XP events
	EventLevelUp EventType = "xp.level_up"
)

// EngineEvent is the envelope shared by every event the engine publishes.
type EngineEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

const eventSource = "assessment-engine"

// Attempt event payloads

type AttemptCompletedEvent struct {
	AttemptID     uint                    `json:"attempt_id"`
	QuizID        uint                    `json:"quiz_id"`
	QuizTitle     string                  `json:"quiz_title"`
	CourseID      uint                    `json:"course_id"`
	StudentID     uint                    `json:"student_id"`
	Score         float64                 `json:"score"`
	CorrectCount  int                     `json:"correct_count"`
	AutoGradable  int                     `json:"auto_gradable_count"`
	PendingReview bool                    `json:"pending_review"`
	EndReason     models.AttemptEndReason `json:"end_reason"`
	SubmittedAt   time.Time               `json:"submitted_at"`
}

// Grade event payload

type GradeComputedEvent struct {
	CourseID    uint              `json:"course_id"`
	StudentID   uint              `json:"student_id"`
	Overall     float64           `json:"overall"`
	Letter      string            `json:"letter"`
	GradePoints float64           `json:"grade_points"`
	Trend       models.GradeTrend `json:"trend"`
	ComputedAt  time.Time         `json:"computed_at"`
}

// Goal event payload

type GoalProgressEvent struct {
	CourseID        uint              `json:"course_id"`
	StudentID       uint              `json:"student_id"`
	TargetLetter    string            `json:"target_letter"`
	CurrentOverall  float64           `json:"current_overall"`
	RequiredAverage *float64          `json:"required_average,omitempty"`
	Status          models.GoalStatus `json:"status"`
}

// XP event payload

type LevelUpEvent struct {
	StudentID uint `json:"student_id"`
	TotalXP   int  `json:"total_xp"`
	Level     int  `json:"level"`
}

// Event factory functions

func NewAttemptCompletedEvent(attemptID uint, quiz *models.QuizDefinition, result *models.AttemptResult, submittedAt time.Time) *EngineEvent {
	return &EngineEvent{
		ID:        watermill.NewUUID(),
		Type:      EventAttemptCompleted,
		Timestamp: time.Now(),
		Source:    eventSource,
		Version:   "1.0",
		Data: AttemptCompletedEvent{
			AttemptID:     attemptID,
			QuizID:        quiz.ID,
			QuizTitle:     quiz.Title,
			CourseID:      quiz.CourseID,
			StudentID:     result.StudentID,
			Score:         result.Score,
			CorrectCount:  result.CorrectCount,
			AutoGradable:  result.AutoGradableCount,
			PendingReview: result.HasPendingManualReview,
			EndReason:     result.EndReason,
			SubmittedAt:   submittedAt,
		},
	}
}

func NewGradeComputedEvent(result *models.CourseGradeResult, computedAt time.Time) *EngineEvent {
	return &EngineEvent{
		ID:        watermill.NewUUID(),
		Type:      EventGradeComputed,
		Timestamp: time.Now(),
		Source:    eventSource,
		Version:   "1.0",
		Data: GradeComputedEvent{
			CourseID:    result.CourseID,
			StudentID:   result.StudentID,
			Overall:     result.Overall,
			Letter:      result.Letter,
			GradePoints: result.GradePoints,
			Trend:       result.Trend,
			ComputedAt:  computedAt,
		},
	}
}

func NewGoalProgressEvent(projection *models.GoalProjection) *EngineEvent {
	return &EngineEvent{
		ID:        watermill.NewUUID(),
		Type:      EventGoalProgress,
		Timestamp: time.Now(),
		Source:    eventSource,
		Version:   "1.0",
		Data: GoalProgressEvent{
			CourseID:        projection.CourseID,
			StudentID:       projection.StudentID,
			TargetLetter:    projection.TargetLetter,
			CurrentOverall:  projection.CurrentOverall,
			RequiredAverage: projection.RequiredAverage,
			Status:          projection.Status,
		},
	}
}

func NewLevelUpEvent(studentID uint, totalXP, level int) *EngineEvent {
	return &EngineEvent{
		ID:        watermill.NewUUID(),
		Type:      EventLevelUp,
		Timestamp: time.Now(),
		Source:    eventSource,
		Version:   "1.0",
		Data: LevelUpEvent{
			StudentID: studentID,
			TotalXP:   totalXP,
			Level:     level,
		},
	}
}
