package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/brightpath-edu/assessment-engine/internal/models"
)

// Repository bundles the engine's persistence surfaces. The engine core never
// touches these directly; orchestration services do.
type Repository interface {
	Quiz() QuizRepository
	Attempt() AttemptRepository
	Gradebook() GradebookRepository
	GradeConfig() GradeConfigRepository
	GradeHistory() GradeHistoryRepository
	Goal() GoalRepository
	XP() XPRepository

	Ping(ctx context.Context) error
	Close() error
}

// QuizRepository stores quiz definitions with their ordered questions.
type QuizRepository interface {
	Create(ctx context.Context, quiz *models.QuizRecord) error
	GetByID(ctx context.Context, id uint) (*models.QuizRecord, error)
	GetByCourse(ctx context.Context, courseID uint) ([]*models.QuizRecord, error)
	Delete(ctx context.Context, id uint) error
}

// AttemptRepository stores finalized attempts only; live sessions never touch
// the database.
type AttemptRepository interface {
	Create(ctx context.Context, attempt *models.AttemptRecord) error
	GetByID(ctx context.Context, id uint) (*models.AttemptRecord, error)
	GetByStudent(ctx context.Context, studentID uint, filters AttemptFilters) ([]*models.AttemptRecord, int64, error)
	GetByQuiz(ctx context.Context, quizID uint) ([]*models.AttemptRecord, error)
}

// GradebookRepository stores recorded work items and derives the totals and
// remaining-work figures that feed aggregation and goal projection.
type GradebookRepository interface {
	Create(ctx context.Context, item *models.GradebookItem) error
	Update(ctx context.Context, item *models.GradebookItem) error
	GetByID(ctx context.Context, id uint) (*models.GradebookItem, error)
	List(ctx context.Context, courseID, studentID uint) ([]*models.GradebookItem, error)

	// Totals sums earned/possible points of completed items per category.
	Totals(ctx context.Context, courseID, studentID uint) (models.CategoryTotals, error)

	// Remaining summarizes the incomplete items of one category.
	Remaining(ctx context.Context, courseID, studentID uint, category models.GradeCategory) (*models.RemainingWork, error)

	// RemainingAll summarizes incomplete items for every category that has any.
	RemainingAll(ctx context.Context, courseID, studentID uint) ([]models.RemainingWork, error)
}

type GradeConfigRepository interface {
	Upsert(ctx context.Context, config *models.GradeConfigRecord) error
	GetByCourse(ctx context.Context, courseID uint) (*models.GradeConfigRecord, error)
}

// GradeHistoryRepository keeps every computed result; the newest row is the
// current grade and its predecessor feeds the trend comparison.
type GradeHistoryRepository interface {
	Create(ctx context.Context, record *models.CourseGradeRecord) error
	Latest(ctx context.Context, courseID, studentID uint) (*models.CourseGradeRecord, error)
	History(ctx context.Context, courseID, studentID uint, limit int) ([]*models.CourseGradeRecord, error)
}

// GoalRepository keeps at most one goal per course/student pair.
type GoalRepository interface {
	Save(ctx context.Context, goal *models.ProgressGoal) error
	Get(ctx context.Context, courseID, studentID uint) (*models.ProgressGoal, error)
	Delete(ctx context.Context, courseID, studentID uint) error
}

type XPRepository interface {
	Get(ctx context.Context, studentID uint) (*models.XPProfile, error)

	// Add increments a student's lifetime XP, creating the profile on first
	// grant, and returns the updated profile.
	Add(ctx context.Context, studentID uint, amount int) (*models.XPProfile, error)
}

// ===== SHARED FILTER STRUCTS =====

type AttemptFilters struct {
	CourseID  *uint  `json:"course_id"`
	QuizID    *uint  `json:"quiz_id"`
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
	SortOrder string `json:"sort_order"` // "asc", "desc"
}

// IsNotFoundError checks whether an error represents a missing row.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
