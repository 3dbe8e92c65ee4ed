package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/brightpath-edu/assessment-engine/internal/models"
	"github.com/brightpath-edu/assessment-engine/internal/repositories"
)

type GoalPostgreSQL struct {
	db *gorm.DB
}

func NewGoalPostgreSQL(db *gorm.DB) repositories.GoalRepository {
	return &GoalPostgreSQL{db: db}
}

// Save overwrites any existing goal for the course/student pair; goals are
// never accumulated.
func (g *GoalPostgreSQL) Save(ctx context.Context, goal *models.ProgressGoal) error {
	return g.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "course_id"}, {Name: "student_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"target_letter", "target_percent", "updated_at"}),
		}).
		Create(goal).Error
}

func (g *GoalPostgreSQL) Get(ctx context.Context, courseID, studentID uint) (*models.ProgressGoal, error) {
	var goal models.ProgressGoal
	if err := g.db.WithContext(ctx).
		First(&goal, "course_id = ? AND student_id = ?", courseID, studentID).Error; err != nil {
		return nil, err
	}
	return &goal, nil
}

func (g *GoalPostgreSQL) Delete(ctx context.Context, courseID, studentID uint) error {
	return g.db.WithContext(ctx).
		Where("course_id = ? AND student_id = ?", courseID, studentID).
		Delete(&models.ProgressGoal{}).Error
}
