package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/brightpath-edu/assessment-engine/internal/models"
	"github.com/brightpath-edu/assessment-engine/internal/repositories"
)

type gormRepository struct {
	db           *gorm.DB
	quiz         repositories.QuizRepository
	attempt      repositories.AttemptRepository
	gradebook    repositories.GradebookRepository
	gradeConfig  repositories.GradeConfigRepository
	gradeHistory repositories.GradeHistoryRepository
	goal         repositories.GoalRepository
	xp           repositories.XPRepository
}

func NewRepository(db *gorm.DB) repositories.Repository {
	return &gormRepository{
		db:           db,
		quiz:         NewQuizPostgreSQL(db),
		attempt:      NewAttemptPostgreSQL(db),
		gradebook:    NewGradebookPostgreSQL(db),
		gradeConfig:  NewGradeConfigPostgreSQL(db),
		gradeHistory: NewGradeHistoryPostgreSQL(db),
		goal:         NewGoalPostgreSQL(db),
		xp:           NewXPPostgreSQL(db),
	}
}

func (r *gormRepository) Quiz() repositories.QuizRepository                 { return r.quiz }
func (r *gormRepository) Attempt() repositories.AttemptRepository           { return r.attempt }
func (r *gormRepository) Gradebook() repositories.GradebookRepository       { return r.gradebook }
func (r *gormRepository) GradeConfig() repositories.GradeConfigRepository   { return r.gradeConfig }
func (r *gormRepository) GradeHistory() repositories.GradeHistoryRepository { return r.gradeHistory }
func (r *gormRepository) Goal() repositories.GoalRepository                 { return r.goal }
func (r *gormRepository) XP() repositories.XPRepository                     { return r.xp }

func (r *gormRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *gormRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Migrate creates or updates the engine's tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.QuizRecord{},
		&models.QuestionRecord{},
		&models.AttemptRecord{},
		&models.GradebookItem{},
		&models.GradeConfigRecord{},
		&models.CourseGradeRecord{},
		&models.ProgressGoal{},
		&models.XPProfile{},
	)
}
