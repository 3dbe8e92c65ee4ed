package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/brightpath-edu/assessment-engine/internal/models"
	"github.com/brightpath-edu/assessment-engine/internal/repositories"
)

type GradeConfigPostgreSQL struct {
	db *gorm.DB
}

func NewGradeConfigPostgreSQL(db *gorm.DB) repositories.GradeConfigRepository {
	return &GradeConfigPostgreSQL{db: db}
}

func (g *GradeConfigPostgreSQL) Upsert(ctx context.Context, config *models.GradeConfigRecord) error {
	return g.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "course_id"}},
			UpdateAll: true,
		}).
		Create(config).Error
}

func (g *GradeConfigPostgreSQL) GetByCourse(ctx context.Context, courseID uint) (*models.GradeConfigRecord, error) {
	var config models.GradeConfigRecord
	if err := g.db.WithContext(ctx).First(&config, "course_id = ?", courseID).Error; err != nil {
		return nil, err
	}
	return &config, nil
}

type GradeHistoryPostgreSQL struct {
	db *gorm.DB
}

func NewGradeHistoryPostgreSQL(db *gorm.DB) repositories.GradeHistoryRepository {
	return &GradeHistoryPostgreSQL{db: db}
}

func (g *GradeHistoryPostgreSQL) Create(ctx context.Context, record *models.CourseGradeRecord) error {
	return g.db.WithContext(ctx).Create(record).Error
}

func (g *GradeHistoryPostgreSQL) Latest(ctx context.Context, courseID, studentID uint) (*models.CourseGradeRecord, error) {
	var record models.CourseGradeRecord
	if err := g.db.WithContext(ctx).
		Where("course_id = ? AND student_id = ?", courseID, studentID).
		Order("computed_at DESC").
		First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (g *GradeHistoryPostgreSQL) History(ctx context.Context, courseID, studentID uint, limit int) ([]*models.CourseGradeRecord, error) {
	query := g.db.WithContext(ctx).
		Where("course_id = ? AND student_id = ?", courseID, studentID).
		Order("computed_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var records []*models.CourseGradeRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
