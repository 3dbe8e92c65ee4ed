package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/brightpath-edu/assessment-engine/internal/models"
	"github.com/brightpath-edu/assessment-engine/internal/repositories"
)

type GradebookPostgreSQL struct {
	db *gorm.DB
}

func NewGradebookPostgreSQL(db *gorm.DB) repositories.GradebookRepository {
	return &GradebookPostgreSQL{db: db}
}

func (g *GradebookPostgreSQL) Create(ctx context.Context, item *models.GradebookItem) error {
	return g.db.WithContext(ctx).Create(item).Error
}

func (g *GradebookPostgreSQL) Update(ctx context.Context, item *models.GradebookItem) error {
	return g.db.WithContext(ctx).Save(item).Error
}

func (g *GradebookPostgreSQL) GetByID(ctx context.Context, id uint) (*models.GradebookItem, error) {
	var item models.GradebookItem
	if err := g.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (g *GradebookPostgreSQL) List(ctx context.Context, courseID, studentID uint) ([]*models.GradebookItem, error) {
	var items []*models.GradebookItem
	if err := g.db.WithContext(ctx).
		Where("course_id = ? AND student_id = ?", courseID, studentID).
		Order("category, created_at").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

type categoryTotalRow struct {
	Category models.GradeCategory
	Earned   float64
	Possible float64
}

func (g *GradebookPostgreSQL) Totals(ctx context.Context, courseID, studentID uint) (models.CategoryTotals, error) {
	var rows []categoryTotalRow
	if err := g.db.WithContext(ctx).
		Model(&models.GradebookItem{}).
		Select("category, COALESCE(SUM(earned_points), 0) AS earned, COALESCE(SUM(possible_points), 0) AS possible").
		Where("course_id = ? AND student_id = ? AND completed = ?", courseID, studentID, true).
		Group("category").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	totals := make(models.CategoryTotals, len(rows))
	for _, row := range rows {
		totals[row.Category] = models.CategoryScore{Earned: row.Earned, Possible: row.Possible}
	}
	return totals, nil
}

type remainingRow struct {
	Category models.GradeCategory
	Count    int
	Possible float64
}

func (g *GradebookPostgreSQL) Remaining(ctx context.Context, courseID, studentID uint, category models.GradeCategory) (*models.RemainingWork, error) {
	var row remainingRow
	if err := g.db.WithContext(ctx).
		Model(&models.GradebookItem{}).
		Select("COUNT(*) AS count, COALESCE(SUM(possible_points), 0) AS possible").
		Where("course_id = ? AND student_id = ? AND category = ? AND completed = ?", courseID, studentID, category, false).
		Scan(&row).Error; err != nil {
		return nil, err
	}

	return &models.RemainingWork{
		Category:       category,
		ItemCount:      row.Count,
		PossiblePoints: row.Possible,
	}, nil
}

func (g *GradebookPostgreSQL) RemainingAll(ctx context.Context, courseID, studentID uint) ([]models.RemainingWork, error) {
	var rows []remainingRow
	if err := g.db.WithContext(ctx).
		Model(&models.GradebookItem{}).
		Select("category, COUNT(*) AS count, COALESCE(SUM(possible_points), 0) AS possible").
		Where("course_id = ? AND student_id = ? AND completed = ?", courseID, studentID, false).
		Group("category").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	remaining := make([]models.RemainingWork, 0, len(rows))
	for _, row := range rows {
		remaining = append(remaining, models.RemainingWork{
			Category:       row.Category,
			ItemCount:      row.Count,
			PossiblePoints: row.Possible,
		})
	}
	return remaining, nil
}
