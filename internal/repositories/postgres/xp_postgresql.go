package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/brightpath-edu/assessment-engine/internal/models"
	"github.com/brightpath-edu/assessment-engine/internal/repositories"
)

type XPPostgreSQL struct {
	db *gorm.DB
}

func NewXPPostgreSQL(db *gorm.DB) repositories.XPRepository {
	return &XPPostgreSQL{db: db}
}

func (x *XPPostgreSQL) Get(ctx context.Context, studentID uint) (*models.XPProfile, error) {
	var profile models.XPProfile
	if err := x.db.WithContext(ctx).First(&profile, "student_id = ?", studentID).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// Add increments the student's lifetime XP inside a transaction, creating the
// profile on first grant.
func (x *XPPostgreSQL) Add(ctx context.Context, studentID uint, amount int) (*models.XPProfile, error) {
	var profile models.XPProfile
	err := x.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.First(&profile, "student_id = ?", studentID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			profile = models.XPProfile{StudentID: studentID, TotalXP: amount}
			return tx.Create(&profile).Error
		}
		if err != nil {
			return err
		}
		profile.TotalXP += amount
		return tx.Save(&profile).Error
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
