package models

import "time"

// XPProfile accumulates a learner's lifetime experience points. Level and
// progress are derived, never stored.
type XPProfile struct {
	StudentID uint      `json:"student_id" gorm:"primaryKey"`
	TotalXP   int       `json:"total_xp" gorm:"not null;default:0"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (XPProfile) TableName() string {
	return "xp_profiles"
}

// XPAward describes one grant of experience points and its effect.
type XPAward struct {
	StudentID       uint    `json:"student_id"`
	Amount          int     `json:"amount"`
	TotalXP         int     `json:"total_xp"`
	Level           int     `json:"level"`
	ProgressInLevel float64 `json:"progress_in_level"`
	LeveledUp       bool    `json:"leveled_up"`
}
