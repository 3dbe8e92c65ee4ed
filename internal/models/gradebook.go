package models

import "time"

// GradebookItem is one recorded piece of work for a course: a graded
// assignment, a quiz attempt's score, attendance-derived participation, or a
// recorded exam. Completed items feed category totals; incomplete items are
// the remaining work the Goal Projector reasons about.
type GradebookItem struct {
	ID             uint          `json:"id" gorm:"primaryKey"`
	CourseID       uint          `json:"course_id" gorm:"not null;index:idx_course_student_item"`
	StudentID      uint          `json:"student_id" gorm:"not null;index:idx_course_student_item"`
	Category       GradeCategory `json:"category" gorm:"not null;index"`
	Title          string        `json:"title" gorm:"not null;size:200"`
	EarnedPoints   float64       `json:"earned_points"`
	PossiblePoints float64       `json:"possible_points" gorm:"not null"`
	Completed      bool          `json:"completed" gorm:"not null;index"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

func (GradebookItem) TableName() string {
	return "gradebook_items"
}

// RemainingWork summarizes the not-yet-completed items of one category.
type RemainingWork struct {
	Category       GradeCategory `json:"category"`
	ItemCount      int           `json:"item_count"`
	PossiblePoints float64       `json:"possible_points"`
}
