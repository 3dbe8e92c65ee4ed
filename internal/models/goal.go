package models

import "time"

// ProgressGoal is a learner's target letter grade for one course. At most one
// exists per course/student pair; saving again overwrites it.
type ProgressGoal struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	CourseID      uint      `json:"course_id" gorm:"not null;uniqueIndex:idx_goal_course_student"`
	StudentID     uint      `json:"student_id" gorm:"not null;uniqueIndex:idx_goal_course_student"`
	TargetLetter  string    `json:"target_letter" gorm:"not null;size:2"`
	TargetPercent float64   `json:"target_percent" gorm:"not null"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (ProgressGoal) TableName() string {
	return "progress_goals"
}

// GoalStatus classifies a learner's standing toward a goal. "Already met" and
// "unreachable" are meaningful outcomes rendered distinctly, never errors.
type GoalStatus string

const (
	GoalAchieved GoalStatus = "achieved"
	GoalOnTrack  GoalStatus = "on_track"
	GoalAtRisk   GoalStatus = "at_risk"
	GoalBehind   GoalStatus = "behind"
)

// GoalProjection is the Goal Projector's outbound record. RequiredAverage is
// nil when no remaining work can influence the grade.
type GoalProjection struct {
	CourseID        uint          `json:"course_id"`
	StudentID       uint          `json:"student_id"`
	TargetLetter    string        `json:"target_letter"`
	TargetPercent   float64       `json:"target_percent"`
	CurrentOverall  float64       `json:"current_overall"`
	Category        GradeCategory `json:"category"`
	RemainingItems  int           `json:"remaining_items"`
	RequiredAverage *float64      `json:"required_average"`
	Status          GoalStatus    `json:"status"`
}
