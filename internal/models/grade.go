package models

import (
	"encoding/json"
	"math"
	"time"

	"gorm.io/datatypes"

	apperrors "github.com/brightpath-edu/assessment-engine/internal/errors"
)

type GradeCategory string

const (
	CategoryAssignments   GradeCategory = "assignments"
	CategoryQuizzes       GradeCategory = "quizzes"
	CategoryParticipation GradeCategory = "participation"
	CategoryMidterm       GradeCategory = "midterm"
	CategoryFinalExam     GradeCategory = "final_exam"
)

// GradeCategories lists all five buckets in display order.
var GradeCategories = []GradeCategory{
	CategoryAssignments,
	CategoryQuizzes,
	CategoryParticipation,
	CategoryMidterm,
	CategoryFinalExam,
}

func (c GradeCategory) Valid() bool {
	switch c {
	case CategoryAssignments, CategoryQuizzes, CategoryParticipation, CategoryMidterm, CategoryFinalExam:
		return true
	}
	return false
}

// WeightTolerance is the allowed deviation of the weight sum from 1.0.
const WeightTolerance = 0.001

// GradeWeights holds the five category fractions. The aggregator rejects a
// configuration whose sum strays from 1.0 instead of renormalizing, so a bad
// upstream configuration surfaces instead of being hidden.
type GradeWeights struct {
	Assignments   float64 `json:"assignments" validate:"min=0"`
	Quizzes       float64 `json:"quizzes" validate:"min=0"`
	Participation float64 `json:"participation" validate:"min=0"`
	Midterm       float64 `json:"midterm" validate:"min=0"`
	FinalExam     float64 `json:"final_exam" validate:"min=0"`
}

func (w GradeWeights) Sum() float64 {
	return w.Assignments + w.Quizzes + w.Participation + w.Midterm + w.FinalExam
}

func (w GradeWeights) Valid() bool {
	if w.Assignments < 0 || w.Quizzes < 0 || w.Participation < 0 || w.Midterm < 0 || w.FinalExam < 0 {
		return false
	}
	return math.Abs(w.Sum()-1.0) <= WeightTolerance
}

// Weight returns the fraction for one category.
func (w GradeWeights) Weight(category GradeCategory) float64 {
	switch category {
	case CategoryAssignments:
		return w.Assignments
	case CategoryQuizzes:
		return w.Quizzes
	case CategoryParticipation:
		return w.Participation
	case CategoryMidterm:
		return w.Midterm
	case CategoryFinalExam:
		return w.FinalExam
	}
	return 0
}

// CategoryScore is the earned/possible point total of already-graded work in
// one category.
type CategoryScore struct {
	Earned   float64 `json:"earned"`
	Possible float64 `json:"possible"`
}

// Percentage is earned/possible*100, or 0 when nothing was possible.
func (s CategoryScore) Percentage() float64 {
	if s.Possible <= 0 {
		return 0
	}
	return s.Earned / s.Possible * 100
}

// CategoryTotals supplies the per-category inputs to aggregation.
type CategoryTotals map[GradeCategory]CategoryScore

// GradeBreakdown is one category's slice of the computed course grade.
type GradeBreakdown struct {
	Category     GradeCategory `json:"category"`
	Weight       float64       `json:"weight"`
	Earned       float64       `json:"earned"`
	Possible     float64       `json:"possible"`
	Percentage   float64       `json:"percentage"`
	Contribution float64       `json:"contribution"`
}

type GradeTrend string

const (
	TrendImproving GradeTrend = "improving"
	TrendDeclining GradeTrend = "declining"
	TrendStable    GradeTrend = "stable"
)

// TrendEpsilon is the minimum overall-percentage movement that counts as a
// direction change.
const TrendEpsilon = 0.01

// CourseGradeResult is one immutable grade computation. A newer result
// supersedes the old one; nothing is mutated in place.
type CourseGradeResult struct {
	CourseID    uint             `json:"course_id"`
	StudentID   uint             `json:"student_id"`
	Overall     float64          `json:"overall"`
	Letter      string           `json:"letter"`
	GradePoints float64          `json:"grade_points"`
	Trend       GradeTrend       `json:"trend"`
	Breakdowns  []GradeBreakdown `json:"breakdowns"`
	ComputedAt  time.Time        `json:"computed_at"`
}

// Breakdown returns the slice for one category, or nil when absent.
func (r *CourseGradeResult) Breakdown(category GradeCategory) *GradeBreakdown {
	for i := range r.Breakdowns {
		if r.Breakdowns[i].Category == category {
			return &r.Breakdowns[i]
		}
	}
	return nil
}

// letterBoundary maps the lower percentage bound of each letter grade,
// highest first, with its 4.0-scale value.
type letterBoundary struct {
	Min         float64
	Letter      string
	GradePoints float64
}

var letterBoundaries = []letterBoundary{
	{93, "A", 4.0},
	{90, "A-", 3.7},
	{87, "B+", 3.3},
	{83, "B", 3.0},
	{80, "B-", 2.7},
	{77, "C+", 2.3},
	{73, "C", 2.0},
	{70, "C-", 1.7},
	{67, "D+", 1.3},
	{60, "D", 1.0},
	{0, "F", 0.0},
}

// LetterForPercentage maps an overall percentage to its letter grade.
// Percentages above 100 (extra credit) still map to A.
func LetterForPercentage(pct float64) string {
	for _, b := range letterBoundaries {
		if pct >= b.Min {
			return b.Letter
		}
	}
	return "F"
}

// GradePointsForLetter maps a letter grade to the standard 4.0 scale.
func GradePointsForLetter(letter string) float64 {
	for _, b := range letterBoundaries {
		if b.Letter == letter {
			return b.GradePoints
		}
	}
	return 0
}

// PercentageForLetter returns the canonical (lower-bound) percentage of a
// letter grade, used when a learner sets a letter target.
func PercentageForLetter(letter string) (float64, error) {
	for _, b := range letterBoundaries {
		if b.Letter == letter {
			return b.Min, nil
		}
	}
	return 0, apperrors.NewValidationError("letter", "unknown letter grade", letter)
}

// ValidLetter reports whether the letter appears in the boundary table.
func ValidLetter(letter string) bool {
	_, err := PercentageForLetter(letter)
	return err == nil
}

// GradeConfigRecord persists the weight configuration of one course.
type GradeConfigRecord struct {
	CourseID      uint      `json:"course_id" gorm:"primaryKey"`
	Assignments   float64   `json:"assignments" gorm:"not null"`
	Quizzes       float64   `json:"quizzes" gorm:"not null"`
	Participation float64   `json:"participation" gorm:"not null"`
	Midterm       float64   `json:"midterm" gorm:"not null"`
	FinalExam     float64   `json:"final_exam" gorm:"not null"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (GradeConfigRecord) TableName() string {
	return "grade_configs"
}

func (r *GradeConfigRecord) Weights() GradeWeights {
	return GradeWeights{
		Assignments:   r.Assignments,
		Quizzes:       r.Quizzes,
		Participation: r.Participation,
		Midterm:       r.Midterm,
		FinalExam:     r.FinalExam,
	}
}

// CourseGradeRecord persists one computed result; the newest row per
// course/student pair is the current grade and the one before it feeds trend.
type CourseGradeRecord struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	CourseID    uint           `json:"course_id" gorm:"not null;index:idx_course_student_grade"`
	StudentID   uint           `json:"student_id" gorm:"not null;index:idx_course_student_grade"`
	Overall     float64        `json:"overall" gorm:"not null"`
	Letter      string         `json:"letter" gorm:"not null;size:2"`
	GradePoints float64        `json:"grade_points" gorm:"not null"`
	Trend       GradeTrend     `json:"trend" gorm:"not null"`
	Breakdowns  datatypes.JSON `json:"breakdowns" gorm:"type:jsonb"`
	ComputedAt  time.Time      `json:"computed_at" gorm:"not null;index"`
}

func (CourseGradeRecord) TableName() string {
	return "course_grades"
}

// Result decodes the record back into the immutable computation form.
func (r *CourseGradeRecord) Result() (*CourseGradeResult, error) {
	var breakdowns []GradeBreakdown
	if len(r.Breakdowns) > 0 {
		if err := json.Unmarshal(r.Breakdowns, &breakdowns); err != nil {
			return nil, err
		}
	}
	return &CourseGradeResult{
		CourseID:    r.CourseID,
		StudentID:   r.StudentID,
		Overall:     r.Overall,
		Letter:      r.Letter,
		GradePoints: r.GradePoints,
		Trend:       r.Trend,
		Breakdowns:  breakdowns,
		ComputedAt:  r.ComputedAt,
	}, nil
}

// NewCourseGradeRecord encodes a result for storage.
func NewCourseGradeRecord(result *CourseGradeResult) (*CourseGradeRecord, error) {
	breakdowns, err := json.Marshal(result.Breakdowns)
	if err != nil {
		return nil, err
	}
	return &CourseGradeRecord{
		CourseID:    result.CourseID,
		StudentID:   result.StudentID,
		Overall:     result.Overall,
		Letter:      result.Letter,
		GradePoints: result.GradePoints,
		Trend:       result.Trend,
		Breakdowns:  breakdowns,
		ComputedAt:  result.ComputedAt,
	}, nil
}
