package services

import (
	"math"
	"time"

	"github.com/brightpath-edu/assessment-engine/internal/models"
)

// Aggregator combines per-category totals into one CourseGradeResult. Pure
// and side-effect free: it owns no state and needs no locking.
type Aggregator interface {
	Aggregate(courseID, studentID uint, weights models.GradeWeights, totals models.CategoryTotals, previous *models.CourseGradeResult) (*models.CourseGradeResult, error)
}

type aggregator struct{}

func NewAggregator() Aggregator {
	return &aggregator{}
}

// Aggregate rejects an invalid weight configuration outright; no partial
// computation happens. The overall percentage is floored at zero but not
// capped at 100, since extra credit is legal.
func (a *aggregator) Aggregate(courseID, studentID uint, weights models.GradeWeights, totals models.CategoryTotals, previous *models.CourseGradeResult) (*models.CourseGradeResult, error) {
	if !weights.Valid() {
		return nil, ErrInvalidWeightConfiguration
	}

	breakdowns := make([]models.GradeBreakdown, 0, len(models.GradeCategories))
	overall := 0.0
	for _, category := range models.GradeCategories {
		score := totals[category]
		pct := score.Percentage()
		weight := weights.Weight(category)
		contribution := pct * weight
		overall += contribution

		breakdowns = append(breakdowns, models.GradeBreakdown{
			Category:     category,
			Weight:       weight,
			Earned:       score.Earned,
			Possible:     score.Possible,
			Percentage:   pct,
			Contribution: contribution,
		})
	}

	if overall < 0 {
		overall = 0
	}

	letter := models.LetterForPercentage(overall)
	result := &models.CourseGradeResult{
		CourseID:    courseID,
		StudentID:   studentID,
		Overall:     overall,
		Letter:      letter,
		GradePoints: models.GradePointsForLetter(letter),
		Trend:       trendAgainst(previous, overall),
		Breakdowns:  breakdowns,
		ComputedAt:  time.Now(),
	}
	return result, nil
}

// trendAgainst compares the new overall to the immediately preceding result.
// With no prior result the trend is stable.
func trendAgainst(previous *models.CourseGradeResult, overall float64) models.GradeTrend {
	if previous == nil {
		return models.TrendStable
	}
	delta := overall - previous.Overall
	if math.Abs(delta) <= models.TrendEpsilon {
		return models.TrendStable
	}
	if delta > 0 {
		return models.TrendImproving
	}
	return models.TrendDeclining
}
