package services

import (
	"github.com/brightpath-edu/assessment-engine/internal/models"
)

// Projector computes the average score still required on remaining work to
// reach a target percentage, and classifies the learner's standing. Pure,
// like the Aggregator.
type Projector interface {
	// RequiredAverage returns nil when no remaining items can influence the
	// grade. A value <= 0 means the target is already met; a value > 100
	// means it is mathematically unreachable with the remaining work. Both
	// are meaningful results that callers must not clamp away.
	RequiredAverage(current *models.CourseGradeResult, targetPct float64, remaining models.RemainingWork) *float64

	// Classify turns a projection into the learner-facing goal status.
	Classify(current *models.CourseGradeResult, targetPct float64, required *float64) models.GoalStatus
}

// atRiskRequired and atRiskGap are the classification thresholds: a required
// average above atRiskRequired, or a target more than atRiskGap points away,
// marks the goal at risk.
const (
	atRiskRequired = 90.0
	atRiskGap      = 15.0
)

type projector struct{}

func NewProjector() Projector {
	return &projector{}
}

// RequiredAverage holds every category except the one containing the
// remaining items fixed at its current contribution, solves for the category
// percentage that reaches the target, then re-expresses it over only the
// adjustable remaining points:
//
//	fixed          = overall - categoryContribution
//	requiredCatPct = (target - fixed) / categoryWeight
//	requiredAvg    = (requiredCatPct/100*catPossibleTotal - catEarned) / remainingPossible * 100
//
// where catPossibleTotal counts both graded and remaining possible points.
func (p *projector) RequiredAverage(current *models.CourseGradeResult, targetPct float64, remaining models.RemainingWork) *float64 {
	if remaining.ItemCount == 0 || remaining.PossiblePoints <= 0 {
		return nil
	}

	breakdown := current.Breakdown(remaining.Category)
	if breakdown == nil || breakdown.Weight <= 0 {
		return nil
	}

	fixed := current.Overall - breakdown.Contribution
	requiredCategoryPct := (targetPct - fixed) / breakdown.Weight

	totalCategoryPossible := breakdown.Possible + remaining.PossiblePoints
	requiredPoints := requiredCategoryPct/100*totalCategoryPossible - breakdown.Earned
	required := requiredPoints / remaining.PossiblePoints * 100
	return &required
}

func (p *projector) Classify(current *models.CourseGradeResult, targetPct float64, required *float64) models.GoalStatus {
	if required == nil {
		// Nothing left to influence the grade; the goal is fixed by history.
		if current.Overall >= targetPct {
			return models.GoalAchieved
		}
		return models.GoalBehind
	}

	switch {
	case *required <= 0:
		return models.GoalAchieved
	case *required > 100:
		return models.GoalBehind
	case *required > atRiskRequired || targetPct-current.Overall > atRiskGap:
		return models.GoalAtRisk
	default:
		return models.GoalOnTrack
	}
}
