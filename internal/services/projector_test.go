package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightpath-edu/assessment-engine/internal/models"
)

// gradeWith builds a result with one active category and the rest of the
// overall fixed by other work.
func gradeWith(overall float64, breakdown models.GradeBreakdown) *models.CourseGradeResult {
	return &models.CourseGradeResult{
		CourseID:   101,
		StudentID:  42,
		Overall:    overall,
		Breakdowns: []models.GradeBreakdown{breakdown},
	}
}

func TestProjector_RequiredAverage(t *testing.T) {
	p := NewProjector()

	// 85% on assignments at weight 0.4 contributes 34 points; everything else
	// fixed at 51 for an overall of 85.
	current := gradeWith(85.0, models.GradeBreakdown{
		Category:     models.CategoryAssignments,
		Weight:       0.4,
		Earned:       170,
		Possible:     200,
		Percentage:   85,
		Contribution: 34,
	})
	remaining := models.RemainingWork{
		Category:       models.CategoryAssignments,
		ItemCount:      2,
		PossiblePoints: 100,
	}

	required := p.RequiredAverage(current, 85.5, remaining)
	require.NotNil(t, required)
	assert.InDelta(t, 88.75, *required, 0.0001)
}

func TestProjector_RequiredAverage_NilCases(t *testing.T) {
	p := NewProjector()
	current := gradeWith(70.0, models.GradeBreakdown{
		Category: models.CategoryQuizzes,
		Weight:   0.3,
		Earned:   70,
		Possible: 100,
	})

	assert.Nil(t, p.RequiredAverage(current, 90, models.RemainingWork{
		Category: models.CategoryQuizzes, ItemCount: 0, PossiblePoints: 0,
	}), "no remaining items")

	assert.Nil(t, p.RequiredAverage(current, 90, models.RemainingWork{
		Category: models.CategoryMidterm, ItemCount: 1, PossiblePoints: 100,
	}), "remaining work in a category absent from the breakdown")
}

func TestProjector_RequiredAverage_TargetAlreadyMet(t *testing.T) {
	p := NewProjector()

	current := gradeWith(95.0, models.GradeBreakdown{
		Category:     models.CategoryQuizzes,
		Weight:       0.3,
		Earned:       280,
		Possible:     300,
		Percentage:   280.0 / 3.0,
		Contribution: 28,
	})
	remaining := models.RemainingWork{
		Category:       models.CategoryQuizzes,
		ItemCount:      1,
		PossiblePoints: 50,
	}

	required := p.RequiredAverage(current, 70, remaining)
	require.NotNil(t, required)
	assert.Less(t, *required, 0.0, "a met target yields a non-positive requirement, not nil")
	assert.Equal(t, models.GoalAchieved, p.Classify(current, 70, required))
}

func TestProjector_RequiredAverage_Unreachable(t *testing.T) {
	p := NewProjector()

	// Nothing graded in the final exam category yet; it is worth 0.3 of the
	// course and only 100 points remain.
	current := gradeWith(59.5, models.GradeBreakdown{
		Category:     models.CategoryFinalExam,
		Weight:       0.3,
		Earned:       0,
		Possible:     0,
		Percentage:   0,
		Contribution: 0,
	})
	remaining := models.RemainingWork{
		Category:       models.CategoryFinalExam,
		ItemCount:      1,
		PossiblePoints: 100,
	}

	required := p.RequiredAverage(current, 90, remaining)
	require.NotNil(t, required)
	assert.Greater(t, *required, 100.0)
	assert.Equal(t, models.GoalBehind, p.Classify(current, 90, required))
}

func TestProjector_Classify(t *testing.T) {
	p := NewProjector()
	current := gradeWith(85.0, models.GradeBreakdown{Category: models.CategoryAssignments, Weight: 0.4})

	ref := func(v float64) *float64 { return &v }

	tests := []struct {
		name     string
		target   float64
		required *float64
		want     models.GoalStatus
	}{
		{"nil and target met", 80, nil, models.GoalAchieved},
		{"nil and target missed", 90, nil, models.GoalBehind},
		{"non-positive requirement", 80, ref(-12), models.GoalAchieved},
		{"impossible requirement", 90, ref(120), models.GoalBehind},
		{"steep requirement", 86, ref(92.5), models.GoalAtRisk},
		{"wide gap to target", 100.5, ref(80), models.GoalAtRisk},
		{"comfortable requirement", 85.5, ref(88.75), models.GoalOnTrack},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Classify(current, tt.target, tt.required))
		})
	}
}
