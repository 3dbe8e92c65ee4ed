package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightpath-edu/assessment-engine/internal/models"
)

func standardWeights() models.GradeWeights {
	return models.GradeWeights{
		Assignments:   0.4,
		Quizzes:       0.3,
		Participation: 0.1,
		Midterm:       0.1,
		FinalExam:     0.1,
	}
}

func TestAggregator_Aggregate(t *testing.T) {
	agg := NewAggregator()

	totals := models.CategoryTotals{
		models.CategoryAssignments:   {Earned: 180, Possible: 200},
		models.CategoryQuizzes:       {Earned: 85, Possible: 100},
		models.CategoryParticipation: {Earned: 10, Possible: 10},
		models.CategoryMidterm:       {Earned: 88, Possible: 100},
		models.CategoryFinalExam:     {Earned: 0, Possible: 0},
	}

	result, err := agg.Aggregate(101, 42, standardWeights(), totals, nil)
	require.NoError(t, err)

	// 90*.4 + 85*.3 + 100*.1 + 88*.1 + 0*.1
	assert.InDelta(t, 80.3, result.Overall, 0.0001)
	assert.Equal(t, "B-", result.Letter)
	assert.Equal(t, 2.7, result.GradePoints)
	assert.Equal(t, models.TrendStable, result.Trend)
	assert.Len(t, result.Breakdowns, 5)

	finalExam := result.Breakdown(models.CategoryFinalExam)
	require.NotNil(t, finalExam)
	assert.Zero(t, finalExam.Percentage, "a category with nothing graded contributes zero, not an error")
	assert.Zero(t, finalExam.Contribution)
}

func TestAggregator_RejectsInvalidWeights(t *testing.T) {
	agg := NewAggregator()

	weights := standardWeights()
	weights.FinalExam = 0.3 // sum 1.2

	_, err := agg.Aggregate(101, 42, weights, models.CategoryTotals{}, nil)
	assert.ErrorIs(t, err, ErrInvalidWeightConfiguration)
}

func TestAggregator_ExtraCreditExceedsHundred(t *testing.T) {
	agg := NewAggregator()

	totals := models.CategoryTotals{}
	for _, category := range models.GradeCategories {
		totals[category] = models.CategoryScore{Earned: 110, Possible: 100}
	}

	result, err := agg.Aggregate(101, 42, standardWeights(), totals, nil)
	require.NoError(t, err)
	assert.InDelta(t, 110.0, result.Overall, 0.0001, "extra credit is not capped")
	assert.Equal(t, "A", result.Letter)
}

func TestAggregator_Trend(t *testing.T) {
	agg := NewAggregator()

	totals := models.CategoryTotals{
		models.CategoryAssignments: {Earned: 90, Possible: 100},
	}

	tests := []struct {
		name     string
		previous *models.CourseGradeResult
		want     models.GradeTrend
	}{
		{"no prior result", nil, models.TrendStable},
		{"improving", &models.CourseGradeResult{Overall: 30.0}, models.TrendImproving},
		{"declining", &models.CourseGradeResult{Overall: 50.0}, models.TrendDeclining},
		{"within epsilon", &models.CourseGradeResult{Overall: 36.0}, models.TrendStable},
	}

	// 90*.4 = 36.0 overall with the other categories empty.
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := agg.Aggregate(101, 42, standardWeights(), totals, tt.previous)
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Trend)
		})
	}
}

func TestLetterBoundaries(t *testing.T) {
	tests := []struct {
		pct    float64
		letter string
		points float64
	}{
		{96, "A", 4.0},
		{93, "A", 4.0},
		{92.9, "A-", 3.7},
		{90, "A-", 3.7},
		{87, "B+", 3.3},
		{83, "B", 3.0},
		{80, "B-", 2.7},
		{77, "C+", 2.3},
		{73, "C", 2.0},
		{70, "C-", 1.7},
		{67, "D+", 1.3},
		{60, "D", 1.0},
		{59.9, "F", 0.0},
		{0, "F", 0.0},
	}

	for _, tt := range tests {
		letter := models.LetterForPercentage(tt.pct)
		assert.Equal(t, tt.letter, letter, "pct %.1f", tt.pct)
		assert.Equal(t, tt.points, models.GradePointsForLetter(letter))
	}
}
