package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightpath-edu/assessment-engine/internal/events"
	"github.com/brightpath-edu/assessment-engine/internal/models"
	"github.com/brightpath-edu/assessment-engine/internal/utils"
)

func newGradeFixture() (*mockRepository, *mockCache, *events.MockEventPublisher, GradeService) {
	repo := newMockRepository()
	cacheService := newMockCache()
	publisher := testPublisher()
	svc := NewGradeService(repo, NewAggregator(), cacheService, publisher, utils.NewValidator(), testLogger())
	return repo, cacheService, publisher, svc
}

func seedItem(t *testing.T, svc GradeService, category models.GradeCategory, earned, possible float64, completed bool) {
	t.Helper()
	err := svc.AddItem(context.Background(), &models.GradebookItem{
		CourseID:       101,
		StudentID:      42,
		Category:       category,
		Title:          string(category) + " item",
		EarnedPoints:   earned,
		PossiblePoints: possible,
		Completed:      completed,
	})
	require.NoError(t, err)
}

func TestGradeService_Weights(t *testing.T) {
	_, _, _, svc := newGradeFixture()
	ctx := context.Background()

	_, err := svc.GetWeights(ctx, 101)
	assert.ErrorIs(t, err, ErrGradeConfigNotFound)

	bad := models.GradeWeights{Assignments: 0.5, Quizzes: 0.5, Midterm: 0.2}
	assert.ErrorIs(t, svc.SetWeights(ctx, 101, bad), ErrInvalidWeightConfiguration)

	weights := models.GradeWeights{Assignments: 0.4, Quizzes: 0.3, Participation: 0.1, Midterm: 0.1, FinalExam: 0.1}
	require.NoError(t, svc.SetWeights(ctx, 101, weights))

	stored, err := svc.GetWeights(ctx, 101)
	require.NoError(t, err)
	assert.Equal(t, weights, stored)
}

func TestGradeService_AddItem_RejectsUnknownCategory(t *testing.T) {
	_, _, _, svc := newGradeFixture()

	err := svc.AddItem(context.Background(), &models.GradebookItem{
		CourseID:       101,
		StudentID:      42,
		Category:       "homework",
		Title:          "Essay",
		PossiblePoints: 100,
	})
	assert.True(t, IsValidation(err))
}

func TestGradeService_ComputeCourseGrade(t *testing.T) {
	_, cacheService, publisher, svc := newGradeFixture()
	ctx := context.Background()

	weights := models.GradeWeights{Assignments: 0.4, Quizzes: 0.3, Participation: 0.1, Midterm: 0.1, FinalExam: 0.1}
	require.NoError(t, svc.SetWeights(ctx, 101, weights))

	seedItem(t, svc, models.CategoryAssignments, 90, 100, true)
	seedItem(t, svc, models.CategoryQuizzes, 80, 100, true)
	seedItem(t, svc, models.CategoryParticipation, 10, 10, true)
	seedItem(t, svc, models.CategoryMidterm, 88, 100, true)
	seedItem(t, svc, models.CategoryFinalExam, 0, 100, false)

	result, err := svc.ComputeCourseGrade(ctx, 101, 42)
	require.NoError(t, err)
	assert.InDelta(t, 78.8, result.Overall, 0.0001)
	assert.Equal(t, "C+", result.Letter)
	assert.InDelta(t, 2.3, result.GradePoints, 0.0001)
	assert.Equal(t, models.TrendStable, result.Trend)

	// The final exam lands and the next computation trends upward.
	seedItem(t, svc, models.CategoryFinalExam, 95, 100, true)
	improved, err := svc.ComputeCourseGrade(ctx, 101, 42)
	require.NoError(t, err)
	assert.InDelta(t, 88.3, improved.Overall, 0.0001)
	assert.Equal(t, "B+", improved.Letter)
	assert.Equal(t, models.TrendImproving, improved.Trend)

	history, err := svc.History(ctx, 101, 42, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.InDelta(t, 88.3, history[0].Overall, 0.0001, "newest first")

	published := publisher.PublishedEvents()
	require.Len(t, published, 2)
	assert.Equal(t, events.EventGradeComputed, published[0].Type)
	payload, ok := published[1].Data.(events.GradeComputedEvent)
	require.True(t, ok)
	assert.Equal(t, "B+", payload.Letter)

	assert.Contains(t, cacheService.entries, gradeCacheKey(101, 42))
}

func TestGradeService_ComputeCourseGrade_NoConfig(t *testing.T) {
	_, _, _, svc := newGradeFixture()

	_, err := svc.ComputeCourseGrade(context.Background(), 101, 42)
	assert.ErrorIs(t, err, ErrGradeConfigNotFound)
}

func TestGradeService_GetLatest(t *testing.T) {
	_, cacheService, _, svc := newGradeFixture()
	ctx := context.Background()

	t.Run("nothing computed yet", func(t *testing.T) {
		_, err := svc.GetLatest(ctx, 101, 42)
		assert.ErrorIs(t, err, ErrCourseGradeNotFound)
	})

	weights := models.GradeWeights{Assignments: 1.0}
	require.NoError(t, svc.SetWeights(ctx, 101, weights))
	seedItem(t, svc, models.CategoryAssignments, 85, 100, true)

	computed, err := svc.ComputeCourseGrade(ctx, 101, 42)
	require.NoError(t, err)

	t.Run("served from cache", func(t *testing.T) {
		latest, err := svc.GetLatest(ctx, 101, 42)
		require.NoError(t, err)
		assert.Equal(t, computed.Overall, latest.Overall)
		assert.Equal(t, 1, cacheService.hits)
	})

	t.Run("cache miss falls back to history and repopulates", func(t *testing.T) {
		require.NoError(t, cacheService.Delete(ctx, gradeCacheKey(101, 42)))
		setsBefore := cacheService.sets

		latest, err := svc.GetLatest(ctx, 101, 42)
		require.NoError(t, err)
		assert.Equal(t, computed.Overall, latest.Overall)
		assert.Equal(t, computed.Letter, latest.Letter)
		assert.Equal(t, setsBefore+1, cacheService.sets)
		assert.Contains(t, cacheService.entries, gradeCacheKey(101, 42))
	})
}
