package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightpath-edu/assessment-engine/internal/events"
	"github.com/brightpath-edu/assessment-engine/internal/models"
)

func TestXPService_AwardForAttempt(t *testing.T) {
	repo := newMockRepository()
	publisher := testPublisher()
	svc := NewXPService(repo, publisher, testLogger())
	ctx := context.Background()

	result := &models.AttemptResult{StudentID: 42, CorrectCount: 3}

	award, err := svc.AwardForAttempt(ctx, result)
	require.NoError(t, err)
	assert.Equal(t, 80, award.Amount)
	assert.Equal(t, 80, award.TotalXP)
	assert.Equal(t, 1, award.Level)
	assert.False(t, award.LeveledUp)
	assert.Empty(t, publisher.PublishedEvents(), "no threshold crossed, no event")
}

func TestXPService_AwardForAttempt_LevelUpPublishesEvent(t *testing.T) {
	repo := newMockRepository()
	publisher := testPublisher()
	svc := NewXPService(repo, publisher, testLogger())
	ctx := context.Background()

	// Two perfect five-question attempts: 100 XP leaves the student just
	// below the level 2 threshold of 101, the second grant crosses it.
	result := &models.AttemptResult{StudentID: 42, CorrectCount: 5}

	first, err := svc.AwardForAttempt(ctx, result)
	require.NoError(t, err)
	assert.Equal(t, 100, first.TotalXP)
	assert.Equal(t, 1, first.Level)
	assert.False(t, first.LeveledUp)

	second, err := svc.AwardForAttempt(ctx, result)
	require.NoError(t, err)
	assert.Equal(t, 200, second.TotalXP)
	assert.Equal(t, 2, second.Level)
	assert.True(t, second.LeveledUp)

	published := publisher.PublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventLevelUp, published[0].Type)

	payload, ok := published[0].Data.(events.LevelUpEvent)
	require.True(t, ok)
	assert.Equal(t, uint(42), payload.StudentID)
	assert.Equal(t, 200, payload.TotalXP)
	assert.Equal(t, 2, payload.Level)
}

func TestXPService_Profile(t *testing.T) {
	repo := newMockRepository()
	svc := NewXPService(repo, testPublisher(), testLogger())
	ctx := context.Background()

	t.Run("missing profile reads as level one", func(t *testing.T) {
		profile, err := svc.Profile(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, uint(7), profile.StudentID)
		assert.Zero(t, profile.TotalXP)
		assert.Equal(t, 1, profile.Level)
		assert.Zero(t, profile.ProgressInLevel)
		assert.Equal(t, 101, profile.NextLevelXP)
	})

	t.Run("existing profile", func(t *testing.T) {
		_, err := repo.xp.Add(ctx, 7, 201)
		require.NoError(t, err)

		profile, err := svc.Profile(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, 201, profile.TotalXP)
		assert.Equal(t, 2, profile.Level)
		assert.InDelta(t, 0.5, profile.ProgressInLevel, 0.0001)
		assert.Equal(t, 301, profile.NextLevelXP)
	})
}
