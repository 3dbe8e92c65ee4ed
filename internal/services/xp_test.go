package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brightpath-edu/assessment-engine/internal/models"
)

func TestXPRequired(t *testing.T) {
	tests := []struct {
		level int
		want  int
	}{
		{1, 0},
		{2, 101},
		{3, 301},
		{4, 601},
		{5, 1001},
		{0, 0},
		{-3, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, XPRequired(tt.level), "level %d", tt.level)
	}
}

func TestLevelForXP(t *testing.T) {
	tests := []struct {
		xp   int
		want int
	}{
		{-10, 1},
		{0, 1},
		{100, 1},
		{101, 2},
		{300, 2},
		{301, 3},
		{600, 3},
		{601, 4},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelForXP(tt.xp), "xp %d", tt.xp)
	}
}

func TestLevelForXP_Monotonic(t *testing.T) {
	prev := 1
	for xp := 0; xp <= 2000; xp += 7 {
		level := LevelForXP(xp)
		assert.GreaterOrEqual(t, level, prev, "xp %d", xp)
		prev = level
	}
}

func TestProgressInLevel(t *testing.T) {
	assert.Zero(t, ProgressInLevel(-5))
	assert.Zero(t, ProgressInLevel(0))
	assert.Zero(t, ProgressInLevel(101), "fresh level starts at zero progress")

	// Halfway between the level 2 threshold (101) and the level 3
	// threshold (301).
	assert.InDelta(t, 0.5, ProgressInLevel(201), 0.0001)

	for _, xp := range []int{0, 50, 100, 101, 300, 301, 999} {
		p := ProgressInLevel(xp)
		assert.GreaterOrEqual(t, p, 0.0, "xp %d", xp)
		assert.Less(t, p, 1.0, "xp %d", xp)
	}
}

func TestXPForResult(t *testing.T) {
	assert.Equal(t, 50, XPForResult(&models.AttemptResult{CorrectCount: 0}))
	assert.Equal(t, 80, XPForResult(&models.AttemptResult{CorrectCount: 3}))
	assert.Equal(t, 150, XPForResult(&models.AttemptResult{CorrectCount: 10}))
}
