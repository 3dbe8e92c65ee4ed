package services

import "github.com/brightpath-edu/assessment-engine/internal/models"

// XP thresholds grow on a triangular staircase: reaching level N (N > 1)
// costs 1 + sum_{i=1}^{N-1} i*100 cumulative XP. Level 1 starts at zero and
// the ladder has no upper bound.

// XPRequired returns the cumulative XP threshold of a level.
func XPRequired(level int) int {
	if level <= 1 {
		return 0
	}
	steps := level - 1
	return 1 + steps*(steps+1)/2*100
}

// LevelForXP returns the largest level whose threshold is at or below xp.
// Monotonically non-decreasing in xp.
func LevelForXP(xp int) int {
	if xp < 0 {
		return 1
	}
	level := 1
	for XPRequired(level+1) <= xp {
		level++
	}
	return level
}

// ProgressInLevel returns the fractional position between the current level's
// threshold and the next one's, in [0, 1).
func ProgressInLevel(xp int) float64 {
	if xp < 0 {
		return 0
	}
	level := LevelForXP(xp)
	floor := XPRequired(level)
	ceil := XPRequired(level + 1)
	return float64(xp-floor) / float64(ceil-floor)
}

// XP award rule for completed attempts: a flat completion grant plus a bonus
// per correct auto-graded answer.
const (
	xpPerCompletion    = 50
	xpPerCorrectAnswer = 10
)

// XPForResult returns the XP granted for one finalized attempt.
func XPForResult(result *models.AttemptResult) int {
	return xpPerCompletion + xpPerCorrectAnswer*result.CorrectCount
}
