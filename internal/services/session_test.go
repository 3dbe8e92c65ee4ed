package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightpath-edu/assessment-engine/internal/models"
	"github.com/brightpath-edu/assessment-engine/internal/utils"
)

func testQuiz() *models.QuizDefinition {
	return &models.QuizDefinition{
		ID:        1,
		CourseID:  101,
		Title:     "Checkpoint",
		TimeLimit: 5,
		Questions: []models.QuestionDefinition{
			{
				ID:   1,
				Kind: models.KindSingleSelect,
				Key:  models.ChoiceKey{Options: []string{"a", "b", "c"}, Correct: 1},
			},
			{
				ID:   2,
				Kind: models.KindFillBlank,
				Key:  models.FillBlankKey{Accepted: []string{"photosynthesis"}},
			},
			{
				ID:   3,
				Kind: models.KindFreeResponse,
				Key:  models.FreeResponseKey{MinWords: 20},
			},
		},
	}
}

func newTestSession(t *testing.T, quiz *models.QuizDefinition) *Session {
	t.Helper()
	session, err := NewSession(quiz, 42, NewScoringService(), utils.NewDevelopmentLogger())
	require.NoError(t, err)
	return session
}

func TestSession_SubmitScoresAutoGradableOnly(t *testing.T) {
	session := newTestSession(t, testQuiz())

	require.NoError(t, session.Answer(0, models.ChoiceAnswer{SelectedOption: 1}))
	require.NoError(t, session.Answer(1, models.FillBlankAnswer{Text: "osmosis"}))
	require.NoError(t, session.Answer(2, models.EssayAnswer{Text: "some thoughts"}))

	require.True(t, session.CanSubmit())
	result := session.Submit()
	require.NotNil(t, result)

	// One of two auto-gradable questions correct; the essay rides along for
	// manual review without touching the score.
	assert.Equal(t, 50.0, result.Score)
	assert.Equal(t, 2, result.AutoGradableCount)
	assert.Equal(t, 1, result.CorrectCount)
	assert.True(t, result.HasPendingManualReview)
	assert.Equal(t, models.EndReasonSubmitted, result.EndReason)
	assert.Len(t, result.Answers, 3)
}

func TestSession_TimeoutForcesSubmission(t *testing.T) {
	session := newTestSession(t, testQuiz())

	require.NoError(t, session.Answer(0, models.ChoiceAnswer{SelectedOption: 1}))

	// 5 minute limit: the session survives 299 ticks and expires on the 300th.
	for i := 0; i < 299; i++ {
		session.Tick()
	}
	assert.Equal(t, models.AttemptInProgress, session.Status())
	assert.Equal(t, 1, session.Remaining())

	session.Tick()
	assert.Equal(t, models.AttemptSubmitted, session.Status())

	result := session.Result()
	require.NotNil(t, result)
	assert.Equal(t, models.EndReasonTimeout, result.EndReason)
	assert.Equal(t, 50.0, result.Score, "unanswered auto-gradable questions score as incorrect")
	assert.False(t, result.HasPendingManualReview, "an unanswered essay needs no review")
}

func TestSession_UntimedNeverExpires(t *testing.T) {
	quiz := testQuiz()
	quiz.TimeLimit = 0
	session := newTestSession(t, quiz)

	for i := 0; i < 100000; i++ {
		session.Tick()
	}
	assert.Equal(t, models.AttemptInProgress, session.Status())
	assert.Equal(t, -1, session.Remaining())
}

func TestSession_AnswerValidation(t *testing.T) {
	session := newTestSession(t, testQuiz())

	err := session.Answer(7, models.ChoiceAnswer{SelectedOption: 0})
	assert.ErrorIs(t, err, ErrInvalidQuestionIndex)

	err = session.Answer(0, models.FillBlankAnswer{Text: "b"})
	assert.ErrorIs(t, err, ErrAnswerKindMismatch)

	// Overwriting a slot is always allowed while in progress.
	require.NoError(t, session.Answer(0, models.ChoiceAnswer{SelectedOption: 0}))
	require.NoError(t, session.Answer(0, models.ChoiceAnswer{SelectedOption: 1}))

	answer, err := session.CurrentAnswer(0)
	require.NoError(t, err)
	assert.Equal(t, models.ChoiceAnswer{SelectedOption: 1}, answer)
}

func TestSession_CursorClampsAtBounds(t *testing.T) {
	session := newTestSession(t, testQuiz())

	require.NoError(t, session.Retreat())
	assert.Equal(t, 0, session.Cursor())

	for i := 0; i < 10; i++ {
		require.NoError(t, session.Advance())
	}
	assert.Equal(t, 2, session.Cursor())
}

func TestSession_SubmitIsIdempotent(t *testing.T) {
	session := newTestSession(t, testQuiz())
	require.NoError(t, session.Answer(0, models.ChoiceAnswer{SelectedOption: 1}))
	require.NoError(t, session.Answer(1, models.FillBlankAnswer{Text: "photosynthesis"}))

	first := session.Submit()
	second := session.Submit()
	assert.Same(t, first, second)

	err := session.Answer(0, models.ChoiceAnswer{SelectedOption: 0})
	assert.ErrorIs(t, err, ErrSessionAlreadySubmitted)

	// Ticks after submission are no-ops.
	session.Tick()
	assert.Equal(t, models.AttemptSubmitted, session.Status())
}

func TestSession_CanSubmitGate(t *testing.T) {
	session := newTestSession(t, testQuiz())

	assert.False(t, session.CanSubmit(), "untouched required slots block submission")

	require.NoError(t, session.Answer(0, models.ChoiceAnswer{SelectedOption: 2}))
	assert.False(t, session.CanSubmit())

	require.NoError(t, session.Answer(1, models.FillBlankAnswer{Text: "anything"}))
	assert.True(t, session.CanSubmit(), "the empty essay does not block submission")
}
