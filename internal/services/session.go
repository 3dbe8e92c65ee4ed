package services

import (
	"time"

	"github.com/brightpath-edu/assessment-engine/internal/models"
	"github.com/brightpath-edu/assessment-engine/internal/utils"
)

// Session is the state machine for one in-progress quiz attempt. It owns the
// answer slots, the countdown and the question cursor, and produces exactly
// one AttemptResult on submission or timeout.
//
// A session performs no I/O and owns no clock: the host scheduler drives the
// countdown by calling Tick once per second. The owner must serialize calls;
// the session itself holds no lock.
type Session struct {
	quiz      *models.QuizDefinition
	studentID uint
	scoring   ScoringService
	logger    utils.Logger

	answers   []models.Answer
	cursor    int
	remaining int // seconds; meaningless when untimed
	untimed   bool
	status    models.AttemptStatus
	result    *models.AttemptResult
	startedAt time.Time
}

// NewSession opens a quiz attempt with all slots empty and the full time
// limit on the clock.
func NewSession(quiz *models.QuizDefinition, studentID uint, scoring ScoringService, logger utils.Logger) (*Session, error) {
	if err := quiz.Validate(); err != nil {
		return nil, err
	}

	answers := make([]models.Answer, len(quiz.Questions))
	for i := range quiz.Questions {
		answers[i] = models.EmptyAnswerFor(&quiz.Questions[i])
	}

	return &Session{
		quiz:      quiz,
		studentID: studentID,
		scoring:   scoring,
		logger:    logger,
		answers:   answers,
		remaining: quiz.TimeLimit * 60,
		untimed:   quiz.TimeLimit == 0,
		status:    models.AttemptInProgress,
		startedAt: time.Now(),
	}, nil
}

// Answer overwrites the slot for one question. The cursor does not move and
// no correctness validation happens; that is deferred to submission.
func (s *Session) Answer(questionIndex int, value models.Answer) error {
	if s.status != models.AttemptInProgress {
		return ErrSessionAlreadySubmitted
	}
	if questionIndex < 0 || questionIndex >= len(s.quiz.Questions) {
		return ErrInvalidQuestionIndex
	}
	if !answerMatchesKind(s.quiz.Questions[questionIndex].Kind, value) {
		return ErrAnswerKindMismatch
	}

	s.answers[questionIndex] = value
	return nil
}

// Advance moves the cursor forward one question, clamped at the last.
func (s *Session) Advance() error {
	if s.status != models.AttemptInProgress {
		return ErrSessionAlreadySubmitted
	}
	if s.cursor < len(s.quiz.Questions)-1 {
		s.cursor++
	}
	return nil
}

// Retreat moves the cursor back one question, clamped at the first.
func (s *Session) Retreat() error {
	if s.status != models.AttemptInProgress {
		return ErrSessionAlreadySubmitted
	}
	if s.cursor > 0 {
		s.cursor--
	}
	return nil
}

// Tick consumes one second of the countdown and forces submission when it
// reaches zero. Ticks after submission, and ticks on an untimed session, are
// no-ops.
func (s *Session) Tick() {
	if s.status != models.AttemptInProgress || s.untimed {
		return
	}

	s.remaining--
	if s.remaining <= 0 {
		s.remaining = 0
		s.finalize(models.EndReasonTimeout)
	}
}

// Submit finalizes the attempt. Idempotent: a second call returns the result
// of the first without error.
func (s *Session) Submit() *models.AttemptResult {
	if s.status == models.AttemptInProgress {
		s.finalize(models.EndReasonSubmitted)
	}
	return s.result
}

// CanSubmit is the readiness predicate gating the voluntary submit control.
// It has no bearing on the timeout path, which submits regardless.
func (s *Session) CanSubmit() bool {
	for i := range s.quiz.Questions {
		if !s.scoring.ReadyForSubmission(&s.quiz.Questions[i], s.answers[i]) {
			return false
		}
	}
	return true
}

func (s *Session) Quiz() *models.QuizDefinition { return s.quiz }
func (s *Session) StudentID() uint              { return s.studentID }
func (s *Session) Cursor() int                  { return s.cursor }
func (s *Session) Status() models.AttemptStatus { return s.status }
func (s *Session) StartedAt() time.Time         { return s.startedAt }

// Remaining reports the seconds left, or -1 for an untimed session.
func (s *Session) Remaining() int {
	if s.untimed {
		return -1
	}
	return s.remaining
}

// Result returns the finalized result, or nil while in progress.
func (s *Session) Result() *models.AttemptResult {
	return s.result
}

// CurrentAnswer returns the slot value for one question.
func (s *Session) CurrentAnswer(questionIndex int) (models.Answer, error) {
	if questionIndex < 0 || questionIndex >= len(s.answers) {
		return nil, ErrInvalidQuestionIndex
	}
	return s.answers[questionIndex], nil
}

// finalize freezes the slots, scores every question and transitions the
// session to its terminal state. Runs at most once.
func (s *Session) finalize(reason models.AttemptEndReason) {
	autoGradable := 0
	correct := 0
	pendingReview := false
	snapshots := make([]models.AnswerSnapshot, len(s.quiz.Questions))

	for i := range s.quiz.Questions {
		question := &s.quiz.Questions[i]
		answer := s.answers[i]
		answered := answer != nil && !answer.Empty()

		isCorrect, counts := s.scoring.Score(question, answer)
		if counts {
			autoGradable++
			if isCorrect {
				correct++
			}
		}
		if answered && question.Kind.RequiresManualReview() {
			pendingReview = true
		}

		snapshots[i] = models.AnswerSnapshot{
			QuestionID:   question.ID,
			Kind:         question.Kind,
			Answer:       answer,
			Answered:     answered,
			NeedsReview:  question.Kind.RequiresManualReview(),
			AutoGradable: counts,
			Correct:      isCorrect,
		}
	}

	score := 0.0
	if autoGradable > 0 {
		score = float64(correct) / float64(autoGradable) * 100
	}

	s.result = &models.AttemptResult{
		QuizID:                 s.quiz.ID,
		CourseID:               s.quiz.CourseID,
		StudentID:              s.studentID,
		Score:                  score,
		AutoGradableCount:      autoGradable,
		CorrectCount:           correct,
		HasPendingManualReview: pendingReview,
		Answers:                snapshots,
		EndReason:              reason,
		SubmittedAt:            time.Now(),
	}
	s.status = models.AttemptSubmitted

	s.logger.Info("Quiz session finalized",
		"quiz_id", s.quiz.ID,
		"student_id", s.studentID,
		"score", score,
		"correct", correct,
		"auto_gradable", autoGradable,
		"pending_review", pendingReview,
		"end_reason", string(reason))
}

// answerMatchesKind rejects slot values whose shape cannot belong to the
// question, which is always a caller bug.
func answerMatchesKind(kind models.QuestionKind, value models.Answer) bool {
	switch value.(type) {
	case models.ChoiceAnswer:
		return kind == models.KindSingleSelect || kind == models.KindTrueFalse
	case models.FillBlankAnswer:
		return kind == models.KindFillBlank
	case models.MatchingAnswer:
		return kind == models.KindMatching
	case models.EssayAnswer:
		return kind == models.KindFreeResponse
	}
	return false
}
