package models

import (
	apperrors "github.com/brightpath-edu/assessment-engine/internal/errors"
)

type QuestionKind string

const (
	KindSingleSelect QuestionKind = "single_select"
	KindTrueFalse    QuestionKind = "true_false"
	KindFillBlank    QuestionKind = "fill_blank"
	KindMatching     QuestionKind = "matching"
	KindFreeResponse QuestionKind = "free_response"
)

// RequiresManualReview reports whether answers of this kind are excluded from
// automatic scoring and routed to a human grader.
func (k QuestionKind) RequiresManualReview() bool {
	return k == KindMatching || k == KindFreeResponse
}

// AutoGradable is the complement of RequiresManualReview.
func (k QuestionKind) AutoGradable() bool {
	return !k.RequiresManualReview()
}

func (k QuestionKind) Valid() bool {
	switch k {
	case KindSingleSelect, KindTrueFalse, KindFillBlank, KindMatching, KindFreeResponse:
		return true
	}
	return false
}

// AnswerKey is the kind-specific grading key attached to a question. Exactly
// one concrete key type exists per question kind so scoring can switch
// exhaustively instead of ignoring fields by convention.
type AnswerKey interface {
	answerKey()
}

// ChoiceKey keys single-select and true/false questions. For true/false the
// options are the two fixed choices and Correct selects one of them.
type ChoiceKey struct {
	Options []string `json:"options"`
	Correct int      `json:"correct"`
}

// FillBlankKey holds the accepted answers, compared case-insensitively after
// trimming surrounding whitespace.
type FillBlankKey struct {
	Accepted []string `json:"accepted"`
}

type MatchPair struct {
	Prompt string `json:"prompt"`
	Match  string `json:"match"`
}

// MatchingKey holds the ordered prompt/match pairs. Matching is never
// auto-graded; the key exists for the manual grader's reference.
type MatchingKey struct {
	Pairs []MatchPair `json:"pairs"`
}

// FreeResponseKey carries the minimum-word-count hint. It is learner guidance
// only and never gates submission.
type FreeResponseKey struct {
	MinWords int `json:"min_words"`
}

func (ChoiceKey) answerKey()       {}
func (FillBlankKey) answerKey()    {}
func (MatchingKey) answerKey()     {}
func (FreeResponseKey) answerKey() {}

// QuestionDefinition is immutable once its quiz has been attempted.
type QuestionDefinition struct {
	ID     uint         `json:"id"`
	Prompt string       `json:"prompt"`
	Kind   QuestionKind `json:"kind"`
	Points int          `json:"points"`
	Key    AnswerKey    `json:"key"`
}

// Validate enforces the per-kind key invariants: a choice key has exactly one
// correct option index in range, a fill-in key has at least one accepted
// answer, a matching key has at least two pairs.
func (q *QuestionDefinition) Validate() error {
	if !q.Kind.Valid() {
		return apperrors.NewValidationError("kind", "unknown question kind", string(q.Kind))
	}

	switch key := q.Key.(type) {
	case ChoiceKey:
		if len(key.Options) == 0 {
			return apperrors.NewValidationError("key.options", "choice question must have options", nil)
		}
		if key.Correct < 0 || key.Correct >= len(key.Options) {
			return apperrors.NewValidationError("key.correct", "correct option index out of range", key.Correct)
		}
		if q.Kind != KindSingleSelect && q.Kind != KindTrueFalse {
			return apperrors.NewValidationError("key", "choice key requires a single-select or true/false question", string(q.Kind))
		}
		if q.Kind == KindTrueFalse && len(key.Options) != 2 {
			return apperrors.NewValidationError("key.options", "true/false question must have exactly two options", len(key.Options))
		}
	case FillBlankKey:
		if q.Kind != KindFillBlank {
			return apperrors.NewValidationError("key", "fill-blank key requires a fill-blank question", string(q.Kind))
		}
		if len(key.Accepted) < 1 {
			return apperrors.NewValidationError("key.accepted", "fill-blank question must accept at least one answer", len(key.Accepted))
		}
	case MatchingKey:
		if q.Kind != KindMatching {
			return apperrors.NewValidationError("key", "matching key requires a matching question", string(q.Kind))
		}
		if len(key.Pairs) < 2 {
			return apperrors.NewValidationError("key.pairs", "matching question must have at least two pairs", len(key.Pairs))
		}
	case FreeResponseKey:
		if q.Kind != KindFreeResponse {
			return apperrors.NewValidationError("key", "free-response key requires a free-response question", string(q.Kind))
		}
	case nil:
		if q.Kind != KindFreeResponse {
			return apperrors.NewValidationError("key", "question kind requires an answer key", string(q.Kind))
		}
	default:
		return apperrors.NewValidationError("key", "unknown answer key type", nil)
	}

	return nil
}

// QuizDefinition is an ordered list of questions with a time limit in minutes.
// A zero time limit means the quiz is untimed.
type QuizDefinition struct {
	ID        uint                 `json:"id"`
	CourseID  uint                 `json:"course_id"`
	Title     string               `json:"title"`
	TimeLimit int                  `json:"time_limit"`
	Questions []QuestionDefinition `json:"questions"`
}

func (q *QuizDefinition) Validate() error {
	if q.TimeLimit < 0 {
		return apperrors.NewValidationError("time_limit", "time limit must be zero or positive minutes", q.TimeLimit)
	}
	if len(q.Questions) == 0 {
		return apperrors.NewValidationError("questions", "quiz must have at least one question", 0)
	}
	for i := range q.Questions {
		if err := q.Questions[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// AutoGradableCount returns how many questions participate in the numeric score.
func (q *QuizDefinition) AutoGradableCount() int {
	count := 0
	for i := range q.Questions {
		if q.Questions[i].Kind.AutoGradable() {
			count++
		}
	}
	return count
}
