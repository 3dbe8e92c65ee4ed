package services

import (
	"strings"

	"github.com/brightpath-edu/assessment-engine/internal/models"
)

// ScoringService decides correctness for one question/answer pair. It is
// stateless; construct one and share it between sessions.
type ScoringService interface {
	// Score returns whether the answer is correct and whether the question
	// participates in the numeric score. Manual-review kinds always return
	// countsTowardScore=false, and their correctness is never consulted.
	Score(question *models.QuestionDefinition, answer models.Answer) (isCorrect bool, countsTowardScore bool)

	// ReadyForSubmission reports whether the slot satisfies the voluntary
	// submit gate: choice and fill-blank questions need a non-empty answer,
	// matching needs every pair assigned, free-response never blocks.
	ReadyForSubmission(question *models.QuestionDefinition, answer models.Answer) bool
}

type scoringService struct{}

func NewScoringService() ScoringService {
	return &scoringService{}
}

func (s *scoringService) Score(question *models.QuestionDefinition, answer models.Answer) (bool, bool) {
	if question.Kind.RequiresManualReview() {
		return false, false
	}

	switch question.Kind {
	case models.KindSingleSelect, models.KindTrueFalse:
		key, ok := question.Key.(models.ChoiceKey)
		if !ok {
			return false, true
		}
		choice, ok := answer.(models.ChoiceAnswer)
		if !ok || choice.Empty() {
			return false, true
		}
		return choice.SelectedOption == key.Correct, true

	case models.KindFillBlank:
		key, ok := question.Key.(models.FillBlankKey)
		if !ok {
			return false, true
		}
		text, ok := answer.(models.FillBlankAnswer)
		if !ok || text.Empty() {
			return false, true
		}
		submitted := strings.ToLower(strings.TrimSpace(text.Text))
		for _, accepted := range key.Accepted {
			if submitted == strings.ToLower(accepted) {
				return true, true
			}
		}
		return false, true
	}

	return false, false
}

func (s *scoringService) ReadyForSubmission(question *models.QuestionDefinition, answer models.Answer) bool {
	if question.Kind == models.KindFreeResponse {
		return true
	}
	if answer == nil {
		return false
	}
	return !answer.Empty()
}
