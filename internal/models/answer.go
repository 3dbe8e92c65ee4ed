package models

import "strings"

// Answer is the per-question submitted value. One ordered slice of Answer,
// indexed by question position, replaces parallel per-kind arrays so slot
// shapes can never drift out of sync with the question list.
type Answer interface {
	// Empty reports whether the slot is still unanswered.
	Empty() bool

	answerValue()
}

// NoSelection marks an untouched choice slot or an unassigned matching pair.
const NoSelection = -1

// ChoiceAnswer carries the selected option index for single-select and
// true/false questions.
type ChoiceAnswer struct {
	SelectedOption int `json:"selected_option"`
}

// FillBlankAnswer carries the learner's free text for a fill-in-blank slot.
type FillBlankAnswer struct {
	Text string `json:"text"`
}

// MatchingAnswer carries, per key pair, the index of the match the learner
// selected.
type MatchingAnswer struct {
	Selections []int `json:"selections"`
}

// EssayAnswer carries free-response text.
type EssayAnswer struct {
	Text string `json:"text"`
}

func (ChoiceAnswer) answerValue()    {}
func (FillBlankAnswer) answerValue() {}
func (MatchingAnswer) answerValue()  {}
func (EssayAnswer) answerValue()     {}

func (a ChoiceAnswer) Empty() bool {
	return a.SelectedOption == NoSelection
}

func (a FillBlankAnswer) Empty() bool {
	return strings.TrimSpace(a.Text) == ""
}

// Empty is true until every pair has a selection; a partially matched answer
// still blocks voluntary submission.
func (a MatchingAnswer) Empty() bool {
	if len(a.Selections) == 0 {
		return true
	}
	for _, sel := range a.Selections {
		if sel == NoSelection {
			return true
		}
	}
	return false
}

func (a EssayAnswer) Empty() bool {
	return strings.TrimSpace(a.Text) == ""
}

// WordCount is the learner-guidance counter shown next to the minimum-word
// hint. It never gates submission.
func (a EssayAnswer) WordCount() int {
	return len(strings.Fields(a.Text))
}

// EmptyAnswerFor returns the unanswered slot value matching a question's kind.
func EmptyAnswerFor(q *QuestionDefinition) Answer {
	switch q.Kind {
	case KindSingleSelect, KindTrueFalse:
		return ChoiceAnswer{SelectedOption: NoSelection}
	case KindFillBlank:
		return FillBlankAnswer{}
	case KindMatching:
		pairs := 0
		if key, ok := q.Key.(MatchingKey); ok {
			pairs = len(key.Pairs)
		}
		selections := make([]int, pairs)
		for i := range selections {
			selections[i] = NoSelection
		}
		return MatchingAnswer{Selections: selections}
	case KindFreeResponse:
		return EssayAnswer{}
	}
	return nil
}
