package models

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
)

// JSON codecs for the answer-key and answer sum types. The concrete variant is
// recovered from the owning question's kind, so the payloads stay plain JSON
// objects without a type discriminator.

func MarshalAnswerKey(key AnswerKey) ([]byte, error) {
	if key == nil {
		return []byte("null"), nil
	}
	return json.Marshal(key)
}

func UnmarshalAnswerKey(kind QuestionKind, data []byte) (AnswerKey, error) {
	if len(data) == 0 || string(data) == "null" {
		if kind == KindFreeResponse {
			return FreeResponseKey{}, nil
		}
		return nil, fmt.Errorf("missing answer key for %s question", kind)
	}

	switch kind {
	case KindSingleSelect, KindTrueFalse:
		var key ChoiceKey
		if err := json.Unmarshal(data, &key); err != nil {
			return nil, fmt.Errorf("decode choice key: %w", err)
		}
		return key, nil
	case KindFillBlank:
		var key FillBlankKey
		if err := json.Unmarshal(data, &key); err != nil {
			return nil, fmt.Errorf("decode fill-blank key: %w", err)
		}
		return key, nil
	case KindMatching:
		var key MatchingKey
		if err := json.Unmarshal(data, &key); err != nil {
			return nil, fmt.Errorf("decode matching key: %w", err)
		}
		return key, nil
	case KindFreeResponse:
		var key FreeResponseKey
		if err := json.Unmarshal(data, &key); err != nil {
			return nil, fmt.Errorf("decode free-response key: %w", err)
		}
		return key, nil
	}
	return nil, fmt.Errorf("unknown question kind %q", kind)
}

// UnmarshalJSON decodes the kind first, then the kind-specific key variant.
func (q *QuestionDefinition) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID     uint            `json:"id"`
		Prompt string          `json:"prompt"`
		Kind   QuestionKind    `json:"kind"`
		Points int             `json:"points"`
		Key    json.RawMessage `json:"key"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	key, err := UnmarshalAnswerKey(raw.Kind, raw.Key)
	if err != nil {
		return err
	}

	q.ID = raw.ID
	q.Prompt = raw.Prompt
	q.Kind = raw.Kind
	q.Points = raw.Points
	q.Key = key
	return nil
}

// MarshalSnapshots encodes a finalized answer set for JSONB storage.
func MarshalSnapshots(snapshots []AnswerSnapshot) (datatypes.JSON, error) {
	data, err := json.Marshal(snapshots)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(data), nil
}

// UnmarshalSnapshots decodes a stored answer set, restoring each answer to
// its concrete variant.
func UnmarshalSnapshots(data datatypes.JSON) ([]AnswerSnapshot, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var snapshots []AnswerSnapshot
	if err := json.Unmarshal(data, &snapshots); err != nil {
		return nil, err
	}
	return snapshots, nil
}

func MarshalAnswer(answer Answer) ([]byte, error) {
	if answer == nil {
		return []byte("null"), nil
	}
	return json.Marshal(answer)
}

func UnmarshalAnswer(kind QuestionKind, data []byte) (Answer, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}

	switch kind {
	case KindSingleSelect, KindTrueFalse:
		var a ChoiceAnswer
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, fmt.Errorf("decode choice answer: %w", err)
		}
		return a, nil
	case KindFillBlank:
		var a FillBlankAnswer
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, fmt.Errorf("decode fill-blank answer: %w", err)
		}
		return a, nil
	case KindMatching:
		var a MatchingAnswer
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, fmt.Errorf("decode matching answer: %w", err)
		}
		return a, nil
	case KindFreeResponse:
		var a EssayAnswer
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, fmt.Errorf("decode essay answer: %w", err)
		}
		return a, nil
	}
	return nil, fmt.Errorf("unknown question kind %q", kind)
}
