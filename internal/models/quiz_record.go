package models

import (
	"time"

	"gorm.io/datatypes"
)

// QuizRecord is the persisted form of a QuizDefinition. Questions carry their
// kind-specific key as a JSONB payload decoded back to the AnswerKey sum type.
type QuizRecord struct {
	ID        uint             `json:"id" gorm:"primaryKey"`
	CourseID  uint             `json:"course_id" gorm:"not null;index"`
	Title     string           `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	TimeLimit int              `json:"time_limit" gorm:"not null" validate:"min=0"`
	Questions []QuestionRecord `json:"questions" gorm:"foreignKey:QuizID"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func (QuizRecord) TableName() string {
	return "quizzes"
}

type QuestionRecord struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	QuizID    uint           `json:"quiz_id" gorm:"not null;index"`
	Position  int            `json:"position" gorm:"not null"`
	Prompt    string         `json:"prompt" gorm:"not null;type:text"`
	Kind      QuestionKind   `json:"kind" gorm:"not null" validate:"question_kind"`
	Points    int            `json:"points" gorm:"default:1"`
	Key       datatypes.JSON `json:"key" gorm:"type:jsonb"`
	CreatedAt time.Time      `json:"created_at"`
}

func (QuestionRecord) TableName() string {
	return "quiz_questions"
}

// Definition decodes the record back into the engine's immutable form.
func (r *QuizRecord) Definition() (*QuizDefinition, error) {
	quiz := &QuizDefinition{
		ID:        r.ID,
		CourseID:  r.CourseID,
		Title:     r.Title,
		TimeLimit: r.TimeLimit,
		Questions: make([]QuestionDefinition, len(r.Questions)),
	}
	for i := range r.Questions {
		qr := &r.Questions[i]
		key, err := UnmarshalAnswerKey(qr.Kind, qr.Key)
		if err != nil {
			return nil, err
		}
		quiz.Questions[i] = QuestionDefinition{
			ID:     qr.ID,
			Prompt: qr.Prompt,
			Kind:   qr.Kind,
			Points: qr.Points,
			Key:    key,
		}
	}
	return quiz, nil
}

// NewQuizRecord encodes a definition for storage, preserving question order.
func NewQuizRecord(quiz *QuizDefinition) (*QuizRecord, error) {
	record := &QuizRecord{
		ID:        quiz.ID,
		CourseID:  quiz.CourseID,
		Title:     quiz.Title,
		TimeLimit: quiz.TimeLimit,
		Questions: make([]QuestionRecord, len(quiz.Questions)),
	}
	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		keyJSON, err := MarshalAnswerKey(q.Key)
		if err != nil {
			return nil, err
		}
		record.Questions[i] = QuestionRecord{
			ID:       q.ID,
			QuizID:   quiz.ID,
			Position: i,
			Prompt:   q.Prompt,
			Kind:     q.Kind,
			Points:   q.Points,
			Key:      keyJSON,
		}
	}
	return record, nil
}
