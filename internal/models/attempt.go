package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "in_progress"
	AttemptSubmitted  AttemptStatus = "submitted"
)

type AttemptEndReason string

const (
	EndReasonSubmitted AttemptEndReason = "submitted"
	EndReasonTimeout   AttemptEndReason = "timeout"
)

// AnswerSnapshot is one frozen answer slot retained for the manual grader.
type AnswerSnapshot struct {
	QuestionID   uint         `json:"question_id"`
	Kind         QuestionKind `json:"kind"`
	Answer       Answer       `json:"answer"`
	Answered     bool         `json:"answered"`
	NeedsReview  bool         `json:"needs_review"`
	AutoGradable bool         `json:"auto_gradable"`
	Correct      bool         `json:"correct"`
}

// UnmarshalJSON decodes the kind first so the answer payload can be restored
// to its concrete variant.
func (s *AnswerSnapshot) UnmarshalJSON(data []byte) error {
	var raw struct {
		QuestionID   uint            `json:"question_id"`
		Kind         QuestionKind    `json:"kind"`
		Answer       json.RawMessage `json:"answer"`
		Answered     bool            `json:"answered"`
		NeedsReview  bool            `json:"needs_review"`
		AutoGradable bool            `json:"auto_gradable"`
		Correct      bool            `json:"correct"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	answer, err := UnmarshalAnswer(raw.Kind, raw.Answer)
	if err != nil {
		return err
	}

	s.QuestionID = raw.QuestionID
	s.Kind = raw.Kind
	s.Answer = answer
	s.Answered = raw.Answered
	s.NeedsReview = raw.NeedsReview
	s.AutoGradable = raw.AutoGradable
	s.Correct = raw.Correct
	return nil
}

// AttemptResult is the immutable output of submission. The score covers
// auto-gradable questions only; manual-review answers ride along in the
// snapshot for the grader.
type AttemptResult struct {
	QuizID                 uint             `json:"quiz_id"`
	CourseID               uint             `json:"course_id"`
	StudentID              uint             `json:"student_id"`
	Score                  float64          `json:"score"`
	AutoGradableCount      int              `json:"auto_gradable_count"`
	CorrectCount           int              `json:"correct_count"`
	HasPendingManualReview bool             `json:"has_pending_manual_review"`
	Answers                []AnswerSnapshot `json:"answers"`
	EndReason              AttemptEndReason `json:"end_reason"`
	SubmittedAt            time.Time        `json:"submitted_at"`
}

// AttemptRecord is the persisted form of a finalized attempt. In-progress
// sessions live only in memory; an abandoned attempt produces no record.
type AttemptRecord struct {
	ID                     uint             `json:"id" gorm:"primaryKey"`
	QuizID                 uint             `json:"quiz_id" gorm:"not null;index"`
	CourseID               uint             `json:"course_id" gorm:"not null;index"`
	StudentID              uint             `json:"student_id" gorm:"not null;index"`
	Score                  float64          `json:"score" gorm:"not null"`
	AutoGradableCount      int              `json:"auto_gradable_count" gorm:"not null"`
	CorrectCount           int              `json:"correct_count" gorm:"not null"`
	HasPendingManualReview bool             `json:"has_pending_manual_review" gorm:"not null"`
	EndReason              AttemptEndReason `json:"end_reason" gorm:"not null"`
	Answers                datatypes.JSON   `json:"answers" gorm:"type:jsonb"`
	XPAwarded              int              `json:"xp_awarded"`
	StartedAt              time.Time        `json:"started_at"`
	SubmittedAt            time.Time        `json:"submitted_at"`
	CreatedAt              time.Time        `json:"created_at"`
}

func (AttemptRecord) TableName() string {
	return "attempts"
}
