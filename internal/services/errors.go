package services

import (
	"errors"
	"fmt"

	apperrors "github.com/brightpath-edu/assessment-engine/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrConflict         = errors.New("resource conflict")

	// Quiz specific errors
	ErrQuizNotFound      = errors.New("quiz not found")
	ErrQuizHasNoQuestion = errors.New("quiz has no questions")

	// Session specific errors
	ErrSessionAlreadySubmitted = errors.New("session already submitted")
	ErrInvalidQuestionIndex    = errors.New("question index out of range")
	ErrAnswerKindMismatch      = errors.New("answer value does not match question kind")
	ErrSessionNotReady         = errors.New("session has unanswered required questions")
	ErrAttemptNotFound         = errors.New("attempt not found")

	// Grade specific errors
	ErrInvalidWeightConfiguration = errors.New("grade weights must sum to 1.0")
	ErrGradeConfigNotFound        = errors.New("grade configuration not found")
	ErrCourseGradeNotFound        = errors.New("no computed grade for course")

	// Goal specific errors
	ErrGoalNotFound = errors.New("no progress goal set for course")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

type BusinessRuleError struct {
	Rule    string                 `json:"rule"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (bre *BusinessRuleError) Error() string {
	return fmt.Sprintf("business rule violation (%s): %s", bre.Rule, bre.Message)
}

// ===== ERROR HELPERS =====

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

func NewBusinessRuleError(rule, message string, context map[string]interface{}) *BusinessRuleError {
	return &BusinessRuleError{
		Rule:    rule,
		Message: message,
		Context: context,
	}
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrQuizNotFound) ||
		errors.Is(err, ErrAttemptNotFound) ||
		errors.Is(err, ErrGradeConfigNotFound) ||
		errors.Is(err, ErrCourseGradeNotFound) ||
		errors.Is(err, ErrGoalNotFound)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) ||
		errors.Is(err, ErrInvalidWeightConfiguration) ||
		errors.Is(err, ErrInvalidQuestionIndex) ||
		errors.Is(err, ErrAnswerKindMismatch) {
		return true
	}
	var ve apperrors.ValidationErrors
	if errors.As(err, &ve) {
		return true
	}
	var single *apperrors.ValidationError
	return errors.As(err, &single)
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrSessionAlreadySubmitted) ||
		errors.Is(err, ErrSessionNotReady)
}

// IsBusinessRule checks if error represents a business rule violation
func IsBusinessRule(err error) bool {
	var bre *BusinessRuleError
	return errors.As(err, &bre)
}
