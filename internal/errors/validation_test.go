package errors

import (
	"testing"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("target_letter", "unknown letter grade", "Z")

	if err.Field != "target_letter" {
		t.Errorf("Expected field to be 'target_letter', got '%s'", err.Field)
	}
	if err.Message != "unknown letter grade" {
		t.Errorf("Expected message to be 'unknown letter grade', got '%s'", err.Message)
	}
	if err.Value != "Z" {
		t.Errorf("Expected value to be 'Z', got '%v'", err.Value)
	}

	expected := "validation error on field 'target_letter': unknown letter grade"
	if err.Error() != expected {
		t.Errorf("Expected error message to be '%s', got '%s'", expected, err.Error())
	}
}

func TestValidationErrors(t *testing.T) {
	var errs ValidationErrors
	if errs.Error() != "validation failed" {
		t.Errorf("Expected 'validation failed' for empty errors, got '%s'", errs.Error())
	}

	errs = append(errs, *NewValidationError("title", "is required", nil))
	expected := "validation failed: title is required"
	if errs.Error() != expected {
		t.Errorf("Expected '%s' for single error, got '%s'", expected, errs.Error())
	}

	errs = append(errs, *NewValidationError("time_limit", "must be at least 0", nil))
	expected = "validation failed: 2 field errors"
	if errs.Error() != expected {
		t.Errorf("Expected '%s' for multiple errors, got '%s'", expected, errs.Error())
	}
}
