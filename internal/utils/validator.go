package utils

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/brightpath-edu/assessment-engine/internal/errors"
	"github.com/brightpath-edu/assessment-engine/internal/models"
)

// Validator wraps go-playground struct validation with the engine's custom
// rules, translated to shared ValidationErrors.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	validate := validator.New()
	registerCustomValidators(validate)

	// Report json tag names in error messages.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: validate}
}

// Validate checks struct tags and returns shared ValidationErrors on failure.
func (v *Validator) Validate(s interface{}) error {
	if err := v.validate.Struct(s); err != nil {
		if converted := apperrors.ToValidationErrors(err); len(converted) > 0 {
			return converted
		}
		return err
	}
	return nil
}

func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("question_kind", validateQuestionKind)
	validate.RegisterValidation("grade_category", validateGradeCategory)
	validate.RegisterValidation("letter_grade", validateLetterGrade)
}

func validateQuestionKind(fl validator.FieldLevel) bool {
	return models.QuestionKind(fl.Field().String()).Valid()
}

func validateGradeCategory(fl validator.FieldLevel) bool {
	return models.GradeCategory(fl.Field().String()).Valid()
}

func validateLetterGrade(fl validator.FieldLevel) bool {
	return models.ValidLetter(fl.Field().String())
}
