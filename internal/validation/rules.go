// Package validation provides custom validation rules for the engine's inputs.
package validation

import (
	"regexp"

	validation "github.com/jellydator/validation"

	apperrors "github.com/plantwatch/privacy/internal/errors"
)

var (
	// subjectIDRegex constrains data subject identifiers to a safe token shape.
	subjectIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._:-]{0,127}$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// SubjectID validates a data subject identifier: 1-128 characters drawn from
// letters, digits and ._:- with a leading alphanumeric.
func SubjectID(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_subject_id_type", "must be a string")
	}
	if s == "" {
		return nil // Let Required handle empty strings
	}
	if !subjectIDRegex.MatchString(s) {
		return validation.NewError("validation_subject_id", "must be a valid data subject identifier")
	}
	return nil
}
