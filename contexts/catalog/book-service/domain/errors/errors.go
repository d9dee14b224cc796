package errors

import (
	"errors"
	"strings"
)

var (
	ErrBookNotFound      = errors.New("book not found")
	ErrInvalidBookID     = errors.New("book id must be a positive integer")
	ErrInvalidPagination = errors.New("invalid pagination")
	ErrValidation        = errors.New("validation failed")
)

// FieldViolation describes one rejected input field.
type FieldViolation struct {
	Field   string
	Message string
	Code    string
}

// ValidationError collects every violation found in one input.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Message)
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func (e *ValidationError) Add(field string, message string, code string) {
	e.Violations = append(e.Violations, FieldViolation{Field: field, Message: message, Code: code})
}

// Err returns nil when nothing was recorded.
func (e *ValidationError) Err() error {
	if len(e.Violations) == 0 {
		return nil
	}
	return e
}
