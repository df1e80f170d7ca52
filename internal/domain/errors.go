package domain

import (
	"errors"
	"strings"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNoMatch    = errors.New("no matching venue")
	ErrSourceLoad = errors.New("catalog source invalid")
	ErrNotFound   = errors.New("not found")
)

// FieldError is one rejected preference field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects field errors; errors.Is(err, ErrValidation) holds for it.
type ValidationError struct {
	Fields []FieldError
}

func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: msg}}}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
