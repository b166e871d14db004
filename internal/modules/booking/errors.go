package booking

import (
	"errors"
	"strings"
)

var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("booking not found")
	ErrForbidden         = errors.New("not allowed to modify this booking")
	ErrInvalidTransition = errors.New("status transition not allowed")
	ErrNotAvailable      = errors.New("item not available for the selected dates")
	ErrConflict          = errors.New("booking changed concurrently")
)

// ValidationError is a 400 with an optional list of missing fields.
type ValidationError struct {
	Message string
	Missing []string
	cause   error
}

func (e *ValidationError) Error() string {
	if len(e.Missing) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Missing, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation || (e.cause != nil && errors.Is(e.cause, target))
}

func missingFields(fields []string) *ValidationError {
	return &ValidationError{Message: "Missing required fields", Missing: fields}
}

func invalid(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}
