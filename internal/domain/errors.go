package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidReviewOutcome is returned when a review outcome is not valid.
	ErrInvalidReviewOutcome = errors.New("invalid review outcome")
)

// Scheduling state errors.
var (
	ErrInvalidStage       = errors.New("invalid box stage")
	ErrInvalidPolicy      = errors.New("invalid scheduling policy")
	ErrInvalidCounter     = errors.New("review counters cannot be negative")
	ErrInvalidInterval    = errors.New("interval must be at least 1 day")
	ErrInvalidEaseFactor  = fmt.Errorf("ease factor must be within [%.1f, %.1f]", MinEaseFactor, MaxEaseFactor)
	ErrInvalidRepetitions = errors.New("repetitions cannot be negative")

	// ErrInvalidSchedulingState is returned when a card carries no state, or a
	// serialized card names an unknown policy or a variant that does not match it.
	ErrInvalidSchedulingState = errors.New("invalid scheduling state")
)

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a ValidationError for field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: message, Err: err}
}
