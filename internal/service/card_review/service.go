// Package card_review runs review sessions: it picks the next due card and
// applies the learner's outcome to it.
package card_review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/noteaapp/notea/internal/domain"
	"github.com/noteaapp/notea/internal/domain/srs"
)

// ReviewAnswer represents a user's answer to a flashcard review.
type ReviewAnswer struct {
	Outcome domain.ReviewOutcome `json:"outcome" validate:"required"`
}

// CardReviewService selects due cards and records review outcomes.
type CardReviewService interface {
	// SelectNext picks a card uniformly at random among those of cards that
	// are due at now and match filter. It reports false when none is due,
	// which is an idle state rather than an error. cards is not modified.
	SelectNext(cards []domain.Card, now time.Time, filter Filter) (domain.Card, bool)

	// ApplyOutcome schedules card for outcome, persists it and records the
	// review. The card keeps its policy.
	//
	// Errors:
	//   - ErrPolicyMismatch when outcome belongs to the other policy
	//   - ErrInvalidAnswer when outcome is unknown
	//   - ErrConcurrentReview when the card was saved by someone else since it was read
	ApplyOutcome(
		ctx context.Context,
		card domain.Card,
		outcome domain.ReviewOutcome,
		now time.Time,
	) (domain.Card, error)

	// NextDue loads the due cards from the store and selects one of them.
	// Returns ErrNoCardsDue when nothing is due.
	NextDue(ctx context.Context, now time.Time, filter Filter) (*domain.Card, error)

	// SubmitAnswer applies answer to the stored card with the given ID.
	// Concurrent submissions for the same card are serialized.
	//
	// Errors:
	//   - ErrInvalidAnswer when the outcome is unknown
	//   - ErrCardNotFound when the card does not exist
	//   - ErrPolicyMismatch when the outcome belongs to the other policy
	//   - ErrConcurrentReview when the card lock or the stored version was lost
	SubmitAnswer(
		ctx context.Context,
		cardID uuid.UUID,
		answer ReviewAnswer,
		now time.Time,
	) (*domain.Card, error)
}

// Locker serializes reviews of one card. The returned function releases
// the lock.
type Locker interface {
	Lock(ctx context.Context, cardID uuid.UUID) (func(), error)
}

// Common error types for CardReviewService
var (
	// ErrNoCardsDue indicates that no card is due for review.
	ErrNoCardsDue = errors.New("no cards due for review")

	// ErrCardNotFound indicates that the card does not exist.
	ErrCardNotFound = errors.New("card not found")

	// ErrInvalidAnswer indicates an unknown review outcome.
	ErrInvalidAnswer = errors.New("invalid answer")

	// ErrPolicyMismatch indicates an outcome of one policy applied to a card
	// of the other. It is the scheduler's error, so either can be matched.
	ErrPolicyMismatch = srs.ErrPolicyMismatch

	// ErrConcurrentReview indicates that another review of the same card won.
	ErrConcurrentReview = errors.New("card is being reviewed concurrently")
)

// ServiceError wraps errors from the card review service with additional context.
// This allows consumers to differentiate between different types of service errors
// using errors.As instead of string matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "next_due", "submit_answer")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewSubmitAnswerError returns a new ServiceError for the submit_answer operation.
func NewSubmitAnswerError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "submit_answer", Message: message, Err: err}
}

// NewApplyOutcomeError returns a new ServiceError for the apply_outcome operation.
func NewApplyOutcomeError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "apply_outcome", Message: message, Err: err}
}

// NewNextDueError returns a new ServiceError for the next_due operation.
func NewNextDueError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "next_due", Message: message, Err: err}
}
