package srs

import (
	"errors"
	"fmt"
	"time"

	"github.com/noteaapp/notea/internal/domain"
)

// Common errors
var (
	ErrNilState       = errors.New("card scheduling state cannot be nil")
	ErrInvalidOutcome = errors.New("invalid review outcome")
	// ErrPolicyMismatch is returned when an outcome of one policy is applied to
	// a card bound to the other.
	ErrPolicyMismatch = errors.New("review outcome does not match card policy")
)

// Service defines the interface for scheduling operations
type Service interface {
	// Apply returns a copy of card updated for the given review outcome.
	// The scheduling state keeps its policy; LastReviewedAt and NextDueAt
	// are set from now.
	Apply(card domain.Card, outcome domain.ReviewOutcome, now time.Time) (domain.Card, error)

	// Params returns the parameters the service schedules with.
	Params() Params
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new scheduling service with default parameters
func NewDefaultService() (Service, error) {
	return NewServiceWithParams(NewDefaultParams())
}

// NewServiceWithParams creates a new scheduling service with custom parameters.
// The service keeps its own copy, so later changes to params have no effect.
func NewServiceWithParams(params *Params) (Service, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &defaultService{
		params: params.clone(),
	}, nil
}

// Apply implements the Service interface
func (s *defaultService) Apply(
	card domain.Card,
	outcome domain.ReviewOutcome,
	now time.Time,
) (domain.Card, error) {
	var (
		state domain.SchedulingState
		due   time.Time
		err   error
	)

	switch current := card.State.(type) {
	case domain.BoxState:
		state, due, err = applyBox(current, outcome, now, s.params)
	case domain.IntervalState:
		state, due, err = applyInterval(current, outcome, now, s.params)
	case nil:
		return card, ErrNilState
	default:
		return card, fmt.Errorf("%w: unsupported state %T", ErrNilState, current)
	}
	if err != nil {
		return card, err
	}

	reviewedAt := now
	updated := card
	updated.State = state
	updated.LastReviewedAt = &reviewedAt
	updated.NextDueAt = due
	updated.UpdatedAt = now

	return updated, nil
}

// Params implements the Service interface. The returned value shares no maps
// with the service.
func (s *defaultService) Params() Params {
	return *s.params.clone()
}

func applyBox(
	state domain.BoxState,
	outcome domain.ReviewOutcome,
	now time.Time,
	params *Params,
) (domain.SchedulingState, time.Time, error) {
	return ApplyBoxOutcome(state, outcome, now, params)
}

func applyInterval(
	state domain.IntervalState,
	outcome domain.ReviewOutcome,
	now time.Time,
	params *Params,
) (domain.SchedulingState, time.Time, error) {
	return ApplyIntervalOutcome(state, outcome, now, params)
}

// checkOutcome rejects unknown outcomes and outcomes of another policy.
func checkOutcome(outcome domain.ReviewOutcome, policy domain.Policy) error {
	switch outcome.Policy() {
	case policy:
		return nil
	case 0:
		return fmt.Errorf("%w: %q", ErrInvalidOutcome, outcome)
	default:
		return fmt.Errorf("%w: %q cannot be applied to a %s card", ErrPolicyMismatch, outcome, policy)
	}
}
