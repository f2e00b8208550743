package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Card-specific validation errors
var (
	// ErrCardIDEmpty is returned when a card ID is empty or nil.
	ErrCardIDEmpty = errors.New("card ID cannot be empty")

	// ErrCardFrontEmpty is returned when a card has no front text.
	ErrCardFrontEmpty = errors.New("card front cannot be empty")

	// ErrCardBackEmpty is returned when a card has no back text.
	ErrCardBackEmpty = errors.New("card back cannot be empty")

	// ErrCardNextDueMissing is returned when a card has no due time.
	ErrCardNextDueMissing = errors.New("card next due time must be set")
)

// Card is a reviewable flashcard. It carries its content and exactly one
// scheduling state, which fixes the card's policy for its lifetime.
//
// Card is handled as a value: scheduling functions return an updated copy
// rather than modifying the card they were given.
type Card struct {
	ID             uuid.UUID
	Front          string
	Back           string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	LastReviewedAt *time.Time
	NextDueAt      time.Time
	State          SchedulingState
	Version        int64
}

// NewBoxCard creates a card scheduled with Leitner boxes, due immediately.
func NewBoxCard(front, back string, now time.Time) (*Card, error) {
	return newCard(front, back, NewBoxState(), now)
}

// NewIntervalCard creates a card scheduled with the interval policy, due immediately.
func NewIntervalCard(front, back string, now time.Time) (*Card, error) {
	return newCard(front, back, NewIntervalState(), now)
}

// NewCard creates a card bound to the given policy.
func NewCard(front, back string, policy Policy, now time.Time) (*Card, error) {
	switch policy {
	case PolicyBox:
		return NewBoxCard(front, back, now)
	case PolicyInterval:
		return NewIntervalCard(front, back, now)
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidPolicy, int(policy))
	}
}

func newCard(front, back string, state SchedulingState, now time.Time) (*Card, error) {
	now = now.UTC()
	card := &Card{
		ID:        uuid.New(),
		Front:     front,
		Back:      back,
		CreatedAt: now,
		UpdatedAt: now,
		NextDueAt: now,
		State:     state,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
// Returns an error if any field fails validation.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}

	if strings.TrimSpace(c.Front) == "" {
		return ErrCardFrontEmpty
	}

	if strings.TrimSpace(c.Back) == "" {
		return ErrCardBackEmpty
	}

	if c.NextDueAt.IsZero() {
		return ErrCardNextDueMissing
	}

	if c.State == nil {
		return ErrInvalidSchedulingState
	}

	return c.State.Validate()
}

// Policy returns the policy of the card's scheduling state, or the zero
// Policy when the card has no state.
func (c Card) Policy() Policy {
	if c.State == nil {
		return 0
	}
	return c.State.Policy()
}

// IsDue reports whether the card may be reviewed at now.
func (c Card) IsDue(now time.Time) bool {
	return !c.NextDueAt.After(now)
}

// BoxState returns the card's box state and true, or false for a card
// bound to another policy.
func (c Card) BoxState() (BoxState, bool) {
	s, ok := c.State.(BoxState)
	return s, ok
}

// IntervalState returns the card's interval state and true, or false for a
// card bound to another policy.
func (c Card) IntervalState() (IntervalState, bool) {
	s, ok := c.State.(IntervalState)
	return s, ok
}

// cardJSON is the wire form of Card: a tagged union keyed by "policy".
type cardJSON struct {
	ID             uuid.UUID      `json:"id"`
	Front          string         `json:"front"`
	Back           string         `json:"back"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	LastReviewedAt *time.Time     `json:"last_reviewed_at,omitempty"`
	NextDueAt      time.Time      `json:"next_due_at"`
	Version        int64          `json:"version"`
	Policy         Policy         `json:"policy"`
	Box            *BoxState      `json:"box,omitempty"`
	Interval       *IntervalState `json:"interval,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (c Card) MarshalJSON() ([]byte, error) {
	out := cardJSON{
		ID:             c.ID,
		Front:          c.Front,
		Back:           c.Back,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
		LastReviewedAt: c.LastReviewedAt,
		NextDueAt:      c.NextDueAt,
		Version:        c.Version,
	}

	switch s := c.State.(type) {
	case BoxState:
		out.Policy = PolicyBox
		out.Box = &s
	case IntervalState:
		out.Policy = PolicyInterval
		out.Interval = &s
	default:
		return nil, ErrInvalidSchedulingState
	}

	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler. The variant present must match
// the declared policy and the other variant must be absent.
func (c *Card) UnmarshalJSON(data []byte) error {
	var in cardJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	var state SchedulingState
	switch {
	case in.Policy == PolicyBox && in.Box != nil && in.Interval == nil:
		state = *in.Box
	case in.Policy == PolicyInterval && in.Interval != nil && in.Box == nil:
		state = *in.Interval
	default:
		return fmt.Errorf("%w: policy %s", ErrInvalidSchedulingState, in.Policy)
	}

	*c = Card{
		ID:             in.ID,
		Front:          in.Front,
		Back:           in.Back,
		CreatedAt:      in.CreatedAt,
		UpdatedAt:      in.UpdatedAt,
		LastReviewedAt: in.LastReviewedAt,
		NextDueAt:      in.NextDueAt,
		State:          state,
		Version:        in.Version,
	}
	return nil
}
