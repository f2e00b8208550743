package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrReviewLogCardIDEmpty is returned when a review log entry names no card.
var ErrReviewLogCardIDEmpty = errors.New("review log card ID cannot be empty")

// ReviewLog records a single applied review outcome and the scheduling state
// it produced.
type ReviewLog struct {
	ID         uuid.UUID     `json:"id"`
	CardID     uuid.UUID     `json:"card_id"`
	Policy     Policy        `json:"policy"`
	Outcome    ReviewOutcome `json:"outcome"`
	ReviewedAt time.Time     `json:"reviewed_at"`
	NextDueAt  time.Time     `json:"next_due_at"`
	// Stage is set for box cards.
	Stage Stage `json:"stage,omitempty"`
	// Interval and EaseFactor are set for interval cards.
	Interval   int     `json:"interval,omitempty"`
	EaseFactor float64 `json:"ease_factor,omitempty"`
}

// NewReviewLog builds the log entry for a card that has just been reviewed.
func NewReviewLog(card Card, outcome ReviewOutcome, reviewedAt time.Time) (*ReviewLog, error) {
	entry := &ReviewLog{
		ID:         uuid.New(),
		CardID:     card.ID,
		Policy:     card.Policy(),
		Outcome:    outcome,
		ReviewedAt: reviewedAt.UTC(),
		NextDueAt:  card.NextDueAt.UTC(),
	}

	switch s := card.State.(type) {
	case BoxState:
		entry.Stage = s.Stage
	case IntervalState:
		entry.Interval = s.Interval
		entry.EaseFactor = s.EaseFactor
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}
	return entry, nil
}

// Validate checks if the ReviewLog has valid data.
func (l *ReviewLog) Validate() error {
	if l.CardID == uuid.Nil {
		return ErrReviewLogCardIDEmpty
	}
	if !l.Policy.IsValid() {
		return ErrInvalidPolicy
	}
	if l.Outcome.Policy() != l.Policy {
		return ErrInvalidReviewOutcome
	}
	return nil
}
