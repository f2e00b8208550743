package srs

import (
	"time"

	"github.com/noteaapp/notea/internal/domain"
)

// ApplyBoxOutcome computes the box state that follows a review.
//
// Correct moves the card one stage forward (Mastered is absorbing) and schedules
// it after the offset of the stage it reached. Incorrect sends the card back to
// StageDailyReview, due immediately. A stage outside the known range is treated
// as StageDailyReview.
//
// The input state is not modified. Interval outcomes return ErrPolicyMismatch.
func ApplyBoxOutcome(
	state domain.BoxState,
	outcome domain.ReviewOutcome,
	now time.Time,
	params *Params,
) (domain.BoxState, time.Time, error) {
	if err := checkOutcome(outcome, domain.PolicyBox); err != nil {
		return state, time.Time{}, err
	}

	next := state
	if !next.Stage.IsValid() {
		next.Stage = domain.StageDailyReview
	}

	switch outcome {
	case domain.ReviewOutcomeCorrect:
		next.Stage = next.Stage.Next()
		next.CorrectCount++
	case domain.ReviewOutcomeIncorrect:
		next.Stage = domain.StageDailyReview
		next.IncorrectCount++
	}

	return next, now.AddDate(0, 0, params.boxIntervalDays(next.Stage)), nil
}
