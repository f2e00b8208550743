package srs

import (
	"math"
	"time"

	"github.com/noteaapp/notea/internal/domain"
)

// floorEpsilon absorbs rounding error accumulated in the ease factor so that,
// for example, an ease of 2.0999999999999996 times 10 truncates to 21, not 20.
const floorEpsilon = 1e-9

// ApplyIntervalOutcome computes the interval state that follows a review.
//
// Algorithm behavior:
//   - Forget: repetitions and interval reset, ease factor unchanged
//   - Hard: repetitions and interval reset, ease factor decreases
//   - Medium: interval grows (1, 6, then interval*ease truncated), ease factor decreases slightly
//   - Easy: interval grows (4, 10, then interval*ease truncated), ease factor increases
//
// The ease factor is always clamped to the configured limits and the interval is
// never below 1. Persisted states that are out of range are normalized before the
// transition. The input state is not modified. Box outcomes return ErrPolicyMismatch.
func ApplyIntervalOutcome(
	state domain.IntervalState,
	outcome domain.ReviewOutcome,
	now time.Time,
	params *Params,
) (domain.IntervalState, time.Time, error) {
	if err := checkOutcome(outcome, domain.PolicyInterval); err != nil {
		return state, time.Time{}, err
	}

	current := normalizeIntervalState(state, params)
	next := current

	switch outcome {
	case domain.ReviewOutcomeForget, domain.ReviewOutcomeHard:
		next.Repetitions = 0
		next.Interval = params.LapseInterval
	case domain.ReviewOutcomeMedium, domain.ReviewOutcomeEasy:
		next.Interval = calculateNewInterval(current, outcome, params)
		next.Repetitions = current.Repetitions + 1
	}

	next.EaseFactor = calculateNewEaseFactor(current.EaseFactor, outcome, params)
	next.Interval = max(1, next.Interval)

	return next, now.AddDate(0, 0, next.Interval), nil
}

// calculateNewInterval determines the interval after a successful recall.
// The first two repetitions use fixed intervals; later ones multiply the current
// interval by the ease factor held before this review, truncating the result.
func calculateNewInterval(
	current domain.IntervalState,
	outcome domain.ReviewOutcome,
	params *Params,
) int {
	switch current.Repetitions {
	case 0:
		return params.FirstReviewIntervals[outcome]
	case 1:
		return params.SecondReviewIntervals[outcome]
	default:
		return int(math.Floor(float64(current.Interval)*current.EaseFactor + floorEpsilon))
	}
}

// calculateNewEaseFactor applies the outcome's adjustment and clamps the result.
func calculateNewEaseFactor(
	currentEF float64,
	outcome domain.ReviewOutcome,
	params *Params,
) float64 {
	return params.clampEaseFactor(currentEF + params.EaseFactorAdjustment[outcome])
}

// normalizeIntervalState repairs a state that violates the interval invariants,
// which can only come from corrupted storage.
func normalizeIntervalState(state domain.IntervalState, params *Params) domain.IntervalState {
	state.Interval = max(1, state.Interval)
	state.Repetitions = max(0, state.Repetitions)
	if math.IsNaN(state.EaseFactor) {
		state.EaseFactor = domain.DefaultEaseFactor
	}
	state.EaseFactor = params.clampEaseFactor(state.EaseFactor)
	return state
}
