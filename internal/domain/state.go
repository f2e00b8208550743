package domain

// Default values for a freshly created interval card.
const (
	DefaultInterval    = 1
	DefaultEaseFactor  = 2.5
	MinEaseFactor      = 1.3
	MaxEaseFactor      = 2.5
	DefaultRepetitions = 0
)

// SchedulingState is the policy-specific part of a card. It is a closed sum
// type: the only implementations are BoxState and IntervalState.
type SchedulingState interface {
	// Policy reports which scheduling policy the state belongs to.
	Policy() Policy
	// Validate checks the state's invariants.
	Validate() error

	schedulingState()
}

// BoxState is the scheduling state of a card under the Leitner box policy.
// The counters are informational and never influence transitions.
type BoxState struct {
	Stage          Stage `json:"stage"`
	CorrectCount   int   `json:"correct_count"`
	IncorrectCount int   `json:"incorrect_count"`
}

// NewBoxState returns the state of a card that has never been reviewed.
func NewBoxState() BoxState {
	return BoxState{Stage: StageDailyReview}
}

// Policy implements SchedulingState.
func (BoxState) Policy() Policy { return PolicyBox }

// Validate implements SchedulingState.
func (s BoxState) Validate() error {
	if !s.Stage.IsValid() {
		return ErrInvalidStage
	}
	if s.CorrectCount < 0 || s.IncorrectCount < 0 {
		return ErrInvalidCounter
	}
	return nil
}

func (BoxState) schedulingState() {}

// IntervalState is the scheduling state of a card under the interval policy.
type IntervalState struct {
	Interval    int     `json:"interval"`    // days until the next review, >= 1
	EaseFactor  float64 `json:"ease_factor"` // growth multiplier, within [1.3, 2.5]
	Repetitions int     `json:"repetitions"` // consecutive non-regressing reviews
}

// NewIntervalState returns the state of a card that has never been reviewed.
func NewIntervalState() IntervalState {
	return IntervalState{
		Interval:    DefaultInterval,
		EaseFactor:  DefaultEaseFactor,
		Repetitions: DefaultRepetitions,
	}
}

// Policy implements SchedulingState.
func (IntervalState) Policy() Policy { return PolicyInterval }

// Validate implements SchedulingState.
func (s IntervalState) Validate() error {
	if s.Interval < 1 {
		return ErrInvalidInterval
	}
	if s.EaseFactor < MinEaseFactor || s.EaseFactor > MaxEaseFactor {
		return ErrInvalidEaseFactor
	}
	if s.Repetitions < 0 {
		return ErrInvalidRepetitions
	}
	return nil
}

func (IntervalState) schedulingState() {}
