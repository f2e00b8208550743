package srs

import (
	"errors"
	"fmt"
	"maps"

	"github.com/noteaapp/notea/internal/domain"
)

// ErrInvalidParams is returned when a Params value cannot drive the schedulers.
var ErrInvalidParams = errors.New("invalid scheduling parameters")

// Params defines all configurable parameters for both scheduling policies
type Params struct {
	// BoxIntervalDays is the delay, in days, before a box card that has just
	// reached a stage becomes due again.
	BoxIntervalDays map[domain.Stage]int

	// Core limits
	MinEaseFactor float64
	MaxEaseFactor float64

	// Adjustments applied to the ease factor for each interval outcome
	EaseFactorAdjustment map[domain.ReviewOutcome]float64

	// Intervals used while a card has fewer than two repetitions
	FirstReviewIntervals  map[domain.ReviewOutcome]int
	SecondReviewIntervals map[domain.ReviewOutcome]int

	// LapseInterval is the interval after Forget or Hard
	LapseInterval int
}

// ParamsConfig allows overriding the default parameters when creating a new Params instance.
// Zero values keep the defaults.
type ParamsConfig struct {
	// Box offsets
	Every2DaysIntervalDays int
	WeeklyIntervalDays     int
	BiweeklyIntervalDays   int
	MasteredIntervalDays   int

	// Core limits
	MinEaseFactor float64
	MaxEaseFactor float64

	// Ease factor adjustments
	HardEaseFactorAdjustment   float64
	MediumEaseFactorAdjustment float64
	EasyEaseFactorAdjustment   float64

	// First and second review intervals
	FirstReviewMediumInterval  int
	FirstReviewEasyInterval    int
	SecondReviewMediumInterval int
	SecondReviewEasyInterval   int

	LapseInterval int
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		BoxIntervalDays: map[domain.Stage]int{
			domain.StageDailyReview: 0,
			domain.StageEvery2Days:  2,
			domain.StageWeekly:      7,
			domain.StageBiweekly:    14,
			domain.StageMastered:    30,
		},

		MinEaseFactor: domain.MinEaseFactor,
		MaxEaseFactor: domain.MaxEaseFactor,

		EaseFactorAdjustment: map[domain.ReviewOutcome]float64{
			domain.ReviewOutcomeForget: 0.0,
			domain.ReviewOutcomeHard:   -0.15,
			domain.ReviewOutcomeMedium: -0.08,
			domain.ReviewOutcomeEasy:   0.15,
		},

		FirstReviewIntervals: map[domain.ReviewOutcome]int{
			domain.ReviewOutcomeMedium: 1,
			domain.ReviewOutcomeEasy:   4,
		},
		SecondReviewIntervals: map[domain.ReviewOutcome]int{
			domain.ReviewOutcomeMedium: 6,
			domain.ReviewOutcomeEasy:   10,
		},

		LapseInterval: 1,
	}
}

// NewParams creates a new Params instance with custom configuration
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	// Override box offsets if provided
	if config.Every2DaysIntervalDays > 0 {
		params.BoxIntervalDays[domain.StageEvery2Days] = config.Every2DaysIntervalDays
	}
	if config.WeeklyIntervalDays > 0 {
		params.BoxIntervalDays[domain.StageWeekly] = config.WeeklyIntervalDays
	}
	if config.BiweeklyIntervalDays > 0 {
		params.BoxIntervalDays[domain.StageBiweekly] = config.BiweeklyIntervalDays
	}
	if config.MasteredIntervalDays > 0 {
		params.BoxIntervalDays[domain.StageMastered] = config.MasteredIntervalDays
	}

	// Override core limits if provided
	if config.MinEaseFactor > 0 {
		params.MinEaseFactor = config.MinEaseFactor
	}
	if config.MaxEaseFactor > 0 {
		params.MaxEaseFactor = config.MaxEaseFactor
	}

	// Override ease factor adjustments if provided
	if config.HardEaseFactorAdjustment != 0 {
		params.EaseFactorAdjustment[domain.ReviewOutcomeHard] = config.HardEaseFactorAdjustment
	}
	if config.MediumEaseFactorAdjustment != 0 {
		params.EaseFactorAdjustment[domain.ReviewOutcomeMedium] = config.MediumEaseFactorAdjustment
	}
	if config.EasyEaseFactorAdjustment != 0 {
		params.EaseFactorAdjustment[domain.ReviewOutcomeEasy] = config.EasyEaseFactorAdjustment
	}

	// Override early review intervals if provided
	if config.FirstReviewMediumInterval > 0 {
		params.FirstReviewIntervals[domain.ReviewOutcomeMedium] = config.FirstReviewMediumInterval
	}
	if config.FirstReviewEasyInterval > 0 {
		params.FirstReviewIntervals[domain.ReviewOutcomeEasy] = config.FirstReviewEasyInterval
	}
	if config.SecondReviewMediumInterval > 0 {
		params.SecondReviewIntervals[domain.ReviewOutcomeMedium] = config.SecondReviewMediumInterval
	}
	if config.SecondReviewEasyInterval > 0 {
		params.SecondReviewIntervals[domain.ReviewOutcomeEasy] = config.SecondReviewEasyInterval
	}

	if config.LapseInterval > 0 {
		params.LapseInterval = config.LapseInterval
	}

	return params
}

// clone returns a deep copy of p.
func (p *Params) clone() *Params {
	c := *p
	c.BoxIntervalDays = maps.Clone(p.BoxIntervalDays)
	c.EaseFactorAdjustment = maps.Clone(p.EaseFactorAdjustment)
	c.FirstReviewIntervals = maps.Clone(p.FirstReviewIntervals)
	c.SecondReviewIntervals = maps.Clone(p.SecondReviewIntervals)
	return &c
}

// Validate checks that the parameters keep every produced state valid.
func (p *Params) Validate() error {
	if p == nil {
		return fmt.Errorf("%w: nil", ErrInvalidParams)
	}

	for _, stage := range domain.Stages() {
		days, ok := p.BoxIntervalDays[stage]
		if !ok || days < 0 || (stage != domain.StageDailyReview && days < 1) {
			return fmt.Errorf("%w: box interval for %s", ErrInvalidParams, stage)
		}
	}

	if p.MinEaseFactor < domain.MinEaseFactor || p.MaxEaseFactor > domain.MaxEaseFactor ||
		p.MinEaseFactor > p.MaxEaseFactor {
		return fmt.Errorf("%w: ease factor bounds [%.2f, %.2f] must lie within [%.1f, %.1f]",
			ErrInvalidParams, p.MinEaseFactor, p.MaxEaseFactor, domain.MinEaseFactor, domain.MaxEaseFactor)
	}

	for _, outcome := range []domain.ReviewOutcome{domain.ReviewOutcomeMedium, domain.ReviewOutcomeEasy} {
		if p.FirstReviewIntervals[outcome] < 1 || p.SecondReviewIntervals[outcome] < 1 {
			return fmt.Errorf("%w: early intervals for %s must be at least 1", ErrInvalidParams, outcome)
		}
	}

	if p.LapseInterval < 1 {
		return fmt.Errorf("%w: lapse interval must be at least 1", ErrInvalidParams)
	}

	return nil
}

// boxIntervalDays returns the delay for a card that has just reached stage.
func (p *Params) boxIntervalDays(stage domain.Stage) int {
	return p.BoxIntervalDays[stage]
}

// clampEaseFactor keeps ef within the configured limits.
func (p *Params) clampEaseFactor(ef float64) float64 {
	return min(max(ef, p.MinEaseFactor), p.MaxEaseFactor)
}
