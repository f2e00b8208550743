package domain

import (
	"encoding"
	"encoding/json"
	"fmt"
)

// Stage is a Leitner box. Stages are ordered; a correct answer moves a card
// one stage forward and an incorrect answer sends it back to StageDailyReview.
type Stage int

const (
	StageDailyReview Stage = iota + 1
	StageEvery2Days
	StageWeekly
	StageBiweekly
	StageMastered
)

var (
	stageNames = [...]string{
		StageDailyReview: "daily_review",
		StageEvery2Days:  "every_2_days",
		StageWeekly:      "weekly",
		StageBiweekly:    "biweekly",
		StageMastered:    "mastered",
	}
	stageByName = map[string]Stage{
		"daily_review": StageDailyReview,
		"every_2_days": StageEvery2Days,
		"weekly":       StageWeekly,
		"biweekly":     StageBiweekly,
		"mastered":     StageMastered,
	}
)

// Compile-time interface checks.
var (
	_ fmt.Stringer             = Stage(0)
	_ json.Marshaler           = Stage(0)
	_ json.Unmarshaler         = (*Stage)(nil)
	_ encoding.TextMarshaler   = Stage(0)
	_ encoding.TextUnmarshaler = (*Stage)(nil)
)

// Stages returns every stage in order, from StageDailyReview to StageMastered.
func Stages() []Stage {
	return []Stage{
		StageDailyReview,
		StageEvery2Days,
		StageWeekly,
		StageBiweekly,
		StageMastered,
	}
}

// IsValid reports whether s is a defined stage.
func (s Stage) IsValid() bool {
	return s >= StageDailyReview && s <= StageMastered
}

// Next returns the stage after s. StageMastered is absorbing. An undefined
// stage is treated as StageDailyReview.
func (s Stage) Next() Stage {
	switch {
	case !s.IsValid():
		return StageEvery2Days
	case s == StageMastered:
		return StageMastered
	default:
		return s + 1
	}
}

// String returns the stable name of the stage, e.g. "every_2_days".
// For invalid values it returns "Stage(n)".
func (s Stage) String() string {
	if s.IsValid() {
		return stageNames[s]
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// ParseStage parses a stage name as produced by String.
func ParseStage(name string) (Stage, error) {
	s, ok := stageByName[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidStage, name)
	}
	return s, nil
}

// MarshalText implements encoding.TextMarshaler.
func (s Stage) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStage, int(s))
	}
	return []byte(stageNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Stage) UnmarshalText(text []byte) error {
	v, err := ParseStage(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// MarshalJSON implements json.Marshaler. Stage serializes as a JSON string.
func (s Stage) MarshalJSON() ([]byte, error) {
	text, err := s.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// UnmarshalJSON implements json.Unmarshaler. Expects a JSON string.
func (s *Stage) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidStage, data)
	}
	return s.UnmarshalText([]byte(name))
}
