package domain

import (
	"encoding"
	"encoding/json"
	"fmt"
)

// Policy identifies the scheduling policy a card is bound to for its whole
// lifetime.
type Policy int

const (
	PolicyBox      Policy = iota + 1 // Five-stage Leitner boxes.
	PolicyInterval                   // Interval and ease factor (SM-2 style).
)

var (
	policyNames = [...]string{
		PolicyBox:      "box",
		PolicyInterval: "interval",
	}
	policyByName = map[string]Policy{
		"box":      PolicyBox,
		"interval": PolicyInterval,
	}
)

// Compile-time interface checks.
var (
	_ fmt.Stringer             = Policy(0)
	_ json.Marshaler           = Policy(0)
	_ json.Unmarshaler         = (*Policy)(nil)
	_ encoding.TextMarshaler   = Policy(0)
	_ encoding.TextUnmarshaler = (*Policy)(nil)
)

// IsValid reports whether p is a defined policy.
func (p Policy) IsValid() bool {
	return p == PolicyBox || p == PolicyInterval
}

// String returns "box" or "interval". For invalid values it returns "Policy(n)".
func (p Policy) String() string {
	if p.IsValid() {
		return policyNames[p]
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy parses a policy name as produced by String.
func ParsePolicy(name string) (Policy, error) {
	p, ok := policyByName[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPolicy, name)
	}
	return p, nil
}

// MarshalText implements encoding.TextMarshaler.
func (p Policy) MarshalText() ([]byte, error) {
	if !p.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPolicy, int(p))
	}
	return []byte(policyNames[p]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Policy) UnmarshalText(text []byte) error {
	v, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// MarshalJSON implements json.Marshaler.
func (p Policy) MarshalJSON() ([]byte, error) {
	text, err := p.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Policy) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidPolicy, data)
	}
	return p.UnmarshalText([]byte(name))
}
