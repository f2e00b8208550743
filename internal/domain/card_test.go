package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCard(t *testing.T) {
	t.Parallel() // Enable parallel execution
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	card, err := NewBoxCard("What is Go?", "A programming language", now)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if card.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	if !card.NextDueAt.Equal(now) {
		t.Errorf("Expected new card to be due at %v, got %v", now, card.NextDueAt)
	}

	if card.LastReviewedAt != nil {
		t.Error("Expected new card to have no review time")
	}

	if card.State != NewBoxState() {
		t.Errorf("Expected fresh box state, got %#v", card.State)
	}

	interval, err := NewIntervalCard("front", "back", now)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if interval.State != (IntervalState{Interval: 1, EaseFactor: 2.5, Repetitions: 0}) {
		t.Errorf("Expected fresh interval state, got %#v", interval.State)
	}

	// Test empty front
	_, err = NewBoxCard("  ", "back", now)
	if err != ErrCardFrontEmpty {
		t.Errorf("Expected error %v, got %v", ErrCardFrontEmpty, err)
	}

	// Test empty back
	_, err = NewIntervalCard("front", "", now)
	if err != ErrCardBackEmpty {
		t.Errorf("Expected error %v, got %v", ErrCardBackEmpty, err)
	}

	// Test unknown policy
	_, err = NewCard("front", "back", Policy(7), now)
	if !errors.Is(err, ErrInvalidPolicy) {
		t.Errorf("Expected error %v, got %v", ErrInvalidPolicy, err)
	}
}

func TestCardValidate(t *testing.T) {
	t.Parallel() // Enable parallel execution
	validCard := Card{
		ID:        uuid.New(),
		Front:     "front",
		Back:      "back",
		NextDueAt: time.Now(),
		State:     NewBoxState(),
	}

	require.NoError(t, validCard.Validate())

	tests := []struct {
		name    string
		mutate  func(c *Card)
		wantErr error
	}{
		{"nil id", func(c *Card) { c.ID = uuid.Nil }, ErrCardIDEmpty},
		{"missing due time", func(c *Card) { c.NextDueAt = time.Time{} }, ErrCardNextDueMissing},
		{"nil state", func(c *Card) { c.State = nil }, ErrInvalidSchedulingState},
		{"bad stage", func(c *Card) { c.State = BoxState{Stage: 9} }, ErrInvalidStage},
		{"negative counter", func(c *Card) {
			c.State = BoxState{Stage: StageWeekly, IncorrectCount: -1}
		}, ErrInvalidCounter},
		{"zero interval", func(c *Card) {
			c.State = IntervalState{Interval: 0, EaseFactor: 2.5}
		}, ErrInvalidInterval},
		{"ease too low", func(c *Card) {
			c.State = IntervalState{Interval: 1, EaseFactor: 1.2}
		}, ErrInvalidEaseFactor},
		{"ease too high", func(c *Card) {
			c.State = IntervalState{Interval: 1, EaseFactor: 2.6}
		}, ErrInvalidEaseFactor},
		{"negative repetitions", func(c *Card) {
			c.State = IntervalState{Interval: 1, EaseFactor: 2.5, Repetitions: -1}
		}, ErrInvalidRepetitions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			card := validCard
			tt.mutate(&card)
			assert.ErrorIs(t, card.Validate(), tt.wantErr)
		})
	}
}

func TestCardIsDue(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	card := Card{NextDueAt: now}

	assert.True(t, card.IsDue(now), "due exactly at next due time")
	assert.True(t, card.IsDue(now.Add(time.Second)))
	assert.False(t, card.IsDue(now.Add(-time.Second)))
}

func TestCardPolicy(t *testing.T) {
	t.Parallel()

	assert.Equal(t, PolicyBox, Card{State: NewBoxState()}.Policy())
	assert.Equal(t, PolicyInterval, Card{State: NewIntervalState()}.Policy())
	assert.Equal(t, Policy(0), Card{}.Policy())

	box, ok := Card{State: BoxState{Stage: StageWeekly}}.BoxState()
	assert.True(t, ok)
	assert.Equal(t, StageWeekly, box.Stage)

	_, ok = Card{State: NewBoxState()}.IntervalState()
	assert.False(t, ok)
}

func TestCardJSONRoundTrip(t *testing.T) {
	t.Parallel()
	reviewed := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	cards := map[string]Card{
		"box": {
			ID:             uuid.New(),
			Front:          "capital of France",
			Back:           "Paris",
			CreatedAt:      reviewed.Add(-48 * time.Hour),
			UpdatedAt:      reviewed,
			LastReviewedAt: &reviewed,
			NextDueAt:      reviewed.Add(7 * 24 * time.Hour),
			State:          BoxState{Stage: StageWeekly, CorrectCount: 2, IncorrectCount: 1},
			Version:        3,
		},
		"interval never reviewed": {
			ID:        uuid.New(),
			Front:     "2+2",
			Back:      "4",
			CreatedAt: reviewed,
			UpdatedAt: reviewed,
			NextDueAt: reviewed,
			State:     IntervalState{Interval: 15, EaseFactor: 2.35, Repetitions: 3},
		},
	}

	for name, card := range cards {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			data, err := json.Marshal(card)
			require.NoError(t, err)

			var decoded Card
			require.NoError(t, json.Unmarshal(data, &decoded))
			assert.Equal(t, card, decoded)
		})
	}
}

func TestCardJSONShape(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	card := Card{
		ID:        uuid.New(),
		Front:     "f",
		Back:      "b",
		NextDueAt: now,
		State:     BoxState{Stage: StageEvery2Days, CorrectCount: 1},
	}

	data, err := json.Marshal(card)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "box", raw["policy"])
	assert.NotContains(t, raw, "interval")
	assert.NotContains(t, raw, "last_reviewed_at")
	assert.Equal(t, map[string]any{
		"stage":           "every_2_days",
		"correct_count":   float64(1),
		"incorrect_count": float64(0),
	}, raw["box"])
}

func TestCardUnmarshalJSONRejectsMismatchedVariant(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"missing variant":  `{"policy":"box"}`,
		"wrong variant":    `{"policy":"box","interval":{"interval":1,"ease_factor":2.5,"repetitions":0}}`,
		"both variants":    `{"policy":"interval","box":{"stage":"weekly"},"interval":{"interval":1,"ease_factor":2.5}}`,
		"no policy":        `{"box":{"stage":"weekly"}}`,
		"unknown policy":   `{"policy":"fsrs","box":{"stage":"weekly"}}`,
		"unknown stage":    `{"policy":"box","box":{"stage":"yearly"}}`,
		"numeric policy":   `{"policy":1,"box":{"stage":"weekly"}}`,
		"malformed object": `{"policy":`,
	}

	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			var card Card
			assert.Error(t, json.Unmarshal([]byte(input), &card))
		})
	}
}

func TestCardMarshalJSONWithoutState(t *testing.T) {
	t.Parallel()
	_, err := json.Marshal(Card{ID: uuid.New()})
	assert.ErrorIs(t, err, ErrInvalidSchedulingState)
}
