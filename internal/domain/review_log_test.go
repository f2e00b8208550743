package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReviewLog(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	t.Run("box card", func(t *testing.T) {
		t.Parallel()
		card := Card{
			ID:        uuid.New(),
			NextDueAt: now.AddDate(0, 0, 7),
			State:     BoxState{Stage: StageWeekly, CorrectCount: 2},
		}

		entry, err := NewReviewLog(card, ReviewOutcomeCorrect, now)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, entry.ID)
		assert.Equal(t, card.ID, entry.CardID)
		assert.Equal(t, PolicyBox, entry.Policy)
		assert.Equal(t, StageWeekly, entry.Stage)
		assert.Zero(t, entry.Interval)
		assert.Equal(t, card.NextDueAt, entry.NextDueAt)
	})

	t.Run("interval card", func(t *testing.T) {
		t.Parallel()
		card := Card{
			ID:        uuid.New(),
			NextDueAt: now.AddDate(0, 0, 6),
			State:     IntervalState{Interval: 6, EaseFactor: 2.34, Repetitions: 2},
		}

		entry, err := NewReviewLog(card, ReviewOutcomeMedium, now)
		require.NoError(t, err)
		assert.Equal(t, PolicyInterval, entry.Policy)
		assert.Equal(t, 6, entry.Interval)
		assert.InDelta(t, 2.34, entry.EaseFactor, 1e-9)
		assert.Equal(t, Stage(0), entry.Stage)
	})

	t.Run("outcome from the other policy", func(t *testing.T) {
		t.Parallel()
		card := Card{ID: uuid.New(), State: NewBoxState()}
		_, err := NewReviewLog(card, ReviewOutcomeEasy, now)
		assert.ErrorIs(t, err, ErrInvalidReviewOutcome)
	})

	t.Run("missing card id", func(t *testing.T) {
		t.Parallel()
		_, err := NewReviewLog(Card{State: NewBoxState()}, ReviewOutcomeCorrect, now)
		assert.ErrorIs(t, err, ErrReviewLogCardIDEmpty)
	})
}
