// Package storetest holds the behaviour every store implementation must
// show. Backends run the same suite against their own database.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/noteaapp/notea/internal/domain"
	"github.com/noteaapp/notea/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Stores is a matched pair of stores over the same database.
type Stores struct {
	Cards      store.CardStore
	ReviewLogs store.ReviewLogStore
}

// Factory returns stores over an empty database private to t.
type Factory func(t *testing.T) Stores

// Epoch is whole seconds so that every backend stores it exactly.
var Epoch = time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)

// NewCard builds a valid card for policy, due at due.
func NewCard(t *testing.T, policy domain.Policy, due time.Time) *domain.Card {
	t.Helper()

	card, err := domain.NewCard("front "+uuid.NewString()[:8], "back", policy, Epoch)
	require.NoError(t, err)
	card.NextDueAt = due
	return card
}

// Run exercises the CardStore and ReviewLogStore contracts.
func Run(t *testing.T, newStores Factory) {
	t.Run("CreateAndGet", func(t *testing.T) { testCreateAndGet(t, newStores) })
	t.Run("CreateRejects", func(t *testing.T) { testCreateRejects(t, newStores) })
	t.Run("SaveVersioning", func(t *testing.T) { testSaveVersioning(t, newStores) })
	t.Run("SaveInserts", func(t *testing.T) { testSaveInserts(t, newStores) })
	t.Run("SavePolicyChange", func(t *testing.T) { testSavePolicyChange(t, newStores) })
	t.Run("LoadDueCards", func(t *testing.T) { testLoadDueCards(t, newStores) })
	t.Run("Delete", func(t *testing.T) { testDelete(t, newStores) })
	t.Run("CountByStage", func(t *testing.T) { testCountByStage(t, newStores) })
	t.Run("ReviewLogs", func(t *testing.T) { testReviewLogs(t, newStores) })
}

func testCreateAndGet(t *testing.T, newStores Factory) {
	ctx := context.Background()
	s := newStores(t)

	reviewed := Epoch.Add(-time.Hour)
	box := NewCard(t, domain.PolicyBox, Epoch)
	box.State = domain.BoxState{Stage: domain.StageBiweekly, CorrectCount: 3, IncorrectCount: 2}
	box.LastReviewedAt = &reviewed

	interval := NewCard(t, domain.PolicyInterval, Epoch.AddDate(0, 0, 6))
	interval.State = domain.IntervalState{Interval: 6, EaseFactor: 2.18, Repetitions: 2}

	for _, card := range []*domain.Card{box, interval} {
		require.NoError(t, s.Cards.Create(ctx, card))
		assert.Equal(t, int64(1), card.Version)

		got, err := s.Cards.GetByID(ctx, card.ID)
		require.NoError(t, err)
		assert.Equal(t, card.ID, got.ID)
		assert.Equal(t, card.Front, got.Front)
		assert.Equal(t, card.Back, got.Back)
		assert.True(t, card.NextDueAt.Equal(got.NextDueAt))
		assert.True(t, card.CreatedAt.Equal(got.CreatedAt))
		assert.Equal(t, int64(1), got.Version)

		if want, ok := card.IntervalState(); ok {
			gotState, ok := got.IntervalState()
			require.True(t, ok)
			assert.Equal(t, want.Interval, gotState.Interval)
			assert.Equal(t, want.Repetitions, gotState.Repetitions)
			assert.InDelta(t, want.EaseFactor, gotState.EaseFactor, 1e-9)
			assert.Nil(t, got.LastReviewedAt)
		} else {
			assert.Equal(t, card.State, got.State)
			require.NotNil(t, got.LastReviewedAt)
			assert.True(t, reviewed.Equal(*got.LastReviewedAt))
		}
	}

	_, err := s.Cards.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrCardNotFound)
}

func testCreateRejects(t *testing.T, newStores Factory) {
	ctx := context.Background()

	t.Run("invalid card", func(t *testing.T) {
		s := newStores(t)
		card := NewCard(t, domain.PolicyBox, Epoch)
		card.Front = " "
		assert.ErrorIs(t, s.Cards.Create(ctx, card), store.ErrInvalidEntity)
	})

	t.Run("duplicate id", func(t *testing.T) {
		s := newStores(t)
		card := NewCard(t, domain.PolicyBox, Epoch)
		require.NoError(t, s.Cards.Create(ctx, card))
		assert.ErrorIs(t, s.Cards.Create(ctx, card), store.ErrDuplicate)
	})
}

func testSaveVersioning(t *testing.T, newStores Factory) {
	ctx := context.Background()
	s := newStores(t)

	card := NewCard(t, domain.PolicyBox, Epoch)
	require.NoError(t, s.Cards.Create(ctx, card))
	stale := *card

	reviewed := Epoch.Add(time.Minute)
	card.State = domain.BoxState{Stage: domain.StageEvery2Days, CorrectCount: 1}
	card.LastReviewedAt = &reviewed
	card.NextDueAt = reviewed.AddDate(0, 0, 2)
	card.UpdatedAt = reviewed
	card.Front = "edited front is not saved"
	require.NoError(t, s.Cards.Save(ctx, card))
	assert.Equal(t, int64(2), card.Version)

	got, err := s.Cards.GetByID(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, card.State, got.State)
	assert.Equal(t, stale.Front, got.Front)
	assert.True(t, card.NextDueAt.Equal(got.NextDueAt))
	assert.Equal(t, int64(2), got.Version)

	// A writer holding the old version loses.
	stale.State = domain.BoxState{Stage: domain.StageDailyReview, IncorrectCount: 1}
	err = s.Cards.Save(ctx, &stale)
	assert.ErrorIs(t, err, store.ErrVersionConflict)
	assert.Equal(t, int64(1), stale.Version)

	got, err = s.Cards.GetByID(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, card.State, got.State)
	assert.Equal(t, int64(2), got.Version)
}

func testSaveInserts(t *testing.T, newStores Factory) {
	ctx := context.Background()
	s := newStores(t)

	card := NewCard(t, domain.PolicyInterval, Epoch)
	require.NoError(t, s.Cards.Save(ctx, card))
	assert.Equal(t, int64(1), card.Version)

	got, err := s.Cards.GetByID(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PolicyInterval, got.Policy())
}

func testSavePolicyChange(t *testing.T, newStores Factory) {
	ctx := context.Background()
	s := newStores(t)

	card := NewCard(t, domain.PolicyBox, Epoch)
	require.NoError(t, s.Cards.Create(ctx, card))

	card.State = domain.NewIntervalState()
	assert.ErrorIs(t, s.Cards.Save(ctx, card), store.ErrPolicyChange)

	got, err := s.Cards.GetByID(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PolicyBox, got.Policy())
}

func testLoadDueCards(t *testing.T, newStores Factory) {
	ctx := context.Background()
	s := newStores(t)

	now := Epoch.AddDate(0, 0, 10)
	late := NewCard(t, domain.PolicyBox, now.Add(-48*time.Hour))
	exact := NewCard(t, domain.PolicyInterval, now)
	early := NewCard(t, domain.PolicyInterval, now.AddDate(0, 0, -9))
	future := NewCard(t, domain.PolicyBox, now.Add(time.Second))
	for _, c := range []*domain.Card{late, exact, early, future} {
		require.NoError(t, s.Cards.Create(ctx, c))
	}

	due, err := s.Cards.LoadDueCards(ctx, now)
	require.NoError(t, err)
	require.Len(t, due, 3)
	assert.Equal(t, early.ID, due[0].ID)
	assert.Equal(t, late.ID, due[1].ID)
	assert.Equal(t, exact.ID, due[2].ID)

	none, err := s.Cards.LoadDueCards(ctx, Epoch.AddDate(-1, 0, 0))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func testDelete(t *testing.T, newStores Factory) {
	ctx := context.Background()
	s := newStores(t)

	card := NewCard(t, domain.PolicyBox, Epoch)
	require.NoError(t, s.Cards.Create(ctx, card))

	entry, err := domain.NewReviewLog(*card, domain.ReviewOutcomeCorrect, Epoch)
	require.NoError(t, err)
	require.NoError(t, s.ReviewLogs.Append(ctx, entry))

	require.NoError(t, s.Cards.Delete(ctx, card.ID))

	_, err = s.Cards.GetByID(ctx, card.ID)
	assert.ErrorIs(t, err, store.ErrCardNotFound)

	logs, err := s.ReviewLogs.ListByCard(ctx, card.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, logs)

	assert.ErrorIs(t, s.Cards.Delete(ctx, card.ID), store.ErrCardNotFound)
}

func testCountByStage(t *testing.T, newStores Factory) {
	ctx := context.Background()
	s := newStores(t)

	now := Epoch.AddDate(0, 0, 1)
	weeklyDue := NewCard(t, domain.PolicyBox, now)
	weeklyDue.State = domain.BoxState{Stage: domain.StageWeekly}
	weeklyLater := NewCard(t, domain.PolicyBox, now.AddDate(0, 0, 3))
	weeklyLater.State = domain.BoxState{Stage: domain.StageWeekly}
	daily := NewCard(t, domain.PolicyBox, now.Add(-time.Hour))
	intervalDue := NewCard(t, domain.PolicyInterval, now)
	intervalLater := NewCard(t, domain.PolicyInterval, now.AddDate(0, 0, 1))
	for _, c := range []*domain.Card{weeklyDue, weeklyLater, daily, intervalDue, intervalLater} {
		require.NoError(t, s.Cards.Create(ctx, c))
	}

	summary, err := s.Cards.CountByStage(ctx, now)
	require.NoError(t, err)

	assert.Equal(t, 5, summary.Total)
	assert.Equal(t, 3, summary.Due)
	assert.Equal(t, 3, summary.ByPolicy[domain.PolicyBox])
	assert.Equal(t, 2, summary.ByPolicy[domain.PolicyInterval])
	assert.Equal(t, 2, summary.ByStage[domain.StageWeekly])
	assert.Equal(t, 1, summary.DueByStage[domain.StageWeekly])
	assert.Equal(t, 1, summary.ByStage[domain.StageDailyReview])
	assert.Equal(t, 1, summary.DueByStage[domain.StageDailyReview])
	assert.Equal(t, 0, summary.ByStage[domain.StageMastered])
}

func testReviewLogs(t *testing.T, newStores Factory) {
	ctx := context.Background()
	s := newStores(t)

	card := NewCard(t, domain.PolicyInterval, Epoch)
	require.NoError(t, s.Cards.Create(ctx, card))

	outcomes := []domain.ReviewOutcome{
		domain.ReviewOutcomeMedium,
		domain.ReviewOutcomeEasy,
		domain.ReviewOutcomeForget,
	}
	for i, outcome := range outcomes {
		card.State = domain.IntervalState{Interval: i + 1, EaseFactor: 2.5, Repetitions: i}
		entry, err := domain.NewReviewLog(*card, outcome, Epoch.AddDate(0, 0, i))
		require.NoError(t, err)
		require.NoError(t, s.ReviewLogs.Append(ctx, entry))
	}

	logs, err := s.ReviewLogs.ListByCard(ctx, card.ID, 0)
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, domain.ReviewOutcomeForget, logs[0].Outcome)
	assert.Equal(t, 3, logs[0].Interval)
	assert.Equal(t, domain.ReviewOutcomeMedium, logs[2].Outcome)
	assert.Equal(t, domain.PolicyInterval, logs[2].Policy)

	limited, err := s.ReviewLogs.ListByCard(ctx, card.ID, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, domain.ReviewOutcomeEasy, limited[1].Outcome)

	orphan := NewCard(t, domain.PolicyBox, Epoch)
	entry, err := domain.NewReviewLog(*orphan, domain.ReviewOutcomeCorrect, Epoch)
	require.NoError(t, err)
	assert.ErrorIs(t, s.ReviewLogs.Append(ctx, entry), store.ErrCardNotFound)

	entry.Outcome = domain.ReviewOutcomeEasy
	assert.ErrorIs(t, s.ReviewLogs.Append(ctx, entry), store.ErrInvalidEntity)
}
