package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/noteaapp/notea/internal/domain"
	"github.com/noteaapp/notea/internal/mocks"
	"github.com/noteaapp/notea/internal/platform/sqlite"
	"github.com/noteaapp/notea/internal/service"
	"github.com/noteaapp/notea/internal/store"
	"github.com/noteaapp/notea/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 1, 12, 18, 0, 0, 0, time.UTC)

type deck struct {
	svc   service.CardService
	cards *sqlite.CardStore
	logs  *sqlite.ReviewLogStore
}

func newDeck(t *testing.T) deck {
	t.Helper()

	db := testdb.SQLite(t)
	cards := sqlite.NewCardStore(db, nil)
	logs := sqlite.NewReviewLogStore(db, nil)
	svc, err := service.NewCardService(db, cards, logs, nil)
	require.NoError(t, err)
	return deck{svc: svc, cards: cards, logs: logs}
}

func TestNewCardService(t *testing.T) {
	t.Parallel()

	db := testdb.SQLite(t)
	cards := &mocks.MockCardStore{}
	logs := &mocks.MockReviewLogStore{}

	tests := []struct {
		name  string
		build func() (service.CardService, error)
		field string
	}{
		{name: "nil db", build: func() (service.CardService, error) {
			return service.NewCardService(nil, cards, logs, nil)
		}, field: "db"},
		{name: "nil card store", build: func() (service.CardService, error) {
			return service.NewCardService(db, nil, logs, nil)
		}, field: "cardStore"},
		{name: "nil review log store", build: func() (service.CardService, error) {
			return service.NewCardService(db, cards, nil, nil)
		}, field: "reviewLogs"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, err := tc.build()
			assert.Nil(t, svc)
			var validationErr *domain.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tc.field, validationErr.Field)
		})
	}

	svc, err := service.NewCardService(db, cards, logs, nil)
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestCreateCard(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("creates a due card of the requested policy", func(t *testing.T) {
		t.Parallel()
		d := newDeck(t)

		card, err := d.svc.CreateCard(ctx, service.NewCardRequest{
			Front: "el gato", Back: "the cat", Policy: domain.PolicyInterval,
		}, now)
		require.NoError(t, err)
		assert.Equal(t, domain.PolicyInterval, card.Policy())
		assert.Equal(t, int64(1), card.Version)
		assert.True(t, card.IsDue(now))

		stored, err := d.cards.GetByID(ctx, card.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.NewIntervalState(), stored.State)
	})

	t.Run("invalid content", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name string
			req  service.NewCardRequest
			want error
		}{
			{name: "blank front", req: service.NewCardRequest{Front: " ", Back: "b", Policy: domain.PolicyBox}, want: domain.ErrCardFrontEmpty},
			{name: "blank back", req: service.NewCardRequest{Front: "f", Back: "", Policy: domain.PolicyBox}, want: domain.ErrCardBackEmpty},
			{name: "unknown policy", req: service.NewCardRequest{Front: "f", Back: "b"}, want: domain.ErrInvalidPolicy},
		}

		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				t.Parallel()

				cards := &mocks.MockCardStore{}
				svc, err := service.NewCardService(testdb.SQLite(t), cards, &mocks.MockReviewLogStore{}, nil)
				require.NoError(t, err)

				_, err = svc.CreateCard(ctx, tc.req, now)
				assert.ErrorIs(t, err, service.ErrInvalidCard)
				assert.ErrorIs(t, err, tc.want)
				cards.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()

		dbErr := errors.New("database is locked")
		cards := &mocks.MockCardStore{}
		cards.On("Create", ctx, mock.Anything).Return(dbErr)
		svc, err := service.NewCardService(testdb.SQLite(t), cards, &mocks.MockReviewLogStore{}, nil)
		require.NoError(t, err)

		_, err = svc.CreateCard(ctx, service.NewCardRequest{Front: "f", Back: "b", Policy: domain.PolicyBox}, now)
		assert.ErrorIs(t, err, dbErr)
		var serviceErr *service.CardServiceError
		require.ErrorAs(t, err, &serviceErr)
		assert.Equal(t, "create_card", serviceErr.Operation)
	})
}

func TestCreateCards(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	newCards := func(t *testing.T, n int) []*domain.Card {
		cards := make([]*domain.Card, n)
		for i := range cards {
			c, err := domain.NewBoxCard("front", "back", now)
			require.NoError(t, err)
			cards[i] = c
		}
		return cards
	}

	t.Run("all cards are stored", func(t *testing.T) {
		t.Parallel()
		d := newDeck(t)

		cards := newCards(t, 3)
		require.NoError(t, d.svc.CreateCards(ctx, cards))

		summary, err := d.svc.Summary(ctx, now)
		require.NoError(t, err)
		assert.Equal(t, 3, summary.Total)
		assert.Equal(t, 3, summary.DueByStage[domain.StageDailyReview])
	})

	t.Run("one invalid card stores none", func(t *testing.T) {
		t.Parallel()
		d := newDeck(t)

		cards := newCards(t, 3)
		cards[2].Back = ""

		err := d.svc.CreateCards(ctx, cards)
		assert.ErrorIs(t, err, service.ErrInvalidCard)

		summary, err := d.svc.Summary(ctx, now)
		require.NoError(t, err)
		assert.Zero(t, summary.Total)
	})

	t.Run("duplicate id rolls back", func(t *testing.T) {
		t.Parallel()
		d := newDeck(t)

		cards := newCards(t, 2)
		cards[1].ID = cards[0].ID

		err := d.svc.CreateCards(ctx, cards)
		assert.ErrorIs(t, err, store.ErrDuplicate)

		_, err = d.cards.GetByID(ctx, cards[0].ID)
		assert.ErrorIs(t, err, store.ErrCardNotFound)
	})

	t.Run("nothing to create", func(t *testing.T) {
		t.Parallel()
		d := newDeck(t)
		assert.NoError(t, d.svc.CreateCards(ctx, nil))
	})
}

func TestGetAndDeleteCard(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	d := newDeck(t)

	card, err := d.svc.CreateCard(ctx, service.NewCardRequest{Front: "f", Back: "b", Policy: domain.PolicyBox}, now)
	require.NoError(t, err)

	got, err := d.svc.GetCard(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, card.ID, got.ID)

	require.NoError(t, d.svc.DeleteCard(ctx, card.ID))

	_, err = d.svc.GetCard(ctx, card.ID)
	assert.ErrorIs(t, err, store.ErrCardNotFound)

	err = d.svc.DeleteCard(ctx, card.ID)
	assert.ErrorIs(t, err, store.ErrCardNotFound)
}

func TestListReviews(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	d := newDeck(t)

	card, err := d.svc.CreateCard(ctx, service.NewCardRequest{Front: "f", Back: "b", Policy: domain.PolicyBox}, now)
	require.NoError(t, err)

	reviews, err := d.svc.ListReviews(ctx, card.ID, 0)
	require.NoError(t, err)
	assert.NotNil(t, reviews)
	assert.Empty(t, reviews)

	for i, outcome := range []domain.ReviewOutcome{domain.ReviewOutcomeCorrect, domain.ReviewOutcomeIncorrect} {
		entry, err := domain.NewReviewLog(*card, outcome, now.Add(time.Duration(i)*time.Hour))
		require.NoError(t, err)
		require.NoError(t, d.logs.Append(ctx, entry))
	}

	reviews, err = d.svc.ListReviews(ctx, card.ID, 1)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, domain.ReviewOutcomeIncorrect, reviews[0].Outcome)

	_, err = d.svc.ListReviews(ctx, uuid.New(), 0)
	assert.ErrorIs(t, err, store.ErrCardNotFound)
}

func TestSummary_StoreFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	dbErr := errors.New("no such table: cards")
	cards := &mocks.MockCardStore{}
	cards.On("CountByStage", ctx, now).Return(nil, dbErr)
	svc, err := service.NewCardService(testdb.SQLite(t), cards, &mocks.MockReviewLogStore{}, nil)
	require.NoError(t, err)

	_, err = svc.Summary(ctx, now)
	assert.ErrorIs(t, err, dbErr)
}
