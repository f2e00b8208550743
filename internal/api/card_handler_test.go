package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/noteaapp/notea/internal/api"
	"github.com/noteaapp/notea/internal/api/shared"
	"github.com/noteaapp/notea/internal/domain"
	"github.com/noteaapp/notea/internal/mocks"
	"github.com/noteaapp/notea/internal/service"
	"github.com/noteaapp/notea/internal/service/card_review"
	"github.com/noteaapp/notea/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 4, 2, 15, 4, 5, 0, time.UTC)

func newRouter(reviews card_review.CardReviewService, cards service.CardService) http.Handler {
	h := api.NewCardHandler(reviews, cards, slog.Default(), api.WithClock(func() time.Time { return fixedNow }))
	r := chi.NewRouter()
	r.Route("/api", h.RegisterRoutes)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeCard(t *testing.T, w *httptest.ResponseRecorder) domain.Card {
	t.Helper()

	var card domain.Card
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &card), w.Body.String())
	return card
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var body shared.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body.Error
}

func testCard(t *testing.T, policy domain.Policy) *domain.Card {
	t.Helper()

	card, err := domain.NewCard("¿Qué hora es?", "What time is it?", policy, fixedNow.Add(-time.Hour))
	require.NoError(t, err)
	card.Version = 1
	return card
}

func TestNewCardHandler_NilLogger(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { api.NewCardHandler(nil, nil, nil) })
}

func TestGetNextReviewCard(t *testing.T) {
	t.Parallel()

	t.Run("returns the selected card", func(t *testing.T) {
		t.Parallel()

		card := testCard(t, domain.PolicyBox)
		reviews := mocks.NewMockCardReviewService(mocks.WithNextCard(card))

		w := do(t, newRouter(reviews, &mocks.MockCardService{}), http.MethodGet, "/api/cards/next", "")

		require.Equal(t, http.StatusOK, w.Code)
		got := decodeCard(t, w)
		assert.Equal(t, card.ID, got.ID)
		assert.Equal(t, domain.PolicyBox, got.Policy())
		assert.Contains(t, w.Body.String(), `"policy":"box"`)
		assert.Contains(t, w.Body.String(), `"stage":"daily_review"`)
	})

	t.Run("passes the filter", func(t *testing.T) {
		t.Parallel()

		reviews := mocks.NewMockCardReviewService(mocks.WithNextCard(testCard(t, domain.PolicyBox)))
		w := do(t, newRouter(reviews, &mocks.MockCardService{}), http.MethodGet,
			"/api/cards/next?policy=box&stage=weekly", "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []card_review.Filter{{Policy: domain.PolicyBox, Stage: domain.StageWeekly}}, reviews.Filters())
	})

	t.Run("idle", func(t *testing.T) {
		t.Parallel()

		reviews := mocks.NewMockCardReviewService(mocks.WithError(card_review.ErrNoCardsDue))
		w := do(t, newRouter(reviews, &mocks.MockCardService{}), http.MethodGet, "/api/cards/next", "")

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("bad filter", func(t *testing.T) {
		t.Parallel()

		tests := []string{"?policy=leitner", "?stage=monthly", "?policy=interval&stage=weekly"}
		for _, query := range tests {
			reviews := mocks.NewMockCardReviewService()
			w := do(t, newRouter(reviews, &mocks.MockCardService{}), http.MethodGet, "/api/cards/next"+query, "")
			assert.Equal(t, http.StatusBadRequest, w.Code, query)
			assert.Empty(t, reviews.Filters(), query)
		}
	})

	t.Run("service failure is not leaked", func(t *testing.T) {
		t.Parallel()

		reviews := mocks.NewMockCardReviewService(mocks.WithError(
			card_review.NewNextDueError("failed to load due cards", errors.New("SELECT failed on /var/lib/notea.db"))))
		w := do(t, newRouter(reviews, &mocks.MockCardService{}), http.MethodGet, "/api/cards/next", "")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Failed to get next review card", decodeError(t, w))
		assert.NotContains(t, w.Body.String(), "notea.db")
	})
}

func TestSubmitAnswer(t *testing.T) {
	t.Parallel()

	t.Run("returns the rescheduled card", func(t *testing.T) {
		t.Parallel()

		card := testCard(t, domain.PolicyInterval)
		updated := *card
		updated.State = domain.IntervalState{Interval: 4, EaseFactor: 2.5, Repetitions: 1}
		updated.NextDueAt = fixedNow.AddDate(0, 0, 4)
		updated.Version = 2

		reviews := mocks.NewMockCardReviewService(mocks.WithUpdatedCard(&updated))
		w := do(t, newRouter(reviews, &mocks.MockCardService{}), http.MethodPost,
			"/api/cards/"+card.ID.String()+"/answer", `{"outcome":"easy"}`)

		require.Equal(t, http.StatusOK, w.Code)
		got := decodeCard(t, w)
		state, ok := got.IntervalState()
		require.True(t, ok)
		assert.Equal(t, 4, state.Interval)
		assert.Equal(t, int64(2), got.Version)

		ids, answers := reviews.Answers()
		assert.Equal(t, []uuid.UUID{card.ID}, ids)
		assert.Equal(t, []card_review.ReviewAnswer{{Outcome: domain.ReviewOutcomeEasy}}, answers)
	})

	t.Run("the review time comes from the clock", func(t *testing.T) {
		t.Parallel()

		var seen time.Time
		reviews := mocks.NewMockCardReviewService()
		reviews.SubmitAnswerFn = func(_ context.Context, _ uuid.UUID, _ card_review.ReviewAnswer, now time.Time) (*domain.Card, error) {
			seen = now
			return testCard(t, domain.PolicyBox), nil
		}

		w := do(t, newRouter(reviews, &mocks.MockCardService{}), http.MethodPost,
			"/api/cards/"+uuid.NewString()+"/answer", `{"outcome":"correct"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, fixedNow, seen)
	})

	tests := []struct {
		name       string
		path       string
		body       string
		serviceErr error
		wantStatus int
		wantError  string
	}{
		{
			name:       "invalid card id",
			path:       "/api/cards/not-a-uuid/answer",
			body:       `{"outcome":"correct"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid ID format",
		},
		{
			name:       "malformed body",
			body:       `{"outcome":`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid request format",
		},
		{
			name:       "missing outcome",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid Outcome: required field",
		},
		{
			name:       "unknown outcome",
			body:       `{"outcome":"again"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid Outcome: invalid value",
		},
		{
			name:       "card not found",
			body:       `{"outcome":"correct"}`,
			serviceErr: card_review.ErrCardNotFound,
			wantStatus: http.StatusNotFound,
			wantError:  "Card not found",
		},
		{
			name:       "policy mismatch",
			body:       `{"outcome":"easy"}`,
			serviceErr: fmt.Errorf("apply: %w", card_review.ErrPolicyMismatch),
			wantStatus: http.StatusConflict,
			wantError:  "Outcome does not match the card's scheduling policy",
		},
		{
			name:       "concurrent review",
			body:       `{"outcome":"correct"}`,
			serviceErr: fmt.Errorf("%w: %w", card_review.ErrConcurrentReview, store.ErrVersionConflict),
			wantStatus: http.StatusConflict,
			wantError:  "Card was reviewed concurrently, reload it and try again",
		},
		{
			name:       "store failure",
			body:       `{"outcome":"correct"}`,
			serviceErr: card_review.NewSubmitAnswerError("failed to get card", errors.New("connection refused")),
			wantStatus: http.StatusInternalServerError,
			wantError:  "Failed to submit answer",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			reviews := mocks.NewMockCardReviewService(
				mocks.WithUpdatedCard(testCard(t, domain.PolicyBox)),
				mocks.WithError(tc.serviceErr))
			path := tc.path
			if path == "" {
				path = "/api/cards/" + uuid.NewString() + "/answer"
			}

			w := do(t, newRouter(reviews, &mocks.MockCardService{}), http.MethodPost, path, tc.body)

			assert.Equal(t, tc.wantStatus, w.Code)
			assert.Equal(t, tc.wantError, decodeError(t, w))
		})
	}
}

func TestCreateCard(t *testing.T) {
	t.Parallel()

	t.Run("created", func(t *testing.T) {
		t.Parallel()

		card := testCard(t, domain.PolicyBox)
		cards := &mocks.MockCardService{}
		cards.On("CreateCard", mock.Anything, service.NewCardRequest{
			Front: "hola", Back: "hello", Policy: domain.PolicyBox,
		}, fixedNow).Return(card, nil).Once()

		w := do(t, newRouter(mocks.NewMockCardReviewService(), cards), http.MethodPost, "/api/cards",
			`{"front":"hola","back":"hello","policy":"box"}`)

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, card.ID, decodeCard(t, w).ID)
		cards.AssertExpectations(t)
	})

	tests := []struct {
		name      string
		body      string
		wantError string
	}{
		{name: "missing front", body: `{"back":"b","policy":"box"}`, wantError: "Invalid Front: required field"},
		{name: "unknown policy", body: `{"front":"f","back":"b","policy":"sm2"}`, wantError: "Invalid Policy: invalid value"},
		{name: "client-chosen id", body: `{"id":"x","front":"f","back":"b","policy":"box"}`, wantError: "Invalid request format"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cards := &mocks.MockCardService{}
			w := do(t, newRouter(mocks.NewMockCardReviewService(), cards), http.MethodPost, "/api/cards", tc.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tc.wantError, decodeError(t, w))
			cards.AssertNotCalled(t, "CreateCard", mock.Anything, mock.Anything, mock.Anything)
		})
	}

	t.Run("blank content rejected by the service", func(t *testing.T) {
		t.Parallel()

		cards := &mocks.MockCardService{}
		cards.On("CreateCard", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("%w: %w", service.ErrInvalidCard, domain.ErrCardFrontEmpty))

		w := do(t, newRouter(mocks.NewMockCardReviewService(), cards), http.MethodPost, "/api/cards",
			`{"front":"  ","back":"b","policy":"interval"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid card data", decodeError(t, w))
	})
}

func TestCardReadAndDelete(t *testing.T) {
	t.Parallel()

	card := testCard(t, domain.PolicyInterval)
	missing := uuid.New()
	notFound := service.NewCardServiceError("get_card", "card not found", store.ErrCardNotFound)

	cards := &mocks.MockCardService{}
	cards.On("GetCard", mock.Anything, card.ID).Return(card, nil)
	cards.On("GetCard", mock.Anything, missing).Return(nil, notFound)
	cards.On("DeleteCard", mock.Anything, card.ID).Return(nil)
	cards.On("DeleteCard", mock.Anything, missing).Return(notFound)
	cards.On("ListReviews", mock.Anything, card.ID, 5).Return([]domain.ReviewLog{{
		ID: uuid.New(), CardID: card.ID, Policy: domain.PolicyInterval, Outcome: domain.ReviewOutcomeHard,
		ReviewedAt: fixedNow, NextDueAt: fixedNow.AddDate(0, 0, 1), Interval: 1, EaseFactor: 2.35,
	}}, nil)
	cards.On("ListReviews", mock.Anything, missing, 0).Return(nil, notFound)

	router := newRouter(mocks.NewMockCardReviewService(), cards)

	w := do(t, router, http.MethodGet, "/api/cards/"+card.ID.String(), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, card.ID, decodeCard(t, w).ID)

	w = do(t, router, http.MethodGet, "/api/cards/"+missing.String(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Card not found", decodeError(t, w))

	w = do(t, router, http.MethodGet, "/api/cards/"+card.ID.String()+"/reviews?limit=5", "")
	require.Equal(t, http.StatusOK, w.Code)
	var history api.ReviewHistoryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	assert.Equal(t, card.ID, history.CardID)
	require.Len(t, history.Reviews, 1)
	assert.Equal(t, domain.ReviewOutcomeHard, history.Reviews[0].Outcome)

	w = do(t, router, http.MethodGet, "/api/cards/"+missing.String()+"/reviews", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, router, http.MethodGet, "/api/cards/"+card.ID.String()+"/reviews?limit=-1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, http.MethodDelete, "/api/cards/"+card.ID.String(), "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, router, http.MethodDelete, "/api/cards/"+missing.String(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSummary(t *testing.T) {
	t.Parallel()

	summary := domain.NewDeckSummary()
	summary.Add(*testCard(t, domain.PolicyBox), true)
	summary.Add(*testCard(t, domain.PolicyInterval), false)

	cards := &mocks.MockCardService{}
	cards.On("Summary", mock.Anything, fixedNow).Return(summary, nil)

	w := do(t, newRouter(mocks.NewMockCardReviewService(), cards), http.MethodGet, "/api/decks/summary", "")

	require.Equal(t, http.StatusOK, w.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.EqualValues(t, 2, got["total"])
	assert.EqualValues(t, 1, got["due"])
	assert.Equal(t, map[string]any{"box": 1.0, "interval": 1.0}, got["by_policy"])
	assert.EqualValues(t, 1, got["due_by_stage"].(map[string]any)["daily_review"])
}
