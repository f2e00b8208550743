package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/noteaapp/notea/internal/api/shared"
	"github.com/noteaapp/notea/internal/domain"
	"github.com/noteaapp/notea/internal/platform/logger"
	"github.com/noteaapp/notea/internal/redact"
	"github.com/noteaapp/notea/internal/service"
	"github.com/noteaapp/notea/internal/service/card_review"
)

// CardHandler handles card-related HTTP requests
type CardHandler struct {
	cardReviewService card_review.CardReviewService
	cardService       service.CardService
	now               func() time.Time
	logger            *slog.Logger
}

// HandlerOption configures a CardHandler.
type HandlerOption func(*CardHandler)

// WithClock replaces time.Now as the source of the review time.
func WithClock(now func() time.Time) HandlerOption {
	return func(h *CardHandler) { h.now = now }
}

// NewCardHandler creates a new CardHandler
func NewCardHandler(
	cardReviewService card_review.CardReviewService,
	cardService service.CardService,
	logger *slog.Logger,
	opts ...HandlerOption,
) *CardHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CardHandler")
	}

	h := &CardHandler{
		cardReviewService: cardReviewService,
		cardService:       cardService,
		now:               time.Now,
		logger:            logger.With(slog.String("component", "card_handler")),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *CardHandler) clock() time.Time {
	return h.now().UTC()
}

// decodeAndValidate decodes the body into req and validates it. It writes a
// 400 response and returns false on failure.
func (h *CardHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, req any) bool {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	if err := shared.DecodeJSON(w, r, req); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return false
	}

	if err := shared.ValidateRequest(req); err != nil {
		log.Warn("validation error", slog.String("error", redact.Error(err)))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return false
	}
	return true
}

// CreateCard handles POST /cards requests.
func (h *CardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateCardRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	policy, err := domain.ParsePolicy(req.Policy)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	card, err := h.cardService.CreateCard(r.Context(), service.NewCardRequest{
		Front:  req.Front,
		Back:   req.Back,
		Policy: policy,
	}, h.clock())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create card")
		return
	}

	log.Debug("card created", slog.String("card_id", card.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, card)
}

// GetCard handles GET /cards/{id} requests.
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	cardID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	card, err := h.cardService.GetCard(r.Context(), cardID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get card")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, card)
}

// DeleteCard handles DELETE /cards/{id} requests.
func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	cardID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.cardService.DeleteCard(r.Context(), cardID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete card")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetNextReviewCard handles GET /cards/next requests. The optional policy
// and stage query parameters narrow the selection. It answers 204 when no
// card is due.
func (h *CardHandler) GetNextReviewCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	filter, err := getFilter(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	card, err := h.cardReviewService.NextDue(r.Context(), h.clock(), filter)
	if errors.Is(err, card_review.ErrNoCardsDue) {
		log.Debug("no cards due for review")
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get next review card")
		return
	}

	log.Debug("successfully retrieved next review card", slog.String("card_id", card.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, card)
}

// SubmitAnswer handles POST /cards/{id}/answer requests
// It applies the learner's outcome and returns the rescheduled card.
func (h *CardHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	cardID, err := getPathUUID(r, "id")
	if err != nil {
		log.Warn("invalid card ID", slog.String("error", err.Error()))
		HandleAPIError(w, r, err, "")
		return
	}

	var req SubmitAnswerRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	outcome := domain.ReviewOutcome(req.Outcome)
	card, err := h.cardReviewService.SubmitAnswer(
		r.Context(),
		cardID,
		card_review.ReviewAnswer{Outcome: outcome},
		h.clock(),
	)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to submit answer")
		return
	}

	log.Debug("successfully submitted answer",
		slog.String("card_id", cardID.String()),
		slog.String("outcome", string(outcome)))
	shared.RespondWithJSON(w, r, http.StatusOK, card)
}

// ListReviews handles GET /cards/{id}/reviews requests.
func (h *CardHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	cardID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	limit, err := getLimit(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	reviews, err := h.cardService.ListReviews(r.Context(), cardID, limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list reviews")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ReviewHistoryResponse{CardID: cardID, Reviews: reviews})
}

// Summary handles GET /decks/summary requests.
func (h *CardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.cardService.Summary(r.Context(), h.clock())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to summarize deck")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, summary)
}
