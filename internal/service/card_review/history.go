package card_review

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/noteaapp/notea/internal/events"
	"github.com/noteaapp/notea/internal/platform/logger"
	"github.com/noteaapp/notea/internal/store"
)

// ReviewLogHandler appends every recorded review to the review log store.
type ReviewLogHandler struct {
	logs   store.ReviewLogStore
	logger *slog.Logger
}

var _ events.EventHandler = (*ReviewLogHandler)(nil)

// NewReviewLogHandler returns a handler writing to logs.
func NewReviewLogHandler(logs store.ReviewLogStore, logger *slog.Logger) *ReviewLogHandler {
	if logs == nil {
		panic("review log store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReviewLogHandler{
		logs:   logs,
		logger: logger.With(slog.String("component", "review_log_handler")),
	}
}

// HandleEvent implements events.EventHandler. Other event types are ignored.
func (h *ReviewLogHandler) HandleEvent(ctx context.Context, event *events.Event) error {
	if event.Type != events.TypeReviewRecorded {
		return nil
	}

	var payload events.ReviewRecorded
	if err := event.UnmarshalPayload(&payload); err != nil {
		return fmt.Errorf("failed to decode %s event %s: %w", event.Type, event.ID, err)
	}

	if err := h.logs.Append(ctx, &payload.Log); err != nil {
		return fmt.Errorf("failed to append review log: %w", err)
	}

	logger.FromContextOrDefault(ctx, h.logger).Debug("review logged",
		slog.String("card_id", payload.Log.CardID.String()),
		slog.String("outcome", string(payload.Log.Outcome)))
	return nil
}
