package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/noteaapp/notea/internal/domain"
	"github.com/noteaapp/notea/internal/platform/logger"
	"github.com/noteaapp/notea/internal/store"
)

// CardServiceError is a custom error type for card service errors.
type CardServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for CardServiceError.
func (e *CardServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("card service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("card service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *CardServiceError) Unwrap() error {
	return e.Err
}

// NewCardServiceError creates a new CardServiceError.
func NewCardServiceError(operation, message string, err error) *CardServiceError {
	return &CardServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// NewCardRequest describes a card to create.
type NewCardRequest struct {
	Front  string        `json:"front"  validate:"required"`
	Back   string        `json:"back"   validate:"required"`
	Policy domain.Policy `json:"policy" validate:"required"`
}

// CardService provides deck-level card operations.
type CardService interface {
	// CreateCard creates one card, due at now.
	CreateCard(ctx context.Context, req NewCardRequest, now time.Time) (*domain.Card, error)

	// CreateCards stores cards in a single transaction: either all of them
	// are created or none is.
	CreateCards(ctx context.Context, cards []*domain.Card) error

	// GetCard retrieves a card by its ID
	GetCard(ctx context.Context, cardID uuid.UUID) (*domain.Card, error)

	// DeleteCard removes a card and its review history.
	DeleteCard(ctx context.Context, cardID uuid.UUID) error

	// ListReviews returns the card's review history, newest first. A limit
	// of zero returns every entry.
	ListReviews(ctx context.Context, cardID uuid.UUID, limit int) ([]domain.ReviewLog, error)

	// Summary counts the deck per policy and per stage.
	Summary(ctx context.Context, now time.Time) (*domain.DeckSummary, error)
}

// cardServiceImpl implements the CardService interface
type cardServiceImpl struct {
	db         *sql.DB
	cardStore  store.CardStore
	reviewLogs store.ReviewLogStore
	logger     *slog.Logger
}

var _ CardService = (*cardServiceImpl)(nil)

// NewCardService creates a new CardService.
// It returns an error if any of the required dependencies are nil.
func NewCardService(
	db *sql.DB,
	cardStore store.CardStore,
	reviewLogs store.ReviewLogStore,
	logger *slog.Logger,
) (CardService, error) {
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
	}
	if cardStore == nil {
		return nil, domain.NewValidationError("cardStore", "cannot be nil", domain.ErrValidation)
	}
	if reviewLogs == nil {
		return nil, domain.NewValidationError("reviewLogs", "cannot be nil", domain.ErrValidation)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &cardServiceImpl{
		db:         db,
		cardStore:  cardStore,
		reviewLogs: reviewLogs,
		logger:     logger.With(slog.String("component", "card_service")),
	}, nil
}

// CreateCard implements CardService.CreateCard
func (s *cardServiceImpl) CreateCard(
	ctx context.Context,
	req NewCardRequest,
	now time.Time,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := domain.NewCard(req.Front, req.Back, req.Policy, now)
	if err != nil {
		log.Warn("invalid card", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", ErrInvalidCard, err)
	}

	if err := s.cardStore.Create(ctx, card); err != nil {
		log.Error("failed to create card",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return nil, NewCardServiceError("create_card", "failed to save card", err)
	}

	log.Info("card created",
		slog.String("card_id", card.ID.String()),
		slog.String("policy", card.Policy().String()))
	return card, nil
}

// CreateCards implements CardService.CreateCards
func (s *cardServiceImpl) CreateCards(ctx context.Context, cards []*domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(cards) == 0 {
		log.Debug("no cards to create")
		return nil
	}

	log.Debug("creating cards in transaction", slog.Int("card_count", len(cards)))

	return store.RunInTransaction(
		ctx,
		s.db,
		func(ctx context.Context, tx *sql.Tx) error {
			txCards := s.cardStore.WithTx(tx)

			for i, card := range cards {
				if err := txCards.Create(ctx, card); err != nil {
					log.Error("failed to create card in transaction",
						slog.String("error", err.Error()),
						slog.Int("index", i))
					if errors.Is(err, store.ErrInvalidEntity) {
						return fmt.Errorf("%w: card %d: %w", ErrInvalidCard, i+1, err)
					}
					return NewCardServiceError("create_cards", "failed to save cards", err)
				}
			}

			log.Info("successfully created cards in transaction",
				slog.Int("card_count", len(cards)))
			return nil
		},
	)
}

// GetCard implements CardService.GetCard
func (s *cardServiceImpl) GetCard(ctx context.Context, cardID uuid.UUID) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := s.cardStore.GetByID(ctx, cardID)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("card not found", slog.String("card_id", cardID.String()))
			return nil, NewCardServiceError("get_card", "card not found", store.ErrCardNotFound)
		}
		log.Error("failed to retrieve card",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return nil, NewCardServiceError("get_card", "failed to retrieve card", err)
	}

	return card, nil
}

// DeleteCard implements CardService.DeleteCard
func (s *cardServiceImpl) DeleteCard(ctx context.Context, cardID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.cardStore.Delete(ctx, cardID); err != nil {
		if store.IsNotFoundError(err) {
			return NewCardServiceError("delete_card", "card not found", store.ErrCardNotFound)
		}
		log.Error("failed to delete card",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return NewCardServiceError("delete_card", "failed to delete card", err)
	}

	log.Info("card deleted", slog.String("card_id", cardID.String()))
	return nil
}

// ListReviews implements CardService.ListReviews
func (s *cardServiceImpl) ListReviews(
	ctx context.Context,
	cardID uuid.UUID,
	limit int,
) ([]domain.ReviewLog, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// An unknown card is a 404, not an empty history.
	if _, err := s.GetCard(ctx, cardID); err != nil {
		return nil, err
	}

	logs, err := s.reviewLogs.ListByCard(ctx, cardID, limit)
	if err != nil {
		log.Error("failed to list reviews",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return nil, NewCardServiceError("list_reviews", "failed to list reviews", err)
	}
	if logs == nil {
		logs = []domain.ReviewLog{}
	}
	return logs, nil
}

// Summary implements CardService.Summary
func (s *cardServiceImpl) Summary(ctx context.Context, now time.Time) (*domain.DeckSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	summary, err := s.cardStore.CountByStage(ctx, now)
	if err != nil {
		log.Error("failed to count cards", slog.String("error", err.Error()))
		return nil, NewCardServiceError("summary", "failed to count cards", err)
	}
	return summary, nil
}
