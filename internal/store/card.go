package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/noteaapp/notea/internal/domain"
)

// CardStore defines the interface for card data persistence.
type CardStore interface {
	// Create inserts a new card. The card must be valid according to domain
	// validation rules. On success card.Version is set to 1.
	// Returns ErrDuplicate if a card with the same ID exists.
	Create(ctx context.Context, card *domain.Card) error

	// GetByID retrieves a card by its unique ID.
	// Returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// LoadDueCards returns every card whose next due time is at or before now,
	// ordered by due time.
	LoadDueCards(ctx context.Context, now time.Time) ([]domain.Card, error)

	// Save upserts a card after a review.
	//
	// A card that does not exist yet is inserted. An existing card is only
	// updated when its stored version equals card.Version; otherwise
	// ErrVersionConflict is returned and nothing is written. On success
	// card.Version holds the new stored version.
	//
	// The card's policy is fixed at creation: saving a card whose state
	// belongs to another policy than the stored one returns ErrPolicyChange.
	Save(ctx context.Context, card *domain.Card) error

	// Delete removes a card from the store by its ID. Review logs of the card
	// are removed with it.
	// Returns ErrCardNotFound if the card does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// CountByStage aggregates the collection: totals, due counts, per-policy
	// counts and per-stage counts of box cards.
	CountByStage(ctx context.Context, now time.Time) (*domain.DeckSummary, error)

	// WithTx returns a new CardStore instance that uses the provided transaction.
	// This allows for multiple operations to be executed within a single transaction.
	// The transaction should be created and managed by the caller (typically a service).
	//
	// Example usage:
	//   err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
	//       txCardStore := cardStore.WithTx(tx)
	//       return txCardStore.Save(ctx, card)
	//   })
	WithTx(tx *sql.Tx) CardStore
}
