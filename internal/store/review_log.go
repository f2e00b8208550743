package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/noteaapp/notea/internal/domain"
)

// ReviewLogStore defines the interface for review history persistence.
type ReviewLogStore interface {
	// Append records a review. The referenced card must exist.
	// Returns ErrCardNotFound if it does not.
	Append(ctx context.Context, entry *domain.ReviewLog) error

	// ListByCard returns the most recent reviews of a card, newest first.
	// A limit of zero or less returns every review.
	ListByCard(ctx context.Context, cardID uuid.UUID, limit int) ([]domain.ReviewLog, error)

	// WithTx returns a new ReviewLogStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ReviewLogStore
}
