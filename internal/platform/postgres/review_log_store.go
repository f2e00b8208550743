package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/noteaapp/notea/internal/domain"
	"github.com/noteaapp/notea/internal/platform/logger"
	"github.com/noteaapp/notea/internal/store"
)

// PostgresReviewLogStore implements the store.ReviewLogStore interface.
type PostgresReviewLogStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresReviewLogStore creates a new PostgreSQL implementation of the ReviewLogStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresReviewLogStore(db store.DBTX, logger *slog.Logger) *PostgresReviewLogStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresReviewLogStore{
		db:     db,
		logger: logger.With(slog.String("component", "review_log_store")),
	}
}

var _ store.ReviewLogStore = (*PostgresReviewLogStore)(nil)

// Append implements store.ReviewLogStore.Append
func (s *PostgresReviewLogStore) Append(ctx context.Context, entry *domain.ReviewLog) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := entry.Validate(); err != nil {
		log.Warn("review log validation failed",
			slog.String("error", err.Error()),
			slog.String("card_id", entry.CardID.String()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	row := store.NewReviewLogRow(entry)
	query := `
		INSERT INTO review_logs
			(id, card_id, policy, outcome, reviewed_at, next_due_at, stage, interval_days, ease_factor)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(ctx, query,
		row.ID, row.CardID, row.Policy, row.Outcome,
		row.ReviewedAt, row.NextDueAt,
		row.Stage, row.IntervalDays, row.EaseFactor,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("review log references unknown card",
				slog.String("card_id", entry.CardID.String()))
			return store.ErrCardNotFound
		}
		log.Error("failed to append review log",
			slog.String("error", err.Error()),
			slog.String("card_id", entry.CardID.String()))
		return store.NewStoreError("review_log", "append", "insert failed", MapError(err))
	}

	log.Debug("review log appended",
		slog.String("card_id", entry.CardID.String()),
		slog.String("outcome", row.Outcome))
	return nil
}

// ListByCard implements store.ReviewLogStore.ListByCard
func (s *PostgresReviewLogStore) ListByCard(
	ctx context.Context,
	cardID uuid.UUID,
	limit int,
) ([]domain.ReviewLog, error) {
	query := `
		SELECT id, card_id, policy, outcome, reviewed_at, next_due_at, stage, interval_days, ease_factor
		FROM review_logs
		WHERE card_id = $1
		ORDER BY reviewed_at DESC, id
	`
	args := []any{cardID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, store.NewStoreError("review_log", "list", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var entries []domain.ReviewLog
	for rows.Next() {
		var row store.ReviewLogRow
		if err := rows.Scan(
			&row.ID, &row.CardID, &row.Policy, &row.Outcome,
			&row.ReviewedAt, &row.NextDueAt,
			&row.Stage, &row.IntervalDays, &row.EaseFactor,
		); err != nil {
			return nil, store.NewStoreError("review_log", "list", "scan failed", err)
		}
		entry, err := row.ToReviewLog()
		if err != nil {
			return nil, store.NewStoreError("review_log", "list", "invalid row", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("review_log", "list", "row iteration failed", MapError(err))
	}

	return entries, nil
}

// WithTx implements store.ReviewLogStore.WithTx
func (s *PostgresReviewLogStore) WithTx(tx *sql.Tx) store.ReviewLogStore {
	return &PostgresReviewLogStore{
		db:     tx,
		logger: s.logger,
	}
}
