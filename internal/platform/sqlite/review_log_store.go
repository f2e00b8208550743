package sqlite

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

// ReviewLogStore implements store.ReviewLogStore on SQLite.
type ReviewLogStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewReviewLogStore returns a review log store over db.
func NewReviewLogStore(db store.DBTX, logger *slog.Logger) *ReviewLogStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ReviewLogStore{
		db:     db,
		logger: logger.With(slog.String("component", "sqlite_review_log_store")),
	}
}

var _ store.ReviewLogStore = (*ReviewLogStore)(nil)

// Append implements store.ReviewLogStore.Append
func (s *ReviewLogStore) Append(ctx context.Context, entry *domain.ReviewLog) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := entry.Validate(); err != nil {
		log.Warn("review log validation failed",
			slog.String("error", err.Error()),
			slog.String("card_id", entry.CardID.String()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	row := store.NewReviewLogRow(entry)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO review_logs
			(id, card_id, policy, outcome, reviewed_at, next_due_at, stage, interval_days, ease_factor)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.ID.String(), row.CardID.String(), row.Policy, row.Outcome,
		formatTime(row.ReviewedAt), formatTime(row.NextDueAt),
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

	return nil
}

// ListByCard implements store.ReviewLogStore.ListByCard
func (s *ReviewLogStore) ListByCard(
	ctx context.Context,
	cardID uuid.UUID,
	limit int,
) ([]domain.ReviewLog, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, card_id, policy, outcome, reviewed_at, next_due_at, stage, interval_days, ease_factor
		FROM review_logs
		WHERE card_id = ?
		ORDER BY reviewed_at DESC, id
		LIMIT ?`,
		cardID.String(), limit,
	)
	if err != nil {
		return nil, store.NewStoreError("review_log", "list", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var entries []domain.ReviewLog
	for rows.Next() {
		var (
			row        store.ReviewLogRow
			reviewedAt string
			nextDueAt  string
		)
		if err := rows.Scan(
			&row.ID, &row.CardID, &row.Policy, &row.Outcome,
			&reviewedAt, &nextDueAt,
			&row.Stage, &row.IntervalDays, &row.EaseFactor,
		); err != nil {
			return nil, store.NewStoreError("review_log", "list", "scan failed", err)
		}
		if row.ReviewedAt, err = parseTime(reviewedAt); err != nil {
			return nil, store.NewStoreError("review_log", "list", "invalid row", err)
		}
		if row.NextDueAt, err = parseTime(nextDueAt); err != nil {
			return nil, store.NewStoreError("review_log", "list", "invalid row", err)
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
func (s *ReviewLogStore) WithTx(tx *sql.Tx) store.ReviewLogStore {
	return &ReviewLogStore{db: tx, logger: s.logger}
}
