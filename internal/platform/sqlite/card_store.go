package sqlite

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

const cardColumns = `
	id, front, back, policy,
	box_stage, correct_count, incorrect_count,
	interval_days, ease_factor, repetitions,
	next_due_at, last_reviewed_at, created_at, updated_at, version`

// CardStore implements store.CardStore on SQLite.
type CardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewCardStore returns a card store over db. If logger is nil, a default
// logger is used.
func NewCardStore(db store.DBTX, logger *slog.Logger) *CardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &CardStore{
		db:     db,
		logger: logger.With(slog.String("component", "sqlite_card_store")),
	}
}

var _ store.CardStore = (*CardStore)(nil)

func cardArgs(row store.CardRow) []any {
	return []any{
		row.ID.String(), row.Front, row.Back, row.Policy,
		row.BoxStage, row.CorrectCount, row.IncorrectCount,
		row.IntervalDays, row.EaseFactor, row.Repetitions,
		formatTime(row.NextDueAt), formatNullTime(row.LastReviewedAt),
		formatTime(row.CreatedAt), formatTime(row.UpdatedAt),
	}
}

// Create implements store.CardStore.Create
func (s *CardStore) Create(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during create",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	row, err := store.NewCardRow(card)
	if err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `INSERT INTO cards (` + cardColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)`
	if _, err := s.db.ExecContext(ctx, query, cardArgs(row)...); err != nil {
		log.Error("failed to create card",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return store.NewStoreError("card", "create", "insert failed", MapError(err))
	}

	card.Version = 1
	log.Info("card created successfully",
		slog.String("card_id", card.ID.String()),
		slog.String("policy", row.Policy))
	return nil
}

// GetByID implements store.CardStore.GetByID
func (s *CardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE id = ?`
	card, err := scanCard(s.db.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCardNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get card",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return nil, store.NewStoreError("card", "get", "query failed", MapError(err))
	}
	return card, nil
}

// LoadDueCards implements store.CardStore.LoadDueCards
func (s *CardStore) LoadDueCards(ctx context.Context, now time.Time) ([]domain.Card, error) {
	query := `SELECT ` + cardColumns + `
		FROM cards
		WHERE next_due_at <= ?
		ORDER BY next_due_at, id`
	rows, err := s.db.QueryContext(ctx, query, formatTime(now))
	if err != nil {
		return nil, store.NewStoreError("card", "load_due", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var cards []domain.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, store.NewStoreError("card", "load_due", "scan failed", err)
		}
		cards = append(cards, *card)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("card", "load_due", "row iteration failed", MapError(err))
	}
	return cards, nil
}

// Save implements store.CardStore.Save
func (s *CardStore) Save(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during save",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	row, err := store.NewCardRow(card)
	if err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `INSERT INTO cards (` + cardColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)
		ON CONFLICT (id) DO UPDATE SET
			box_stage        = excluded.box_stage,
			correct_count    = excluded.correct_count,
			incorrect_count  = excluded.incorrect_count,
			interval_days    = excluded.interval_days,
			ease_factor      = excluded.ease_factor,
			repetitions      = excluded.repetitions,
			next_due_at      = excluded.next_due_at,
			last_reviewed_at = excluded.last_reviewed_at,
			updated_at       = excluded.updated_at,
			version          = cards.version + 1
		WHERE cards.version = ? AND cards.policy = excluded.policy
		RETURNING version`

	var version int64
	err = s.db.QueryRowContext(ctx, query, append(cardArgs(row), row.Version)...).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return s.saveConflict(ctx, log, row)
	}
	if err != nil {
		log.Error("failed to save card",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return store.NewStoreError("card", "save", "upsert failed", MapError(err))
	}

	card.Version = version
	return nil
}

func (s *CardStore) saveConflict(ctx context.Context, log *slog.Logger, row store.CardRow) error {
	var (
		policy  string
		version int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT policy, version FROM cards WHERE id = ?`, row.ID.String(),
	).Scan(&policy, &version)
	if err != nil {
		return store.NewStoreError("card", "save", "conflict lookup failed", MapError(err))
	}

	if policy != row.Policy {
		log.Warn("rejected policy change",
			slog.String("card_id", row.ID.String()),
			slog.String("stored_policy", policy),
			slog.String("policy", row.Policy))
		return store.ErrPolicyChange
	}

	log.Warn("card version conflict",
		slog.String("card_id", row.ID.String()),
		slog.Int64("stored_version", version),
		slog.Int64("version", row.Version))
	return store.ErrVersionConflict
}

// Delete implements store.CardStore.Delete
func (s *CardStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id.String())
	if err != nil {
		log.Error("failed to delete card",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return store.NewStoreError("card", "delete", "delete failed", MapError(err))
	}
	if err := checkRowsAffected(result); err != nil {
		if store.IsNotFoundError(err) {
			return store.ErrCardNotFound
		}
		return err
	}

	log.Info("card deleted successfully", slog.String("card_id", id.String()))
	return nil
}

// CountByStage implements store.CardStore.CountByStage
func (s *CardStore) CountByStage(ctx context.Context, now time.Time) (*domain.DeckSummary, error) {
	query := `SELECT policy, COALESCE(box_stage, ''), next_due_at <= ? AS due, COUNT(*)
		FROM cards
		GROUP BY policy, box_stage, due`
	rows, err := s.db.QueryContext(ctx, query, formatTime(now))
	if err != nil {
		return nil, store.NewStoreError("card", "count", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	summary := domain.NewDeckSummary()
	for rows.Next() {
		var (
			policy, stage string
			due           bool
			count         int
		)
		if err := rows.Scan(&policy, &stage, &due, &count); err != nil {
			return nil, store.NewStoreError("card", "count", "scan failed", err)
		}
		if err := store.AddCount(summary, policy, stage, due, count); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("card", "count", "row iteration failed", MapError(err))
	}
	return summary, nil
}

// WithTx implements store.CardStore.WithTx
func (s *CardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &CardStore{db: tx, logger: s.logger}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(scanner rowScanner) (*domain.Card, error) {
	var (
		row            store.CardRow
		nextDueAt      string
		createdAt      string
		updatedAt      string
		lastReviewedAt sql.NullString
	)
	err := scanner.Scan(
		&row.ID, &row.Front, &row.Back, &row.Policy,
		&row.BoxStage, &row.CorrectCount, &row.IncorrectCount,
		&row.IntervalDays, &row.EaseFactor, &row.Repetitions,
		&nextDueAt, &lastReviewedAt, &createdAt, &updatedAt, &row.Version,
	)
	if err != nil {
		return nil, err
	}

	if row.NextDueAt, err = parseTime(nextDueAt); err != nil {
		return nil, err
	}
	if row.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if row.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	if row.LastReviewedAt, err = parseNullTime(lastReviewedAt); err != nil {
		return nil, err
	}

	return row.ToCard()
}
