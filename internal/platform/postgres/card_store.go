package postgres

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

// PostgresCardStore implements the store.CardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStore creates a new PostgreSQL implementation of the CardStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresCardStore(db store.DBTX, logger *slog.Logger) *PostgresCardStore {
	// Validate inputs
	if db == nil {
		panic("db cannot be nil")
	}

	// Use provided logger or create default
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

// Ensure PostgresCardStore implements store.CardStore interface
var _ store.CardStore = (*PostgresCardStore)(nil)

// Create implements store.CardStore.Create
func (s *PostgresCardStore) Create(ctx context.Context, card *domain.Card) error {
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

	query := `
		INSERT INTO cards (` + cardColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, 1)
	`
	_, err = s.db.ExecContext(ctx, query,
		row.ID, row.Front, row.Back, row.Policy,
		row.BoxStage, row.CorrectCount, row.IncorrectCount,
		row.IntervalDays, row.EaseFactor, row.Repetitions,
		row.NextDueAt, row.LastReviewedAt, row.CreatedAt, row.UpdatedAt,
	)
	if err != nil {
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
func (s *PostgresCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("retrieving card by ID", slog.String("card_id", id.String()))

	query := `SELECT ` + cardColumns + ` FROM cards WHERE id = $1`
	card, err := scanCard(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("card not found", slog.String("card_id", id.String()))
			return nil, store.ErrCardNotFound
		}
		log.Error("failed to get card",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return nil, store.NewStoreError("card", "get", "query failed", MapError(err))
	}

	return card, nil
}

// LoadDueCards implements store.CardStore.LoadDueCards
func (s *PostgresCardStore) LoadDueCards(ctx context.Context, now time.Time) ([]domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + cardColumns + `
		FROM cards
		WHERE next_due_at <= $1
		ORDER BY next_due_at, id
	`
	rows, err := s.db.QueryContext(ctx, query, now.UTC())
	if err != nil {
		log.Error("failed to query due cards", slog.String("error", err.Error()))
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

	log.Debug("loaded due cards", slog.Int("count", len(cards)))
	return cards, nil
}

// Save implements store.CardStore.Save
func (s *PostgresCardStore) Save(ctx context.Context, card *domain.Card) error {
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

	// Only scheduling columns change on update; the policy never does.
	query := `
		INSERT INTO cards (` + cardColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, 1)
		ON CONFLICT (id) DO UPDATE SET
			box_stage        = EXCLUDED.box_stage,
			correct_count    = EXCLUDED.correct_count,
			incorrect_count  = EXCLUDED.incorrect_count,
			interval_days    = EXCLUDED.interval_days,
			ease_factor      = EXCLUDED.ease_factor,
			repetitions      = EXCLUDED.repetitions,
			next_due_at      = EXCLUDED.next_due_at,
			last_reviewed_at = EXCLUDED.last_reviewed_at,
			updated_at       = EXCLUDED.updated_at,
			version          = cards.version + 1
		WHERE cards.version = $15 AND cards.policy = EXCLUDED.policy
		RETURNING version
	`
	var version int64
	err = s.db.QueryRowContext(ctx, query,
		row.ID, row.Front, row.Back, row.Policy,
		row.BoxStage, row.CorrectCount, row.IncorrectCount,
		row.IntervalDays, row.EaseFactor, row.Repetitions,
		row.NextDueAt, row.LastReviewedAt, row.CreatedAt, row.UpdatedAt,
		row.Version,
	).Scan(&version)

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
	log.Debug("card saved",
		slog.String("card_id", card.ID.String()),
		slog.Int64("version", version))
	return nil
}

// saveConflict explains why an upsert touched no row.
func (s *PostgresCardStore) saveConflict(ctx context.Context, log *slog.Logger, row store.CardRow) error {
	var (
		policy  string
		version int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT policy, version FROM cards WHERE id = $1`, row.ID,
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
func (s *PostgresCardStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete card",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return store.NewStoreError("card", "delete", "delete failed", MapError(err))
	}

	if err := CheckRowsAffected(result, "card"); err != nil {
		if store.IsNotFoundError(err) {
			return store.ErrCardNotFound
		}
		return err
	}

	log.Info("card deleted successfully", slog.String("card_id", id.String()))
	return nil
}

// CountByStage implements store.CardStore.CountByStage
func (s *PostgresCardStore) CountByStage(ctx context.Context, now time.Time) (*domain.DeckSummary, error) {
	query := `
		SELECT policy, COALESCE(box_stage, ''), next_due_at <= $1 AS due, COUNT(*)
		FROM cards
		GROUP BY policy, box_stage, due
	`
	rows, err := s.db.QueryContext(ctx, query, now.UTC())
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
// It returns a new CardStore instance that uses the provided transaction.
func (s *PostgresCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &PostgresCardStore{
		db:     tx,
		logger: s.logger,
	}
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(scanner rowScanner) (*domain.Card, error) {
	var row store.CardRow
	var lastReviewedAt sql.NullTime

	err := scanner.Scan(
		&row.ID, &row.Front, &row.Back, &row.Policy,
		&row.BoxStage, &row.CorrectCount, &row.IncorrectCount,
		&row.IntervalDays, &row.EaseFactor, &row.Repetitions,
		&row.NextDueAt, &lastReviewedAt, &row.CreatedAt, &row.UpdatedAt, &row.Version,
	)
	if err != nil {
		return nil, err
	}
	if lastReviewedAt.Valid {
		row.LastReviewedAt = &lastReviewedAt.Time
	}

	return row.ToCard()
}
