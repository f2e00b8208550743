package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/noteaapp/notea/internal/domain"
)

// CardRow is the flat, column-per-field form of a card used by the SQL stores.
// Exactly one group of policy columns is set: the box columns for box cards,
// the interval columns for interval cards.
type CardRow struct {
	ID             uuid.UUID
	Front          string
	Back           string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	LastReviewedAt *time.Time
	NextDueAt      time.Time
	Policy         string
	Version        int64

	BoxStage       sql.NullString
	CorrectCount   sql.NullInt64
	IncorrectCount sql.NullInt64

	IntervalDays sql.NullInt64
	EaseFactor   sql.NullFloat64
	Repetitions  sql.NullInt64
}

// NewCardRow flattens card into a row.
func NewCardRow(card *domain.Card) (CardRow, error) {
	row := CardRow{
		ID:             card.ID,
		Front:          card.Front,
		Back:           card.Back,
		CreatedAt:      card.CreatedAt.UTC(),
		UpdatedAt:      card.UpdatedAt.UTC(),
		LastReviewedAt: utcPtr(card.LastReviewedAt),
		NextDueAt:      card.NextDueAt.UTC(),
		Version:        card.Version,
	}

	switch s := card.State.(type) {
	case domain.BoxState:
		row.Policy = domain.PolicyBox.String()
		row.BoxStage = sql.NullString{String: s.Stage.String(), Valid: true}
		row.CorrectCount = sql.NullInt64{Int64: int64(s.CorrectCount), Valid: true}
		row.IncorrectCount = sql.NullInt64{Int64: int64(s.IncorrectCount), Valid: true}
	case domain.IntervalState:
		row.Policy = domain.PolicyInterval.String()
		row.IntervalDays = sql.NullInt64{Int64: int64(s.Interval), Valid: true}
		row.EaseFactor = sql.NullFloat64{Float64: s.EaseFactor, Valid: true}
		row.Repetitions = sql.NullInt64{Int64: int64(s.Repetitions), Valid: true}
	default:
		return CardRow{}, domain.ErrInvalidSchedulingState
	}

	return row, nil
}

// ToCard rebuilds the domain card. A stage name that is not recognized maps to
// the zero Stage, which the scheduler treats as the first box.
func (r CardRow) ToCard() (*domain.Card, error) {
	policy, err := domain.ParsePolicy(r.Policy)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidSchedulingState, err)
	}

	var state domain.SchedulingState
	switch policy {
	case domain.PolicyBox:
		if !r.BoxStage.Valid {
			return nil, fmt.Errorf("%w: box card without stage", domain.ErrInvalidSchedulingState)
		}
		stage, _ := domain.ParseStage(r.BoxStage.String)
		state = domain.BoxState{
			Stage:          stage,
			CorrectCount:   int(r.CorrectCount.Int64),
			IncorrectCount: int(r.IncorrectCount.Int64),
		}
	case domain.PolicyInterval:
		if !r.IntervalDays.Valid || !r.EaseFactor.Valid {
			return nil, fmt.Errorf("%w: interval card without interval", domain.ErrInvalidSchedulingState)
		}
		state = domain.IntervalState{
			Interval:    int(r.IntervalDays.Int64),
			EaseFactor:  r.EaseFactor.Float64,
			Repetitions: int(r.Repetitions.Int64),
		}
	}

	return &domain.Card{
		ID:             r.ID,
		Front:          r.Front,
		Back:           r.Back,
		CreatedAt:      r.CreatedAt.UTC(),
		UpdatedAt:      r.UpdatedAt.UTC(),
		LastReviewedAt: utcPtr(r.LastReviewedAt),
		NextDueAt:      r.NextDueAt.UTC(),
		State:          state,
		Version:        r.Version,
	}, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// AddCount folds one grouped count row into summary. stage is empty for
// interval cards.
func AddCount(summary *domain.DeckSummary, policyName, stageName string, due bool, count int) error {
	policy, err := domain.ParsePolicy(policyName)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidSchedulingState, err)
	}

	summary.Total += count
	summary.ByPolicy[policy] += count
	if due {
		summary.Due += count
	}

	if policy != domain.PolicyBox {
		return nil
	}
	stage, err := domain.ParseStage(stageName)
	if err != nil {
		stage = domain.StageDailyReview
	}
	summary.ByStage[stage] += count
	if due {
		summary.DueByStage[stage] += count
	}
	return nil
}

// ReviewLogRow is the flat form of a review log entry.
type ReviewLogRow struct {
	ID           uuid.UUID
	CardID       uuid.UUID
	Policy       string
	Outcome      string
	ReviewedAt   time.Time
	NextDueAt    time.Time
	Stage        sql.NullString
	IntervalDays sql.NullInt64
	EaseFactor   sql.NullFloat64
}

// NewReviewLogRow flattens entry into a row.
func NewReviewLogRow(entry *domain.ReviewLog) ReviewLogRow {
	row := ReviewLogRow{
		ID:         entry.ID,
		CardID:     entry.CardID,
		Policy:     entry.Policy.String(),
		Outcome:    string(entry.Outcome),
		ReviewedAt: entry.ReviewedAt.UTC(),
		NextDueAt:  entry.NextDueAt.UTC(),
	}
	if entry.Stage.IsValid() {
		row.Stage = sql.NullString{String: entry.Stage.String(), Valid: true}
	}
	if entry.Policy == domain.PolicyInterval {
		row.IntervalDays = sql.NullInt64{Int64: int64(entry.Interval), Valid: true}
		row.EaseFactor = sql.NullFloat64{Float64: entry.EaseFactor, Valid: true}
	}
	return row
}

// ToReviewLog rebuilds the domain entry.
func (r ReviewLogRow) ToReviewLog() (domain.ReviewLog, error) {
	policy, err := domain.ParsePolicy(r.Policy)
	if err != nil {
		return domain.ReviewLog{}, err
	}

	entry := domain.ReviewLog{
		ID:         r.ID,
		CardID:     r.CardID,
		Policy:     policy,
		Outcome:    domain.ReviewOutcome(r.Outcome),
		ReviewedAt: r.ReviewedAt.UTC(),
		NextDueAt:  r.NextDueAt.UTC(),
		Interval:   int(r.IntervalDays.Int64),
		EaseFactor: r.EaseFactor.Float64,
	}
	if r.Stage.Valid {
		entry.Stage, _ = domain.ParseStage(r.Stage.String)
	}
	return entry, nil
}
