package mocks

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/noteaapp/notea/internal/domain"
	"github.com/noteaapp/notea/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockCardStore is a testify mock of store.CardStore. WithTx returns the
// mock itself.
type MockCardStore struct {
	mock.Mock
}

var _ store.CardStore = (*MockCardStore)(nil)

// Create implements store.CardStore.
func (m *MockCardStore) Create(ctx context.Context, card *domain.Card) error {
	return m.Called(ctx, card).Error(0)
}

// GetByID implements store.CardStore.
func (m *MockCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	args := m.Called(ctx, id)
	card, _ := args.Get(0).(*domain.Card)
	return card, args.Error(1)
}

// LoadDueCards implements store.CardStore.
func (m *MockCardStore) LoadDueCards(ctx context.Context, now time.Time) ([]domain.Card, error) {
	args := m.Called(ctx, now)
	cards, _ := args.Get(0).([]domain.Card)
	return cards, args.Error(1)
}

// Save implements store.CardStore.
func (m *MockCardStore) Save(ctx context.Context, card *domain.Card) error {
	return m.Called(ctx, card).Error(0)
}

// Delete implements store.CardStore.
func (m *MockCardStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// CountByStage implements store.CardStore.
func (m *MockCardStore) CountByStage(ctx context.Context, now time.Time) (*domain.DeckSummary, error) {
	args := m.Called(ctx, now)
	summary, _ := args.Get(0).(*domain.DeckSummary)
	return summary, args.Error(1)
}

// WithTx implements store.CardStore.
func (m *MockCardStore) WithTx(*sql.Tx) store.CardStore {
	return m
}

// MockReviewLogStore is a testify mock of store.ReviewLogStore.
type MockReviewLogStore struct {
	mock.Mock
}

var _ store.ReviewLogStore = (*MockReviewLogStore)(nil)

// Append implements store.ReviewLogStore.
func (m *MockReviewLogStore) Append(ctx context.Context, entry *domain.ReviewLog) error {
	return m.Called(ctx, entry).Error(0)
}

// ListByCard implements store.ReviewLogStore.
func (m *MockReviewLogStore) ListByCard(
	ctx context.Context,
	cardID uuid.UUID,
	limit int,
) ([]domain.ReviewLog, error) {
	args := m.Called(ctx, cardID, limit)
	logs, _ := args.Get(0).([]domain.ReviewLog)
	return logs, args.Error(1)
}

// WithTx implements store.ReviewLogStore.
func (m *MockReviewLogStore) WithTx(*sql.Tx) store.ReviewLogStore {
	return m
}
