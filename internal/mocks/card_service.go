package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/noteaapp/notea/internal/domain"
	"github.com/noteaapp/notea/internal/service"
	"github.com/stretchr/testify/mock"
)

// MockCardService is a testify mock of service.CardService.
type MockCardService struct {
	mock.Mock
}

var _ service.CardService = (*MockCardService)(nil)

// CreateCard implements service.CardService.
func (m *MockCardService) CreateCard(
	ctx context.Context,
	req service.NewCardRequest,
	now time.Time,
) (*domain.Card, error) {
	args := m.Called(ctx, req, now)
	card, _ := args.Get(0).(*domain.Card)
	return card, args.Error(1)
}

// CreateCards implements service.CardService.
func (m *MockCardService) CreateCards(ctx context.Context, cards []*domain.Card) error {
	return m.Called(ctx, cards).Error(0)
}

// GetCard implements service.CardService.
func (m *MockCardService) GetCard(ctx context.Context, cardID uuid.UUID) (*domain.Card, error) {
	args := m.Called(ctx, cardID)
	card, _ := args.Get(0).(*domain.Card)
	return card, args.Error(1)
}

// DeleteCard implements service.CardService.
func (m *MockCardService) DeleteCard(ctx context.Context, cardID uuid.UUID) error {
	return m.Called(ctx, cardID).Error(0)
}

// ListReviews implements service.CardService.
func (m *MockCardService) ListReviews(
	ctx context.Context,
	cardID uuid.UUID,
	limit int,
) ([]domain.ReviewLog, error) {
	args := m.Called(ctx, cardID, limit)
	logs, _ := args.Get(0).([]domain.ReviewLog)
	return logs, args.Error(1)
}

// Summary implements service.CardService.
func (m *MockCardService) Summary(ctx context.Context, now time.Time) (*domain.DeckSummary, error) {
	args := m.Called(ctx, now)
	summary, _ := args.Get(0).(*domain.DeckSummary)
	return summary, args.Error(1)
}
