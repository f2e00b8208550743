package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/noteaapp/notea/internal/domain"
	"github.com/noteaapp/notea/internal/service/card_review"
)

// MockCardReviewService implements card_review.CardReviewService for testing
type MockCardReviewService struct {
	// Custom behavior functions
	NextDueFn      func(ctx context.Context, now time.Time, filter card_review.Filter) (*domain.Card, error)
	SubmitAnswerFn func(ctx context.Context, cardID uuid.UUID, answer card_review.ReviewAnswer, now time.Time) (*domain.Card, error)

	// Default response values
	NextCard    *domain.Card
	UpdatedCard *domain.Card
	Err         error

	mu      sync.Mutex
	filters []card_review.Filter
	answers []card_review.ReviewAnswer
	cardIDs []uuid.UUID
}

var _ card_review.CardReviewService = (*MockCardReviewService)(nil)

// SelectNext returns the first due card that matches filter.
func (m *MockCardReviewService) SelectNext(
	cards []domain.Card,
	now time.Time,
	filter card_review.Filter,
) (domain.Card, bool) {
	for _, c := range cards {
		if c.IsDue(now) && filter.Matches(c) {
			return c, true
		}
	}
	return domain.Card{}, false
}

// ApplyOutcome returns UpdatedCard or Err.
func (m *MockCardReviewService) ApplyOutcome(
	_ context.Context,
	card domain.Card,
	_ domain.ReviewOutcome,
	_ time.Time,
) (domain.Card, error) {
	if m.Err != nil {
		return card, m.Err
	}
	if m.UpdatedCard != nil {
		return *m.UpdatedCard, nil
	}
	return card, nil
}

// NextDue implements the card_review.CardReviewService interface
func (m *MockCardReviewService) NextDue(
	ctx context.Context,
	now time.Time,
	filter card_review.Filter,
) (*domain.Card, error) {
	m.mu.Lock()
	m.filters = append(m.filters, filter)
	m.mu.Unlock()

	if m.NextDueFn != nil {
		return m.NextDueFn(ctx, now, filter)
	}
	return m.NextCard, m.Err
}

// SubmitAnswer implements the card_review.CardReviewService interface
func (m *MockCardReviewService) SubmitAnswer(
	ctx context.Context,
	cardID uuid.UUID,
	answer card_review.ReviewAnswer,
	now time.Time,
) (*domain.Card, error) {
	m.mu.Lock()
	m.cardIDs = append(m.cardIDs, cardID)
	m.answers = append(m.answers, answer)
	m.mu.Unlock()

	if m.SubmitAnswerFn != nil {
		return m.SubmitAnswerFn(ctx, cardID, answer, now)
	}
	return m.UpdatedCard, m.Err
}

// Filters returns the filters NextDue was called with.
func (m *MockCardReviewService) Filters() []card_review.Filter {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]card_review.Filter(nil), m.filters...)
}

// Answers returns the card IDs and answers SubmitAnswer was called with.
func (m *MockCardReviewService) Answers() ([]uuid.UUID, []card_review.ReviewAnswer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]uuid.UUID(nil), m.cardIDs...), append([]card_review.ReviewAnswer(nil), m.answers...)
}

// MockOption is a function type that configures a MockCardReviewService
type MockOption func(*MockCardReviewService)

// WithNextCard sets the default card to return from NextDue
func WithNextCard(card *domain.Card) MockOption {
	return func(m *MockCardReviewService) { m.NextCard = card }
}

// WithUpdatedCard sets the default card to return from SubmitAnswer
func WithUpdatedCard(card *domain.Card) MockOption {
	return func(m *MockCardReviewService) { m.UpdatedCard = card }
}

// WithError sets the default error to return from every method
func WithError(err error) MockOption {
	return func(m *MockCardReviewService) { m.Err = err }
}

// NewMockCardReviewService creates a new MockCardReviewService with the given options
func NewMockCardReviewService(opts ...MockOption) *MockCardReviewService {
	m := &MockCardReviewService{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}
