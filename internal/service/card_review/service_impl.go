package card_review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/noteaapp/notea/internal/domain"
	"github.com/noteaapp/notea/internal/domain/srs"
	"github.com/noteaapp/notea/internal/events"
	"github.com/noteaapp/notea/internal/platform/logger"
	"github.com/noteaapp/notea/internal/store"
)

// Verify interface compliance at compile time
var _ CardReviewService = (*cardReviewServiceImpl)(nil)

// cardReviewServiceImpl implements the CardReviewService interface.
type cardReviewServiceImpl struct {
	cardStore  store.CardStore
	srsService srs.Service
	locker     Locker
	emitter    events.EventEmitter
	logger     *slog.Logger

	randMu sync.Mutex
	rand   *rand.Rand
}

// Option configures the service.
type Option func(*cardReviewServiceImpl)

// WithRand sets the random source used by SelectNext. The service guards it
// with its own mutex.
func WithRand(r *rand.Rand) Option {
	return func(s *cardReviewServiceImpl) { s.rand = r }
}

// WithSeed makes SelectNext deterministic.
func WithSeed(seed uint64) Option {
	return WithRand(rand.New(rand.NewPCG(seed, seed)))
}

// WithLocker replaces the in-process MutexLocker, e.g. with a distributed lock.
func WithLocker(l Locker) Option {
	return func(s *cardReviewServiceImpl) { s.locker = l }
}

// WithEventEmitter publishes a review-recorded event after every saved review.
func WithEventEmitter(e events.EventEmitter) Option {
	return func(s *cardReviewServiceImpl) { s.emitter = e }
}

// NewCardReviewService creates a new CardReviewService implementation.
// It returns an error if any of the required dependencies are nil.
func NewCardReviewService(
	cardStore store.CardStore,
	srsService srs.Service,
	logger *slog.Logger,
	opts ...Option,
) (CardReviewService, error) {
	if cardStore == nil {
		return nil, domain.NewValidationError("cardStore", "cannot be nil", domain.ErrValidation)
	}
	if srsService == nil {
		return nil, domain.NewValidationError("srsService", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &cardReviewServiceImpl{
		cardStore:  cardStore,
		srsService: srsService,
		logger:     logger.With(slog.String("component", "card_review_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rand == nil {
		s.rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if s.locker == nil {
		s.locker = NewMutexLocker()
	}

	return s, nil
}

// SelectNext implements CardReviewService.SelectNext.
func (s *cardReviewServiceImpl) SelectNext(
	cards []domain.Card,
	now time.Time,
	filter Filter,
) (domain.Card, bool) {
	due := countEligible(cards, now, filter)
	if due == 0 {
		return domain.Card{}, false
	}

	s.randMu.Lock()
	pick := s.rand.IntN(due)
	s.randMu.Unlock()

	for _, c := range cards {
		if !isEligible(c, now, filter) {
			continue
		}
		if pick == 0 {
			return c, true
		}
		pick--
	}

	// Unreachable: pick < due.
	return domain.Card{}, false
}

func isEligible(card domain.Card, now time.Time, filter Filter) bool {
	return card.IsDue(now) && filter.Matches(card)
}

// countEligible returns how many cards are due at now and match filter.
func countEligible(cards []domain.Card, now time.Time, filter Filter) int {
	n := 0
	for _, c := range cards {
		if isEligible(c, now, filter) {
			n++
		}
	}
	return n
}

// ApplyOutcome implements CardReviewService.ApplyOutcome.
func (s *cardReviewServiceImpl) ApplyOutcome(
	ctx context.Context,
	card domain.Card,
	outcome domain.ReviewOutcome,
	now time.Time,
) (domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !outcome.IsValid() {
		log.Warn("invalid review outcome",
			slog.String("card_id", card.ID.String()),
			slog.String("outcome", string(outcome)))
		return card, ErrInvalidAnswer
	}

	updated, err := s.srsService.Apply(card, outcome, now.UTC())
	if err != nil {
		if errors.Is(err, srs.ErrPolicyMismatch) {
			log.Warn("outcome does not match card policy",
				slog.String("card_id", card.ID.String()),
				slog.String("policy", card.Policy().String()),
				slog.String("outcome", string(outcome)))
			return card, err
		}
		log.Error("failed to schedule card",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return card, NewApplyOutcomeError("failed to schedule card", err)
	}

	if updated.Policy() != card.Policy() {
		return card, fmt.Errorf("%w: scheduler changed %s card to %s",
			ErrPolicyMismatch, card.Policy(), updated.Policy())
	}

	if err := s.cardStore.Save(ctx, &updated); err != nil {
		switch {
		case errors.Is(err, store.ErrVersionConflict):
			log.Warn("card changed during review", slog.String("card_id", card.ID.String()))
			return card, fmt.Errorf("%w: %w", ErrConcurrentReview, err)
		case errors.Is(err, store.ErrPolicyChange):
			return card, fmt.Errorf("%w: %w", ErrPolicyMismatch, err)
		}
		log.Error("failed to save reviewed card",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return card, NewApplyOutcomeError("failed to save card", err)
	}

	s.recordReview(ctx, log, updated, outcome, now)

	log.Debug("review applied",
		slog.String("card_id", updated.ID.String()),
		slog.String("outcome", string(outcome)),
		slog.Time("next_due_at", updated.NextDueAt))
	return updated, nil
}

// recordReview publishes the review. The card is already saved, so a
// failure here is logged and not returned.
func (s *cardReviewServiceImpl) recordReview(
	ctx context.Context,
	log *slog.Logger,
	card domain.Card,
	outcome domain.ReviewOutcome,
	now time.Time,
) {
	if s.emitter == nil {
		return
	}

	entry, err := domain.NewReviewLog(card, outcome, now)
	if err == nil {
		var event *events.Event
		event, err = events.NewReviewRecordedEvent(*entry)
		if err == nil {
			err = s.emitter.EmitEvent(ctx, event)
		}
	}
	if err != nil {
		log.Warn("review saved but not recorded in history",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
	}
}

// NextDue implements CardReviewService.NextDue.
func (s *cardReviewServiceImpl) NextDue(
	ctx context.Context,
	now time.Time,
	filter Filter,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	cards, err := s.cardStore.LoadDueCards(ctx, now)
	if err != nil {
		log.Error("failed to load due cards", slog.String("error", err.Error()))
		return nil, NewNextDueError("failed to load due cards", err)
	}

	card, ok := s.SelectNext(cards, now, filter)
	if !ok {
		log.Debug("no cards due for review", slog.Int("loaded", len(cards)))
		return nil, ErrNoCardsDue
	}

	log.Debug("selected next card",
		slog.String("card_id", card.ID.String()),
		slog.Int("loaded", len(cards)),
		slog.Int("due", countEligible(cards, now, filter)))
	return &card, nil
}

// SubmitAnswer implements CardReviewService.SubmitAnswer.
func (s *cardReviewServiceImpl) SubmitAnswer(
	ctx context.Context,
	cardID uuid.UUID,
	answer ReviewAnswer,
	now time.Time,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !answer.Outcome.IsValid() {
		log.Warn("invalid review outcome",
			slog.String("card_id", cardID.String()),
			slog.String("outcome", string(answer.Outcome)))
		return nil, ErrInvalidAnswer
	}

	unlock, err := s.locker.Lock(ctx, cardID)
	if err != nil {
		log.Warn("could not lock card for review",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return nil, fmt.Errorf("%w: %w", ErrConcurrentReview, err)
	}
	defer unlock()

	card, err := s.cardStore.GetByID(ctx, cardID)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Warn("card not found for review", slog.String("card_id", cardID.String()))
			return nil, ErrCardNotFound
		}
		log.Error("failed to get card",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return nil, NewSubmitAnswerError("failed to get card", err)
	}

	updated, err := s.ApplyOutcome(ctx, *card, answer.Outcome, now)
	if err != nil {
		return nil, err
	}

	return &updated, nil
}
