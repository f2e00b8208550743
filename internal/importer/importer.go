package importer

import (
	"context"
	"log/slog"
	"time"

	"github.com/noteaapp/notea/internal/domain"
	"github.com/noteaapp/notea/internal/platform/logger"
	"github.com/noteaapp/notea/internal/service"
)

// Importer creates the cards of a deck through the card service.
type Importer struct {
	cards  service.CardService
	policy domain.Policy
	logger *slog.Logger
}

// New returns an Importer. policy applies to entries of decks that name no
// policy.
func New(cards service.CardService, policy domain.Policy, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	if !policy.IsValid() {
		policy = domain.PolicyBox
	}
	return &Importer{
		cards:  cards,
		policy: policy,
		logger: logger.With(slog.String("component", "importer")),
	}
}

// Import creates every card of deck, or none of them. It returns the created
// cards.
func (im *Importer) Import(ctx context.Context, deck *Deck, now time.Time) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, im.logger)

	cards, err := deck.BuildCards(im.policy, now)
	if err != nil {
		log.Warn("deck rejected", slog.String("deck", deck.Name), slog.String("error", err.Error()))
		return nil, err
	}
	if len(cards) == 0 {
		return nil, service.ErrEmptyDeck
	}

	if err := im.cards.CreateCards(ctx, cards); err != nil {
		return nil, err
	}

	log.Info("deck imported", slog.String("deck", deck.Name), slog.Int("card_count", len(cards)))
	return cards, nil
}

// ImportFile loads the deck at path and imports it.
func (im *Importer) ImportFile(ctx context.Context, path string, now time.Time) ([]*domain.Card, error) {
	deck, err := Load(path)
	if err != nil {
		return nil, err
	}
	return im.Import(ctx, deck, now)
}
