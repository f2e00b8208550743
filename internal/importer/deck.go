// Package importer reads flashcard decks from YAML files and creates their
// cards in one transaction.
package importer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/noteaapp/notea/internal/domain"
	"gopkg.in/yaml.v3"
)

// ErrInvalidDeck is returned for a deck file that cannot be imported.
var ErrInvalidDeck = errors.New("invalid deck")

// Deck is the YAML layout of an importable deck:
//
//	name: Spanish
//	policy: box
//	cards:
//	  - front: hola
//	    back: hello
//	  - front: ser
//	    back: to be
//	    policy: interval
type Deck struct {
	Name   string      `yaml:"name"`
	Policy string      `yaml:"policy" validate:"omitempty,oneof=box interval"`
	Cards  []DeckEntry `yaml:"cards"  validate:"required,min=1,dive"`
}

// DeckEntry is one card of a deck. Policy overrides the deck policy.
type DeckEntry struct {
	Front  string `yaml:"front"  validate:"required"`
	Back   string `yaml:"back"   validate:"required"`
	Policy string `yaml:"policy" validate:"omitempty,oneof=box interval"`
}

var validate = validator.New()

// Parse decodes and validates a deck. Unknown keys are rejected.
func Parse(r io.Reader) (*Deck, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var deck Deck
	if err := dec.Decode(&deck); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidDeck)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidDeck, err)
	}

	if err := validate.Struct(&deck); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDeck, err)
	}
	return &deck, nil
}

// Load reads and parses the deck file at path.
func Load(path string) (*Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(bytes.NewReader(data))
}

// BuildCards builds fresh cards, due at now. fallback is used for entries
// when neither the entry nor the deck names a policy.
func (d *Deck) BuildCards(fallback domain.Policy, now time.Time) ([]*domain.Card, error) {
	deckPolicy := fallback
	if d.Policy != "" {
		p, err := domain.ParsePolicy(d.Policy)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDeck, err)
		}
		deckPolicy = p
	}

	cards := make([]*domain.Card, 0, len(d.Cards))
	for i, entry := range d.Cards {
		policy := deckPolicy
		if entry.Policy != "" {
			p, err := domain.ParsePolicy(entry.Policy)
			if err != nil {
				return nil, fmt.Errorf("%w: card %d: %w", ErrInvalidDeck, i+1, err)
			}
			policy = p
		}

		card, err := domain.NewCard(entry.Front, entry.Back, policy, now)
		if err != nil {
			return nil, fmt.Errorf("%w: card %d: %w", ErrInvalidDeck, i+1, err)
		}
		cards = append(cards, card)
	}
	return cards, nil
}
