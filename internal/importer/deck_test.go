package importer

import (
	"strings"
	"testing"
	"time"

	"github.com/noteaapp/notea/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const spanishDeck = `
name: Spanish
policy: box
cards:
  - front: hola
    back: hello
  - front: ser
    back: to be
    policy: interval
`

func TestParse(t *testing.T) {
	t.Parallel()

	deck, err := Parse(strings.NewReader(spanishDeck))
	require.NoError(t, err)
	assert.Equal(t, "Spanish", deck.Name)
	require.Len(t, deck.Cards, 2)
	assert.Equal(t, DeckEntry{Front: "ser", Back: "to be", Policy: "interval"}, deck.Cards[1])
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{name: "empty document", doc: ""},
		{name: "not yaml", doc: "cards: [front: {"},
		{name: "no cards", doc: "name: empty\ncards: []\n"},
		{name: "missing back", doc: "cards:\n  - front: hola\n"},
		{name: "unknown key", doc: "cards:\n  - front: a\n    back: b\n    hint: c\n"},
		{name: "unknown deck policy", doc: "policy: leitner\ncards:\n  - front: a\n    back: b\n"},
		{name: "unknown card policy", doc: "cards:\n  - front: a\n    back: b\n    policy: sm2\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse(strings.NewReader(tc.doc))
			assert.ErrorIs(t, err, ErrInvalidDeck)
		})
	}
}

func TestDeck_BuildCards(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 2, 1, 7, 0, 0, 0, time.UTC)

	deck, err := Parse(strings.NewReader(spanishDeck))
	require.NoError(t, err)

	cards, err := deck.BuildCards(domain.PolicyInterval, now)
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, domain.PolicyBox, cards[0].Policy())
	assert.Equal(t, domain.PolicyInterval, cards[1].Policy())
	assert.Equal(t, now, cards[0].NextDueAt)
	assert.NotEqual(t, cards[0].ID, cards[1].ID)

	deck.Policy = ""
	cards, err = deck.BuildCards(domain.PolicyInterval, now)
	require.NoError(t, err)
	assert.Equal(t, domain.PolicyInterval, cards[0].Policy())

	deck.Cards[0].Front = "   "
	_, err = deck.BuildCards(domain.PolicyBox, now)
	assert.ErrorIs(t, err, ErrInvalidDeck)
	assert.ErrorIs(t, err, domain.ErrCardFrontEmpty)
}
