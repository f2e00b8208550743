// Package service contains the deck-level use cases: creating, importing,
// reading and deleting cards, their review history and the deck summary.
//
// Review sessions live in the card_review subpackage. Both depend on the
// store interfaces, never on a specific database, and both receive their
// dependencies through constructors.
package service
