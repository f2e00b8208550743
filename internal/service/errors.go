package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// Callers check them with errors.Is; the API layer maps them to status codes.
var (
	// ErrInvalidCard indicates card content or policy that fails validation.
	// API layer should map this to HTTP 400 Bad Request.
	ErrInvalidCard = errors.New("invalid card")

	// ErrEmptyDeck indicates an import with no cards in it.
	ErrEmptyDeck = errors.New("deck has no cards")
)
