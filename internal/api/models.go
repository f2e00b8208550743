package api

import (
	"github.com/google/uuid"
	"github.com/noteaapp/notea/internal/domain"
)

// CreateCardRequest defines the payload for creating a card.
type CreateCardRequest struct {
	Front  string `json:"front"  validate:"required,max=4096"`
	Back   string `json:"back"   validate:"required,max=4096"`
	Policy string `json:"policy" validate:"required,oneof=box interval"`
}

// SubmitAnswerRequest defines the payload for answering a card. Which
// outcomes a card accepts depends on its policy.
type SubmitAnswerRequest struct {
	Outcome string `json:"outcome" validate:"required,oneof=correct incorrect forget hard medium easy"`
}

// ReviewHistoryResponse lists a card's reviews, newest first.
type ReviewHistoryResponse struct {
	CardID  uuid.UUID          `json:"card_id"`
	Reviews []domain.ReviewLog `json:"reviews"`
}

// Cards are returned as domain.Card, whose JSON form is the tagged union
// keyed by "policy". The deck summary is returned as domain.DeckSummary.
