package api

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the card and deck endpoints on r, which is
// normally the /api sub-router.
func (h *CardHandler) RegisterRoutes(r chi.Router) {
	r.Post("/cards", h.CreateCard)
	r.Get("/cards/next", h.GetNextReviewCard)
	r.Get("/cards/{id}", h.GetCard)
	r.Delete("/cards/{id}", h.DeleteCard)
	r.Post("/cards/{id}/answer", h.SubmitAnswer)
	r.Get("/cards/{id}/reviews", h.ListReviews)
	r.Get("/decks/summary", h.Summary)
}
