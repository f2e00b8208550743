package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/noteaapp/notea/internal/domain"
	"github.com/noteaapp/notea/internal/service/card_review"
)

// getPathUUID extracts a UUID from the URL path parameters.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", domain.ErrValidation)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}

	return id, nil
}

// getFilter reads the optional policy and stage query parameters.
func getFilter(r *http.Request) (card_review.Filter, error) {
	q := r.URL.Query()
	return card_review.ParseFilter(q.Get("policy"), q.Get("stage"))
}

// getLimit reads the optional limit query parameter. Zero means no limit.
func getLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, domain.NewValidationError("limit", "must be a non-negative integer", domain.ErrValidation)
	}
	return n, nil
}
