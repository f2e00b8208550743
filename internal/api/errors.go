package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/noteaapp/notea/internal/api/shared"
	"github.com/noteaapp/notea/internal/domain"
	"github.com/noteaapp/notea/internal/service"
	"github.com/noteaapp/notea/internal/service/card_review"
	"github.com/noteaapp/notea/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, card_review.ErrNoCardsDue):
		return http.StatusNoContent

	// Not found errors
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, card_review.ErrCardNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, card_review.ErrPolicyMismatch),
		errors.Is(err, card_review.ErrConcurrentReview),
		errors.Is(err, store.ErrVersionConflict),
		errors.Is(err, store.ErrPolicyChange),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, card_review.ErrInvalidAnswer),
		errors.Is(err, service.ErrInvalidCard),
		errors.Is(err, service.ErrEmptyDeck),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidPolicy),
		errors.Is(err, domain.ErrInvalidStage):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, store.ErrCardNotFound),
		errors.Is(err, card_review.ErrCardNotFound):
		return "Card not found"
	case errors.Is(err, store.ErrNotFound):
		return "Not found"

	case errors.Is(err, card_review.ErrPolicyMismatch),
		errors.Is(err, store.ErrPolicyChange):
		return "Outcome does not match the card's scheduling policy"
	case errors.Is(err, card_review.ErrConcurrentReview),
		errors.Is(err, store.ErrVersionConflict):
		return "Card was reviewed concurrently, reload it and try again"
	case errors.Is(err, store.ErrDuplicate):
		return "Card already exists"

	case errors.Is(err, card_review.ErrInvalidAnswer):
		return "Invalid answer"
	case errors.Is(err, domain.ErrInvalidPolicy):
		return "Invalid policy"
	case errors.Is(err, domain.ErrInvalidStage):
		return "Invalid stage"
	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID format"
	case errors.Is(err, service.ErrEmptyDeck):
		return "Deck has no cards"
	case errors.Is(err, service.ErrInvalidCard),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation):
		return "Invalid card data"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns validator errors into a message naming the
// first failing field and nothing else.
func SanitizeValidationError(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return fmt.Sprintf("Invalid %s: %s", fe.Field(), getValidationTagMessage(fe.Tag()))
	}
	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the status and safe message for err. A non-empty
// fallback replaces the generic message of 5xx responses.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}

	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
