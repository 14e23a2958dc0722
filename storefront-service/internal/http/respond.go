package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/pro5598/Gearnixx-sub000/pkg/circuitbreaker"
	"github.com/pro5598/Gearnixx-sub000/storefront-service/internal/checkout"
	"github.com/pro5598/Gearnixx-sub000/storefront-service/internal/orders"
	"github.com/pro5598/Gearnixx-sub000/storefront-service/internal/reviews"
	"github.com/pro5598/Gearnixx-sub000/storefront-service/internal/session"
)

type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Details string            `json:"details,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleError maps lifecycle sentinels to HTTP status codes.
func handleError(w http.ResponseWriter, err error) {
	var status int
	var code string

	switch {
	case errors.Is(err, checkout.ErrValidation):
		status, code = http.StatusUnprocessableEntity, "validation_failed"
	case errors.Is(err, checkout.ErrEmptyCart):
		status, code = http.StatusConflict, "empty_cart"
	case errors.Is(err, checkout.ErrIllegalTransition):
		status, code = http.StatusConflict, "illegal_transition"
	case errors.Is(err, checkout.ErrSubmissionInFlight), errors.Is(err, reviews.ErrSubmissionInFlight):
		status, code = http.StatusConflict, "submission_in_flight"
	case errors.Is(err, checkout.ErrSessionClosed), errors.Is(err, session.ErrNoCheckout):
		status, code = http.StatusNotFound, "no_checkout"
	case errors.Is(err, reviews.ErrAlreadyReviewed):
		status, code = http.StatusConflict, "already_reviewed"
	case errors.Is(err, reviews.ErrInvalidRating):
		status, code = http.StatusBadRequest, "invalid_rating"
	case errors.Is(err, reviews.ErrRejected):
		status, code = http.StatusUnprocessableEntity, "review_rejected"
	case errors.Is(err, reviews.ErrUnavailable):
		status, code = http.StatusServiceUnavailable, "reviews_unavailable"
	case errors.Is(err, orders.ErrFetchFailed):
		status, code = http.StatusBadGateway, "orders_unavailable"
	case errors.Is(err, circuitbreaker.ErrUnavailable):
		status, code = http.StatusServiceUnavailable, "service_unavailable"
	case errors.Is(err, context.DeadlineExceeded):
		status, code = http.StatusGatewayTimeout, "timeout"
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	respondError(w, status, code, err.Error())
}

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return "", false
	}
	return userID, true
}

func productIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return 0, false
	}
	return id, true
}
