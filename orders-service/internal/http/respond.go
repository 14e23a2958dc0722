package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pro5598/Gearnixx-sub000/orders-service/internal/repository"
	"github.com/pro5598/Gearnixx-sub000/orders-service/internal/service"
)

// Response is the envelope of every answer. Failures keep the same shape
// with Success=false so callers can read Message from any status code.
type Response struct {
	Success bool        `json:"success"`
	Order   *OrderDTO   `json:"order,omitempty"`
	Orders  []OrderDTO  `json:"orders,omitempty"`
	Review  *ReviewDTO  `json:"review,omitempty"`
	Reviews []ReviewDTO `json:"reviews,omitempty"`
	Message string      `json:"message,omitempty"`
	Code    string      `json:"code,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondFailure(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, Response{Success: false, Code: code, Message: message})
}

// handleError maps service and repository sentinels to status codes.
func handleError(w http.ResponseWriter, log *slog.Logger, r *http.Request, err error) {
	var declined *service.DeclinedError

	switch {
	case errors.As(err, &declined):
		respondFailure(w, http.StatusPaymentRequired, "payment_declined", declined.Refusal.Message())
	case errors.Is(err, service.ErrInvalidOrder), errors.Is(err, service.ErrTotalsMismatch):
		respondFailure(w, http.StatusUnprocessableEntity, "invalid_order", err.Error())
	case errors.Is(err, service.ErrCheckoutConflict):
		respondFailure(w, http.StatusConflict, "checkout_conflict", err.Error())
	case errors.Is(err, service.ErrInvalidRating):
		respondFailure(w, http.StatusBadRequest, "invalid_rating", err.Error())
	case errors.Is(err, service.ErrNotReviewable):
		respondFailure(w, http.StatusConflict, "not_reviewable", err.Error())
	case errors.Is(err, repository.ErrDuplicateReview):
		respondFailure(w, http.StatusConflict, "already_reviewed", "You have already reviewed this product for this order.")
	case errors.Is(err, service.ErrIllegalTransition):
		respondFailure(w, http.StatusConflict, "illegal_transition", err.Error())
	case errors.Is(err, repository.ErrOrderNotFound):
		respondFailure(w, http.StatusNotFound, "order_not_found", "order not found")
	case errors.Is(err, context.DeadlineExceeded):
		respondFailure(w, http.StatusGatewayTimeout, "timeout", "request timed out")
	default:
		log.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		respondFailure(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondFailure(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return "", false
	}
	return userID, true
}

// pathUser reads {user_id}; a caller identified by header may only read its own data.
func pathUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := chi.URLParam(r, "user_id")
	if userID == "" {
		respondFailure(w, http.StatusBadRequest, "invalid_user_id", "user_id is required")
		return "", false
	}
	if caller := getUserIDFromContext(r.Context()); caller != "" && caller != userID {
		respondFailure(w, http.StatusForbidden, "forbidden", "cannot access another user's data")
		return "", false
	}
	return userID, true
}
