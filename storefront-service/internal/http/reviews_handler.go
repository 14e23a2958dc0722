package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/pro5598/Gearnixx-sub000/pkg/logger"
	"github.com/pro5598/Gearnixx-sub000/storefront-service/internal/domain"
	"github.com/pro5598/Gearnixx-sub000/storefront-service/internal/session"
)

type ReviewsHandler struct {
	sessions *session.Registry
	timeout  time.Duration
	log      *slog.Logger
}

func NewReviewsHandler(sessions *session.Registry, timeout time.Duration, log *slog.Logger) *ReviewsHandler {
	return &ReviewsHandler{
		sessions: sessions,
		timeout:  timeout,
		log:      logger.OrNop(log),
	}
}

type SubmitReviewResponseDTO struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// POST /api/v1/reviews
func (h *ReviewsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req domain.ReviewSubmission
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID <= 0 || req.OrderID == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "productId and orderId are required")
		return
	}

	order, found, err := h.sessions.History().Find(ctx, userID, req.OrderID)
	if err != nil {
		handleError(w, err)
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "not_found", "order not found")
		return
	}

	tr := h.sessions.Get(ctx, userID).Reviews
	if order.Status != domain.OrderStatusDelivered {
		respondError(w, http.StatusConflict, "not_reviewable", "only delivered orders can be reviewed")
		return
	}
	// reviews are keyed by the order id, whichever identifier the client sent
	req.OrderID = order.ID

	if err := tr.Submit(ctx, req); err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, SubmitReviewResponseDTO{Success: true, Message: "Review submitted"})
}
