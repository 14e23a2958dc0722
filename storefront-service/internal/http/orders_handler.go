package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pro5598/Gearnixx-sub000/pkg/logger"
	"github.com/pro5598/Gearnixx-sub000/storefront-service/internal/domain"
	"github.com/pro5598/Gearnixx-sub000/storefront-service/internal/reviews"
	"github.com/pro5598/Gearnixx-sub000/storefront-service/internal/session"
)

type OrdersHandler struct {
	sessions *session.Registry
	timeout  time.Duration
	log      *slog.Logger
}

func NewOrdersHandler(sessions *session.Registry, timeout time.Duration, log *slog.Logger) *OrdersHandler {
	return &OrdersHandler{
		sessions: sessions,
		timeout:  timeout,
		log:      logger.OrNop(log),
	}
}

type OrderItemDTO struct {
	domain.NormalizedOrderItem
	Reviewed   bool `json:"reviewed"`
	Reviewable bool `json:"reviewable"`
}

type OrderResponseDTO struct {
	domain.NormalizedOrder
	Items []OrderItemDTO `json:"items"`
}

func toOrderDTO(o domain.NormalizedOrder, tr *reviews.Tracker) OrderResponseDTO {
	items := make([]OrderItemDTO, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemDTO{
			NormalizedOrderItem: it,
			Reviewed:            tr.IsReviewed(it.ProductID, o.ID),
			Reviewable:          tr.IsReviewable(it.ProductID, o.Status, o.ID),
		})
	}
	return OrderResponseDTO{NormalizedOrder: o, Items: items}
}

// GET /api/v1/orders
func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	list, err := h.sessions.History().List(ctx, userID)
	if err != nil {
		handleError(w, err)
		return
	}

	// refetching eligibility here is the reconciliation point for optimistic review marks
	tr := h.sessions.Get(ctx, userID).Reviews
	if err := tr.Sync(ctx, userID); err != nil {
		h.log.WarnContext(ctx, "showing orders without review eligibility", "user_id", userID, "error", err)
	}

	dtos := make([]OrderResponseDTO, 0, len(list))
	for _, o := range list {
		dtos = append(dtos, toOrderDTO(o, tr))
	}
	respondJSON(w, http.StatusOK, dtos)
}

// GET /api/v1/orders/{order_id}
func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	orderID := chi.URLParam(r, "order_id")
	if orderID == "" {
		respondError(w, http.StatusBadRequest, "missing_order_id", "order_id is required")
		return
	}

	o, found, err := h.sessions.History().Find(ctx, userID, orderID)
	if err != nil {
		handleError(w, err)
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "not_found", "order not found")
		return
	}
	respondJSON(w, http.StatusOK, toOrderDTO(o, h.sessions.Get(ctx, userID).Reviews))
}
