package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pro5598/Gearnixx-sub000/orders-service/internal/domain"
	"github.com/pro5598/Gearnixx-sub000/orders-service/internal/service"
	"github.com/pro5598/Gearnixx-sub000/pkg/logger"
	"github.com/shopspring/decimal"
)

// OrderService is what the handlers need from the service layer.
// Consumers define this interface.
type OrderService interface {
	PlaceOrder(ctx context.Context, userID string, req service.PlaceOrderRequest) (*domain.Order, error)
	ListOrders(ctx context.Context, userID string) ([]*domain.Order, error)
	GetOrder(ctx context.Context, userID string, orderID string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) (*domain.Order, error)
	SubmitReview(ctx context.Context, userID string, req service.ReviewRequest) (*domain.Review, error)
	ListReviews(ctx context.Context, userID string) ([]*domain.Review, error)
}

type OrdersHandler struct {
	svc     OrderService
	timeout time.Duration
	log     *slog.Logger
}

func NewOrdersHandler(svc OrderService, timeout time.Duration, log *slog.Logger) *OrdersHandler {
	return &OrdersHandler{
		svc:     svc,
		timeout: timeout,
		log:     logger.OrNop(log),
	}
}

// CreateOrderRequestDTO mirrors what the storefront sends. UserID is only a
// fallback for callers that do not set X-User-ID.
type CreateOrderRequestDTO struct {
	CheckoutID      string                 `json:"checkoutId"`
	UserID          string                 `json:"userId"`
	Items           []domain.OrderItem     `json:"items"`
	CustomerDetails domain.CustomerDetails `json:"customerDetails"`
	PaymentDetails  domain.PaymentDetails  `json:"paymentDetails"`
	Totals          domain.Totals          `json:"totals"`
}

type OrderDTO struct {
	ID              string                 `json:"id"`
	OrderNumber     string                 `json:"orderNumber"`
	CheckoutID      string                 `json:"checkoutId,omitempty"`
	UserID          string                 `json:"userId"`
	Status          domain.OrderStatus     `json:"status"`
	Items           []domain.OrderItem     `json:"items"`
	CustomerDetails domain.CustomerDetails `json:"customerDetails"`
	Subtotal        decimal.Decimal        `json:"subtotal"`
	Shipping        decimal.Decimal        `json:"shipping"`
	Tax             decimal.Decimal        `json:"tax"`
	Total           decimal.Decimal        `json:"total"`
	CreatedAt       time.Time              `json:"createdAt"`
	UpdatedAt       time.Time              `json:"updatedAt"`
}

func toOrderDTO(o *domain.Order) OrderDTO {
	items := o.Items
	if items == nil {
		items = []domain.OrderItem{}
	}
	return OrderDTO{
		ID:              o.ID.String(),
		OrderNumber:     o.OrderNumber,
		CheckoutID:      o.CheckoutID,
		UserID:          o.UserID,
		Status:          o.Status,
		Items:           items,
		CustomerDetails: o.CustomerDetails,
		Subtotal:        o.Totals.Subtotal,
		Shipping:        o.Totals.Shipping,
		Tax:             o.Totals.Tax,
		Total:           o.Totals.Total,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

type UpdateStatusRequestDTO struct {
	Status domain.OrderStatus `json:"status"`
}

// POST /api/v1/orders
func (h *OrdersHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req CreateOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondFailure(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	userID := getUserIDFromContext(ctx)
	if userID == "" {
		userID = req.UserID
	}
	if userID == "" {
		respondFailure(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	order, err := h.svc.PlaceOrder(ctx, userID, service.PlaceOrderRequest{
		CheckoutID:      req.CheckoutID,
		Items:           req.Items,
		CustomerDetails: req.CustomerDetails,
		PaymentDetails:  req.PaymentDetails,
		Totals:          req.Totals,
	})
	if err != nil {
		handleError(w, h.log, r, err)
		return
	}

	dto := toOrderDTO(order)
	respondJSON(w, http.StatusCreated, Response{Success: true, Order: &dto, Message: "Order placed successfully"})
}

// GET /api/v1/users/{user_id}/orders
func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID, ok := pathUser(w, r)
	if !ok {
		return
	}

	orders, err := h.svc.ListOrders(ctx, userID)
	if err != nil {
		handleError(w, h.log, r, err)
		return
	}

	dtos := make([]OrderDTO, 0, len(orders))
	for _, o := range orders {
		dtos = append(dtos, toOrderDTO(o))
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Orders: dtos})
}

// GET /api/v1/orders/{order_id}
func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	order, err := h.svc.GetOrder(ctx, userID, chi.URLParam(r, "order_id"))
	if err != nil {
		handleError(w, h.log, r, err)
		return
	}
	dto := toOrderDTO(order)
	respondJSON(w, http.StatusOK, Response{Success: true, Order: &dto})
}

// PATCH /api/v1/orders/{order_id}/status
// Fulfilment endpoint; not scoped to the calling user.
func (h *OrdersHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, err := uuid.Parse(chi.URLParam(r, "order_id"))
	if err != nil {
		respondFailure(w, http.StatusBadRequest, "invalid_order_id", "order_id must be a uuid")
		return
	}

	var req UpdateStatusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondFailure(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	order, err := h.svc.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		handleError(w, h.log, r, err)
		return
	}
	dto := toOrderDTO(order)
	respondJSON(w, http.StatusOK, Response{Success: true, Order: &dto})
}
