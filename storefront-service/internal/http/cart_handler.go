package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/pro5598/Gearnixx-sub000/pkg/logger"
	"github.com/pro5598/Gearnixx-sub000/storefront-service/internal/cart"
	"github.com/pro5598/Gearnixx-sub000/storefront-service/internal/coerce"
	"github.com/pro5598/Gearnixx-sub000/storefront-service/internal/domain"
	"github.com/pro5598/Gearnixx-sub000/storefront-service/internal/session"
	"github.com/shopspring/decimal"
)

const maxQuantity = 99

type CartHandler struct {
	sessions *session.Registry
	timeout  time.Duration
	log      *slog.Logger
}

func NewCartHandler(sessions *session.Registry, timeout time.Duration, log *slog.Logger) *CartHandler {
	return &CartHandler{
		sessions: sessions,
		timeout:  timeout,
		log:      logger.OrNop(log),
	}
}

// ProductDTO is the product snapshot the catalog UI sends along.
type ProductDTO struct {
	ProductID int64           `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	Active    *bool           `json:"active,omitempty"`
	Category  string          `json:"category,omitempty"`
	Brand     string          `json:"brand,omitempty"`
	Image     string          `json:"image,omitempty"`
}

func (p ProductDTO) toDomain() domain.Product {
	active := true
	if p.Active != nil {
		active = *p.Active
	}
	return domain.Product{
		ID:       p.ProductID,
		Name:     p.Name,
		Price:    p.Price,
		Stock:    p.Stock,
		Active:   active,
		Category: p.Category,
		Brand:    p.Brand,
		Image:    p.Image,
	}
}

// Quantity is taken as sent and coerced: numeric strings count, fractions
// are truncated, anything else is 0.
type AddItemRequestDTO struct {
	ProductDTO
	Quantity any `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity any `json:"quantity"`
}

func decodeLoose(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	return dec.Decode(v)
}

type CartResponseDTO struct {
	Items     []domain.CartLine `json:"items"`
	ItemCount int               `json:"itemCount"`
	Totals    domain.Totals     `json:"totals"`
}

func (h *CartHandler) cartResponse(c *cart.Store) CartResponseDTO {
	return CartResponseDTO{
		Items:     c.Lines(),
		ItemCount: c.ItemCount(),
		Totals:    h.sessions.Pricing().Totals(c.Total()),
	}
}

// GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	u := h.sessions.Get(ctx, userID)
	respondJSON(w, http.StatusOK, h.cartResponse(u.Cart))
}

// POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req AddItemRequestDTO
	if err := decodeLoose(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "productId must be positive")
		return
	}
	qty := coerce.Quantity(req.Quantity)
	if qty > maxQuantity {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be at most 99")
		return
	}

	u := h.sessions.Get(ctx, userID)
	if err := u.Cart.AddItem(ctx, req.toDomain(), qty); err != nil {
		h.log.WarnContext(ctx, "cart change not persisted", "user_id", userID, "request_id", getRequestID(r.Context()), "error", err)
	}
	respondJSON(w, http.StatusCreated, h.cartResponse(u.Cart))
}

// PUT /api/v1/cart/items/{product_id}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	var req UpdateQuantityRequestDTO
	if err := decodeLoose(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	qty := coerce.Quantity(req.Quantity)
	if qty > maxQuantity {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be at most 99")
		return
	}

	u := h.sessions.Get(ctx, userID)
	if err := u.Cart.SetQuantity(ctx, productID, qty); err != nil {
		h.log.WarnContext(ctx, "cart change not persisted", "user_id", userID, "error", err)
	}
	respondJSON(w, http.StatusOK, h.cartResponse(u.Cart))
}

// DELETE /api/v1/cart/items/{product_id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	u := h.sessions.Get(ctx, userID)
	if err := u.Cart.RemoveItem(ctx, productID); err != nil {
		h.log.WarnContext(ctx, "cart change not persisted", "user_id", userID, "error", err)
	}
	respondJSON(w, http.StatusOK, h.cartResponse(u.Cart))
}

// DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	u := h.sessions.Get(ctx, userID)
	if err := u.Cart.Clear(ctx); err != nil {
		h.log.WarnContext(ctx, "cart change not persisted", "user_id", userID, "error", err)
	}
	respondJSON(w, http.StatusOK, h.cartResponse(u.Cart))
}
