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
	"github.com/pro5598/Gearnixx-sub000/storefront-service/internal/wishlist"
)

type WishlistHandler struct {
	sessions *session.Registry
	timeout  time.Duration
	log      *slog.Logger
}

func NewWishlistHandler(sessions *session.Registry, timeout time.Duration, log *slog.Logger) *WishlistHandler {
	return &WishlistHandler{
		sessions: sessions,
		timeout:  timeout,
		log:      logger.OrNop(log),
	}
}

type WishlistResponseDTO struct {
	Items []domain.WishlistEntry `json:"items"`
	Count int                    `json:"count"`
}

type ToggleResponseDTO struct {
	WishlistResponseDTO
	Added bool `json:"added"`
}

func wishlistResponse(wl *wishlist.Store) WishlistResponseDTO {
	return WishlistResponseDTO{Items: wl.Entries(), Count: wl.Count()}
}

// GET /api/v1/wishlist
func (h *WishlistHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, wishlistResponse(h.sessions.Get(ctx, userID).Wishlist))
}

// POST /api/v1/wishlist/items
func (h *WishlistHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	p, ok := decodeProduct(w, r)
	if !ok {
		return
	}

	wl := h.sessions.Get(ctx, userID).Wishlist
	if err := wl.Add(ctx, p); err != nil {
		h.log.WarnContext(ctx, "wishlist change not persisted", "user_id", userID, "error", err)
	}
	respondJSON(w, http.StatusCreated, wishlistResponse(wl))
}

// POST /api/v1/wishlist/toggle
func (h *WishlistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	p, ok := decodeProduct(w, r)
	if !ok {
		return
	}

	wl := h.sessions.Get(ctx, userID).Wishlist
	added, err := wl.Toggle(ctx, p)
	if err != nil {
		h.log.WarnContext(ctx, "wishlist change not persisted", "user_id", userID, "error", err)
	}
	respondJSON(w, http.StatusOK, ToggleResponseDTO{WishlistResponseDTO: wishlistResponse(wl), Added: added})
}

// DELETE /api/v1/wishlist/items/{product_id}
func (h *WishlistHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
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

	wl := h.sessions.Get(ctx, userID).Wishlist
	if err := wl.Remove(ctx, productID); err != nil {
		h.log.WarnContext(ctx, "wishlist change not persisted", "user_id", userID, "error", err)
	}
	respondJSON(w, http.StatusOK, wishlistResponse(wl))
}

// POST /api/v1/wishlist/items/{product_id}/move-to-cart
func (h *WishlistHandler) MoveToCart(w http.ResponseWriter, r *http.Request) {
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
	moved, err := u.Wishlist.MoveToCart(ctx, productID, u.Cart)
	if err != nil {
		h.log.WarnContext(ctx, "move to cart not persisted", "user_id", userID, "product_id", productID, "error", err)
	}
	if !moved && err == nil {
		respondError(w, http.StatusNotFound, "not_in_wishlist", "product is not in the wishlist")
		return
	}
	respondJSON(w, http.StatusOK, wishlistResponse(u.Wishlist))
}

func decodeProduct(w http.ResponseWriter, r *http.Request) (domain.Product, bool) {
	var req ProductDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return domain.Product{}, false
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "productId must be positive")
		return domain.Product{}, false
	}
	return req.toDomain(), true
}
