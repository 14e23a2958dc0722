package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/pro5598/Gearnixx-sub000/orders-service/internal/domain"
	"github.com/pro5598/Gearnixx-sub000/orders-service/internal/service"
	"github.com/pro5598/Gearnixx-sub000/pkg/logger"
)

type ReviewsHandler struct {
	svc     OrderService
	timeout time.Duration
	log     *slog.Logger
}

func NewReviewsHandler(svc OrderService, timeout time.Duration, log *slog.Logger) *ReviewsHandler {
	return &ReviewsHandler{
		svc:     svc,
		timeout: timeout,
		log:     logger.OrNop(log),
	}
}

type SubmitReviewRequestDTO struct {
	ProductID   int64  `json:"productId"`
	OrderID     string `json:"orderId"`
	OrderItemID string `json:"orderItemId"`
	Rating      int    `json:"rating"`
	Title       string `json:"title"`
	Comment     string `json:"comment"`
	Recommend   *bool  `json:"recommend"`
}

type ReviewDTO struct {
	ID          string    `json:"id"`
	ProductID   int64     `json:"productId"`
	OrderID     string    `json:"orderId"`
	OrderItemID string    `json:"orderItemId,omitempty"`
	Rating      int       `json:"rating"`
	Title       string    `json:"title,omitempty"`
	Comment     string    `json:"comment,omitempty"`
	Recommend   *bool     `json:"recommend,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toReviewDTO(r *domain.Review) ReviewDTO {
	return ReviewDTO{
		ID:          r.ID.String(),
		ProductID:   r.ProductID,
		OrderID:     r.OrderID.String(),
		OrderItemID: r.OrderItemID,
		Rating:      r.Rating,
		Title:       r.Title,
		Comment:     r.Comment,
		Recommend:   r.Recommend,
		CreatedAt:   r.CreatedAt,
	}
}

// POST /api/v1/reviews
func (h *ReviewsHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req SubmitReviewRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondFailure(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	review, err := h.svc.SubmitReview(ctx, userID, service.ReviewRequest{
		ProductID:   req.ProductID,
		OrderID:     req.OrderID,
		OrderItemID: req.OrderItemID,
		Rating:      req.Rating,
		Title:       req.Title,
		Comment:     req.Comment,
		Recommend:   req.Recommend,
	})
	if err != nil {
		handleError(w, h.log, r, err)
		return
	}

	dto := toReviewDTO(review)
	respondJSON(w, http.StatusCreated, Response{Success: true, Review: &dto, Message: "Review submitted"})
}

// GET /api/v1/users/{user_id}/reviews
func (h *ReviewsHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID, ok := pathUser(w, r)
	if !ok {
		return
	}

	reviews, err := h.svc.ListReviews(ctx, userID)
	if err != nil {
		handleError(w, h.log, r, err)
		return
	}

	dtos := make([]ReviewDTO, 0, len(reviews))
	for _, rv := range reviews {
		dtos = append(dtos, toReviewDTO(rv))
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Reviews: dtos})
}
