package client

import (
	"context"
	"net/http"

	"github.com/pro5598/Gearnixx-sub000/storefront-service/internal/coerce"
	"github.com/pro5598/Gearnixx-sub000/storefront-service/internal/domain"
)

// reviewList is decoded loosely; review ids arrive as numbers or strings
// depending on the backend.
type reviewList struct {
	Success bool             `json:"success"`
	Reviews []map[string]any `json:"reviews"`
	Message string           `json:"message"`
}

func (c *OrdersClient) FetchUserReviews(ctx context.Context, userID string) (*domain.FetchReviewsResponse, error) {
	var raw reviewList
	if err := c.call(ctx, "reviews.list", http.MethodGet, userPath(userID, "reviews"), userID, nil, &raw); err != nil {
		return nil, err
	}

	out := &domain.FetchReviewsResponse{
		Success: raw.Success,
		Message: raw.Message,
		Reviews: make([]domain.Review, 0, len(raw.Reviews)),
	}
	for _, r := range raw.Reviews {
		out.Reviews = append(out.Reviews, reviewFromRecord(r))
	}
	return out, nil
}

func reviewFromRecord(r map[string]any) domain.Review {
	pid, _ := coerce.First(r, "productId", "product_id", "ProductID")
	oid, _ := coerce.First(r, "orderId", "order_id", "OrderID")
	productID, _ := coerce.Int64(pid)
	rating, _ := coerce.First(r, "rating")
	title, _ := coerce.First(r, "title")
	comment, _ := coerce.First(r, "comment")
	return domain.Review{
		ProductID: productID,
		OrderID:   coerce.String(oid),
		Rating:    coerce.Int(rating),
		Title:     coerce.String(title),
		Comment:   coerce.String(comment),
	}
}

func (c *OrdersClient) SubmitReview(ctx context.Context, userID string, sub domain.ReviewSubmission) (*domain.SubmitReviewResponse, error) {
	var resp domain.SubmitReviewResponse
	if err := c.call(ctx, "reviews.submit", http.MethodPost, "/api/v1/reviews", userID, sub, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
