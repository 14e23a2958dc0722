// Package reviews tracks which (product, order) pairs a user has already
// reviewed. The tracker fails closed: until a sync succeeds nothing is
// reviewable.
package reviews

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/pro5598/Gearnixx-sub000/pkg/logger"
	"github.com/pro5598/Gearnixx-sub000/storefront-service/internal/domain"
)

const (
	minRating = 1
	maxRating = 5
)

// ReviewService reads and writes reviews on the review backend.
// Consumers define this interface.
type ReviewService interface {
	FetchUserReviews(ctx context.Context, userID string) (*domain.FetchReviewsResponse, error)
	SubmitReview(ctx context.Context, userID string, sub domain.ReviewSubmission) (*domain.SubmitReviewResponse, error)
}

type Tracker struct {
	mu       sync.RWMutex
	svc      ReviewService
	log      *slog.Logger
	userID   string
	loaded   bool
	reviewed map[string]struct{}
	inFlight map[string]struct{}
}

func NewTracker(svc ReviewService, log *slog.Logger) *Tracker {
	return &Tracker{
		svc:      svc,
		log:      logger.OrNop(log),
		reviewed: make(map[string]struct{}),
		inFlight: make(map[string]struct{}),
	}
}

func key(productID int64, orderID string) string {
	return strconv.FormatInt(productID, 10) + ":" + orderID
}

// Sync replaces the reviewed set with the user's reviews from the backend.
// On failure the tracker denies every review until the next successful sync.
func (t *Tracker) Sync(ctx context.Context, userID string) error {
	resp, err := t.svc.FetchUserReviews(ctx, userID)
	if err == nil && (resp == nil || !resp.Success) {
		msg := "review service reported failure"
		if resp != nil && resp.Message != "" {
			msg = resp.Message
		}
		err = fmt.Errorf("%w: %s", ErrSyncFailed, msg)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.userID = userID

	if err != nil {
		t.loaded = false
		t.reviewed = make(map[string]struct{})
		t.log.WarnContext(ctx, "review eligibility unavailable, denying reviews", "user_id", userID, "error", err)
		return err
	}

	reviewed := make(map[string]struct{}, len(resp.Reviews))
	for _, r := range resp.Reviews {
		if r.ProductID <= 0 || r.OrderID == "" {
			continue
		}
		reviewed[key(r.ProductID, r.OrderID)] = struct{}{}
	}
	t.reviewed = reviewed
	t.loaded = true
	return nil
}

// Loaded reports whether the last sync succeeded.
func (t *Tracker) Loaded() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.loaded
}

// IsReviewable is true only for delivered orders whose item has not been reviewed yet.
func (t *Tracker) IsReviewable(productID int64, status domain.OrderStatus, orderID string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if !t.loaded || status != domain.OrderStatusDelivered {
		return false
	}
	_, done := t.reviewed[key(productID, orderID)]
	return !done
}

func (t *Tracker) IsReviewed(productID int64, orderID string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.reviewed[key(productID, orderID)]
	return ok
}

// Submit sends a review. A successful submission marks the pair reviewed
// immediately; the next Sync reconciles with the backend.
func (t *Tracker) Submit(ctx context.Context, sub domain.ReviewSubmission) error {
	k := key(sub.ProductID, sub.OrderID)

	t.mu.Lock()
	switch {
	case !t.loaded:
		t.mu.Unlock()
		return ErrUnavailable
	case sub.Rating < minRating || sub.Rating > maxRating:
		t.mu.Unlock()
		return ErrInvalidRating
	}
	if _, ok := t.reviewed[k]; ok {
		t.mu.Unlock()
		return ErrAlreadyReviewed
	}
	if _, ok := t.inFlight[k]; ok {
		t.mu.Unlock()
		return ErrSubmissionInFlight
	}
	t.inFlight[k] = struct{}{}
	userID := t.userID
	t.mu.Unlock()

	resp, err := t.svc.SubmitReview(ctx, userID, sub)

	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.inFlight, k)

	if err != nil {
		t.log.ErrorContext(ctx, "review submission failed", "user_id", userID, "product_id", sub.ProductID, "order_id", sub.OrderID, "error", err)
		return fmt.Errorf("submit review: %w", err)
	}
	if resp == nil || !resp.Success {
		msg := "Failed to submit review"
		if resp != nil && resp.Message != "" {
			msg = resp.Message
		}
		return fmt.Errorf("%w: %s", ErrRejected, msg)
	}

	t.reviewed[k] = struct{}{}
	t.log.InfoContext(ctx, "review submitted", "user_id", userID, "product_id", sub.ProductID, "order_id", sub.OrderID)
	return nil
}
