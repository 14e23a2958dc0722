package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/pro5598/Gearnixx-sub000/pkg/logger"
	"github.com/pro5598/Gearnixx-sub000/storefront-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

var ErrFetchFailed = errors.New("failed to fetch orders")

// OrderFetcher loads a user's raw order records.
// Consumers define this interface.
type OrderFetcher interface {
	FetchOrders(ctx context.Context, userID string) (*domain.FetchOrdersResponse, error)
}

// History is the order-history view of one storefront.
type History struct {
	fetcher OrderFetcher
	log     *slog.Logger
	now     func() time.Time
	sfg     singleflight.Group // collapses concurrent fetches for the same user
}

func NewHistory(fetcher OrderFetcher, log *slog.Logger) *History {
	return &History{
		fetcher: fetcher,
		log:     logger.OrNop(log),
		now:     time.Now,
	}
}

// List returns the user's orders normalized and sorted newest first.
func (h *History) List(ctx context.Context, userID string) ([]domain.NormalizedOrder, error) {
	v, err, shared := h.sfg.Do(userID, func() (interface{}, error) {
		resp, err := h.fetcher.FetchOrders(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("fetch orders for user %s: %w", userID, err)
		}
		if resp == nil || !resp.Success {
			msg := "order service reported failure"
			if resp != nil && resp.Message != "" {
				msg = resp.Message
			}
			return nil, fmt.Errorf("%w: %s", ErrFetchFailed, msg)
		}
		return resp.Orders, nil
	})
	if err != nil {
		h.log.WarnContext(ctx, "order history unavailable", "user_id", userID, "error", err)
		return nil, err
	}
	if shared {
		h.log.DebugContext(ctx, "order fetch shared with concurrent caller", "user_id", userID)
	}

	raws := v.([]domain.RawOrder)
	now := h.now()
	out := make([]domain.NormalizedOrder, 0, len(raws))
	for _, raw := range raws {
		if raw == nil {
			continue
		}
		out = append(out, Normalize(raw, now, h.log))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Find returns a single order of the user's history.
func (h *History) Find(ctx context.Context, userID, orderID string) (domain.NormalizedOrder, bool, error) {
	list, err := h.List(ctx, userID)
	if err != nil {
		return domain.NormalizedOrder{}, false, err
	}
	for _, o := range list {
		if o.ID == orderID || o.DisplayNumber == orderID {
			return o, true, nil
		}
	}
	return domain.NormalizedOrder{}, false, nil
}
