// Package poller listens for order-placed events and resets the buyer's
// persisted cart, so a cart left open on another storefront does not
// resurrect purchased items.
package poller

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/pro5598/Gearnixx-sub000/pkg/logger"
	"github.com/pro5598/Gearnixx-sub000/storefront-service/internal/coerce"
	"github.com/segmentio/kafka-go"
)

const (
	Topic   = "order-placed"
	GroupID = "storefront-service-consumer"

	retryDelay = time.Second
)

// CartResetter clears one user's cart for an order placed at placedAt.
// Consumers define this interface.
type CartResetter interface {
	ResetCart(ctx context.Context, userID, checkoutID string, placedAt time.Time) error
}

// MessageReader is the part of *kafka.Reader the poller uses.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

type Poller struct {
	carts      CartResetter
	reader     MessageReader
	log        *slog.Logger
	retryDelay time.Duration
}

func NewPoller(carts CartResetter, log *slog.Logger, brokers ...string) *Poller {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    Topic,
		GroupID:  GroupID,
		MaxBytes: 10e6, // 10MB
	})
	return NewPollerWithReader(carts, reader, log)
}

func NewPollerWithReader(carts CartResetter, reader MessageReader, log *slog.Logger) *Poller {
	return &Poller{carts: carts, reader: reader, log: logger.OrNop(log), retryDelay: retryDelay}
}

// Run consumes until ctx is cancelled. After a failed read it waits
// retryDelay before reading again.
func (p *Poller) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		if err := p.handleNext(ctx); err != nil {
			select {
			case <-ctx.Done():
				return
			case <-time.After(p.retryDelay):
			}
		}
	}
}

func (p *Poller) Close() {
	if err := p.reader.Close(); err != nil {
		p.log.Error("error closing reader", "error", err)
	}
}

// handleNext returns only read errors.
func (p *Poller) handleNext(ctx context.Context) error {
	m, err := p.reader.ReadMessage(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			p.log.ErrorContext(ctx, "error reading message", "error", err)
		}
		return err
	}

	ev, ok := parseOrderPlaced(m.Value)
	if !ok {
		p.log.WarnContext(ctx, "order event without user id", "offset", m.Offset, "key", string(m.Key))
		return nil
	}

	if err := p.carts.ResetCart(ctx, ev.UserID, ev.CheckoutID, ev.PlacedAt); err != nil {
		p.log.ErrorContext(ctx, "failed to reset cart", "user_id", ev.UserID, "error", err)
	}
	return nil
}

type orderPlaced struct {
	UserID     string
	CheckoutID string
	PlacedAt   time.Time
}

// parseOrderPlaced accepts user ids as strings or numbers, under either
// spelling. An unparseable placement time is left zero.
func parseOrderPlaced(value []byte) (orderPlaced, bool) {
	var payload map[string]any
	if err := json.Unmarshal(value, &payload); err != nil {
		return orderPlaced{}, false
	}
	v, _ := coerce.First(payload, "user_id", "userId")
	ev := orderPlaced{UserID: coerce.String(v)}
	if ev.UserID == "" {
		return orderPlaced{}, false
	}
	v, _ = coerce.First(payload, "checkout_id", "checkoutId")
	ev.CheckoutID = coerce.String(v)
	v, _ = coerce.First(payload, "placed_at", "placedAt")
	if t, err := time.Parse(time.RFC3339Nano, coerce.String(v)); err == nil {
		ev.PlacedAt = t
	}
	return ev, true
}
