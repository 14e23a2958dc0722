package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/pro5598/Gearnixx-sub000/orders-service/internal/domain"
	"github.com/pro5598/Gearnixx-sub000/pkg/logger"
	"github.com/segmentio/kafka-go"
)

const TopicOrderPlaced = "order-placed"

// OrderPlacedEvent is what storefronts consume to reset the buyer's cart.
type OrderPlacedEvent struct {
	OrderID     string    `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	CheckoutID  string    `json:"checkout_id,omitempty"`
	UserID      string    `json:"user_id"`
	Total       string    `json:"total"`
	PlacedAt    time.Time `json:"placed_at"`
}

// MessageWriter is the part of *kafka.Writer the publisher uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Publisher struct {
	writer MessageWriter
	log    *slog.Logger
}

func NewPublisher(log *slog.Logger, brokers ...string) *Publisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  TopicOrderPlaced,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
	return NewPublisherWithWriter(w, log)
}

func NewPublisherWithWriter(w MessageWriter, log *slog.Logger) *Publisher {
	return &Publisher{writer: w, log: logger.OrNop(log)}
}

// PublishOrderPlaced is keyed by user id so one user's events stay ordered.
func (p *Publisher) PublishOrderPlaced(ctx context.Context, order *domain.Order) error {
	payload, err := json.Marshal(OrderPlacedEvent{
		OrderID:     order.ID.String(),
		OrderNumber: order.OrderNumber,
		CheckoutID:  order.CheckoutID,
		UserID:      order.UserID,
		Total:       order.Totals.Total.StringFixed(2),
		PlacedAt:    order.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal order placed event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(order.UserID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(TopicOrderPlaced)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish order %s: %w", order.OrderNumber, err)
	}
	p.log.DebugContext(ctx, "order placed event published", "order_number", order.OrderNumber)
	return nil
}

func (p *Publisher) Close() {
	if err := p.writer.Close(); err != nil {
		p.log.Error("error closing kafka writer", "error", err)
	}
}
