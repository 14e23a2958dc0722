package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pro5598/Gearnixx-sub000/orders-service/internal/domain"
)

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrDuplicateCheckout    = errors.New("order for this checkout already exists")
	ErrDuplicateOrderNumber = errors.New("order number already taken")
	ErrDuplicateReview      = errors.New("product already reviewed for this order")
)

type Credentials struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	GetOrderByCheckoutID(ctx context.Context, checkoutID string) (*domain.Order, error)
	ListOrdersByUserID(ctx context.Context, userID string) ([]*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error
}

type ReviewRepository interface {
	CreateReview(ctx context.Context, review *domain.Review) error
	ListReviewsByUserID(ctx context.Context, userID string) ([]*domain.Review, error)
}
