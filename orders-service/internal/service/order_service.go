package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pro5598/Gearnixx-sub000/orders-service/internal/domain"
	"github.com/pro5598/Gearnixx-sub000/orders-service/internal/payment"
	"github.com/pro5598/Gearnixx-sub000/orders-service/internal/repository"
	"github.com/pro5598/Gearnixx-sub000/pkg/logger"
	"github.com/shopspring/decimal"
)

const maxOrderNumberAttempts = 3

// EventPublisher announces placed orders.
// Consumers define this interface.
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, order *domain.Order) error
}

type PlaceOrderRequest struct {
	CheckoutID      string
	Items           []domain.OrderItem
	CustomerDetails domain.CustomerDetails
	PaymentDetails  domain.PaymentDetails
	Totals          domain.Totals
}

type ReviewRequest struct {
	ProductID   int64
	OrderID     string
	OrderItemID string
	Rating      int
	Title       string
	Comment     string
	Recommend   *bool
}

type OrderService struct {
	orders   repository.OrderRepository
	reviews  repository.ReviewRepository
	payments payment.Authorizer
	events   EventPublisher
	log      *slog.Logger

	now         func() time.Time
	orderNumber func(time.Time) string
}

// NewOrderService wires the service. events may be nil when no broker is configured.
func NewOrderService(
	orders repository.OrderRepository,
	reviews repository.ReviewRepository,
	payments payment.Authorizer,
	events EventPublisher,
	log *slog.Logger) *OrderService {
	return &OrderService{
		orders:      orders,
		reviews:     reviews,
		payments:    payments,
		events:      events,
		log:         logger.OrNop(log),
		now:         time.Now,
		orderNumber: NewOrderNumber,
	}
}

// PlaceOrder authorizes payment and records the order.
//
// A request repeating the checkout id of an existing order of the same user
// returns that order without charging again.
func (s *OrderService) PlaceOrder(ctx context.Context, userID string, req PlaceOrderRequest) (*domain.Order, error) {
	if err := validateOrder(userID, req); err != nil {
		return nil, err
	}

	if existing, err := s.existingOrder(ctx, userID, req.CheckoutID); err != nil || existing != nil {
		return existing, err
	}

	res, err := s.payments.Authorize(ctx, req.Totals.Total, req.PaymentDetails)
	if err != nil {
		return nil, fmt.Errorf("authorize payment: %w", err)
	}
	if !res.Approved {
		s.log.InfoContext(ctx, "payment declined",
			"user_id", userID, "checkout_id", req.CheckoutID, "refusal", res.Refusal.Message())
		return nil, &DeclinedError{Refusal: res.Refusal}
	}

	order := s.buildOrder(userID, req)
	if err := s.insert(ctx, order); err != nil {
		if errors.Is(err, repository.ErrDuplicateCheckout) {
			// a concurrent request with the same checkout won the race
			existing, lookupErr := s.existingOrder(ctx, userID, req.CheckoutID)
			if lookupErr != nil {
				return nil, lookupErr
			}
			if existing == nil {
				return nil, fmt.Errorf("create order: %w", err)
			}
			return existing, nil
		}
		return nil, err
	}

	s.log.InfoContext(ctx, "order placed",
		"order_number", order.OrderNumber, "user_id", userID,
		"total", order.Totals.Total.StringFixed(2), "transaction_id", res.TransactionID)

	if s.events != nil {
		if err := s.events.PublishOrderPlaced(ctx, order); err != nil {
			s.log.WarnContext(ctx, "failed to publish order placed event",
				"order_number", order.OrderNumber, "error", err)
		}
	}
	return order, nil
}

func (s *OrderService) existingOrder(ctx context.Context, userID, checkoutID string) (*domain.Order, error) {
	if checkoutID == "" {
		return nil, nil
	}
	order, err := s.orders.GetOrderByCheckoutID(ctx, checkoutID)
	if errors.Is(err, repository.ErrOrderNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("look up checkout: %w", err)
	}
	if order.UserID != userID {
		return nil, ErrCheckoutConflict
	}
	s.log.InfoContext(ctx, "duplicate checkout, returning existing order",
		"checkout_id", checkoutID, "order_number", order.OrderNumber)
	return order, nil
}

func (s *OrderService) insert(ctx context.Context, order *domain.Order) error {
	var err error
	for range maxOrderNumberAttempts {
		order.OrderNumber = s.orderNumber(order.CreatedAt)
		err = s.orders.CreateOrder(ctx, order)
		if !errors.Is(err, repository.ErrDuplicateOrderNumber) {
			break
		}
	}
	if err != nil && !errors.Is(err, repository.ErrDuplicateCheckout) {
		return fmt.Errorf("create order: %w", err)
	}
	return err
}

func (s *OrderService) buildOrder(userID string, req PlaceOrderRequest) *domain.Order {
	items := make([]domain.OrderItem, len(req.Items))
	for i, it := range req.Items {
		it.ID = uuid.NewString()
		it.Name = strings.TrimSpace(it.Name)
		it.UnitPrice = it.UnitPrice.Round(2)
		items[i] = it
	}
	return &domain.Order{
		ID:              uuid.New(),
		CheckoutID:      req.CheckoutID,
		UserID:          userID,
		Status:          domain.OrderStatusConfirmed,
		Items:           items,
		CustomerDetails: req.CustomerDetails,
		Totals: domain.Totals{
			Subtotal: req.Totals.Subtotal.Round(2),
			Shipping: req.Totals.Shipping.Round(2),
			Tax:      req.Totals.Tax.Round(2),
			Total:    req.Totals.Total.Round(2),
		},
		CreatedAt: s.now().UTC().Truncate(time.Microsecond),
	}
}

func validateOrder(userID string, req PlaceOrderRequest) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("%w: missing user", ErrInvalidOrder)
	}
	if len(req.Items) == 0 {
		return fmt.Errorf("%w: no items", ErrInvalidOrder)
	}
	if strings.TrimSpace(req.CustomerDetails.Email) == "" {
		return fmt.Errorf("%w: customer email is required", ErrInvalidOrder)
	}

	sum := decimal.Zero
	for _, it := range req.Items {
		if it.ProductID <= 0 || it.Quantity <= 0 || it.UnitPrice.IsNegative() {
			return fmt.Errorf("%w: bad item for product %d", ErrInvalidOrder, it.ProductID)
		}
		sum = sum.Add(it.Subtotal())
	}

	t := req.Totals
	if t.Shipping.IsNegative() || t.Tax.IsNegative() || !t.Total.IsPositive() {
		return fmt.Errorf("%w: bad totals", ErrInvalidOrder)
	}
	if !sum.Round(2).Equal(t.Subtotal.Round(2)) {
		return fmt.Errorf("%w: subtotal %s, items sum to %s", ErrTotalsMismatch, t.Subtotal.StringFixed(2), sum.StringFixed(2))
	}
	if !t.Subtotal.Add(t.Shipping).Add(t.Tax).Round(2).Equal(t.Total.Round(2)) {
		return fmt.Errorf("%w: total %s", ErrTotalsMismatch, t.Total.StringFixed(2))
	}
	return nil
}

func (s *OrderService) ListOrders(ctx context.Context, userID string) ([]*domain.Order, error) {
	orders, err := s.orders.ListOrdersByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// GetOrder returns the order when it belongs to userID.
func (s *OrderService) GetOrder(ctx context.Context, userID string, orderID string) (*domain.Order, error) {
	id, err := uuid.Parse(orderID)
	if err != nil {
		return nil, repository.ErrOrderNotFound
	}
	order, err := s.orders.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, repository.ErrOrderNotFound
	}
	return order, nil
}

// UpdateStatus moves an order along confirmed → shipped → delivered, or
// cancels it before shipping.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrIllegalTransition, status)
	}
	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(order.Status, status) {
		return nil, fmt.Errorf("%w: %s to %s", ErrIllegalTransition, order.Status, status)
	}
	if err := s.orders.UpdateOrderStatus(ctx, orderID, status); err != nil {
		return nil, err
	}
	order.Status = status
	order.UpdatedAt = s.now().UTC()
	s.log.InfoContext(ctx, "order status updated", "order_number", order.OrderNumber, "status", string(status))
	return order, nil
}

// SubmitReview records a review of a product from one of the user's
// delivered orders. Each (product, order) pair is reviewable once.
func (s *OrderService) SubmitReview(ctx context.Context, userID string, req ReviewRequest) (*domain.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidRating
	}
	order, err := s.GetOrder(ctx, userID, req.OrderID)
	if err != nil {
		return nil, err
	}
	if order.Status != domain.OrderStatusDelivered {
		return nil, fmt.Errorf("%w: order is %s", ErrNotReviewable, order.Status)
	}
	if !containsProduct(order, req.ProductID) {
		return nil, fmt.Errorf("%w: product %d not in order", ErrNotReviewable, req.ProductID)
	}

	review := &domain.Review{
		ID:          uuid.New(),
		UserID:      userID,
		ProductID:   req.ProductID,
		OrderID:     order.ID,
		OrderItemID: req.OrderItemID,
		Rating:      req.Rating,
		Title:       strings.TrimSpace(req.Title),
		Comment:     strings.TrimSpace(req.Comment),
		Recommend:   req.Recommend,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.reviews.CreateReview(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicateReview) {
			return nil, err
		}
		return nil, fmt.Errorf("create review: %w", err)
	}
	return review, nil
}

func (s *OrderService) ListReviews(ctx context.Context, userID string) ([]*domain.Review, error) {
	reviews, err := s.reviews.ListReviewsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

func containsProduct(order *domain.Order, productID int64) bool {
	for _, it := range order.Items {
		if it.ProductID == productID {
			return true
		}
	}
	return false
}
