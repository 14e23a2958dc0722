package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/pro5598/Gearnixx-sub000/orders-service/internal/domain"
	"github.com/pro5598/Gearnixx-sub000/orders-service/internal/payment"
	"github.com/pro5598/Gearnixx-sub000/orders-service/internal/repository"
	"github.com/shopspring/decimal"
)

// MockRepository implements repository.OrderRepository and
// repository.ReviewRepository over maps.
type MockRepository struct {
	mu sync.Mutex

	orders  map[uuid.UUID]*domain.Order
	reviews []*domain.Review

	CreateErrs   []error // consumed one per CreateOrder call
	CreateCalls  int
	ListErr      error
	ReviewErr    error
	StatusUpdate *domain.OrderStatus
}

func newMockRepository() *MockRepository {
	return &MockRepository{orders: map[uuid.UUID]*domain.Order{}}
}

func (m *MockRepository) CreateOrder(_ context.Context, order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls++
	if len(m.CreateErrs) > 0 {
		err := m.CreateErrs[0]
		m.CreateErrs = m.CreateErrs[1:]
		if err != nil {
			return err
		}
	}
	cp := *order
	m.orders[order.ID] = &cp
	return nil
}

func (m *MockRepository) GetOrderByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *MockRepository) GetOrderByCheckoutID(_ context.Context, checkoutID string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.CheckoutID == checkoutID {
			cp := *o
			return &cp, nil
		}
	}
	return nil, repository.ErrOrderNotFound
}

func (m *MockRepository) ListOrdersByUserID(_ context.Context, userID string) ([]*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	out := []*domain.Order{}
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *MockRepository) UpdateOrderStatus(_ context.Context, id uuid.UUID, status domain.OrderStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return repository.ErrOrderNotFound
	}
	o.Status = status
	m.StatusUpdate = &status
	return nil
}

func (m *MockRepository) CreateReview(_ context.Context, review *domain.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReviewErr != nil {
		return m.ReviewErr
	}
	for _, r := range m.reviews {
		if r.UserID == review.UserID && r.ProductID == review.ProductID && r.OrderID == review.OrderID {
			return repository.ErrDuplicateReview
		}
	}
	m.reviews = append(m.reviews, review)
	return nil
}

func (m *MockRepository) ListReviewsByUserID(_ context.Context, userID string) ([]*domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*domain.Review{}
	for _, r := range m.reviews {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

// put stores an order directly, bypassing the service.
func (m *MockRepository) put(o *domain.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[o.ID] = o
}

type MockAuthorizer struct {
	Result payment.Result
	Err    error
	Calls  int
}

func (m *MockAuthorizer) Authorize(_ context.Context, _ decimal.Decimal, _ domain.PaymentDetails) (payment.Result, error) {
	m.Calls++
	return m.Result, m.Err
}

type MockPublisher struct {
	Published []*domain.Order
	Err       error
}

func (m *MockPublisher) PublishOrderPlaced(_ context.Context, order *domain.Order) error {
	if m.Err != nil {
		return m.Err
	}
	m.Published = append(m.Published, order)
	return nil
}
