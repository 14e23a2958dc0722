package checkout

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/pro5598/Gearnixx-sub000/storefront-service/internal/domain"
	"github.com/shopspring/decimal"
)

// cartMock implements Cart for testing
type cartMock struct {
	mu       sync.Mutex
	lines    []domain.OrderLine
	clearErr error
	cleared  bool
}

func newCart(price string, qty int) *cartMock {
	return &cartMock{lines: []domain.OrderLine{
		{ProductID: 1, Name: "Gaming Mouse", Quantity: qty, UnitPrice: decimal.RequireFromString(price)},
	}}
}

func (c *cartMock) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

func (c *cartMock) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := decimal.Zero
	for _, l := range c.lines {
		t = t.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return t
}

func (c *cartMock) ToOrderPayload() []domain.OrderLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.OrderLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *cartMock) Clear(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.clearErr != nil {
		return c.clearErr
	}
	c.lines = nil
	c.cleared = true
	return nil
}

// orderServiceMock implements OrderCreator for testing
type orderServiceMock struct {
	calls   atomic.Int32
	resp    *domain.CreateOrderResponse
	err     error
	started chan struct{}
	release chan struct{}

	mu      sync.Mutex
	lastReq domain.CreateOrderRequest
}

func (m *orderServiceMock) CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (*domain.CreateOrderResponse, error) {
	m.calls.Add(1)
	m.mu.Lock()
	m.lastReq = req
	m.mu.Unlock()
	if m.started != nil {
		m.started <- struct{}{}
	}
	if m.release != nil {
		<-m.release
	}
	if m.err != nil {
		return nil, m.err
	}
	if m.resp != nil {
		return m.resp, nil
	}
	// echo the totals back like the real service does
	return &domain.CreateOrderResponse{
		Success: true,
		Order: domain.CreatedOrder{
			ID:          "9f0c",
			OrderNumber: "ORD-20260314-000001",
			Total:       req.Totals.Total,
		},
	}, nil
}

func (m *orderServiceMock) request() domain.CreateOrderRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastReq
}
