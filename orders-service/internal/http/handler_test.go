package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pro5598/Gearnixx-sub000/orders-service/internal/domain"
	"github.com/pro5598/Gearnixx-sub000/orders-service/internal/payment"
	"github.com/pro5598/Gearnixx-sub000/orders-service/internal/repository"
	"github.com/pro5598/Gearnixx-sub000/orders-service/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serviceMock struct {
	order     *domain.Order
	orders    []*domain.Order
	review    *domain.Review
	reviews   []*domain.Review
	err       error
	lastUser  string
	lastPlace service.PlaceOrderRequest
	lastRev   service.ReviewRequest
}

func (m *serviceMock) PlaceOrder(_ context.Context, userID string, req service.PlaceOrderRequest) (*domain.Order, error) {
	m.lastUser, m.lastPlace = userID, req
	return m.order, m.err
}

func (m *serviceMock) ListOrders(_ context.Context, userID string) ([]*domain.Order, error) {
	m.lastUser = userID
	return m.orders, m.err
}

func (m *serviceMock) GetOrder(_ context.Context, userID string, _ string) (*domain.Order, error) {
	m.lastUser = userID
	return m.order, m.err
}

func (m *serviceMock) UpdateStatus(_ context.Context, _ uuid.UUID, status domain.OrderStatus) (*domain.Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	o := *m.order
	o.Status = status
	return &o, nil
}

func (m *serviceMock) SubmitReview(_ context.Context, userID string, req service.ReviewRequest) (*domain.Review, error) {
	m.lastUser, m.lastRev = userID, req
	return m.review, m.err
}

func (m *serviceMock) ListReviews(_ context.Context, userID string) ([]*domain.Review, error) {
	m.lastUser = userID
	return m.reviews, m.err
}

func sampleOrder() *domain.Order {
	return &domain.Order{
		ID:          uuid.MustParse("7d1c1a52-52a4-4cde-9d0e-6f1e8f0c3b11"),
		OrderNumber: "ORD-20260314-000001",
		CheckoutID:  "chk-1",
		UserID:      "123",
		Status:      domain.OrderStatusConfirmed,
		Items: []domain.OrderItem{
			{ID: "item-1", ProductID: 42, Name: "Headset", Quantity: 2, UnitPrice: decimal.RequireFromString("25.00")},
		},
		CustomerDetails: domain.CustomerDetails{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"},
		Totals: domain.Totals{
			Subtotal: decimal.RequireFromString("50.00"),
			Shipping: decimal.RequireFromString("15.00"),
			Tax:      decimal.RequireFromString("4.00"),
			Total:    decimal.RequireFromString("69.00"),
		},
		CreatedAt: time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
	}
}

func do(t *testing.T, h http.Handler, method, path, userID string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func createBody() map[string]any {
	return map[string]any{
		"checkoutId": "chk-1",
		"items": []map[string]any{
			{"productId": 42, "name": "Headset", "quantity": 2, "price": "25"},
		},
		"customerDetails": map[string]any{"firstName": "Ada", "email": "ada@example.com"},
		"paymentDetails":  map[string]any{"accountNumber": "12345678", "accountType": "savings"},
		"totals":          map[string]any{"subtotal": "50", "shipping": "15", "tax": "4", "total": "69"},
	}
}

func TestCreateOrder_Success(t *testing.T) {
	svc := &serviceMock{order: sampleOrder()}
	h := NewRouter(svc, RouterConfig{})

	rec, out := do(t, h, http.MethodPost, "/api/v1/orders", "123", createBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	assert.Equal(t, true, out["success"])
	order := out["order"].(map[string]any)
	assert.Equal(t, "7d1c1a52-52a4-4cde-9d0e-6f1e8f0c3b11", order["id"])
	assert.Equal(t, "ORD-20260314-000001", order["orderNumber"])
	assert.Equal(t, "69", order["total"])

	assert.Equal(t, "123", svc.lastUser)
	assert.Equal(t, "chk-1", svc.lastPlace.CheckoutID)
	require.Len(t, svc.lastPlace.Items, 1)
	assert.True(t, svc.lastPlace.Items[0].UnitPrice.Equal(decimal.NewFromInt(25)))
	assert.True(t, svc.lastPlace.Totals.Total.Equal(decimal.NewFromInt(69)))
}

func TestCreateOrder_UserFromBody(t *testing.T) {
	svc := &serviceMock{order: sampleOrder()}
	h := NewRouter(svc, RouterConfig{})

	body := createBody()
	body["userId"] = "77"
	rec, _ := do(t, h, http.MethodPost, "/api/v1/orders", "", body)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "77", svc.lastUser)
}

func TestCreateOrder_NoUser(t *testing.T) {
	h := NewRouter(&serviceMock{}, RouterConfig{})
	rec, out := do(t, h, http.MethodPost, "/api/v1/orders", "", createBody())
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, false, out["success"])
}

func TestCreateOrder_Failures(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"declined", &service.DeclinedError{Refusal: payment.RefusalInsufficientFunds}, http.StatusPaymentRequired, "payment_declined", payment.RefusalInsufficientFunds.Message()},
		{"invalid", service.ErrInvalidOrder, http.StatusUnprocessableEntity, "invalid_order", ""},
		{"mismatch", service.ErrTotalsMismatch, http.StatusUnprocessableEntity, "invalid_order", ""},
		{"conflict", service.ErrCheckoutConflict, http.StatusConflict, "checkout_conflict", ""},
		{"internal", errors.New("db down"), http.StatusInternalServerError, "internal_error", "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewRouter(&serviceMock{err: tt.err}, RouterConfig{})
			rec, out := do(t, h, http.MethodPost, "/api/v1/orders", "123", createBody())

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, false, out["success"])
			assert.Equal(t, tt.code, out["code"])
			assert.NotEmpty(t, out["message"])
			if tt.message != "" {
				assert.Equal(t, tt.message, out["message"])
			}
		})
	}
}

func TestCreateOrder_BadBody(t *testing.T) {
	h := NewRouter(&serviceMock{}, RouterConfig{})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewBufferString("{"))
	req.Header.Set("X-User-ID", "123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListOrders(t *testing.T) {
	svc := &serviceMock{orders: []*domain.Order{sampleOrder()}}
	h := NewRouter(svc, RouterConfig{})

	rec, out := do(t, h, http.MethodGet, "/api/v1/users/123/orders", "123", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, out["success"])

	orders := out["orders"].([]any)
	require.Len(t, orders, 1)
	o := orders[0].(map[string]any)
	assert.Equal(t, "confirmed", o["status"])
	assert.Equal(t, "2026-03-14T10:00:00Z", o["createdAt"])
	customer := o["customerDetails"].(map[string]any)
	assert.Equal(t, "Ada", customer["firstName"])
	item := o["items"].([]any)[0].(map[string]any)
	assert.Equal(t, float64(42), item["productId"])
	assert.Equal(t, "item-1", item["id"])
}

func TestListOrders_OtherUserForbidden(t *testing.T) {
	h := NewRouter(&serviceMock{}, RouterConfig{})
	rec, out := do(t, h, http.MethodGet, "/api/v1/users/123/orders", "999", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, false, out["success"])
}

func TestGetOrder_NotFound(t *testing.T) {
	h := NewRouter(&serviceMock{err: repository.ErrOrderNotFound}, RouterConfig{})
	rec, out := do(t, h, http.MethodGet, "/api/v1/orders/"+uuid.NewString(), "123", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "order_not_found", out["code"])
}

func TestUpdateStatus(t *testing.T) {
	h := NewRouter(&serviceMock{order: sampleOrder()}, RouterConfig{})

	rec, out := do(t, h, http.MethodPatch, "/api/v1/orders/"+sampleOrder().ID.String()+"/status", "", map[string]string{"status": "shipped"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "shipped", out["order"].(map[string]any)["status"])

	rec, _ = do(t, h, http.MethodPatch, "/api/v1/orders/not-a-uuid/status", "", map[string]string{"status": "shipped"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateStatus_Illegal(t *testing.T) {
	h := NewRouter(&serviceMock{err: service.ErrIllegalTransition}, RouterConfig{})
	rec, out := do(t, h, http.MethodPatch, "/api/v1/orders/"+uuid.NewString()+"/status", "", map[string]string{"status": "confirmed"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "illegal_transition", out["code"])
}

func TestSubmitReview(t *testing.T) {
	orderID := uuid.New()
	svc := &serviceMock{review: &domain.Review{
		ID: uuid.New(), UserID: "123", ProductID: 42, OrderID: orderID, Rating: 5, CreatedAt: time.Now(),
	}}
	h := NewRouter(svc, RouterConfig{})

	rec, out := do(t, h, http.MethodPost, "/api/v1/reviews", "123", map[string]any{
		"productId": 42, "orderId": orderID.String(), "orderItemId": "item-1", "rating": 5, "title": "Great",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, int64(42), svc.lastRev.ProductID)
	assert.Equal(t, orderID.String(), svc.lastRev.OrderID)
	assert.Equal(t, "item-1", svc.lastRev.OrderItemID)
}

func TestSubmitReview_Failures(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"duplicate", repository.ErrDuplicateReview, http.StatusConflict, "already_reviewed"},
		{"not reviewable", service.ErrNotReviewable, http.StatusConflict, "not_reviewable"},
		{"rating", service.ErrInvalidRating, http.StatusBadRequest, "invalid_rating"},
		{"missing order", repository.ErrOrderNotFound, http.StatusNotFound, "order_not_found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewRouter(&serviceMock{err: tt.err}, RouterConfig{})
			rec, out := do(t, h, http.MethodPost, "/api/v1/reviews", "123", map[string]any{"productId": 42, "orderId": "x", "rating": 5})
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, false, out["success"])
			assert.Equal(t, tt.code, out["code"])
		})
	}
}

func TestSubmitReview_RequiresUser(t *testing.T) {
	h := NewRouter(&serviceMock{}, RouterConfig{})
	rec, _ := do(t, h, http.MethodPost, "/api/v1/reviews", "", map[string]any{"productId": 42, "rating": 5})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListReviews(t *testing.T) {
	orderID := uuid.New()
	svc := &serviceMock{reviews: []*domain.Review{
		{ID: uuid.New(), UserID: "123", ProductID: 42, OrderID: orderID, Rating: 4},
	}}
	h := NewRouter(svc, RouterConfig{})

	rec, out := do(t, h, http.MethodGet, "/api/v1/users/123/reviews", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "123", svc.lastUser)

	reviews := out["reviews"].([]any)
	require.Len(t, reviews, 1)
	r := reviews[0].(map[string]any)
	assert.Equal(t, float64(42), r["productId"])
	assert.Equal(t, orderID.String(), r["orderId"])
}

func TestHealth(t *testing.T) {
	h := NewRouter(&serviceMock{}, RouterConfig{Ping: func(context.Context) error { return nil }})
	rec, out := do(t, h, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", out["status"])

	h = NewRouter(&serviceMock{}, RouterConfig{Ping: func(context.Context) error { return errors.New("refused") }})
	rec, out = do(t, h, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "degraded", out["status"])
}
