package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/pro5598/Gearnixx-sub000/storefront-service/internal/checkout"
	"github.com/pro5598/Gearnixx-sub000/storefront-service/internal/domain"
	"github.com/pro5598/Gearnixx-sub000/storefront-service/internal/session"
	"github.com/pro5598/Gearnixx-sub000/storefront-service/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock ---

type ServicesMock struct {
	mu          sync.Mutex
	orderResp   *domain.CreateOrderResponse
	orders      []domain.RawOrder
	reviews     []domain.Review
	submitted   []domain.ReviewSubmission
	createCalls int
}

func (m *ServicesMock) CreateOrder(_ context.Context, req domain.CreateOrderRequest) (*domain.CreateOrderResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls++
	if m.orderResp != nil {
		return m.orderResp, nil
	}
	return &domain.CreateOrderResponse{
		Success: true,
		Order:   domain.CreatedOrder{ID: "a1", OrderNumber: "ORD-20260314-000001", Total: req.Totals.Total},
	}, nil
}

func (m *ServicesMock) FetchOrders(context.Context, string) (*domain.FetchOrdersResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &domain.FetchOrdersResponse{Success: true, Orders: m.orders}, nil
}

func (m *ServicesMock) FetchUserReviews(context.Context, string) (*domain.FetchReviewsResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &domain.FetchReviewsResponse{Success: true, Reviews: append([]domain.Review(nil), m.reviews...)}, nil
}

func (m *ServicesMock) SubmitReview(_ context.Context, _ string, sub domain.ReviewSubmission) (*domain.SubmitReviewResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submitted = append(m.submitted, sub)
	m.reviews = append(m.reviews, domain.Review{ProductID: sub.ProductID, OrderID: sub.OrderID, Rating: sub.Rating})
	return &domain.SubmitReviewResponse{Success: true}, nil
}

// --- helper ---

type testServer struct {
	handler http.Handler
	store   *storage.MemoryStore
	svc     *ServicesMock
}

func setupServer(t *testing.T) *testServer {
	t.Helper()
	st := storage.NewMemoryStore()
	svc := &ServicesMock{}
	reg := session.NewRegistry(st, svc, session.Config{}, nil)
	return &testServer{handler: NewRouter(reg, RouterConfig{}), store: st, svc: svc}
}

func (s *testServer) do(t *testing.T, method, path, user string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if user != "" {
		req.Header.Set("X-User-ID", user)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out), rec.Body.String())
	return out
}

func mouseBody(qty int) map[string]any {
	return map[string]any{"productId": 1, "name": "Gaming Mouse", "price": "50", "stock": 10, "quantity": qty}
}

var validDetails = domain.CustomerDetails{
	FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com",
	Phone: "+1 555 123 4567", Address: "12 Analytical Engine Road",
}

var validPayment = domain.PaymentDetails{
	AccountHolderName: "Ada Lovelace", AccountNumber: "123456789012", BankName: "First Bank", AccountType: "checking",
}

// --- tests ---

func TestHealth(t *testing.T) {
	s := setupServer(t)

	rec := s.do(t, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestCart_AddTwiceMergesLine(t *testing.T) {
	s := setupServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/cart/items", "1", mouseBody(1))
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = s.do(t, http.MethodPost, "/api/v1/cart/items", "1", mouseBody(1))
	require.Equal(t, http.StatusCreated, rec.Code)

	cart := decodeBody[CartResponseDTO](t, rec)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, 2, cart.ItemCount)
	assert.True(t, decimal.NewFromInt(100).Equal(cart.Totals.Subtotal))
	assert.True(t, cart.Totals.Shipping.IsZero())

	persisted, err := s.store.Get(context.Background(), storage.CartKey("1"))
	require.NoError(t, err)
	assert.Contains(t, persisted, `"productId":1`)
}

func TestCart_UpdateCoercesQuantity(t *testing.T) {
	tests := []struct {
		name     string
		quantity any
		want     int
	}{
		{"numeric string", "3", 3},
		{"fraction truncated", 2.5, 2},
		{"non-numeric removes the line", "abc", 0},
		{"null removes the line", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := setupServer(t)
			s.do(t, http.MethodPost, "/api/v1/cart/items", "1", mouseBody(2))

			rec := s.do(t, http.MethodPut, "/api/v1/cart/items/1", "1", map[string]any{"quantity": tt.quantity})

			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, tt.want, decodeBody[CartResponseDTO](t, rec).ItemCount)
		})
	}
}

func TestCart_AddCoercesQuantity(t *testing.T) {
	s := setupServer(t)
	body := mouseBody(0)
	body["quantity"] = "3"

	rec := s.do(t, http.MethodPost, "/api/v1/cart/items", "1", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, 3, decodeBody[CartResponseDTO](t, rec).ItemCount)

	body["quantity"] = "lots"
	rec = s.do(t, http.MethodPost, "/api/v1/cart/items", "1", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, 4, decodeBody[CartResponseDTO](t, rec).ItemCount)
}

func TestCart_UsersAreIsolated(t *testing.T) {
	s := setupServer(t)
	s.do(t, http.MethodPost, "/api/v1/cart/items", "1", mouseBody(1))

	rec := s.do(t, http.MethodGet, "/api/v1/cart", "2", nil)

	cart := decodeBody[CartResponseDTO](t, rec)
	assert.Empty(t, cart.Items)
}

func TestCart_UpdateAndRemove(t *testing.T) {
	s := setupServer(t)
	s.do(t, http.MethodPost, "/api/v1/cart/items", "1", mouseBody(1))

	rec := s.do(t, http.MethodPut, "/api/v1/cart/items/1", "1", UpdateQuantityRequestDTO{Quantity: 4})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 4, decodeBody[CartResponseDTO](t, rec).ItemCount)

	rec = s.do(t, http.MethodPut, "/api/v1/cart/items/1", "1", UpdateQuantityRequestDTO{Quantity: -5})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, decodeBody[CartResponseDTO](t, rec).ItemCount)

	s.do(t, http.MethodPost, "/api/v1/cart/items", "1", mouseBody(2))
	rec = s.do(t, http.MethodDelete, "/api/v1/cart/items/1", "1", nil)
	assert.Equal(t, 0, decodeBody[CartResponseDTO](t, rec).ItemCount)
}

func TestCart_BadInput(t *testing.T) {
	s := setupServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/cart/items", "1", map[string]any{"productId": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_product_id", decodeBody[ErrorResponse](t, rec).Code)

	rec = s.do(t, http.MethodPut, "/api/v1/cart/items/abc", "1", UpdateQuantityRequestDTO{Quantity: 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader("{"))
	out := httptest.NewRecorder()
	s.handler.ServeHTTP(out, req)
	assert.Equal(t, http.StatusBadRequest, out.Code)
	assert.Equal(t, "invalid_request", decodeBody[ErrorResponse](t, out).Code)
}

func TestWishlist_ToggleAndMoveToCart(t *testing.T) {
	s := setupServer(t)
	product := map[string]any{"productId": 7, "name": "Headset", "price": "79.99", "stock": 3}

	rec := s.do(t, http.MethodPost, "/api/v1/wishlist/toggle", "1", product)
	require.Equal(t, http.StatusOK, rec.Code)
	toggled := decodeBody[ToggleResponseDTO](t, rec)
	assert.True(t, toggled.Added)
	assert.Equal(t, 1, toggled.Count)

	rec = s.do(t, http.MethodPost, "/api/v1/wishlist/items/7/move-to-cart", "1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, decodeBody[WishlistResponseDTO](t, rec).Count)

	cart := decodeBody[CartResponseDTO](t, s.do(t, http.MethodGet, "/api/v1/cart", "1", nil))
	require.Len(t, cart.Items, 1)
	assert.Equal(t, int64(7), cart.Items[0].ProductID)

	rec = s.do(t, http.MethodPost, "/api/v1/wishlist/items/7/move-to-cart", "1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWishlist_AddIsIdempotent(t *testing.T) {
	s := setupServer(t)
	product := map[string]any{"productId": 7, "name": "Headset", "price": "79.99"}

	s.do(t, http.MethodPost, "/api/v1/wishlist/items", "1", product)
	rec := s.do(t, http.MethodPost, "/api/v1/wishlist/items", "1", product)

	assert.Equal(t, 1, decodeBody[WishlistResponseDTO](t, rec).Count)

	rec = s.do(t, http.MethodDelete, "/api/v1/wishlist/items/7", "1", nil)
	assert.Equal(t, 0, decodeBody[WishlistResponseDTO](t, rec).Count)
}

func TestCheckout_EmptyCart(t *testing.T) {
	s := setupServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/checkout", "1", nil)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "empty_cart", decodeBody[ErrorResponse](t, rec).Code)
}

func TestCheckout_NoActiveSession(t *testing.T) {
	s := setupServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/checkout/proceed", "1", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "no_checkout", decodeBody[ErrorResponse](t, rec).Code)
}

func TestCheckout_FullFlow(t *testing.T) {
	s := setupServer(t)
	s.do(t, http.MethodPost, "/api/v1/cart/items", "1", mouseBody(1))

	rec := s.do(t, http.MethodPost, "/api/v1/checkout", "1", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	view := decodeBody[checkout.View](t, rec)
	assert.Equal(t, checkout.StepReview, view.Step)
	assert.True(t, decimal.NewFromInt(69).Equal(view.Totals.Total))

	rec = s.do(t, http.MethodPost, "/api/v1/checkout/proceed", "1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	bad := validDetails
	bad.Email = "not-an-email"
	s.do(t, http.MethodPut, "/api/v1/checkout/customer-details", "1", bad)
	rec = s.do(t, http.MethodPost, "/api/v1/checkout/proceed", "1", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	errResp := decodeBody[ErrorResponse](t, rec)
	assert.Contains(t, errResp.Fields, "email")

	view = decodeBody[checkout.View](t, s.do(t, http.MethodGet, "/api/v1/checkout", "1", nil))
	assert.Equal(t, checkout.StepDetails, view.Step)

	s.do(t, http.MethodPut, "/api/v1/checkout/customer-details", "1", validDetails)
	rec = s.do(t, http.MethodPost, "/api/v1/checkout/proceed", "1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, checkout.StepPayment, decodeBody[checkout.View](t, rec).Step)

	rec = s.do(t, http.MethodPut, "/api/v1/checkout/payment-details", "1", validPayment)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "********9012", decodeBody[checkout.View](t, rec).PaymentDetails.AccountNumber)

	rec = s.do(t, http.MethodPost, "/api/v1/checkout/submit", "1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view = decodeBody[checkout.View](t, rec)
	assert.Equal(t, checkout.StepSuccess, view.Step)
	require.NotNil(t, view.OrderResult)
	assert.Equal(t, "ORD-20260314-000001", view.OrderResult.OrderNumber)
	assert.True(t, decimal.NewFromInt(69).Equal(view.OrderResult.Total))

	cart := decodeBody[CartResponseDTO](t, s.do(t, http.MethodGet, "/api/v1/cart", "1", nil))
	assert.Equal(t, 0, cart.ItemCount)
	assert.Equal(t, 1, s.svc.createCalls)
}

func TestCheckout_DeclinedOrderReturnsToPayment(t *testing.T) {
	s := setupServer(t)
	s.svc.orderResp = &domain.CreateOrderResponse{Success: false, Message: "Payment declined"}
	s.do(t, http.MethodPost, "/api/v1/cart/items", "1", mouseBody(1))
	s.do(t, http.MethodPost, "/api/v1/checkout", "1", nil)
	s.do(t, http.MethodPost, "/api/v1/checkout/proceed", "1", nil)
	s.do(t, http.MethodPut, "/api/v1/checkout/customer-details", "1", validDetails)
	s.do(t, http.MethodPost, "/api/v1/checkout/proceed", "1", nil)
	s.do(t, http.MethodPut, "/api/v1/checkout/payment-details", "1", validPayment)

	rec := s.do(t, http.MethodPost, "/api/v1/checkout/submit", "1", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	view := decodeBody[checkout.View](t, rec)
	assert.Equal(t, checkout.StepPayment, view.Step)
	assert.Equal(t, "Payment declined", view.Message)

	cart := decodeBody[CartResponseDTO](t, s.do(t, http.MethodGet, "/api/v1/cart", "1", nil))
	assert.Equal(t, 1, cart.ItemCount)
}

func TestCheckout_IllegalTransitionAndCancel(t *testing.T) {
	s := setupServer(t)
	s.do(t, http.MethodPost, "/api/v1/cart/items", "1", mouseBody(1))
	s.do(t, http.MethodPost, "/api/v1/checkout", "1", nil)

	rec := s.do(t, http.MethodPost, "/api/v1/checkout/submit", "1", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "illegal_transition", decodeBody[ErrorResponse](t, rec).Code)

	rec = s.do(t, http.MethodDelete, "/api/v1/checkout", "1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/checkout", "1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrders_ListWithReviewFlags(t *testing.T) {
	s := setupServer(t)
	s.svc.orders = []domain.RawOrder{
		{"id": "o1", "orderNumber": "ORD-1", "status": "delivered", "createdAt": "2026-03-01T10:00:00Z",
			"items": []any{map[string]any{"productId": 42.0, "price": 10.0, "quantity": 2.0}}},
		{"id": "o2", "orderNumber": "ORD-2", "status": "shipped", "createdAt": "2026-03-05T10:00:00Z",
			"items": []any{map[string]any{"productId": 42.0, "price": 5.0, "quantity": 1.0}}},
	}
	s.svc.reviews = []domain.Review{{ProductID: 42, OrderID: "o1"}}

	rec := s.do(t, http.MethodGet, "/api/v1/orders", "1", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeBody[[]OrderResponseDTO](t, rec)
	require.Len(t, list, 2)
	assert.Equal(t, "o2", list[0].ID)
	assert.False(t, list[0].Items[0].Reviewable)
	assert.True(t, list[1].Items[0].Reviewed)
	assert.False(t, list[1].Items[0].Reviewable)
	assert.True(t, decimal.NewFromInt(20).Equal(list[1].Total))
}

func TestOrders_GetOrder(t *testing.T) {
	s := setupServer(t)
	s.svc.orders = []domain.RawOrder{{"id": "o1", "orderNumber": "ORD-1", "total": 12.5}}

	rec := s.do(t, http.MethodGet, "/api/v1/orders/ORD-1", "1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "o1", decodeBody[OrderResponseDTO](t, rec).ID)

	rec = s.do(t, http.MethodGet, "/api/v1/orders/ORD-9", "1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReviews_Submit(t *testing.T) {
	s := setupServer(t)
	s.svc.orders = []domain.RawOrder{
		{"id": "o1", "orderNumber": "ORD-1", "status": "delivered"},
		{"id": "o2", "orderNumber": "ORD-2", "status": "processing"},
	}
	review := domain.ReviewSubmission{ProductID: 42, OrderID: "ORD-1", OrderItemID: "1", Rating: 5}

	rec := s.do(t, http.MethodPost, "/api/v1/reviews", "1", review)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Len(t, s.svc.submitted, 1)
	assert.Equal(t, "o1", s.svc.submitted[0].OrderID)

	rec = s.do(t, http.MethodPost, "/api/v1/reviews", "1", review)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "already_reviewed", decodeBody[ErrorResponse](t, rec).Code)

	review.OrderID = "ORD-2"
	rec = s.do(t, http.MethodPost, "/api/v1/reviews", "1", review)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "not_reviewable", decodeBody[ErrorResponse](t, rec).Code)

	review.OrderID = "ORD-1"
	review.ProductID = 43
	review.Rating = 9
	rec = s.do(t, http.MethodPost, "/api/v1/reviews", "1", review)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_rating", decodeBody[ErrorResponse](t, rec).Code)
}
