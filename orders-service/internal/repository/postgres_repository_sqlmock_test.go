package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pro5598/Gearnixx-sub000/orders-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var orderRowColumns = []string{
	"id", "order_number", "checkout_id", "user_id", "status", "items", "customer_details",
	"subtotal", "shipping", "tax", "total", "created_at", "updated_at",
}

func setupMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return newRepository(db), mock
}

func anyArgs(n int) []driver.Value {
	args := make([]driver.Value, n)
	for i := range args {
		args[i] = sqlmock.AnyArg()
	}
	return args
}

func TestMockCreateOrder_MapsUniqueViolations(t *testing.T) {
	tests := []struct {
		name       string
		constraint string
		want       error
	}{
		{"checkout", "orders_checkout_id_key", ErrDuplicateCheckout},
		{"order number", "orders_order_number_key", ErrDuplicateOrderNumber},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := setupMockRepo(t)
			mock.ExpectExec("INSERT INTO orders").
				WithArgs(anyArgs(12)...).
				WillReturnError(&pq.Error{Code: uniqueViolation, Constraint: tt.constraint})

			err := repo.CreateOrder(context.Background(), newTestOrder("u1", "chk-1", "ORD-20260314-000001", time.Now()))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestMockCreateOrder_OtherErrorsAreWrapped(t *testing.T) {
	repo, mock := setupMockRepo(t)
	boom := errors.New("connection reset")
	mock.ExpectExec("INSERT INTO orders").WithArgs(anyArgs(12)...).WillReturnError(boom)

	err := repo.CreateOrder(context.Background(), newTestOrder("u1", "", "ORD-20260314-000001", time.Now()))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrDuplicateCheckout)
}

func TestMockListOrdersByUserID_DecodesRows(t *testing.T) {
	repo, mock := setupMockRepo(t)
	id := uuid.New()
	created := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(orderRowColumns).AddRow(
		id.String(), "ORD-20260314-000001", "chk-1", "u1", "delivered",
		[]byte(`[{"id":"item-1","productId":42,"name":"Headset","quantity":2,"price":"25.00"}]`),
		[]byte(`{"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com"}`),
		"50.00", "15.00", "4.00", "69.00", created, created,
	)
	mock.ExpectQuery("FROM orders WHERE user_id").WithArgs("u1").WillReturnRows(rows)

	orders, err := repo.ListOrdersByUserID(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, orders, 1)

	o := orders[0]
	assert.Equal(t, id, o.ID)
	assert.Equal(t, domain.OrderStatusDelivered, o.Status)
	assert.Equal(t, "Ada", o.CustomerDetails.FirstName)
	assert.Equal(t, "69", o.Totals.Total.String())
	require.Len(t, o.Items, 1)
	assert.Equal(t, int64(42), o.Items[0].ProductID)
	assert.Equal(t, "25", o.Items[0].UnitPrice.String())
}

func TestMockListOrdersByUserID_Empty(t *testing.T) {
	repo, mock := setupMockRepo(t)
	mock.ExpectQuery("FROM orders WHERE user_id").WithArgs("u1").WillReturnRows(sqlmock.NewRows(orderRowColumns))

	orders, err := repo.ListOrdersByUserID(context.Background(), "u1")
	require.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}

func TestMockListOrdersByUserID_CorruptItems(t *testing.T) {
	repo, mock := setupMockRepo(t)
	created := time.Now()
	rows := sqlmock.NewRows(orderRowColumns).AddRow(
		uuid.NewString(), "ORD-20260314-000001", "", "u1", "confirmed",
		[]byte(`not json`), []byte(`{}`),
		"50.00", "15.00", "4.00", "69.00", created, created,
	)
	mock.ExpectQuery("FROM orders WHERE user_id").WithArgs("u1").WillReturnRows(rows)

	_, err := repo.ListOrdersByUserID(context.Background(), "u1")
	assert.Error(t, err)
}

func TestMockGetOrderByCheckoutID_NotFound(t *testing.T) {
	repo, mock := setupMockRepo(t)
	mock.ExpectQuery("FROM orders WHERE checkout_id").WithArgs("chk-9").WillReturnRows(sqlmock.NewRows(orderRowColumns))

	_, err := repo.GetOrderByCheckoutID(context.Background(), "chk-9")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestMockUpdateOrderStatus_NoRows(t *testing.T) {
	repo, mock := setupMockRepo(t)
	id := uuid.New()
	mock.ExpectExec("UPDATE orders SET status").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateOrderStatus(context.Background(), id, domain.OrderStatusShipped)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestMockCreateReview_Duplicate(t *testing.T) {
	repo, mock := setupMockRepo(t)
	mock.ExpectExec("INSERT INTO reviews").
		WithArgs(anyArgs(10)...).
		WillReturnError(&pq.Error{Code: uniqueViolation, Constraint: "reviews_user_product_order_key"})

	err := repo.CreateReview(context.Background(), &domain.Review{
		ID: uuid.New(), UserID: "u1", ProductID: 42, OrderID: uuid.New(), Rating: 4, CreatedAt: time.Now(),
	})
	assert.ErrorIs(t, err, ErrDuplicateReview)
}

func TestMockListReviewsByUserID(t *testing.T) {
	repo, mock := setupMockRepo(t)
	orderID := uuid.New()
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "product_id", "order_id", "order_item_id", "rating", "title", "comment", "recommend", "created_at",
	}).
		AddRow(uuid.NewString(), "u1", int64(42), orderID.String(), "item-1", int64(5), "Great", "", true, time.Now()).
		AddRow(uuid.NewString(), "u1", int64(7), orderID.String(), "item-2", int64(3), "", "", nil, time.Now())
	mock.ExpectQuery("FROM reviews WHERE user_id").WithArgs("u1").WillReturnRows(rows)

	reviews, err := repo.ListReviewsByUserID(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, int64(42), reviews[0].ProductID)
	assert.Equal(t, orderID, reviews[0].OrderID)
	require.NotNil(t, reviews[0].Recommend)
	assert.True(t, *reviews[0].Recommend)
	assert.Nil(t, reviews[1].Recommend)
}
