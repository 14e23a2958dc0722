package client

import (
	"context"
	"net/http"

	"github.com/pro5598/Gearnixx-sub000/storefront-service/internal/domain"
)

// CreateOrder places an order. A declined order comes back as a response
// with Success=false, not as an error.
func (c *OrdersClient) CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (*domain.CreateOrderResponse, error) {
	var resp domain.CreateOrderResponse
	if err := c.call(ctx, "orders.create", http.MethodPost, "/api/v1/orders", req.UserID, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FetchOrders returns the user's orders as raw records; numbers are kept as json.Number.
func (c *OrdersClient) FetchOrders(ctx context.Context, userID string) (*domain.FetchOrdersResponse, error) {
	var resp domain.FetchOrdersResponse
	if err := c.call(ctx, "orders.list", http.MethodGet, userPath(userID, "orders"), userID, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
