package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

type NormalizedOrderItem struct {
	OrderItemID string          `json:"orderItemId"`
	ProductID   int64           `json:"productId"`
	Name        string          `json:"name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Image       string          `json:"image,omitempty"`
}

// NormalizedOrder is a read-only projection of an order record returned by
// the order service. It is rebuilt on every fetch.
type NormalizedOrder struct {
	ID            string                `json:"id"`
	DisplayNumber string                `json:"displayNumber"`
	CreatedAt     time.Time             `json:"createdAt"`
	RelativeTime  string                `json:"relativeTime"`
	Status        OrderStatus           `json:"status"`
	CustomerName  string                `json:"customerName"`
	Items         []NormalizedOrderItem `json:"items"`
	Subtotal      decimal.Decimal       `json:"subtotal"`
	Shipping      decimal.Decimal       `json:"shipping"`
	Tax           decimal.Decimal       `json:"tax"`
	Total         decimal.Decimal       `json:"total"`
}

// CreateOrderRequest is the payload of the order-creation call.
type CreateOrderRequest struct {
	CheckoutID      string          `json:"checkoutId"`
	UserID          string          `json:"userId"`
	Items           []OrderLine     `json:"items"`
	CustomerDetails CustomerDetails `json:"customerDetails"`
	PaymentDetails  PaymentDetails  `json:"paymentDetails"`
	Totals          Totals          `json:"totals"`
}

type CreatedOrder struct {
	ID          string          `json:"id"`
	OrderNumber string          `json:"orderNumber"`
	Total       decimal.Decimal `json:"total"`
}

type CreateOrderResponse struct {
	Success bool         `json:"success"`
	Order   CreatedOrder `json:"order"`
	Message string       `json:"message,omitempty"`
}

// RawOrder is an order record exactly as the order service returned it.
// Field names vary between backend versions.
type RawOrder map[string]any

type FetchOrdersResponse struct {
	Success bool       `json:"success"`
	Orders  []RawOrder `json:"orders"`
	Message string     `json:"message,omitempty"`
}
