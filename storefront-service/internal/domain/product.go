package domain

import "github.com/shopspring/decimal"

// Product is the catalog view handed to the cart and wishlist. The catalog
// itself lives in another service; only the fields the lifecycle needs are here.
type Product struct {
	ID       int64           `json:"productId"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock"`
	Active   bool            `json:"active"`
	Category string          `json:"category,omitempty"`
	Brand    string          `json:"brand,omitempty"`
	Image    string          `json:"image,omitempty"`
}
