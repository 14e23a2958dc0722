package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// WishlistEntry is a snapshot of a product taken when it was saved.
// It does not follow later catalog changes.
type WishlistEntry struct {
	ProductID int64           `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image,omitempty"`
	Stock     int             `json:"stock"`
	DateAdded time.Time       `json:"dateAdded"`
}
