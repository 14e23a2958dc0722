package domain

import "github.com/shopspring/decimal"

type CartLine struct {
	ProductID     int64           `json:"productId"`
	Name          string          `json:"name"`
	UnitPrice     decimal.Decimal `json:"price"`
	Quantity      int             `json:"quantity"`
	StockSnapshot int             `json:"stock"`
	Active        bool            `json:"active"`
	Category      string          `json:"category,omitempty"`
	Brand         string          `json:"brand,omitempty"`
}

// Subtotal is unit price times quantity.
func (l CartLine) Subtotal() decimal.Decimal {
	if l.Quantity <= 0 {
		return decimal.Zero
	}
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// OrderLine is one cart line as sent to order creation.
type OrderLine struct {
	ProductID int64           `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"price"`
	Category  string          `json:"category,omitempty"`
	Brand     string          `json:"brand,omitempty"`
}
