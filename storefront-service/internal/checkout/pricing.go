package checkout

import (
	"github.com/pro5598/Gearnixx-sub000/storefront-service/internal/domain"
	"github.com/shopspring/decimal"
)

// Pricing derives shipping and tax from a cart subtotal.
type Pricing struct {
	ShippingFee           decimal.Decimal
	FreeShippingThreshold decimal.Decimal
	TaxRate               decimal.Decimal
}

func DefaultPricing() Pricing {
	return Pricing{
		ShippingFee:           decimal.RequireFromString("15.00"),
		FreeShippingThreshold: decimal.RequireFromString("100.00"),
		TaxRate:               decimal.RequireFromString("0.08"),
	}
}

// Totals: free shipping at or above the threshold, none for an empty
// subtotal, tax on the subtotal only. Everything is rounded to cents.
func (p Pricing) Totals(subtotal decimal.Decimal) domain.Totals {
	subtotal = subtotal.Round(2)

	shipping := p.ShippingFee
	if !subtotal.IsPositive() || subtotal.GreaterThanOrEqual(p.FreeShippingThreshold) {
		shipping = decimal.Zero
	}
	tax := decimal.Zero
	if subtotal.IsPositive() {
		tax = subtotal.Mul(p.TaxRate).Round(2)
	}

	return domain.Totals{
		Subtotal: subtotal,
		Shipping: shipping.Round(2),
		Tax:      tax,
		Total:    subtotal.Add(shipping).Add(tax).Round(2),
	}
}
