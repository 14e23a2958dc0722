package checkout

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestPricing_BelowThreshold(t *testing.T) {
	totals := DefaultPricing().Totals(dec("50"))

	assert.True(t, dec("15").Equal(totals.Shipping))
	assert.True(t, dec("4").Equal(totals.Tax))
	assert.True(t, dec("69").Equal(totals.Total), "got %s", totals.Total)
}

func TestPricing_FreeShippingAtThreshold(t *testing.T) {
	totals := DefaultPricing().Totals(dec("100"))

	assert.True(t, totals.Shipping.IsZero())
	assert.True(t, dec("108").Equal(totals.Total), "got %s", totals.Total)
}

func TestPricing_RoundsToCents(t *testing.T) {
	totals := DefaultPricing().Totals(dec("19.99"))

	assert.True(t, dec("1.60").Equal(totals.Tax), "got %s", totals.Tax)
	assert.True(t, dec("36.59").Equal(totals.Total), "got %s", totals.Total)
}

func TestPricing_Empty(t *testing.T) {
	totals := DefaultPricing().Totals(decimal.Zero)

	assert.True(t, totals.Total.IsZero())
}
