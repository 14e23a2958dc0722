// Package orders turns the order service's loosely shaped order records into
// NormalizedOrder values. Normalize never fails: fields it cannot read fall
// back to zero values.
package orders

import (
	"log/slog"
	"strings"
	"time"

	"github.com/pro5598/Gearnixx-sub000/pkg/logger"
	"github.com/pro5598/Gearnixx-sub000/storefront-service/internal/coerce"
	"github.com/pro5598/Gearnixx-sub000/storefront-service/internal/domain"
	"github.com/shopspring/decimal"
)

// totalExtractor reports a candidate order total, ok=false when the record
// does not carry one it can use.
type totalExtractor func(raw domain.RawOrder, items []domain.NormalizedOrderItem) (decimal.Decimal, bool)

// totalStrategies are tried in order; the first positive value wins. The
// item sum comes last and always answers.
var totalStrategies = []totalExtractor{
	positiveField("total"),
	positiveField("totalAmount"),
	positiveField("subtotal"),
	positiveField("price"),
	positiveField("amount"),
	positiveField("finalAmount"),
	itemsSum,
}

func positiveField(name string) totalExtractor {
	return func(raw domain.RawOrder, _ []domain.NormalizedOrderItem) (decimal.Decimal, bool) {
		d, ok := coerce.Decimal(raw[name])
		if !ok || !d.IsPositive() {
			return decimal.Zero, false
		}
		return d, true
	}
}

func itemsSum(_ domain.RawOrder, items []domain.NormalizedOrderItem) (decimal.Decimal, bool) {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return sum, true
}

var createdAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Normalize projects one raw order record. now anchors the relative time.
func Normalize(raw domain.RawOrder, now time.Time, log *slog.Logger) domain.NormalizedOrder {
	log = logger.OrNop(log)

	id := stringField(raw, "id", "_id", "orderId")
	display := stringField(raw, "orderNumber", "order_number")
	if display == "" {
		display = id
	}

	items := normalizeItems(raw)
	createdAt := parseCreatedAt(raw)

	var total decimal.Decimal
	for _, strategy := range totalStrategies {
		if d, ok := strategy(raw, items); ok {
			total = d
			break
		}
	}

	subtotal, ok := coerce.Decimal(raw["subtotal"])
	if !ok || !subtotal.IsPositive() {
		subtotal, _ = itemsSum(raw, items)
	}
	shipping, _ := firstDecimal(raw, "shipping", "shippingCost", "shipping_cost")
	tax, _ := firstDecimal(raw, "tax", "taxAmount", "tax_amount")

	return domain.NormalizedOrder{
		ID:            id,
		DisplayNumber: display,
		CreatedAt:     createdAt,
		RelativeTime:  RelativeTime(createdAt, now),
		Status:        NormalizeStatus(stringField(raw, "status", "orderStatus")),
		CustomerName:  customerName(raw, log),
		Items:         items,
		Subtotal:      subtotal.Round(2),
		Shipping:      shipping.Round(2),
		Tax:           tax.Round(2),
		Total:         total.Round(2),
	}
}

// NormalizeStatus maps backend status spellings onto the four display states.
// Anything not yet shipped, delivered or cancelled counts as processing.
func NormalizeStatus(s string) domain.OrderStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "shipped", "in_transit", "out_for_delivery":
		return domain.OrderStatusShipped
	case "delivered", "completed":
		return domain.OrderStatusDelivered
	case "cancelled", "canceled", "refunded":
		return domain.OrderStatusCancelled
	default:
		return domain.OrderStatusProcessing
	}
}

func normalizeItems(raw domain.RawOrder) []domain.NormalizedOrderItem {
	v, _ := coerce.First(raw, "items", "orderItems", "OrderItems")
	list, ok := v.([]any)
	if !ok {
		return []domain.NormalizedOrderItem{}
	}

	items := make([]domain.NormalizedOrderItem, 0, len(list))
	for _, entry := range list {
		m, ok := coerce.Map(entry)
		if !ok {
			continue
		}
		items = append(items, normalizeItem(m))
	}
	return items
}

func normalizeItem(m map[string]any) domain.NormalizedOrderItem {
	pv, _ := coerce.First(m, "product", "Product")
	product, _ := coerce.Map(pv)
	if product == nil {
		product = map[string]any{}
	}

	productID, ok := int64Field(m, "productId", "product_id", "ProductID")
	if !ok {
		productID, _ = int64Field(product, "id", "_id", "productId")
	}

	name := stringField(m, "name", "productName")
	if name == "" {
		name = stringField(product, "name")
	}
	image := stringField(m, "image", "imageUrl")
	if image == "" {
		image = stringField(product, "image", "imageUrl")
	}

	price, ok := firstDecimal(m, "unitPrice", "price", "unit_price")
	if !ok {
		price, _ = firstDecimal(product, "price")
	}
	qv, _ := coerce.First(m, "quantity", "qty")

	return domain.NormalizedOrderItem{
		OrderItemID: stringField(m, "orderItemId", "id", "_id"),
		ProductID:   productID,
		Name:        name,
		Quantity:    coerce.Quantity(qv),
		UnitPrice:   price.Round(2),
		Image:       image,
	}
}

func parseCreatedAt(raw domain.RawOrder) time.Time {
	v, ok := coerce.First(raw, "createdAt", "created_at", "orderDate")
	if !ok {
		return time.Time{}
	}
	if s, isString := v.(string); isString {
		s = strings.TrimSpace(s)
		for _, layout := range createdAtLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t
			}
		}
	}
	// epoch milliseconds, as a number or numeric string
	if ms, ok := coerce.Int64(v); ok && ms > 0 {
		return time.UnixMilli(ms).UTC()
	}
	return time.Time{}
}

func stringField(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := coerce.String(m[k]); s != "" {
			return s
		}
	}
	return ""
}

func int64Field(m map[string]any, keys ...string) (int64, bool) {
	for _, k := range keys {
		if n, ok := coerce.Int64(m[k]); ok {
			return n, true
		}
	}
	return 0, false
}

func firstDecimal(m map[string]any, keys ...string) (decimal.Decimal, bool) {
	for _, k := range keys {
		if d, ok := coerce.Decimal(m[k]); ok {
			return d, true
		}
	}
	return decimal.Zero, false
}
