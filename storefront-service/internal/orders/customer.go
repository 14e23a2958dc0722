package orders

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/pro5598/Gearnixx-sub000/storefront-service/internal/coerce"
	"github.com/pro5598/Gearnixx-sub000/storefront-service/internal/domain"
)

const unknownCustomer = "Unknown Customer"

// customerName prefers the linked user record, then the customer details
// captured at checkout (stored either as an object or as a JSON string).
func customerName(raw domain.RawOrder, log *slog.Logger) string {
	if uv, ok := coerce.First(raw, "user", "User"); ok {
		if u, ok := coerce.Map(uv); ok {
			if name := personName(u, "name", "username"); name != "" {
				return name
			}
		}
	}

	dv, ok := coerce.First(raw, "customerDetails", "customer_details")
	if !ok {
		return unknownCustomer
	}
	var details map[string]any
	switch x := dv.(type) {
	case string:
		if err := json.Unmarshal([]byte(x), &details); err != nil {
			log.Warn("unreadable customer details on order",
				"order_id", stringField(raw, "id", "_id", "orderId"), "error", err)
			return unknownCustomer
		}
	default:
		details, _ = coerce.Map(x)
	}
	if name := personName(details, "name", "fullName"); name != "" {
		return name
	}
	return unknownCustomer
}

// personName joins first and last name, falling back to the given single-field keys.
func personName(m map[string]any, fallbacks ...string) string {
	if m == nil {
		return ""
	}
	full := strings.TrimSpace(stringField(m, "firstName", "first_name") + " " + stringField(m, "lastName", "last_name"))
	if full != "" {
		return full
	}
	return stringField(m, fallbacks...)
}
