// Package coerce converts loosely typed JSON values (as produced by
// encoding/json into `any`, with or without UseNumber) into the typed values
// the lifecycle works with. Nothing here returns an error: callers decide
// what a failed conversion means.
package coerce

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Decimal parses numbers and numeric strings. ok is false for anything else.
func Decimal(v any) (d decimal.Decimal, ok bool) {
	switch x := v.(type) {
	case decimal.Decimal:
		return x, true
	case json.Number:
		d, err := decimal.NewFromString(x.String())
		return d, err == nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(x), true
	case float32:
		return Decimal(float64(x))
	case int:
		return decimal.NewFromInt(int64(x)), true
	case int64:
		return decimal.NewFromInt(x), true
	case int32:
		return decimal.NewFromInt(int64(x)), true
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return decimal.Zero, false
		}
		d, err := decimal.NewFromString(s)
		return d, err == nil
	default:
		return decimal.Zero, false
	}
}

// DecimalOrZero is Decimal with 0 for unparseable input.
func DecimalOrZero(v any) decimal.Decimal {
	d, ok := Decimal(v)
	if !ok {
		return decimal.Zero
	}
	return d
}

// Int64 parses integral numbers and numeric strings. Fractions are truncated.
func Int64(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int64:
		return x, true
	case int32:
		return int64(x), true
	}
	d, ok := Decimal(v)
	if !ok {
		return 0, false
	}
	return d.IntPart(), true
}

// Int is Int64 narrowed to int, 0 when unparseable.
func Int(v any) int {
	n, ok := Int64(v)
	if !ok || n > math.MaxInt32 || n < math.MinInt32 {
		return 0
	}
	return int(n)
}

// Quantity is Int floored at zero.
func Quantity(v any) int {
	n := Int(v)
	if n < 0 {
		return 0
	}
	return n
}

// String renders scalars as text. Numbers keep their integral form ("42", not "42.0").
func String(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}

// Bool accepts booleans and the strings "true"/"false"/"1"/"0".
func Bool(v any) (bool, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(x))
		return b, err == nil
	case json.Number, float64, int, int64:
		n, ok := Int64(x)
		return n != 0, ok
	default:
		return false, false
	}
}

// First returns the value of the first key present and non-nil in m.
func First(m map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// Map returns v as a JSON object, if it is one.
func Map(v any) (map[string]any, bool) {
	switch x := v.(type) {
	case map[string]any:
		return x, true
	default:
		return nil, false
	}
}
