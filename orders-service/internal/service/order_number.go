package service

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// NewOrderNumber returns ORD-YYYYMMDD-XXXXXX with a random six-digit suffix.
// Collisions are caught by the unique index and retried.
func NewOrderNumber(t time.Time) string {
	return fmt.Sprintf("ORD-%s-%06d", t.UTC().Format("20060102"), rand.IntN(1_000_000))
}
