// Package storage persists client-held state (carts, wishlists) as JSON
// strings under fixed keys. Backends are interchangeable; the lifecycle
// only sees Store.
package storage

import (
	"context"
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("key not found")

// Store is a durable string key/value store.
type Store interface {
	// Get returns ErrNotFound when the key was never written or was deleted.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// Delete is a no-op for missing keys.
	Delete(ctx context.Context, key string) error
}

func CartKey(owner string) string {
	return fmt.Sprintf("cart:%s", owner)
}

// CartStampKey holds the time of the last change to the cart under CartKey.
func CartStampKey(owner string) string {
	return fmt.Sprintf("cart_updated:%s", owner)
}

func WishlistKey(owner string) string {
	return fmt.Sprintf("wishlist:%s", owner)
}
