// Package session owns the per-user lifecycle objects. Each user gets one
// cart, one wishlist and one review tracker, built on first use, plus at
// most one checkout at a time.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pro5598/Gearnixx-sub000/pkg/logger"
	"github.com/pro5598/Gearnixx-sub000/storefront-service/internal/cart"
	"github.com/pro5598/Gearnixx-sub000/storefront-service/internal/checkout"
	"github.com/pro5598/Gearnixx-sub000/storefront-service/internal/orders"
	"github.com/pro5598/Gearnixx-sub000/storefront-service/internal/reviews"
	"github.com/pro5598/Gearnixx-sub000/storefront-service/internal/storage"
	"github.com/pro5598/Gearnixx-sub000/storefront-service/internal/wishlist"
)

var ErrNoCheckout = errors.New("no active checkout")

// Services is everything the lifecycle needs from the order service.
type Services interface {
	checkout.OrderCreator
	orders.OrderFetcher
	reviews.ReviewService
}

type Config struct {
	Pricing      checkout.Pricing
	AccountTypes []string
}

type Registry struct {
	mu       sync.Mutex
	store    storage.Store
	svc      Services
	cfg      Config
	log      *slog.Logger
	history  *orders.History
	sessions map[string]*User
	// checkout ids of orders placed through this registry whose event has
	// not been seen yet
	placed   map[string]struct{}
}

func NewRegistry(store storage.Store, svc Services, cfg Config, log *slog.Logger) *Registry {
	log = logger.OrNop(log)
	return &Registry{
		store:    store,
		svc:      svc,
		cfg:      cfg,
		log:      log,
		history:  orders.NewHistory(svc, log),
		sessions: make(map[string]*User),
		placed:   make(map[string]struct{}),
	}
}

func (r *Registry) History() *orders.History {
	return r.history
}

// Pricing is the pricing every checkout of this registry uses.
func (r *Registry) Pricing() checkout.Pricing {
	if r.cfg.Pricing == (checkout.Pricing{}) {
		return checkout.DefaultPricing()
	}
	return r.cfg.Pricing
}

// Get returns the user's session, loading cart and wishlist from storage and
// syncing review eligibility on first use.
func (r *Registry) Get(ctx context.Context, userID string) *User {
	if u, ok := r.lookup(userID); ok {
		return u
	}

	log := r.log.With("user_id", userID)
	u := &User{
		ID:       userID,
		Cart:     cart.Load(ctx, r.store, userID, log),
		Wishlist: wishlist.Load(ctx, r.store, userID, log),
		Reviews:  reviews.NewTracker(r.svc, log),
		registry: r,
		log:      log,
	}
	// the tracker stays closed until a later sync succeeds
	_ = u.Reviews.Sync(ctx, userID)

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.sessions[userID]; ok {
		return existing
	}
	r.sessions[userID] = u
	return u
}

func (r *Registry) lookup(userID string) (*User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.sessions[userID]
	return u, ok
}

// ResetCart empties the user's cart after an order was placed from another
// storefront at placedAt. The cart is kept when the order came from one of
// this registry's checkouts, which already cleared it, or when the cart
// changed after the order was placed. Without placedAt nothing is reset.
func (r *Registry) ResetCart(ctx context.Context, userID, checkoutID string, placedAt time.Time) error {
	log := r.log.With("user_id", userID, "checkout_id", checkoutID)
	if r.takePlaced(checkoutID) {
		log.DebugContext(ctx, "order placed here, cart already cleared")
		return nil
	}
	if placedAt.IsZero() {
		log.WarnContext(ctx, "order event without placement time, cart kept")
		return nil
	}

	if u, ok := r.lookup(userID); ok {
		cleared, err := u.Cart.ClearIfUnchangedSince(ctx, placedAt)
		if err != nil {
			return fmt.Errorf("reset cart for user %s: %w", userID, err)
		}
		if cleared {
			log.InfoContext(ctx, "cart reset after order placement")
		}
		return nil
	}

	if cart.LastModified(ctx, r.store, userID).After(placedAt) {
		log.InfoContext(ctx, "cart changed after order placement, kept")
		return nil
	}
	if err := r.store.Delete(ctx, storage.CartKey(userID)); err != nil {
		return fmt.Errorf("reset cart for user %s: %w", userID, err)
	}
	log.InfoContext(ctx, "cart reset after order placement")
	return nil
}

func (r *Registry) markPlaced(checkoutID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.placed[checkoutID] = struct{}{}
}

func (r *Registry) takePlaced(checkoutID string) bool {
	if checkoutID == "" {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.placed[checkoutID]; !ok {
		return false
	}
	delete(r.placed, checkoutID)
	return true
}

// User groups the lifecycle objects of one user.
type User struct {
	ID       string
	Cart     *cart.Store
	Wishlist *wishlist.Store
	Reviews  *reviews.Tracker

	mu       sync.Mutex
	checkout *checkout.Session
	registry *Registry
	log      *slog.Logger
}

// BeginCheckout starts a new checkout from the current cart, abandoning any
// previous one. It is refused while the previous one is placing an order.
func (u *User) BeginCheckout() (*checkout.Session, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if prev := u.checkout; prev != nil {
		if err := prev.Close(); err != nil {
			return nil, err
		}
	}

	s, err := checkout.Begin(u.Cart, u.registry.svc, checkout.Options{
		UserID:       u.ID,
		Pricing:      u.registry.cfg.Pricing,
		AccountTypes: u.registry.cfg.AccountTypes,
		Logger:       u.log,
		OnPlaced:     u.registry.markPlaced,
	})
	if err != nil {
		return nil, err
	}
	u.checkout = s
	return s, nil
}

// Checkout returns the active checkout.
func (u *User) Checkout() (*checkout.Session, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.checkout == nil || u.checkout.Closed() {
		return nil, ErrNoCheckout
	}
	return u.checkout, nil
}

// EndCheckout abandons the active checkout.
func (u *User) EndCheckout() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.checkout == nil {
		return ErrNoCheckout
	}
	if err := u.checkout.Close(); err != nil {
		return err
	}
	u.checkout = nil
	return nil
}
