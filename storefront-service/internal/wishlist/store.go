// Package wishlist keeps saved product snapshots for a session.
package wishlist

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/pro5598/Gearnixx-sub000/pkg/logger"
	"github.com/pro5598/Gearnixx-sub000/storefront-service/internal/coerce"
	"github.com/pro5598/Gearnixx-sub000/storefront-service/internal/domain"
	"github.com/pro5598/Gearnixx-sub000/storefront-service/internal/storage"
)

// CartAdder is the part of the cart a wishlist entry is moved into.
type CartAdder interface {
	AddItem(ctx context.Context, p domain.Product, quantity int) error
}

type Store struct {
	mu      sync.Mutex
	storage storage.Store
	key     string
	entries []domain.WishlistEntry
	now     func() time.Time
	log     *slog.Logger
}

type Option func(*Store)

// WithClock overrides the time source used for dateAdded.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func Load(ctx context.Context, st storage.Store, owner string, log *slog.Logger, opts ...Option) *Store {
	log = logger.OrNop(log)
	key := storage.WishlistKey(owner)

	s := &Store{
		storage: st,
		key:     key,
		now:     time.Now,
		log:     log,
	}
	for _, o := range opts {
		o(s)
	}

	records := storage.LoadRecords(ctx, st, key, log)
	s.entries = make([]domain.WishlistEntry, 0, len(records))
	for _, rec := range records {
		e, ok := entryFromRecord(rec)
		if !ok || s.indexOf(e.ProductID) >= 0 {
			continue
		}
		s.entries = append(s.entries, e)
	}
	return s
}

func entryFromRecord(rec map[string]any) (domain.WishlistEntry, bool) {
	rawID, _ := coerce.First(rec, "productId", "id", "product_id")
	id, ok := coerce.Int64(rawID)
	if !ok || id <= 0 {
		return domain.WishlistEntry{}, false
	}
	name, _ := coerce.First(rec, "name")
	price, _ := coerce.First(rec, "price")
	image, _ := coerce.First(rec, "image", "imageUrl")
	stock, _ := coerce.First(rec, "stock")

	var added time.Time
	if raw, ok := rec["dateAdded"].(string); ok {
		if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			added = t
		}
	}

	return domain.WishlistEntry{
		ProductID: id,
		Name:      coerce.String(name),
		Price:     coerce.DecimalOrZero(price),
		Image:     coerce.String(image),
		Stock:     coerce.Int(stock),
		DateAdded: added,
	}, true
}

// Add saves a snapshot of p. Adding a product already present changes nothing.
func (s *Store) Add(ctx context.Context, p domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(p.ID) >= 0 {
		return nil
	}
	s.entries = append(s.entries, snapshot(p, s.now()))
	return s.persist(ctx)
}

func (s *Store) Remove(ctx context.Context, productID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(productID)
	if i < 0 {
		return nil
	}
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	return s.persist(ctx)
}

// Toggle adds p when absent and removes it when present. It reports whether
// the net effect was an add.
func (s *Store) Toggle(ctx context.Context, p domain.Product) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(p.ID); i >= 0 {
		s.entries = append(s.entries[:i], s.entries[i+1:]...)
		return false, s.persist(ctx)
	}
	s.entries = append(s.entries, snapshot(p, s.now()))
	return true, s.persist(ctx)
}

// MoveToCart puts the saved product into the cart with quantity 1 and drops
// it from the wishlist. The entry stays when the cart rejects it.
func (s *Store) MoveToCart(ctx context.Context, productID int64, c CartAdder) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(productID)
	if i < 0 {
		return false, nil
	}
	e := s.entries[i]
	p := domain.Product{
		ID:     e.ProductID,
		Name:   e.Name,
		Price:  e.Price,
		Stock:  e.Stock,
		Active: true,
		Image:  e.Image,
	}
	if err := c.AddItem(ctx, p, 1); err != nil {
		return false, err
	}
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	return true, s.persist(ctx)
}

func (s *Store) Contains(productID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOf(productID) >= 0
}

func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store) Entries() []domain.WishlistEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.WishlistEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

func snapshot(p domain.Product, now time.Time) domain.WishlistEntry {
	return domain.WishlistEntry{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Image:     p.Image,
		Stock:     p.Stock,
		DateAdded: now.UTC(),
	}
}

func (s *Store) indexOf(productID int64) int {
	for i := range s.entries {
		if s.entries[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (s *Store) persist(ctx context.Context) error {
	if err := storage.SaveJSON(ctx, s.storage, s.key, s.entries); err != nil {
		s.log.ErrorContext(ctx, "wishlist persist failed", "key", s.key, "error", err)
		return err
	}
	return nil
}
