// Package cart implements the client-held shopping cart. A Store is built
// once per session, rehydrated from storage, and written back after every
// mutation.
package cart

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/pro5598/Gearnixx-sub000/pkg/logger"
	"github.com/pro5598/Gearnixx-sub000/storefront-service/internal/coerce"
	"github.com/pro5598/Gearnixx-sub000/storefront-service/internal/domain"
	"github.com/pro5598/Gearnixx-sub000/storefront-service/internal/storage"
	"github.com/shopspring/decimal"
)

type Store struct {
	mu       sync.Mutex
	storage  storage.Store
	key      string
	stampKey string
	lines    []domain.CartLine
	updated  time.Time
	now      func() time.Time
	log      *slog.Logger
}

// Load builds the cart for owner from whatever is persisted. It never fails:
// unreadable state yields an empty cart.
func Load(ctx context.Context, st storage.Store, owner string, log *slog.Logger) *Store {
	log = logger.OrNop(log)
	key := storage.CartKey(owner)

	return &Store{
		storage:  st,
		key:      key,
		stampKey: storage.CartStampKey(owner),
		lines:    readLines(ctx, st, key, log),
		updated:  LastModified(ctx, st, owner),
		now:      time.Now,
		log:      log,
	}
}

// LastModified reads the time of the last persisted change to owner's cart.
// The zero time means unknown.
func LastModified(ctx context.Context, st storage.Store, owner string) time.Time {
	raw, err := st.Get(ctx, storage.CartStampKey(owner))
	if err != nil {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

func readLines(ctx context.Context, st storage.Store, key string, log *slog.Logger) []domain.CartLine {
	records := storage.LoadRecords(ctx, st, key, log)

	lines := make([]domain.CartLine, 0, len(records))
	seen := make(map[int64]int, len(records))
	for _, rec := range records {
		line, ok := lineFromRecord(rec)
		if !ok {
			continue
		}
		// a duplicated id in old data folds into one line
		if i, dup := seen[line.ProductID]; dup {
			lines[i].Quantity += line.Quantity
			continue
		}
		seen[line.ProductID] = len(lines)
		lines = append(lines, line)
	}
	return lines
}

func lineFromRecord(rec map[string]any) (domain.CartLine, bool) {
	rawID, _ := coerce.First(rec, "productId", "id", "product_id")
	id, ok := coerce.Int64(rawID)
	if !ok || id <= 0 {
		return domain.CartLine{}, false
	}
	rawQty, _ := coerce.First(rec, "quantity", "qty")
	qty := coerce.Quantity(rawQty)
	if qty == 0 {
		return domain.CartLine{}, false
	}
	rawPrice, _ := coerce.First(rec, "price", "unitPrice")
	rawStock, _ := coerce.First(rec, "stock", "stockSnapshot")
	active := true
	if rawActive, ok := coerce.First(rec, "active", "isActive"); ok {
		if b, ok := coerce.Bool(rawActive); ok {
			active = b
		}
	}
	name, _ := coerce.First(rec, "name")
	category, _ := coerce.First(rec, "category")
	brand, _ := coerce.First(rec, "brand")

	return domain.CartLine{
		ProductID:     id,
		Name:          coerce.String(name),
		UnitPrice:     coerce.DecimalOrZero(rawPrice),
		Quantity:      qty,
		StockSnapshot: coerce.Int(rawStock),
		Active:        active,
		Category:      coerce.String(category),
		Brand:         coerce.String(brand),
	}, true
}

// AddItem increments the line for p by quantity, or inserts it. A quantity
// below 1 counts as 1.
func (s *Store) AddItem(ctx context.Context, p domain.Product, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(p.ID); i >= 0 {
		s.lines[i].Quantity += quantity
	} else {
		s.lines = append(s.lines, domain.CartLine{
			ProductID:     p.ID,
			Name:          p.Name,
			UnitPrice:     p.Price,
			Quantity:      quantity,
			StockSnapshot: p.Stock,
			Active:        p.Active,
			Category:      p.Category,
			Brand:         p.Brand,
		})
	}
	return s.persist(ctx)
}

// SetQuantity replaces the quantity of a line. Zero or less removes it.
// Unknown products are ignored.
func (s *Store) SetQuantity(ctx context.Context, productID int64, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(productID)
	if i < 0 {
		return nil
	}
	if quantity <= 0 {
		s.removeAt(i)
	} else {
		s.lines[i].Quantity = quantity
	}
	return s.persist(ctx)
}

func (s *Store) RemoveItem(ctx context.Context, productID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(productID)
	if i < 0 {
		return nil
	}
	s.removeAt(i)
	return s.persist(ctx)
}

func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = s.lines[:0]
	return s.persist(ctx)
}

// Total is the sum of unit price times quantity.
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, l := range s.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}

func (s *Store) Contains(productID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOf(productID) >= 0
}

func (s *Store) Get(productID int64) (domain.CartLine, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(productID)
	if i < 0 {
		return domain.CartLine{}, false
	}
	return s.lines[i], true
}

// Lines returns a copy of the cart in display order.
func (s *Store) Lines() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

// ToOrderPayload maps the lines to the order-creation shape.
func (s *Store) ToOrderPayload() []domain.OrderLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.OrderLine, 0, len(s.lines))
	for _, l := range s.lines {
		out = append(out, domain.OrderLine{
			ProductID: l.ProductID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Category:  l.Category,
			Brand:     l.Brand,
		})
	}
	return out
}

// UpdatedAt is the time of the last change to the cart.
func (s *Store) UpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updated
}

// ClearIfUnchangedSince empties the cart unless it was changed after t, and
// reports whether it did. A cart with no known change time counts as older.
func (s *Store) ClearIfUnchangedSince(ctx context.Context, t time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.updated.After(t) {
		return false, nil
	}
	if len(s.lines) == 0 {
		return false, nil
	}
	s.lines = s.lines[:0]
	return true, s.persist(ctx)
}

func (s *Store) indexOf(productID int64) int {
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (s *Store) removeAt(i int) {
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
}

// persist must be called with mu held.
func (s *Store) persist(ctx context.Context) error {
	s.updated = s.now().UTC()
	err := storage.SaveJSON(ctx, s.storage, s.key, s.lines)
	if err == nil {
		err = s.storage.Set(ctx, s.stampKey, s.updated.Format(time.RFC3339Nano))
	}
	if err != nil {
		s.log.ErrorContext(ctx, "cart persist failed", "key", s.key, "error", err)
		return err
	}
	return nil
}
