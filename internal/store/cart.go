package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/Eggie20/Online-Supermarket/internal/domain"
	"github.com/Eggie20/Online-Supermarket/internal/event"
	"github.com/Eggie20/Online-Supermarket/internal/repository"
)

// CartStore owns the cart line items of one profile. Every mutation rewrites
// the whole list to the key-value store and then broadcasts a cart.updated
// notification. No method returns an error: persistence failures are logged
// and the in-memory list stays authoritative.
type CartStore struct {
	mu       sync.Mutex
	profile  string
	doc      document[domain.LineItems]
	notifier Notifier
	logger   *slog.Logger
	items    domain.LineItems
}

// NewCartStore creates the cart store for profile, loading any persisted list.
func NewCartStore(ctx context.Context, profile string, repo repository.KeyValueStore, notifier Notifier, logger *slog.Logger) *CartStore {
	s := &CartStore{
		profile: profile,
		doc: document[domain.LineItems]{
			name:   storeCart,
			key:    Key(profile, CartKeySuffix),
			repo:   repo,
			logger: logger,
		},
		notifier: notifier,
		logger:   logger,
	}
	s.Reload(ctx)
	return s
}

// Reload discards the in-memory list and re-reads the persisted one.
func (s *CartStore) Reload(ctx context.Context) {
	items := s.doc.load(ctx, validateLineItems)
	if items == nil {
		items = domain.LineItems{}
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
}

// AddItem merges quantity units of product into the cart. An existing line has
// its quantity increased; otherwise a new line is appended. Quantities below 1
// count as 1. The resulting quantity is clamped to the line's stock ceiling
// when that ceiling is positive.
func (s *CartStore) AddItem(ctx context.Context, product domain.CatalogProduct, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	s.mutate(ctx, "add_item", func() {
		if idx := s.items.IndexOf(product.ID); idx >= 0 {
			line := &s.items[idx]
			line.Quantity = clampToCeiling(line.Quantity+quantity, line.Stock)
			return
		}
		s.items = append(s.items, domain.NewCartLineItem(product, clampToCeiling(quantity, product.Stock)))
	})

	s.logger.InfoContext(ctx, "item added to cart",
		slog.String("profile", s.profile),
		slog.Int("product_id", product.ID),
		slog.Int("quantity", quantity),
	)
}

// RemoveItem deletes the line for productID. Removing an absent product still
// persists and notifies.
func (s *CartStore) RemoveItem(ctx context.Context, productID int) {
	s.mutate(ctx, "remove_item", func() {
		s.removeLocked(productID)
	})
}

// UpdateQuantity sets the quantity of an existing line. Values above the stock
// ceiling are clamped to it; a resulting quantity of zero or less removes the
// line. Unknown product IDs are ignored without persisting.
func (s *CartStore) UpdateQuantity(ctx context.Context, productID, quantity int) {
	s.mu.Lock()
	idx := s.items.IndexOf(productID)
	s.mu.Unlock()
	if idx < 0 {
		return
	}

	s.mutate(ctx, "update_quantity", func() {
		idx := s.items.IndexOf(productID)
		if idx < 0 {
			return
		}
		line := &s.items[idx]
		if quantity > line.Stock {
			s.logger.DebugContext(ctx, "quantity clamped to stock",
				slog.String("profile", s.profile),
				slog.Int("product_id", productID),
				slog.Int("requested", quantity),
				slog.Int("stock", line.Stock),
			)
			quantity = line.Stock
		}
		if quantity <= 0 {
			s.removeLocked(productID)
			return
		}
		line.Quantity = quantity
	})
}

// Clear empties the cart.
func (s *CartStore) Clear(ctx context.Context) {
	s.mutate(ctx, "clear", func() {
		s.items = domain.LineItems{}
	})

	s.logger.InfoContext(ctx, "cart cleared", slog.String("profile", s.profile))
}

// Items returns the line items in insertion order.
func (s *CartStore) Items() domain.LineItems {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items.Clone()
}

// Item returns the line for productID, if present.
func (s *CartStore) Item(productID int) (domain.CartLineItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := s.items.IndexOf(productID); idx >= 0 {
		return s.items[idx], true
	}
	return domain.CartLineItem{}, false
}

// HasItem reports whether productID is in the cart.
func (s *CartStore) HasItem(productID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items.IndexOf(productID) >= 0
}

// Total returns the sum of price × quantity over all lines.
func (s *CartStore) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items.Total()
}

// ItemCount returns the sum of quantities over all lines.
func (s *CartStore) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items.ItemCount()
}

// Profile returns the profile this store belongs to.
func (s *CartStore) Profile() string {
	return s.profile
}

// mutate applies fn under the lock, persists the full list, and publishes the
// notification after the lock is released.
func (s *CartStore) mutate(ctx context.Context, op string, fn func()) {
	s.mu.Lock()
	fn()
	snapshot := s.items.Clone()
	s.doc.save(ctx, snapshot)
	s.mu.Unlock()

	MutationsTotal.WithLabelValues(storeCart, op).Inc()
	if s.notifier != nil {
		s.notifier.Publish(ctx, event.NewCartUpdated(s.profile, snapshot))
	}
}

func (s *CartStore) removeLocked(productID int) {
	if idx := s.items.IndexOf(productID); idx >= 0 {
		s.items = append(s.items[:idx], s.items[idx+1:]...)
	}
}

// clampToCeiling caps quantity at ceiling. A non-positive ceiling leaves the
// quantity untouched; callers are expected to refuse out-of-stock products.
func clampToCeiling(quantity, ceiling int) int {
	if ceiling > 0 && quantity > ceiling {
		return ceiling
	}
	return quantity
}

func validateLineItems(items domain.LineItems) error {
	seen := make(map[int]struct{}, len(items))
	for _, item := range items {
		if _, dup := seen[item.ID]; dup {
			return fmt.Errorf("duplicate line for product %d", item.ID)
		}
		seen[item.ID] = struct{}{}
		if item.Quantity < 1 {
			return fmt.Errorf("line for product %d has quantity %d", item.ID, item.Quantity)
		}
		if item.Price.IsNegative() {
			return fmt.Errorf("line for product %d has negative price", item.ID)
		}
	}
	return nil
}
