package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Eggie20/Online-Supermarket/internal/domain"
	"github.com/Eggie20/Online-Supermarket/internal/event"
	"github.com/Eggie20/Online-Supermarket/internal/repository"
)

// WishlistStore owns the saved items of one profile. It mirrors CartStore
// without quantities: the only invariant is one entry per product.
type WishlistStore struct {
	mu       sync.Mutex
	profile  string
	doc      document[domain.SavedItems]
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
	items    domain.SavedItems
}

// NewWishlistStore creates the wishlist store for profile, loading any
// persisted list.
func NewWishlistStore(ctx context.Context, profile string, repo repository.KeyValueStore, notifier Notifier, logger *slog.Logger) *WishlistStore {
	s := &WishlistStore{
		profile: profile,
		doc: document[domain.SavedItems]{
			name:   storeWishlist,
			key:    Key(profile, WishlistKeySuffix),
			repo:   repo,
			logger: logger,
		},
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
	s.Reload(ctx)
	return s
}

// Reload discards the in-memory list and re-reads the persisted one.
func (s *WishlistStore) Reload(ctx context.Context) {
	items := s.doc.load(ctx, validateSavedItems)
	if items == nil {
		items = domain.SavedItems{}
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
}

// AddItem saves product. It returns false, without persisting or notifying,
// when the product is already saved.
func (s *WishlistStore) AddItem(ctx context.Context, product domain.CatalogProduct) bool {
	s.mu.Lock()
	if s.items.IndexOf(product.ID) >= 0 {
		s.mu.Unlock()
		return false
	}
	s.items = append(s.items, domain.NewWishlistItem(product, s.now().UTC()))
	snapshot := s.commitLocked(ctx)
	s.mu.Unlock()

	s.notify(ctx, "add_item", snapshot)
	s.logger.InfoContext(ctx, "item added to wishlist",
		slog.String("profile", s.profile),
		slog.Int("product_id", product.ID),
	)
	return true
}

// RemoveItem deletes the entry for productID. Removing an absent product still
// persists and notifies.
func (s *WishlistStore) RemoveItem(ctx context.Context, productID int) {
	s.mu.Lock()
	s.removeLocked(productID)
	snapshot := s.commitLocked(ctx)
	s.mu.Unlock()

	s.notify(ctx, "remove_item", snapshot)
}

// ToggleItem removes product if saved, otherwise saves it. It returns whether
// the product is saved after the call.
func (s *WishlistStore) ToggleItem(ctx context.Context, product domain.CatalogProduct) bool {
	s.mu.Lock()
	present := s.items.IndexOf(product.ID) >= 0
	if present {
		s.removeLocked(product.ID)
	} else {
		s.items = append(s.items, domain.NewWishlistItem(product, s.now().UTC()))
	}
	snapshot := s.commitLocked(ctx)
	s.mu.Unlock()

	s.notify(ctx, "toggle_item", snapshot)
	return !present
}

// Clear empties the wishlist.
func (s *WishlistStore) Clear(ctx context.Context) {
	s.mu.Lock()
	s.items = domain.SavedItems{}
	snapshot := s.commitLocked(ctx)
	s.mu.Unlock()

	s.notify(ctx, "clear", snapshot)
	s.logger.InfoContext(ctx, "wishlist cleared", slog.String("profile", s.profile))
}

// Items returns the saved entries in insertion order.
func (s *WishlistStore) Items() domain.SavedItems {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items.Clone()
}

// Item returns the entry for productID, if present.
func (s *WishlistStore) Item(productID int) (domain.WishlistItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := s.items.IndexOf(productID); idx >= 0 {
		return s.items[idx], true
	}
	return domain.WishlistItem{}, false
}

// HasItem reports whether productID is saved.
func (s *WishlistStore) HasItem(productID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items.IndexOf(productID) >= 0
}

// Count returns the number of saved entries.
func (s *WishlistStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Profile returns the profile this store belongs to.
func (s *WishlistStore) Profile() string {
	return s.profile
}

func (s *WishlistStore) commitLocked(ctx context.Context) domain.SavedItems {
	snapshot := s.items.Clone()
	s.doc.save(ctx, snapshot)
	return snapshot
}

func (s *WishlistStore) notify(ctx context.Context, op string, snapshot domain.SavedItems) {
	MutationsTotal.WithLabelValues(storeWishlist, op).Inc()
	if s.notifier != nil {
		s.notifier.Publish(ctx, event.NewWishlistUpdated(s.profile, snapshot))
	}
}

func (s *WishlistStore) removeLocked(productID int) {
	if idx := s.items.IndexOf(productID); idx >= 0 {
		s.items = append(s.items[:idx], s.items[idx+1:]...)
	}
}

func validateSavedItems(items domain.SavedItems) error {
	seen := make(map[int]struct{}, len(items))
	for _, item := range items {
		if _, dup := seen[item.ID]; dup {
			return fmt.Errorf("duplicate entry for product %d", item.ID)
		}
		seen[item.ID] = struct{}{}
	}
	return nil
}
