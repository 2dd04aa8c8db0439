package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Eggie20/Online-Supermarket/internal/domain"
	"github.com/Eggie20/Online-Supermarket/internal/event"
	"github.com/Eggie20/Online-Supermarket/internal/repository"
	"github.com/Eggie20/Online-Supermarket/internal/store"
)

// DefaultSessionIdleTTL is how long a profile's stores stay cached without use.
const DefaultSessionIdleTTL = 30 * time.Minute

const defaultSessionSweepInterval = time.Minute

type session struct {
	cart     *store.CartStore
	wishlist *store.WishlistStore
	lastUsed time.Time
}

// Sessions builds each profile's cart and wishlist stores once and hands the
// same instances to every caller, so all renderers of a profile observe one
// shared state. Profiles untouched for idleTTL are dropped by Sweep; their
// next use reloads from the repository.
type Sessions struct {
	mu       sync.Mutex
	repo     repository.KeyValueStore
	notifier store.Notifier
	logger   *slog.Logger
	idleTTL  time.Duration
	now      func() time.Time
	entries  map[string]*session
}

// NewSessions creates an empty session registry backed by repo. A
// non-positive idleTTL falls back to DefaultSessionIdleTTL.
func NewSessions(repo repository.KeyValueStore, notifier store.Notifier, idleTTL time.Duration, logger *slog.Logger) *Sessions {
	if idleTTL <= 0 {
		idleTTL = DefaultSessionIdleTTL
	}
	return &Sessions{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
		idleTTL:  idleTTL,
		now:      time.Now,
		entries:  make(map[string]*session),
	}
}

// Cart returns the cart store of profile, loading it on first use.
func (s *Sessions) Cart(ctx context.Context, profile string) *store.CartStore {
	if c := s.cached(profile, func(e *session) bool { return e.cart != nil }); c != nil {
		return c.cart
	}

	// Loading hits the repository, so it runs unlocked; the first store
	// registered wins and a concurrent loser is discarded.
	loaded := store.NewCartStore(ctx, profile, s.repo, s.notifier, s.logger)
	e := s.register(profile)
	defer s.mu.Unlock()
	if e.cart == nil {
		e.cart = loaded
	}
	return e.cart
}

// Wishlist returns the wishlist store of profile, loading it on first use.
func (s *Sessions) Wishlist(ctx context.Context, profile string) *store.WishlistStore {
	if w := s.cached(profile, func(e *session) bool { return e.wishlist != nil }); w != nil {
		return w.wishlist
	}

	loaded := store.NewWishlistStore(ctx, profile, s.repo, s.notifier, s.logger)
	e := s.register(profile)
	defer s.mu.Unlock()
	if e.wishlist == nil {
		e.wishlist = loaded
	}
	return e.wishlist
}

// CartItems returns a snapshot of profile's cart. Unlike Cart it does not
// cache anything for a profile that has no session yet.
func (s *Sessions) CartItems(ctx context.Context, profile string) domain.LineItems {
	if e := s.cached(profile, func(e *session) bool { return e.cart != nil }); e != nil {
		return e.cart.Items()
	}
	return store.NewCartStore(ctx, profile, s.repo, nil, s.logger).Items()
}

// SavedItems returns a snapshot of profile's wishlist without caching a
// session for an unknown profile.
func (s *Sessions) SavedItems(ctx context.Context, profile string) domain.SavedItems {
	if e := s.cached(profile, func(e *session) bool { return e.wishlist != nil }); e != nil {
		return e.wishlist.Items()
	}
	return store.NewWishlistStore(ctx, profile, s.repo, nil, s.logger).Items()
}

// cached returns the session of profile when has reports the wanted store is
// loaded, marking it used.
func (s *Sessions) cached(profile string, has func(*session) bool) *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[profile]
	if !ok || !has(e) {
		return nil
	}
	e.lastUsed = s.now()
	return e
}

// register returns the session of profile, creating it if needed, with s.mu
// held. The caller unlocks.
func (s *Sessions) register(profile string) *session {
	s.mu.Lock()
	e, ok := s.entries[profile]
	if !ok {
		e = &session{}
		s.entries[profile] = e
	}
	e.lastUsed = s.now()
	return e
}

// Refresh reloads the cached store of profile named by notificationType and
// rebroadcasts its state tagged with origin. Profiles with nothing cached are
// skipped; their next load reads the fresh state anyway.
func (s *Sessions) Refresh(ctx context.Context, profile, notificationType, origin string) error {
	s.mu.Lock()
	e := s.entries[profile]
	var cart *store.CartStore
	var wishlist *store.WishlistStore
	if e != nil {
		cart, wishlist = e.cart, e.wishlist
	}
	s.mu.Unlock()

	var n event.Notification
	switch notificationType {
	case event.TypeCartUpdated:
		if cart == nil {
			return nil
		}
		cart.Reload(ctx)
		n = event.NewCartUpdated(profile, cart.Items())
	case event.TypeWishlistUpdated:
		if wishlist == nil {
			return nil
		}
		wishlist.Reload(ctx)
		n = event.NewWishlistUpdated(profile, wishlist.Items())
	default:
		return fmt.Errorf("unknown notification type %q", notificationType)
	}

	if s.notifier != nil {
		n.Origin = origin
		s.notifier.Publish(ctx, n)
	}
	return nil
}

// Sweep drops every session idle for longer than the idle TTL and returns
// how many went. State is already persisted, so nothing is written.
func (s *Sessions) Sweep() int {
	cutoff := s.now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for profile, e := range s.entries {
		if e.lastUsed.Before(cutoff) {
			delete(s.entries, profile)
			removed++
		}
	}
	return removed
}

// Run sweeps idle sessions every interval until ctx is done.
func (s *Sessions) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = defaultSessionSweepInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.Sweep(); removed > 0 {
				s.logger.Debug("idle sessions evicted",
					slog.Int("removed", removed),
					slog.Int("cached", s.Len()),
				)
			}
		}
	}
}

// Len returns the number of profiles with at least one loaded store.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
