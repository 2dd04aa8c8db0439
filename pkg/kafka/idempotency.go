package kafka

import (
	"context"
	"log/slog"
	"maps"
	"sync"
	"time"
)

// IdempotencyStore records handled event ids. Implementations must be safe
// for concurrent use.
type IdempotencyStore interface {
	Contains(ctx context.Context, eventID string) (bool, error)
	Add(ctx context.Context, eventID string) error
}

// purgeThreshold is the entry count above which Add sweeps expired ids.
const purgeThreshold = 4096

// MemoryIdempotencyStore remembers event ids for ttl in process memory. Each
// replica keeps its own, which matches one consumer group per replica.
type MemoryIdempotencyStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryIdempotencyStore creates a store whose entries expire after ttl.
func NewMemoryIdempotencyStore(ttl time.Duration) *MemoryIdempotencyStore {
	return &MemoryIdempotencyStore{
		entries: make(map[string]time.Time),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemoryIdempotencyStore) expired(at time.Time) bool {
	return s.now().Sub(at) > s.ttl
}

// Contains reports whether eventID was added less than ttl ago. An expired
// hit is evicted on the spot.
func (s *MemoryIdempotencyStore) Contains(_ context.Context, eventID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	at, ok := s.entries[eventID]
	if ok && s.expired(at) {
		delete(s.entries, eventID)
		ok = false
	}
	return ok, nil
}

// Add marks eventID handled as of now, sweeping first once the map is large.
func (s *MemoryIdempotencyStore) Add(_ context.Context, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entries) >= purgeThreshold {
		s.sweepLocked()
	}
	s.entries[eventID] = s.now()
	return nil
}

// Purge drops expired entries and returns how many went.
func (s *MemoryIdempotencyStore) Purge() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked()
}

func (s *MemoryIdempotencyStore) sweepLocked() int {
	before := len(s.entries)
	maps.DeleteFunc(s.entries, func(_ string, at time.Time) bool { return s.expired(at) })
	return before - len(s.entries)
}

// Len returns the number of entries, expired ones included.
func (s *MemoryIdempotencyStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// IdempotentHandler skips events whose id the store already holds. The id is
// recorded only after inner succeeds, so a failed event is retried on
// redelivery. A store error fails open: the event is handled anyway.
func IdempotentHandler(store IdempotencyStore, inner Handler, logger *slog.Logger) Handler {
	return func(ctx context.Context, event *Event) error {
		id := event.EventID
		if id == "" {
			return inner(ctx, event)
		}

		seen, err := store.Contains(ctx, id)
		switch {
		case err != nil:
			logger.WarnContext(ctx, "idempotency lookup failed, handling anyway",
				slog.String("event_id", id), slog.String("error", err.Error()))
		case seen:
			info := messageInfoFromContext(ctx)
			ConsumerMessagesDuplicate.WithLabelValues(info.topic, info.group).Inc()
			logger.DebugContext(ctx, "skipping duplicate event",
				slog.String("event_id", id),
				slog.String("event_type", event.EventType),
				slog.String("aggregate_id", event.AggregateID))
			return nil
		}

		if err := inner(ctx, event); err != nil {
			return err
		}
		if err := store.Add(ctx, id); err != nil {
			logger.WarnContext(ctx, "could not record handled event",
				slog.String("event_id", id), slog.String("error", err.Error()))
		}
		return nil
	}
}
