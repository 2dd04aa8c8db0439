package event

import (
	"context"
	"log/slog"
	"sync"
)

// Handler receives notifications from the Bus.
type Handler func(ctx context.Context, n Notification)

// Bus is a process-wide, synchronous broadcast of store notifications.
// Every subscriber sees every notification in publish order; there is no
// debouncing, so N mutations produce N deliveries.
type Bus struct {
	mu       sync.RWMutex
	nextID   uint64
	handlers map[uint64]Handler
	order    []uint64
	logger   *slog.Logger
}

// NewBus creates an empty notification bus.
func NewBus(logger *slog.Logger) *Bus {
	return &Bus{
		handlers: make(map[uint64]Handler),
		logger:   logger,
	}
}

// Subscribe registers h and returns a function that removes it. The returned
// function is safe to call more than once.
func (b *Bus) Subscribe(h Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[id] = h
	b.order = append(b.order, id)

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

// SubscribeProfile registers h for notifications of a single profile only.
func (b *Bus) SubscribeProfile(profile string, h Handler) (unsubscribe func()) {
	return b.Subscribe(func(ctx context.Context, n Notification) {
		if n.Profile == profile {
			h(ctx, n)
		}
	})
}

// Publish delivers n to every current subscriber on the caller's goroutine.
// A panicking subscriber is logged and does not stop delivery to the rest.
func (b *Bus) Publish(ctx context.Context, n Notification) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.order))
	for _, id := range b.order {
		handlers = append(handlers, b.handlers[id])
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		b.deliver(ctx, h, n)
	}
}

// Len returns the number of active subscribers.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers)
}

func (b *Bus) deliver(ctx context.Context, h Handler, n Notification) {
	defer func() {
		if rec := recover(); rec != nil {
			b.logger.ErrorContext(ctx, "notification subscriber panicked",
				slog.String("type", n.Type),
				slog.String("profile", n.Profile),
				slog.Any("panic", rec),
			)
		}
	}()
	h(ctx, n)
}

func (b *Bus) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.handlers, id)
	for i, v := range b.order {
		if v == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}
