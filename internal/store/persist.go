package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/Eggie20/Online-Supermarket/internal/event"
	"github.com/Eggie20/Online-Supermarket/internal/repository"
	apperrors "github.com/Eggie20/Online-Supermarket/pkg/errors"
)

// Storage key suffixes. The full key is "<profile>:<suffix>".
const (
	CartKeySuffix     = "shopping_cart"
	WishlistKeySuffix = "wishlist"
)

// Store names used in logs and metrics.
const (
	storeCart     = "cart"
	storeWishlist = "wishlist"
)

// Load fallback reasons.
const (
	reasonReadError = "read_error"
	reasonCorrupt   = "corrupt"
)

// Notifier receives a notification after every store mutation.
type Notifier interface {
	Publish(ctx context.Context, n event.Notification)
}

// Key returns the namespaced storage key for a profile's list.
func Key(profile, suffix string) string {
	return profile + ":" + suffix
}

// document reads and writes one JSON list under a fixed key. Failures are
// logged and counted, never returned: a store always has a usable list.
type document[T any] struct {
	name   string
	key    string
	repo   repository.KeyValueStore
	logger *slog.Logger
}

// load returns the persisted list, or the zero list when the key is missing,
// unreadable, or fails validate.
func (d document[T]) load(ctx context.Context, validate func(T) error) T {
	var empty T

	data, err := d.repo.Get(ctx, d.key)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			LoadFallbacks.WithLabelValues(d.name, reasonReadError).Inc()
			d.logger.WarnContext(ctx, "failed to read persisted list, starting empty",
				slog.String("store", d.name),
				slog.String("key", d.key),
				slog.String("error", err.Error()),
			)
		}
		return empty
	}

	var list T
	if err := json.Unmarshal(data, &list); err != nil {
		d.corrupt(ctx, err)
		return empty
	}
	if err := validate(list); err != nil {
		d.corrupt(ctx, err)
		return empty
	}
	return list
}

// corrupt records a malformed document and discards it, so later loads and
// other replicas start from an empty list instead of re-reading it.
func (d document[T]) corrupt(ctx context.Context, err error) {
	LoadFallbacks.WithLabelValues(d.name, reasonCorrupt).Inc()
	d.logger.WarnContext(ctx, "persisted list is malformed, starting empty",
		slog.String("store", d.name),
		slog.String("key", d.key),
		slog.String("error", err.Error()),
	)
	if rmErr := d.repo.Remove(ctx, d.key); rmErr != nil {
		d.logger.WarnContext(ctx, "failed to discard malformed list",
			slog.String("store", d.name),
			slog.String("key", d.key),
			slog.String("error", rmErr.Error()),
		)
	}
}

// save serializes the full list and writes it back.
func (d document[T]) save(ctx context.Context, list T) {
	data, err := json.Marshal(list)
	if err == nil {
		err = d.repo.Set(ctx, d.key, data)
	}
	if err != nil {
		PersistErrors.WithLabelValues(d.name).Inc()
		d.logger.ErrorContext(ctx, "failed to persist list",
			slog.String("store", d.name),
			slog.String("key", d.key),
			slog.String("error", err.Error()),
		)
	}
}
