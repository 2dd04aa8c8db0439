package repository

import "context"

// KeyValueStore is the local-storage style persistence used by the cart and
// wishlist stores. Values are opaque serialized documents stored whole under a
// key; there is no versioning and the last writer wins.
type KeyValueStore interface {
	// Get returns the raw value stored under key. A missing key yields an
	// error matching errors.ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}
