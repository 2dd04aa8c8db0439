package store

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/Eggie20/Online-Supermarket/internal/domain"
	"github.com/Eggie20/Online-Supermarket/internal/event"
)

// --- Test Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newBufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func onions() domain.CatalogProduct {
	return domain.CatalogProduct{
		ID:       1,
		Name:     "Fresh Red Onions",
		Category: "vegetables",
		Price:    price("85"),
		Stock:    50,
		Seller:   "Cabadbaran Fresh Market",
		Image:    "assets/img/products/onion.jpg",
	}
}

func rice() domain.CatalogProduct {
	return domain.CatalogProduct{
		ID:       5,
		Name:     "Premium Dinorado Rice",
		Category: "grains",
		Price:    price("52"),
		Stock:    200,
		Seller:   "Agusan Rice Mill",
	}
}

func eggs() domain.CatalogProduct {
	return domain.CatalogProduct{
		ID:     4,
		Name:   "Farm Fresh Eggs",
		Price:  price("8.50"),
		Stock:  120,
		Seller: "Morning Glory Store",
		Image:  "assets/img/products/eggs.jpg",
	}
}

func soldOutMangoes() domain.CatalogProduct {
	return domain.CatalogProduct{
		ID:     7,
		Name:   "Carabao Mangoes",
		Price:  price("120"),
		Stock:  0,
		Seller: "Mindanao Fruit Farm",
	}
}

// recorder is a Notifier that keeps every notification it receives.
type recorder struct {
	mu   sync.Mutex
	seen []event.Notification
}

func (r *recorder) Publish(_ context.Context, n event.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, n)
}

func (r *recorder) all() []event.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]event.Notification, len(r.seen))
	copy(out, r.seen)
	return out
}

func (r *recorder) last() event.Notification {
	all := r.all()
	return all[len(all)-1]
}

// --- Mock Repository ---

type mockKeyValueStore struct {
	mock.Mock
}

func (m *mockKeyValueStore) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *mockKeyValueStore) Set(ctx context.Context, key string, value []byte) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *mockKeyValueStore) Remove(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

var errDiskFull = errors.New("quota exceeded")
