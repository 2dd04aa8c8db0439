package confirm

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Eggie20/Online-Supermarket/pkg/errors"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// ============================================================================
// Dialog Tests
// ============================================================================

func TestDialog_AcceptPath(t *testing.T) {
	var d Dialog
	assert.Equal(t, StateClosed, d.State())

	require.NoError(t, d.Open("Clear all items from your cart?"))
	assert.Equal(t, StateConfirming, d.State())
	assert.Equal(t, "Clear all items from your cart?", d.Prompt())

	require.NoError(t, d.Accept())
	assert.Equal(t, StateResolved, d.State())
	assert.Equal(t, OutcomeAccepted, d.Outcome())
}

func TestDialog_CancelPath(t *testing.T) {
	var d Dialog
	require.NoError(t, d.Open("Delete this product?"))
	require.NoError(t, d.Cancel())
	assert.Equal(t, OutcomeCancelled, d.Outcome())
}

func TestDialog_InvalidTransitions(t *testing.T) {
	var closed Dialog
	assert.ErrorIs(t, closed.Accept(), ErrInvalidTransition)
	assert.ErrorIs(t, closed.Cancel(), ErrInvalidTransition)
	assert.Equal(t, OutcomeNone, closed.Outcome())

	var open Dialog
	require.NoError(t, open.Open("x"))
	assert.ErrorIs(t, open.Open("again"), ErrInvalidTransition)

	var resolved Dialog
	require.NoError(t, resolved.Open("x"))
	require.NoError(t, resolved.Accept())
	assert.ErrorIs(t, resolved.Accept(), ErrInvalidTransition)
	assert.ErrorIs(t, resolved.Cancel(), ErrInvalidTransition)
	assert.ErrorIs(t, resolved.Open("x"), ErrInvalidTransition)
	assert.Equal(t, OutcomeAccepted, resolved.Outcome())
}

func TestDialog_ConcurrentResolveHasOneWinner(t *testing.T) {
	var d Dialog
	require.NoError(t, d.Open("x"))

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resolve := d.Accept
			if i%2 == 0 {
				resolve = d.Cancel
			}
			if resolve() == nil {
				wins.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
}

func TestStateAndOutcomeText(t *testing.T) {
	text, err := StateConfirming.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "confirming", string(text))

	text, err = OutcomeCancelled.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "cancelled", string(text))

	var s State
	require.NoError(t, s.UnmarshalText([]byte("resolved")))
	assert.Equal(t, StateResolved, s)

	var o Outcome
	require.NoError(t, o.UnmarshalText([]byte("accepted")))
	assert.Equal(t, OutcomeAccepted, o)
	assert.Error(t, o.UnmarshalText([]byte("maybe")))
}

// ============================================================================
// Registry Tests
// ============================================================================

func TestRegistry_AcceptRunsActionOnce(t *testing.T) {
	r := NewRegistry(time.Minute, newTestLogger())
	var runs int
	p, err := r.Request("guest", "clear_cart", "Clear cart?", func(context.Context) error {
		runs++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, StateConfirming, p.State)
	assert.NotEmpty(t, p.ID)

	got, err := r.Accept(context.Background(), "guest", p.ID)
	require.NoError(t, err)
	assert.Equal(t, StateResolved, got.State)
	assert.Equal(t, OutcomeAccepted, got.Outcome)
	assert.Equal(t, 1, runs)

	_, err = r.Accept(context.Background(), "guest", p.ID)
	assert.Equal(t, 409, apperrors.HTTPStatus(err))
	assert.True(t, errors.Is(err, ErrInvalidTransition))
	assert.Equal(t, 1, runs)
}

func TestRegistry_CancelSkipsAction(t *testing.T) {
	r := NewRegistry(time.Minute, newTestLogger())
	ran := false
	p, err := r.Request("guest", "clear_cart", "Clear cart?", func(context.Context) error {
		ran = true
		return nil
	})
	require.NoError(t, err)

	got, err := r.Cancel("guest", p.ID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCancelled, got.Outcome)

	_, err = r.Accept(context.Background(), "guest", p.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.False(t, ran)
}

func TestRegistry_ActionErrorIsReturned(t *testing.T) {
	r := NewRegistry(time.Minute, newTestLogger())
	boom := errors.New("boom")
	p, _ := r.Request("guest", "delete_product", "Delete?", func(context.Context) error { return boom })

	got, err := r.Accept(context.Background(), "guest", p.ID)

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, OutcomeAccepted, got.Outcome)
}

func TestRegistry_ScopedToProfile(t *testing.T) {
	r := NewRegistry(time.Minute, newTestLogger())
	p, _ := r.Request("alice", "clear_cart", "Clear cart?", func(context.Context) error { return nil })

	_, err := r.Get("bob", p.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = r.Accept(context.Background(), "bob", p.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	got, err := r.Get("alice", p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Clear cart?", got.Prompt)
}

func TestRegistry_UnknownID(t *testing.T) {
	r := NewRegistry(time.Minute, newTestLogger())
	_, err := r.Cancel("guest", "does-not-exist")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRegistry_ExpiredIsGone(t *testing.T) {
	r := NewRegistry(time.Minute, newTestLogger())
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	ran := false
	p, _ := r.Request("guest", "clear_cart", "Clear cart?", func(context.Context) error {
		ran = true
		return nil
	})
	assert.Equal(t, now.Add(time.Minute), p.ExpiresAt)

	now = now.Add(2 * time.Minute)
	_, err := r.Accept(context.Background(), "guest", p.ID)

	assert.ErrorIs(t, err, apperrors.ErrGone)
	assert.False(t, ran)
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_Sweep(t *testing.T) {
	r := NewRegistry(time.Minute, newTestLogger())
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }
	noop := func(context.Context) error { return nil }

	_, _ = r.Request("guest", "a", "a", noop)
	now = now.Add(30 * time.Second)
	_, _ = r.Request("guest", "b", "b", noop)
	now = now.Add(45 * time.Second)

	assert.Equal(t, 1, r.Sweep())
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_RunStopsOnCancel(t *testing.T) {
	r := NewRegistry(time.Minute, newTestLogger())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		r.Run(ctx, time.Millisecond)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestNewRegistry_DefaultTTL(t *testing.T) {
	r := NewRegistry(0, newTestLogger())
	assert.Equal(t, DefaultTTL, r.ttl)
}
