package confirm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	apperrors "github.com/Eggie20/Online-Supermarket/pkg/errors"
)

// DefaultTTL is how long a pending confirmation stays answerable.
const DefaultTTL = 5 * time.Minute

var resolvedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "storefront_confirmations_resolved_total",
	Help: "Confirmation dialogs resolved, by kind and outcome.",
}, []string{"kind", "outcome"})

// Action is the work a confirmation guards. It runs once, on accept.
type Action func(ctx context.Context) error

// Pending is the client-visible view of a registered dialog.
type Pending struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Prompt    string    `json:"prompt"`
	State     State     `json:"state"`
	Outcome   Outcome   `json:"outcome"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type entry struct {
	id        string
	kind      string
	profile   string
	dialog    *Dialog
	action    Action
	expiresAt time.Time
}

func (e *entry) view() Pending {
	return Pending{
		ID:        e.id,
		Kind:      e.kind,
		Prompt:    e.dialog.Prompt(),
		State:     e.dialog.State(),
		Outcome:   e.dialog.Outcome(),
		ExpiresAt: e.expiresAt,
	}
}

// Registry keeps dialogs awaiting an answer, keyed by a random ID and scoped
// to the profile that requested them. Resolved dialogs stay readable until
// they expire.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
	ttl     time.Duration
	now     func() time.Time
	logger  *slog.Logger
}

// NewRegistry creates a registry whose dialogs expire after ttl.
func NewRegistry(ttl time.Duration, logger *slog.Logger) *Registry {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Registry{
		entries: make(map[string]*entry),
		ttl:     ttl,
		now:     time.Now,
		logger:  logger,
	}
}

// Request opens a dialog guarding action and returns it in the confirming state.
func (r *Registry) Request(profile, kind, prompt string, action Action) (Pending, error) {
	d := &Dialog{}
	if err := d.Open(prompt); err != nil {
		return Pending{}, err
	}

	e := &entry{
		id:        uuid.New().String(),
		kind:      kind,
		profile:   profile,
		dialog:    d,
		action:    action,
		expiresAt: r.now().Add(r.ttl),
	}

	r.mu.Lock()
	r.entries[e.id] = e
	r.mu.Unlock()

	r.logger.Debug("confirmation requested",
		slog.String("confirmation_id", e.id),
		slog.String("kind", kind),
		slog.String("profile", profile),
	)
	return e.view(), nil
}

// Get returns the dialog with id.
func (r *Registry) Get(profile, id string) (Pending, error) {
	e, err := r.lookup(profile, id)
	if err != nil {
		return Pending{}, err
	}
	return e.view(), nil
}

// Accept resolves the dialog as accepted and runs its action. Accepting a
// dialog that is already resolved is a conflict.
func (r *Registry) Accept(ctx context.Context, profile, id string) (Pending, error) {
	e, err := r.lookup(profile, id)
	if err != nil {
		return Pending{}, err
	}
	if err := e.dialog.Accept(); err != nil {
		return e.view(), transitionError(err)
	}
	resolvedTotal.WithLabelValues(e.kind, OutcomeAccepted.String()).Inc()

	if err := e.action(ctx); err != nil {
		return e.view(), fmt.Errorf("run %s: %w", e.kind, err)
	}

	r.logger.InfoContext(ctx, "confirmation accepted",
		slog.String("confirmation_id", id),
		slog.String("kind", e.kind),
	)
	return e.view(), nil
}

// Cancel resolves the dialog as cancelled. The guarded action never runs.
func (r *Registry) Cancel(profile, id string) (Pending, error) {
	e, err := r.lookup(profile, id)
	if err != nil {
		return Pending{}, err
	}
	if err := e.dialog.Cancel(); err != nil {
		return e.view(), transitionError(err)
	}
	resolvedTotal.WithLabelValues(e.kind, OutcomeCancelled.String()).Inc()
	return e.view(), nil
}

// Sweep drops expired dialogs and returns how many were removed.
func (r *Registry) Sweep() int {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, e := range r.entries {
		if now.After(e.expiresAt) {
			delete(r.entries, id)
			removed++
		}
	}
	return removed
}

// Run sweeps expired dialogs every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := r.Sweep(); removed > 0 {
				r.logger.Debug("expired confirmations swept",
					slog.Int("removed", removed),
					slog.Int("pending", r.Len()),
				)
			}
		}
	}
}

// Len returns the number of dialogs held, expired ones included until swept.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *Registry) lookup(profile, id string) (*entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok || e.profile != profile {
		return nil, apperrors.NotFound("confirmation", id)
	}
	if r.now().After(e.expiresAt) {
		delete(r.entries, id)
		return nil, apperrors.Gone("confirmation", id)
	}
	return e, nil
}

func transitionError(err error) error {
	if errors.Is(err, ErrInvalidTransition) {
		return &apperrors.AppError{
			Code:    "CONFLICT",
			Message: "confirmation is already resolved",
			Status:  http.StatusConflict,
			Err:     err,
		}
	}
	return err
}
