package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Eggie20/Online-Supermarket/internal/event"
)

// streamBuffer is how many notifications a slow client may lag behind
// before newer ones are dropped for it.
const streamBuffer = 16

const defaultKeepAlive = 15 * time.Second

// EventsHandler streams a profile's cart and wishlist notifications as
// Server-Sent Events.
type EventsHandler struct {
	bus       *event.Bus
	keepAlive time.Duration
	logger    *slog.Logger
}

// NewEventsHandler creates a new SSE handler. A comment line is written every
// keepAlive so proxies keep the connection open.
func NewEventsHandler(bus *event.Bus, keepAlive time.Duration, logger *slog.Logger) *EventsHandler {
	if keepAlive <= 0 {
		keepAlive = defaultKeepAlive
	}
	return &EventsHandler{
		bus:       bus,
		keepAlive: keepAlive,
		logger:    logger,
	}
}

// Stream handles GET /api/v1/events
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	profile := profileFrom(r)
	rc := http.NewResponseController(w)

	// The stream outlives the server's write timeout.
	if err := rc.SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		h.logger.WarnContext(ctx, "failed to clear write deadline", slog.String("error", err.Error()))
	}

	ch := make(chan event.Notification, streamBuffer)
	unsubscribe := h.bus.SubscribeProfile(profile, func(_ context.Context, n event.Notification) {
		select {
		case ch <- n:
		default:
			h.logger.WarnContext(ctx, "event stream lagging, notification dropped",
				slog.String("profile_id", profile),
				slog.String("type", n.Type),
			)
		}
	})
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		h.logger.ErrorContext(ctx, "streaming not supported", slog.String("error", err.Error()))
		return
	}

	h.logger.DebugContext(ctx, "event stream opened",
		slog.String("profile_id", profile),
		slog.Int("subscribers", h.bus.Len()),
	)

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.logger.DebugContext(ctx, "event stream closed", slog.String("profile_id", profile))
			return
		case n := <-ch:
			if err := writeEvent(w, n); err != nil {
				h.logger.WarnContext(ctx, "failed to write event", slog.String("error", err.Error()))
				return
			}
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}

func writeEvent(w http.ResponseWriter, n event.Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", n.Type, data)
	return err
}
