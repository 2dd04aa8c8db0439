package event

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	pkgkafka "github.com/Eggie20/Online-Supermarket/pkg/kafka"
	"github.com/Eggie20/Online-Supermarket/pkg/tracing"
)

// Refresher reloads a profile's list after another replica changed it and
// rebroadcasts the fresh state with origin set.
type Refresher interface {
	Refresh(ctx context.Context, profile, notificationType, origin string) error
}

// Consumer applies cart and wishlist events published by other replicas.
type Consumer struct {
	instance  string
	refresher Refresher
	logger    *slog.Logger
}

// NewConsumer creates a replica sync consumer for instance.
func NewConsumer(instance string, refresher Refresher, logger *slog.Logger) *Consumer {
	return &Consumer{
		instance:  instance,
		refresher: refresher,
		logger:    logger,
	}
}

// Handle is a pkgkafka.Handler. Events this replica produced are ignored.
func (c *Consumer) Handle(ctx context.Context, evt *pkgkafka.Event) error {
	origin := evt.Metadata[MetadataInstance]
	if origin == c.instance {
		return nil
	}
	if origin == "" {
		origin = evt.Source
	}

	switch evt.EventType {
	case TypeCartUpdated, TypeWishlistUpdated:
	default:
		c.logger.DebugContext(ctx, "ignoring event",
			slog.String("event_type", evt.EventType),
			slog.String("event_id", evt.EventID),
		)
		return nil
	}

	if evt.AggregateID == "" {
		return fmt.Errorf("event %s has no profile", evt.EventID)
	}

	ctx, span := tracing.StartSpan(ctx, "storefront.sync",
		attribute.String("event.type", evt.EventType),
		attribute.String("profile_id", evt.AggregateID),
		attribute.String("origin", origin),
	)
	defer span.End()

	if err := c.refresher.Refresh(ctx, evt.AggregateID, evt.EventType, origin); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("refresh %s for profile %s: %w", evt.EventType, evt.AggregateID, err)
	}

	c.logger.DebugContext(ctx, "applied remote change",
		slog.String("event_type", evt.EventType),
		slog.String("profile_id", evt.AggregateID),
		slog.String("origin", origin),
	)
	return nil
}
