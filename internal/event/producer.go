package event

import (
	"context"
	"fmt"
	"log/slog"

	pkgkafka "github.com/Eggie20/Online-Supermarket/pkg/kafka"
	"github.com/Eggie20/Online-Supermarket/pkg/logger"
)

// Kafka topic constants for storefront notifications.
var (
	TopicCartUpdated     = pkgkafka.Topic("cart", "updated")
	TopicWishlistUpdated = pkgkafka.Topic("wishlist", "updated")
)

// MetadataInstance is the event metadata key naming the publishing replica.
const MetadataInstance = "instance"

// Aggregate type constants.
const (
	AggregateTypeCart     = "cart"
	AggregateTypeWishlist = "wishlist"
)

// SourceStorefront identifies events originating from this service.
const SourceStorefront = "storefront-service"

// Publisher is the subset of the Kafka producer used by the forwarder.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer republishes bus notifications to Kafka, tagged with the replica
// that made the change.
type Producer struct {
	kafka    Publisher
	instance string
	logger   *slog.Logger
}

// NewProducer creates a new notification forwarder for replica instance.
func NewProducer(kafka Publisher, instance string, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:    kafka,
		instance: instance,
		logger:   logger,
	}
}

// Attach subscribes the producer to bus and returns the unsubscribe function.
// Publish failures are logged, never propagated back to the store.
// Notifications replayed from another replica are not forwarded again.
func (p *Producer) Attach(bus *Bus) func() {
	return bus.Subscribe(func(ctx context.Context, n Notification) {
		if n.Origin != "" {
			return
		}
		if err := p.Forward(ctx, n); err != nil {
			p.logger.ErrorContext(ctx, "failed to forward notification",
				slog.String("type", n.Type),
				slog.String("profile", n.Profile),
				slog.String("error", err.Error()),
			)
		}
	})
}

// Forward publishes a single notification to its topic.
func (p *Producer) Forward(ctx context.Context, n Notification) error {
	var topic, aggregateType string
	var data any
	switch n.Type {
	case TypeCartUpdated:
		topic, aggregateType, data = TopicCartUpdated, AggregateTypeCart, n.Cart
	case TypeWishlistUpdated:
		topic, aggregateType, data = TopicWishlistUpdated, AggregateTypeWishlist, n.Wishlist
	default:
		return fmt.Errorf("unknown notification type %q", n.Type)
	}

	evt, err := pkgkafka.NewEvent(n.Type, n.Profile, aggregateType, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", n.Type, err)
	}
	evt.WithMetadata(MetadataInstance, p.instance)
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		evt.WithCorrelationID(id)
	}

	if err := p.kafka.Publish(ctx, topic, evt); err != nil {
		return fmt.Errorf("publish %s event: %w", n.Type, err)
	}

	p.logger.DebugContext(ctx, "forwarded notification",
		slog.String("topic", topic),
		slog.String("profile", n.Profile),
	)

	return nil
}
