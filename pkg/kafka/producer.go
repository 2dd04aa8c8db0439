package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// ProducerConfig tunes the underlying kafka-go writer.
type ProducerConfig struct {
	Brokers      []string
	BatchSize    int
	BatchTimeout time.Duration
	Async        bool
}

// DefaultProducerConfig favours latency over throughput: storefront events
// are small and a replica waits on them before re-rendering.
func DefaultProducerConfig(brokers []string) ProducerConfig {
	return ProducerConfig{Brokers: brokers, BatchSize: 100, BatchTimeout: 10 * time.Millisecond}
}

// messageWriter is the subset of *kafka.Writer the producer needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes event envelopes. Messages are keyed by AggregateID and
// hash-balanced so each profile's events stay ordered within one partition.
type Producer struct {
	writer  messageWriter
	brokers []string
	logger  *slog.Logger
}

// NewProducer builds a producer. The writer dials lazily on first publish.
func NewProducer(cfg ProducerConfig, logger *slog.Logger) *Producer {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchSize:    cfg.BatchSize,
		BatchTimeout: cfg.BatchTimeout,
		Async:        cfg.Async,
	}
	return &Producer{writer: w, brokers: cfg.Brokers, logger: logger}
}

// encodeMessage turns event into a wire message. Routing fields are mirrored
// into headers so the DLQ and consumers can inspect them without decoding.
func encodeMessage(ctx context.Context, topic string, event *Event) (kafka.Message, error) {
	value, err := event.Marshal()
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal event: %w", err)
	}

	headers := []kafka.Header{
		header("event_id", event.EventID),
		header("event_type", event.EventType),
		header("source", event.Source),
	}
	if event.CorrelationID != "" {
		headers = append(headers, header("correlation_id", event.CorrelationID))
	}

	msg := kafka.Message{Topic: topic, Key: []byte(event.AggregateID), Value: value, Headers: headers}
	injectTraceContext(ctx, &msg)
	return msg, nil
}

func header(key, value string) kafka.Header {
	return kafka.Header{Key: key, Value: []byte(value)}
}

func publishAttrs(topic string, event *Event) []any {
	return []any{
		slog.String("topic", topic),
		slog.String("event_type", event.EventType),
		slog.String("aggregate_id", event.AggregateID),
	}
}

// Publish writes event to topic, timing the write for the publish histogram.
func (p *Producer) Publish(ctx context.Context, topic string, event *Event) error {
	msg, err := encodeMessage(ctx, topic, event)
	if err != nil {
		return err
	}

	began := time.Now()
	writeErr := p.writer.WriteMessages(ctx, msg)
	ProducerPublishDuration.WithLabelValues(topic).Observe(time.Since(began).Seconds())

	if writeErr != nil {
		ProducerPublishErrors.WithLabelValues(topic).Inc()
		p.logger.ErrorContext(ctx, "event publish failed",
			append(publishAttrs(topic, event), slog.String("error", writeErr.Error()))...)
		return fmt.Errorf("publish %s to %s: %w", event.EventType, topic, writeErr)
	}

	ProducerMessagesPublished.WithLabelValues(topic).Inc()
	p.logger.DebugContext(ctx, "event published", publishAttrs(topic, event)...)
	return nil
}

// Ping reports whether any configured broker answers.
func (p *Producer) Ping(ctx context.Context) error {
	return PingBrokers(ctx, p.brokers)
}

// PingBrokers succeeds as soon as one broker returns its cluster metadata.
// When none do, the per-broker failures are joined.
func PingBrokers(ctx context.Context, brokers []string) error {
	if len(brokers) == 0 {
		return errors.New("kafka: no brokers configured")
	}

	failures := make([]error, 0, len(brokers))
	for _, addr := range brokers {
		err := pingBroker(ctx, addr)
		if err == nil {
			return nil
		}
		failures = append(failures, fmt.Errorf("%s: %w", addr, err))
	}
	return fmt.Errorf("kafka ping: all brokers unreachable: %w", errors.Join(failures...))
}

func pingBroker(ctx context.Context, addr string) error {
	conn, err := kafka.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.Brokers(); err != nil {
		return fmt.Errorf("list brokers: %w", err)
	}
	return nil
}

// Close flushes buffered messages and releases the writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}
