package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// maxHandlerRetries bounds handler attempts per message before it is
// dead-lettered and committed.
const maxHandlerRetries = 3

// Handler processes one decoded event. A returned error triggers a retry.
type Handler func(ctx context.Context, event *Event) error

// ConsumerConfig holds Kafka consumer configuration.
type ConsumerConfig struct {
	Brokers  []string
	GroupID  string
	Topic    string
	MinBytes int
	MaxBytes int
	// EnableDLQ forwards messages that exhaust their retries to the topic's
	// dead-letter queue instead of dropping them.
	EnableDLQ bool
}

// messageReader is the subset of *kafka.Reader the consumer loop needs.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// deadLetterer is the subset of *DLQProducer the consumer loop needs.
type deadLetterer interface {
	Publish(ctx context.Context, originalMsg kafka.Message, lastErr error, consumerGroup string) error
	Close() error
}

// Consumer reads one topic as part of a consumer group, committing each
// message after its handler succeeds or gives up.
type Consumer struct {
	reader    messageReader
	dlq       deadLetterer
	topic     string
	group     string
	logger    *slog.Logger
	handler   Handler
	backoff   time.Duration
	closeOnce sync.Once
}

// NewConsumer builds a consumer; the reader connects lazily on first fetch.
func NewConsumer(cfg ConsumerConfig, handler Handler, logger *slog.Logger) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		GroupID:  cfg.GroupID,
		Topic:    cfg.Topic,
		MinBytes: cfg.MinBytes,
		MaxBytes: cfg.MaxBytes,
	})

	c := &Consumer{
		reader:  r,
		topic:   cfg.Topic,
		group:   cfg.GroupID,
		logger:  logger,
		handler: handler,
		backoff: 100 * time.Millisecond,
	}
	if cfg.EnableDLQ {
		c.dlq = NewDLQProducer(cfg.Brokers, logger)
	}
	return c
}

// Start fetches and processes messages until ctx is canceled.
func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info("consumer started",
		slog.String("topic", c.topic),
		slog.String("group", c.group),
		slog.Bool("dlq", c.dlq != nil),
	)

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("consumer stopping", slog.String("topic", c.topic))
			return c.Close()
		default:
			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				c.logger.Error("fetch failed", slog.String("topic", c.topic), slog.String("error", err.Error()))
				continue
			}
			ConsumerMessagesReceived.WithLabelValues(c.topic, c.group).Inc()

			if !c.process(ctx, msg) {
				return nil
			}
		}
	}
}

// process handles one message and commits it whatever the outcome, so a
// poison message never blocks the partition. It returns false only when ctx
// was canceled between attempts, leaving the message uncommitted.
func (c *Consumer) process(ctx context.Context, msg kafka.Message) bool {
	event, err := UnmarshalEvent(msg.Value)
	if err == nil {
		err = event.Validate()
	}
	if err != nil {
		c.logger.Error("rejecting undecodable event", append(messageAttrs(msg), slog.String("error", err.Error()))...)
		c.fail(ctx, msg, fmt.Errorf("decode event: %w", err))
		return true
	}

	hctx := withMessageInfo(extractTraceContext(ctx, msg), c.topic, c.group)
	start := time.Now()
	canceled, err := c.handleWithRetry(ctx, hctx, msg, event)
	if canceled {
		return false
	}
	ConsumerProcessingDuration.WithLabelValues(c.topic, c.group).Observe(time.Since(start).Seconds())

	if err != nil {
		c.logger.Error("giving up on event",
			append(messageAttrs(msg),
				slog.String("event_type", event.EventType),
				slog.String("aggregate_id", event.AggregateID),
				slog.Int("attempts", maxHandlerRetries),
				slog.String("error", err.Error()),
			)...)
		c.fail(ctx, msg, err)
		return true
	}

	ConsumerMessagesProcessed.WithLabelValues(c.topic, c.group).Inc()
	c.commit(ctx, msg)
	return true
}

// handleWithRetry runs the handler up to maxHandlerRetries times, waiting
// attempt*backoff between tries. Waits observe ctx, the consumer's lifetime,
// rather than hctx.
func (c *Consumer) handleWithRetry(ctx, hctx context.Context, msg kafka.Message, event *Event) (canceled bool, lastErr error) {
	for attempt := 1; attempt <= maxHandlerRetries; attempt++ {
		lastErr = c.handler(hctx, event)
		if lastErr == nil {
			return false, nil
		}
		c.logger.Warn("event handler failed",
			append(messageAttrs(msg),
				slog.String("event_type", event.EventType),
				slog.Int("attempt", attempt),
				slog.String("error", lastErr.Error()),
			)...)
		if attempt == maxHandlerRetries {
			break
		}
		select {
		case <-ctx.Done():
			return true, ctx.Err()
		case <-time.After(time.Duration(attempt) * c.backoff):
		}
	}
	return false, lastErr
}

func messageAttrs(msg kafka.Message) []any {
	return []any{
		slog.String("topic", msg.Topic),
		slog.Int("partition", msg.Partition),
		slog.Int64("offset", msg.Offset),
	}
}

// fail counts msg as failed, dead-letters it when enabled and commits it.
func (c *Consumer) fail(ctx context.Context, msg kafka.Message, cause error) {
	ConsumerMessagesFailed.WithLabelValues(c.topic, c.group).Inc()
	c.deadLetter(ctx, msg, cause)
	c.commit(ctx, msg)
}

func (c *Consumer) deadLetter(ctx context.Context, msg kafka.Message, cause error) {
	if c.dlq == nil {
		return
	}
	// Publish logs its own failure; the message is committed either way.
	if err := c.dlq.Publish(ctx, msg, cause, c.group); err == nil {
		ConsumerDLQPublished.WithLabelValues(c.topic, c.group).Inc()
	}
}

func (c *Consumer) commit(ctx context.Context, msg kafka.Message) {
	if err := c.reader.CommitMessages(ctx, msg); err != nil {
		c.logger.Error("commit failed", append(messageAttrs(msg), slog.String("error", err.Error()))...)
	}
}

// Close releases the reader and the DLQ writer. Later calls are no-ops.
func (c *Consumer) Close() error {
	var err error
	c.closeOnce.Do(func() {
		err = c.reader.Close()
		if c.dlq != nil {
			if dlqErr := c.dlq.Close(); dlqErr != nil && err == nil {
				err = dlqErr
			}
		}
	})
	return err
}

type messageInfoKey struct{}

type messageInfo struct {
	topic string
	group string
}

func withMessageInfo(ctx context.Context, topic, group string) context.Context {
	return context.WithValue(ctx, messageInfoKey{}, messageInfo{topic: topic, group: group})
}

func messageInfoFromContext(ctx context.Context) messageInfo {
	info, _ := ctx.Value(messageInfoKey{}).(messageInfo)
	return info
}
