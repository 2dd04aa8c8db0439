package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

// DLQ headers added to a dead-lettered message, next to its original headers.
const (
	HeaderDLQOriginalTopic     = "dlq.original_topic"
	HeaderDLQOriginalPartition = "dlq.original_partition"
	HeaderDLQOriginalOffset    = "dlq.original_offset"
	HeaderDLQConsumerGroup     = "dlq.consumer_group"
	HeaderDLQError             = "dlq.error"
	HeaderDLQFailedAt          = "dlq.failed_at"
)

// DLQProducer parks messages a consumer gave up on in "<topic>.dlq".
type DLQProducer struct {
	writer *kafka.Writer
	logger *slog.Logger
	now    func() time.Time
}

// NewDLQProducer creates a synchronous, unbatched DLQ writer.
func NewDLQProducer(brokers []string, logger *slog.Logger) *DLQProducer {
	return &DLQProducer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.Hash{},
			BatchSize:    1,
			BatchTimeout: 100 * time.Millisecond,
			RequiredAcks: kafka.RequireAll,
		},
		logger: logger,
		now:    time.Now,
	}
}

// deadLetterMessage copies msg into its DLQ topic with the failure recorded in headers.
func deadLetterMessage(msg kafka.Message, cause error, group string, failedAt time.Time) kafka.Message {
	headers := make([]kafka.Header, 0, len(msg.Headers)+6)
	headers = append(headers, msg.Headers...)
	headers = append(headers,
		kafka.Header{Key: HeaderDLQOriginalTopic, Value: []byte(msg.Topic)},
		kafka.Header{Key: HeaderDLQOriginalPartition, Value: []byte(strconv.Itoa(msg.Partition))},
		kafka.Header{Key: HeaderDLQOriginalOffset, Value: []byte(strconv.FormatInt(msg.Offset, 10))},
		kafka.Header{Key: HeaderDLQConsumerGroup, Value: []byte(group)},
		kafka.Header{Key: HeaderDLQFailedAt, Value: []byte(failedAt.UTC().Format(time.RFC3339))},
	)
	if cause != nil {
		headers = append(headers, kafka.Header{Key: HeaderDLQError, Value: []byte(cause.Error())})
	}

	return kafka.Message{
		Topic:   DLQTopic(msg.Topic),
		Key:     msg.Key,
		Value:   msg.Value,
		Headers: headers,
	}
}

// Publish writes msg to its dead-letter topic, keeping the key so a profile's
// failures land in one partition.
func (d *DLQProducer) Publish(ctx context.Context, msg kafka.Message, cause error, consumerGroup string) error {
	dlqMsg := deadLetterMessage(msg, cause, consumerGroup, d.now())

	log := d.logger.With(
		slog.String("dlq_topic", dlqMsg.Topic),
		slog.String("original_topic", msg.Topic),
		slog.Int("partition", msg.Partition),
		slog.Int64("offset", msg.Offset),
		slog.String("consumer_group", consumerGroup),
	)

	if err := d.writer.WriteMessages(ctx, dlqMsg); err != nil {
		log.ErrorContext(ctx, "failed to publish message to DLQ", slog.String("error", err.Error()))
		return fmt.Errorf("publish to DLQ %s: %w", dlqMsg.Topic, err)
	}

	log.WarnContext(ctx, "message sent to DLQ")
	return nil
}

func (d *DLQProducer) Close() error {
	return d.writer.Close()
}
