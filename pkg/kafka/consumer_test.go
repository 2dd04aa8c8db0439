package kafka

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

type fakeReader struct {
	mu        sync.Mutex
	messages  []kafka.Message
	committed []kafka.Message
	closed    bool
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.messages) > 0 {
		msg := r.messages[0]
		r.messages = r.messages[1:]
		r.mu.Unlock()
		return msg, nil
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.committed = append(r.committed, msgs...)
	return nil
}

func (r *fakeReader) Close() error {
	r.closed = true
	return nil
}

type fakeDLQ struct {
	published []kafka.Message
	causes    []error
}

func (d *fakeDLQ) Publish(_ context.Context, msg kafka.Message, lastErr error, _ string) error {
	d.published = append(d.published, msg)
	d.causes = append(d.causes, lastErr)
	return nil
}

func (d *fakeDLQ) Close() error { return nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConsumer(reader *fakeReader, dlq deadLetterer, group string, h Handler) *Consumer {
	c := &Consumer{
		reader:  reader,
		topic:   "supermarket.cart.updated",
		group:   group,
		logger:  discardLogger(),
		handler: h,
		backoff: time.Millisecond,
	}
	if dlq != nil {
		c.dlq = dlq
	}
	return c
}

func cartMessage(t *testing.T, profile string) kafka.Message {
	t.Helper()
	evt, err := NewEvent("cart.updated", profile, "cart", "storefront-service", map[string]int{"count": 1})
	require.NoError(t, err)
	data, err := evt.Marshal()
	require.NoError(t, err)
	return kafka.Message{Topic: "supermarket.cart.updated", Key: []byte(profile), Value: data}
}

func TestConsumerProcess_Success(t *testing.T) {
	reader := &fakeReader{}
	var got []string
	c := newTestConsumer(reader, nil, "group-success", func(ctx context.Context, e *Event) error {
		got = append(got, e.AggregateID)
		assert.Equal(t, messageInfo{topic: "supermarket.cart.updated", group: "group-success"}, messageInfoFromContext(ctx))
		return nil
	})

	require.True(t, c.process(context.Background(), cartMessage(t, "browser-1")))

	assert.Equal(t, []string{"browser-1"}, got)
	assert.Len(t, reader.committed, 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(ConsumerMessagesProcessed.WithLabelValues("supermarket.cart.updated", "group-success")))
}

func TestConsumerProcess_RetriesThenDeadLetters(t *testing.T) {
	reader := &fakeReader{}
	dlq := &fakeDLQ{}
	boom := errors.New("refresh failed")
	attempts := 0
	c := newTestConsumer(reader, dlq, "group-poison", func(context.Context, *Event) error {
		attempts++
		return boom
	})

	require.True(t, c.process(context.Background(), cartMessage(t, "browser-2")))

	assert.Equal(t, maxHandlerRetries, attempts)
	require.Len(t, dlq.published, 1)
	assert.ErrorIs(t, dlq.causes[0], boom)
	assert.Len(t, reader.committed, 1, "poison message is committed")
	assert.Equal(t, 1.0, testutil.ToFloat64(ConsumerMessagesFailed.WithLabelValues("supermarket.cart.updated", "group-poison")))
	assert.Equal(t, 1.0, testutil.ToFloat64(ConsumerDLQPublished.WithLabelValues("supermarket.cart.updated", "group-poison")))
}

func TestConsumerProcess_RecoversOnRetry(t *testing.T) {
	reader := &fakeReader{}
	dlq := &fakeDLQ{}
	attempts := 0
	c := newTestConsumer(reader, dlq, "group-flaky", func(context.Context, *Event) error {
		attempts++
		if attempts == 1 {
			return errors.New("transient")
		}
		return nil
	})

	require.True(t, c.process(context.Background(), cartMessage(t, "browser-3")))

	assert.Equal(t, 2, attempts)
	assert.Empty(t, dlq.published)
	assert.Len(t, reader.committed, 1)
}

func TestConsumerProcess_UndecodableMessage(t *testing.T) {
	reader := &fakeReader{}
	dlq := &fakeDLQ{}
	called := false
	c := newTestConsumer(reader, dlq, "group-garbage", func(context.Context, *Event) error {
		called = true
		return nil
	})

	require.True(t, c.process(context.Background(), kafka.Message{Topic: "supermarket.cart.updated", Value: []byte("{not json")}))

	assert.False(t, called)
	assert.Len(t, dlq.published, 1)
	assert.Len(t, reader.committed, 1)
}

func TestConsumerProcess_InvalidEnvelope(t *testing.T) {
	reader := &fakeReader{}
	dlq := &fakeDLQ{}
	called := false
	c := newTestConsumer(reader, dlq, "group-invalid", func(context.Context, *Event) error {
		called = true
		return nil
	})

	msg := kafka.Message{Topic: "supermarket.cart.updated", Value: []byte(`{"event_type":"cart.updated","aggregate_id":"guest"}`)}
	require.True(t, c.process(context.Background(), msg))

	assert.False(t, called)
	require.Len(t, dlq.causes, 1)
	assert.ErrorIs(t, dlq.causes[0], ErrInvalidEvent)
	assert.Len(t, reader.committed, 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(ConsumerMessagesFailed.WithLabelValues("supermarket.cart.updated", "group-invalid")))
}

func TestConsumerProcess_CanceledDuringBackoff(t *testing.T) {
	reader := &fakeReader{}
	ctx, cancel := context.WithCancel(context.Background())
	c := newTestConsumer(reader, nil, "group-cancel", func(context.Context, *Event) error {
		cancel()
		return errors.New("still failing")
	})
	c.backoff = time.Hour

	assert.False(t, c.process(ctx, cartMessage(t, "browser-4")))
	assert.Empty(t, reader.committed, "message is left for redelivery")
}

func TestConsumerStart_ConsumesUntilCanceled(t *testing.T) {
	reader := &fakeReader{messages: []kafka.Message{cartMessage(t, "a"), cartMessage(t, "b")}}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var seen []string
	c := newTestConsumer(reader, nil, "group-start", func(_ context.Context, e *Event) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, e.AggregateID)
		if len(seen) == 2 {
			cancel()
		}
		return nil
	})

	require.NoError(t, c.Start(ctx))

	assert.Equal(t, []string{"a", "b"}, seen)
	assert.True(t, reader.closed)
	assert.Equal(t, 2.0, testutil.ToFloat64(ConsumerMessagesReceived.WithLabelValues("supermarket.cart.updated", "group-start")))
}

func TestExtractTraceContext(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})

	msg := cartMessage(t, "browser-5")
	NewHeaderCarrier(&msg.Headers).Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")

	sc := trace.SpanContextFromContext(extractTraceContext(context.Background(), msg))
	assert.True(t, sc.IsRemote())
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", sc.TraceID().String())
}
