package queue

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"preipo-sip.backend/internal/config"
	"preipo-sip.backend/pkg/logger"
)

func init() {
	logger.Init("test")
}

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

type fakeReader struct {
	queue  []kafka.Message
	err    error
	closed bool
}

func (r *fakeReader) ReadMessage(_ context.Context) (kafka.Message, error) {
	if r.err != nil {
		return kafka.Message{}, r.err
	}
	if len(r.queue) == 0 {
		return kafka.Message{}, context.Canceled
	}
	msg := r.queue[0]
	r.queue = r.queue[1:]
	return msg, nil
}

func (r *fakeReader) Close() error {
	r.closed = true
	return nil
}

func TestProducer_Publish_KeysByEventID(t *testing.T) {
	w := &fakeWriter{}
	p := &Producer{writer: w, topic: "payment-events"}

	err := p.Publish(context.Background(), "evt_123", []byte(`{"event":"payment.captured"}`))
	require.NoError(t, err)
	require.Len(t, w.messages, 1)
	require.Equal(t, []byte("evt_123"), w.messages[0].Key)

	require.NoError(t, p.Close())
	require.True(t, w.closed)
}

func TestProducer_Publish_WriteError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := &Producer{writer: w, topic: "payment-events"}

	err := p.Publish(context.Background(), "evt_123", []byte("{}"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to write kafka message")
}

func TestConsumer_Fetch(t *testing.T) {
	r := &fakeReader{queue: []kafka.Message{
		{Key: []byte("evt_9"), Value: []byte(`{"event":"payment.failed"}`)},
	}}
	c := &Consumer{reader: r}

	key, value, err := c.Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, "evt_9", key)
	require.JSONEq(t, `{"event":"payment.failed"}`, string(value))

	_, _, err = c.Fetch(context.Background())
	require.Error(t, err)

	require.NoError(t, c.Close())
	require.True(t, r.closed)
}

func TestNewProducerAndConsumer_Construct(t *testing.T) {
	cfg := config.KafkaConfig{
		Brokers:            []string{"localhost:9092"},
		PaymentEventsTopic: "payment-events",
		ConsumerGroup:      "test-group",
	}

	p := NewProducer(cfg)
	require.NotNil(t, p.writer)
	require.NoError(t, p.Close())

	c := NewConsumer(cfg)
	require.NotNil(t, c.reader)
	require.NoError(t, c.Close())
}
