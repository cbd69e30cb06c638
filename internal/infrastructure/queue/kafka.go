package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"preipo-sip.backend/internal/config"
	"preipo-sip.backend/pkg/logger"
)

// Producer publishes gateway payment events to Kafka. Messages are keyed by
// the gateway event id so retries for the same event land in one partition.
type Producer struct {
	writer kafkaWriter
	topic  string
}

type kafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewProducer creates a Kafka producer for the payment events topic
func NewProducer(cfg config.KafkaConfig) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.PaymentEventsTopic,
		Balancer:     &kafka.Hash{},
		MaxAttempts:  3,
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}

	logger.Info(context.Background(), "kafka producer initialized",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("topic", cfg.PaymentEventsTopic),
	)

	return &Producer{writer: writer, topic: cfg.PaymentEventsTopic}
}

// Publish writes one event payload keyed by the gateway event id
func (p *Producer) Publish(ctx context.Context, eventID string, payload []byte) error {
	msg := kafka.Message{
		Key:   []byte(eventID),
		Value: payload,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write kafka message: %w", err)
	}

	logger.Debug(ctx, "published payment event",
		zap.String("event_id", eventID),
		zap.Int("payload_size", len(payload)),
	)
	return nil
}

// Close flushes and closes the underlying writer
func (p *Producer) Close() error {
	return p.writer.Close()
}

// Consumer reads gateway payment events from Kafka
type Consumer struct {
	reader kafkaReader
}

type kafkaReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// NewConsumer creates a Kafka consumer in the service's consumer group
func NewConsumer(cfg config.KafkaConfig) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          cfg.PaymentEventsTopic,
		GroupID:        cfg.ConsumerGroup,
		MinBytes:       10e3,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
		StartOffset:    kafka.FirstOffset,
		MaxWait:        5 * time.Second,
		ReadBackoffMin: 100 * time.Millisecond,
		ReadBackoffMax: time.Second,
	})

	logger.Info(context.Background(), "kafka consumer initialized",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("topic", cfg.PaymentEventsTopic),
		zap.String("group_id", cfg.ConsumerGroup),
	)

	return &Consumer{reader: reader}
}

// Fetch blocks until the next event is available or the context ends
func (c *Consumer) Fetch(ctx context.Context) (string, []byte, error) {
	msg, err := c.reader.ReadMessage(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read kafka message: %w", err)
	}
	return string(msg.Key), msg.Value, nil
}

// Close closes the underlying reader
func (c *Consumer) Close() error {
	return c.reader.Close()
}
