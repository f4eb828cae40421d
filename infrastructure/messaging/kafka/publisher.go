/*
Package kafka relays outbox events to a Kafka topic.
*/
package kafka

import (
	"context"
	"fmt"
	"time"

	"ordersvc/config"
	"ordersvc/infrastructure/outbox"
	"ordersvc/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
)

// MessageWriter is the part of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher implements outbox.Publisher on a Kafka writer.
// Messages are keyed by aggregate id so the events of one order stay ordered
// within a partition.
type Publisher struct {
	writer       MessageWriter
	topic        string
	writeTimeout time.Duration
}

func NewPublisher(cfg config.KafkaConfig) (*Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers are required")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("kafka topic is required")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		BatchSize:    100,
		RequiredAcks: kafka.RequiredAcks(cfg.RequiredAcks),
	}
	return NewPublisherWithWriter(writer, cfg.Topic, cfg.WriteTimeout), nil
}

func NewPublisherWithWriter(writer MessageWriter, topic string, writeTimeout time.Duration) *Publisher {
	if writeTimeout <= 0 {
		writeTimeout = 10 * time.Second
	}
	return &Publisher{writer: writer, topic: topic, writeTimeout: writeTimeout}
}

func (p *Publisher) Publish(ctx context.Context, event outbox.Event) error {
	ctx, cancel := context.WithTimeout(ctx, p.writeTimeout)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, newMessage(ctx, event)); err != nil {
		return fmt.Errorf("failed to write %s event %s to kafka: %w", event.EventType, event.ID, err)
	}

	logger.FromContext(ctx).Debug("Outbox event written to kafka",
		zap.String("topic", p.topic),
		zap.String("event_id", event.ID),
		zap.String("event_type", event.EventType),
		zap.String("aggregate_id", event.AggregateID),
	)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

func newMessage(ctx context.Context, event outbox.Event) kafka.Message {
	headers := []kafka.Header{
		{Key: "event_id", Value: []byte(event.ID)},
		{Key: "event_type", Value: []byte(event.EventType)},
	}

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	for _, key := range carrier.Keys() {
		headers = append(headers, kafka.Header{Key: key, Value: []byte(carrier.Get(key))})
	}

	return kafka.Message{
		Key:     []byte(event.AggregateID),
		Value:   []byte(event.Payload),
		Headers: headers,
	}
}

var _ outbox.Publisher = (*Publisher)(nil)
