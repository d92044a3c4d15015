package events

import (
	"context"
	"encoding/json"
	"fmt"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Publisher publishes CloudEvents. A nil-broker deployment gets NopPublisher.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, event CloudEvent) error
	Close() error
}

// KafkaPublisher writes CloudEvents to Kafka, keyed for per-booking ordering.
type KafkaPublisher struct {
	writer *kafkago.Writer
	logger *zap.Logger
}

// NewKafkaPublisher creates a KafkaPublisher for the given brokers.
func NewKafkaPublisher(brokers []string, log *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafkago.Writer{
			Addr:                   kafkago.TCP(brokers...),
			Balancer:               &kafkago.Hash{},
			AllowAutoTopicCreation: true,
		},
		logger: log,
	}
}

// Publish writes one event to the topic.
func (p *KafkaPublisher) Publish(ctx context.Context, topic, key string, event CloudEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal cloud event: %w", err)
	}
	return p.writer.WriteMessages(ctx, kafkago.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
	})
}

// Close closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher drops events. Used when no brokers are configured.
type NopPublisher struct{}

// Publish discards the event.
func (NopPublisher) Publish(context.Context, string, string, CloudEvent) error { return nil }

// Close is a no-op.
func (NopPublisher) Close() error { return nil }
