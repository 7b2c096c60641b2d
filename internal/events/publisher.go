package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"example.com/exercisetracker/internal/observability"
)

// Publisher delivers events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NoopPublisher drops every event. Used when no brokers are configured.
type NoopPublisher struct{}

// Publish performs no action.
func (NoopPublisher) Publish(context.Context, Event) error { return nil }

type messageWriter interface {
	WriteMessages(ctx context.Context, topic string, msgs ...kafka.Message) error
}

// topics routes each event type to its Kafka topic.
var topics = map[string]string{
	TypeUserCreated:    "user_events",
	TypeExerciseLogged: "exercise_events",
}

// KafkaPublisher JSON-encodes events and writes them to their topic, keyed for partitioning.
type KafkaPublisher struct {
	writer   messageWriter
	producer *KafkaProducer
}

// NewKafkaPublisher builds a publisher backed by a KafkaProducer for the given brokers.
func NewKafkaPublisher(brokers []string) *KafkaPublisher {
	producer := NewKafkaProducer(brokers)
	return &KafkaPublisher{writer: producer, producer: producer}
}

// Publish implements Publisher.
func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	topic, ok := topics[event.Type()]
	if !ok {
		return fmt.Errorf("unknown event type: %s", event.Type())
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s: %w", event.Type(), err)
	}

	msg := kafka.Message{
		Key:   []byte(event.Key()),
		Value: body,
		Time:  time.Now().UTC(),
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type())},
		},
	}
	if err := p.writer.WriteMessages(ctx, topic, msg); err != nil {
		observability.RecordPublishFailure(event.Type())
		return fmt.Errorf("publish %s: %w", event.Type(), err)
	}
	observability.RecordEventPublished(event.Type())
	return nil
}

// Close releases the underlying Kafka writers.
func (p *KafkaPublisher) Close() error {
	if p.producer == nil {
		return nil
	}
	return p.producer.Close()
}
