package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
)

type stubWriter struct {
	topic    string
	messages []kafka.Message
	err      error
}

func (s *stubWriter) WriteMessages(_ context.Context, topic string, msgs ...kafka.Message) error {
	if s.err != nil {
		return s.err
	}
	s.topic = topic
	s.messages = append(s.messages, msgs...)
	return nil
}

type unknownEvent struct{}

func (unknownEvent) Type() string { return "user.deleted" }
func (unknownEvent) Key() string  { return "1" }

func TestKafkaPublisherRoutesExerciseEvents(t *testing.T) {
	writer := &stubWriter{}
	publisher := &KafkaPublisher{writer: writer}

	event := ExerciseLogged{
		ExerciseID:      7,
		UserID:          3,
		Username:        "alice",
		Date:            "2024-01-05",
		DurationMinutes: 30,
		Description:     "run",
		OccurredAt:      time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, publisher.Publish(context.Background(), event))

	require.Equal(t, "exercise_events", writer.topic)
	require.Len(t, writer.messages, 1)
	msg := writer.messages[0]
	require.Equal(t, "3", string(msg.Key))
	require.Equal(t, []kafka.Header{{Key: "event_type", Value: []byte(TypeExerciseLogged)}}, msg.Headers)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	require.Equal(t, "2024-01-05", decoded["date"])
	require.Equal(t, float64(30), decoded["duration_minutes"])
	require.Equal(t, "alice", decoded["username"])
}

func TestKafkaPublisherRoutesUserEvents(t *testing.T) {
	writer := &stubWriter{}
	publisher := &KafkaPublisher{writer: writer}

	require.NoError(t, publisher.Publish(context.Background(), UserCreated{UserID: 12, Username: "bob"}))
	require.Equal(t, "user_events", writer.topic)
	require.Equal(t, "12", string(writer.messages[0].Key))
}

func TestKafkaPublisherRejectsUnknownType(t *testing.T) {
	writer := &stubWriter{}
	publisher := &KafkaPublisher{writer: writer}

	err := publisher.Publish(context.Background(), unknownEvent{})
	require.ErrorContains(t, err, "unknown event type")
	require.Empty(t, writer.messages)
}

func TestKafkaPublisherWrapsWriteErrors(t *testing.T) {
	brokerErr := errors.New("broker unavailable")
	publisher := &KafkaPublisher{writer: &stubWriter{err: brokerErr}}

	err := publisher.Publish(context.Background(), UserCreated{UserID: 1, Username: "alice"})
	require.ErrorIs(t, err, brokerErr)
	require.NoError(t, publisher.Close())
}
