package events

import (
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
)

func TestNewWriterFlushesEachMessage(t *testing.T) {
	writer := newWriter([]string{"kafka-1:9092", "kafka-2:9092"}, "exercise_events")

	require.Equal(t, "exercise_events", writer.Topic)
	require.Equal(t, 1, writer.BatchSize)
	require.Equal(t, batchTimeout, writer.BatchTimeout)
	require.LessOrEqual(t, writer.BatchTimeout.Milliseconds(), int64(50))
	require.Equal(t, kafka.RequireAll, writer.RequiredAcks)
	require.IsType(t, &kafka.Hash{}, writer.Balancer)
}

func TestProducerReusesWriterPerTopic(t *testing.T) {
	producer := NewKafkaProducer([]string{"kafka-1:9092"})

	first := producer.writerForTopic("user_events")
	require.Same(t, first, producer.writerForTopic("user_events"))
	require.NotSame(t, first, producer.writerForTopic("exercise_events"))
	require.NoError(t, producer.Close())
}
