package consumer

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestActivityHandlerAccumulatesTotals(t *testing.T) {
	var buf bytes.Buffer
	handler := NewActivityHandler(zerolog.New(&buf))
	ctx := context.Background()

	require.NoError(t, handler.Handle(ctx, Message{
		EventType: "user.created",
		Payload:   []byte(`{"user_id":1,"username":"alice"}`),
	}))
	require.NoError(t, handler.Handle(ctx, Message{
		EventType: "exercise.logged",
		Payload:   []byte(`{"exercise_id":1,"user_id":1,"username":"alice","date":"2024-01-05","duration_minutes":30}`),
	}))
	require.NoError(t, handler.Handle(ctx, Message{
		EventType: "exercise.logged",
		Payload:   []byte(`{"exercise_id":2,"user_id":1,"username":"alice","date":"2024-01-06","duration_minutes":15}`),
	}))

	totals, ok := handler.Totals(1)
	require.True(t, ok)
	require.Equal(t, Totals{Username: "alice", Sessions: 2, Minutes: 45}, totals)
	require.Contains(t, buf.String(), `"total_minutes":45`)

	_, ok = handler.Totals(2)
	require.False(t, ok)
}

func TestActivityHandlerSkipsUnknownAndRejectsMalformed(t *testing.T) {
	handler := NewActivityHandler(zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, handler.Handle(ctx, Message{EventType: "user.deleted", Payload: []byte(`{}`)}))
	require.Error(t, handler.Handle(ctx, Message{EventType: "exercise.logged", Payload: []byte(`{"user_id":"one"}`)}))
}
