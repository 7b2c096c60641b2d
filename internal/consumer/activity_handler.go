package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"example.com/exercisetracker/internal/events"
)

// Totals summarises what a user has logged so far.
type Totals struct {
	Username string
	Sessions int
	Minutes  int
}

// ActivityHandler writes an audit line per event and keeps running per-user totals.
type ActivityHandler struct {
	logger zerolog.Logger

	mu     sync.RWMutex
	totals map[int64]Totals
}

// NewActivityHandler constructs an ActivityHandler.
func NewActivityHandler(logger zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{logger: logger, totals: make(map[int64]Totals)}
}

// Handle implements Handler. Event types it does not know are skipped.
func (h *ActivityHandler) Handle(_ context.Context, msg Message) error {
	switch msg.EventType {
	case events.TypeUserCreated:
		var event events.UserCreated
		if err := json.Unmarshal(msg.Payload, &event); err != nil {
			return fmt.Errorf("decode %s: %w", msg.EventType, err)
		}
		h.mu.Lock()
		t := h.totals[event.UserID]
		t.Username = event.Username
		h.totals[event.UserID] = t
		h.mu.Unlock()

		h.logger.Info().Int64("user_id", event.UserID).Str("username", event.Username).Msg("user created")
	case events.TypeExerciseLogged:
		var event events.ExerciseLogged
		if err := json.Unmarshal(msg.Payload, &event); err != nil {
			return fmt.Errorf("decode %s: %w", msg.EventType, err)
		}
		h.mu.Lock()
		t := h.totals[event.UserID]
		t.Username = event.Username
		t.Sessions++
		t.Minutes += event.DurationMinutes
		h.totals[event.UserID] = t
		h.mu.Unlock()

		h.logger.Info().
			Int64("user_id", event.UserID).
			Int64("exercise_id", event.ExerciseID).
			Str("date", event.Date).
			Int("duration_minutes", event.DurationMinutes).
			Int("total_minutes", t.Minutes).
			Msg("exercise logged")
	default:
		h.logger.Debug().Str("event_type", msg.EventType).Msg("ignoring event")
	}
	return nil
}

// Totals returns the running totals for userID.
func (h *ActivityHandler) Totals(userID int64) (Totals, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	t, ok := h.totals[userID]
	return t, ok
}
