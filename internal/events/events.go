// Package events defines the payloads emitted after users and exercises are written.
package events

import (
	"strconv"
	"time"
)

// Known event types.
const (
	TypeUserCreated    = "user.created"
	TypeExerciseLogged = "exercise.logged"
)

// Event is a payload that can be routed to a topic and partitioned by Key.
type Event interface {
	Type() string
	Key() string
}

// UserCreated is emitted when a new user has been stored.
type UserCreated struct {
	UserID     int64     `json:"user_id"`
	Username   string    `json:"username"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (UserCreated) Type() string { return TypeUserCreated }

// Key partitions user events by user id.
func (e UserCreated) Key() string { return strconv.FormatInt(e.UserID, 10) }

// ExerciseLogged is emitted when an exercise entry has been appended to a user's log.
type ExerciseLogged struct {
	ExerciseID      int64     `json:"exercise_id"`
	UserID          int64     `json:"user_id"`
	Username        string    `json:"username"`
	Date            string    `json:"date"`
	DurationMinutes int       `json:"duration_minutes"`
	Description     string    `json:"description"`
	OccurredAt      time.Time `json:"occurred_at"`
}

func (ExerciseLogged) Type() string { return TypeExerciseLogged }

// Key keeps all of a user's exercises on one partition so consumers see them in order.
func (e ExerciseLogged) Key() string { return strconv.FormatInt(e.UserID, 10) }
