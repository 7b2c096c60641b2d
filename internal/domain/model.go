// Package domain defines the business logic for the exercise tracker.
package domain

import (
	"context"
	"time"
)

// User is a named account that owns exercise entries.
type User struct {
	ID       int64
	Username string
}

// Exercise is a single logged activity. Username is copied from the owning user at write time.
type Exercise struct {
	ID              int64
	UserID          int64
	Username        string
	Date            time.Time
	DurationMinutes int
	Description     string
}

// ExerciseLog is the filtered, date-ordered view of a user's exercises.
// Count is the number of matching rows before the limit was applied.
type ExerciseLog struct {
	User    User
	Count   int
	Entries []Exercise
}

// LogFilter narrows an exercise listing. Zero values mean "no bound".
type LogFilter struct {
	UserID int64
	From   *time.Time
	To     *time.Time
	Limit  int
}

// UserRepository captures user persistence operations.
type UserRepository interface {
	CreateUser(ctx context.Context, username string) (User, error)
	GetUser(ctx context.Context, id int64) (*User, error)
	FindUserByUsername(ctx context.Context, username string) (*User, error)
	ListUsers(ctx context.Context) ([]User, error)
}

// ExerciseRepository captures exercise persistence operations.
type ExerciseRepository interface {
	CreateExercise(ctx context.Context, exercise Exercise) (Exercise, error)
	// ListExercises returns the rows matching filter, truncated to filter.Limit when positive,
	// together with the untruncated match count.
	ListExercises(ctx context.Context, filter LogFilter) ([]Exercise, int, error)
}

// Repository is implemented by stores that hold both users and exercises.
type Repository interface {
	UserRepository
	ExerciseRepository
}
