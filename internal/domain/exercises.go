package domain

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"example.com/exercisetracker/internal/events"
	"example.com/exercisetracker/internal/observability"
)

// NewExercise captures the payload for appending an exercise. Fields are kept as received so
// that missing and malformed values can be told apart.
type NewExercise struct {
	UserID          int64
	Description     string `validate:"notblank"`
	DurationMinutes string `validate:"required,posint"`
	Date            string `validate:"omitempty,datetime=2006-01-02"`
}

// LogQuery captures the raw filters for listing a user's exercises.
// Unparseable From/To/Limit values are ignored rather than rejected.
type LogQuery struct {
	UserID int64
	From   string
	To     string
	Limit  string
}

// ExerciseService appends exercises to users and reads them back as logs.
type ExerciseService struct {
	users     UserRepository
	exercises ExerciseRepository
	options
}

// NewExerciseService constructs an ExerciseService.
func NewExerciseService(users UserRepository, exercises ExerciseRepository, opts ...Option) *ExerciseService {
	return &ExerciseService{users: users, exercises: exercises, options: buildOptions(opts)}
}

// AppendExercise validates input, checks the user exists and stores the exercise with the
// user's current username. The date defaults to today.
func (s *ExerciseService) AppendExercise(ctx context.Context, input NewExercise) (*Exercise, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	duration, _ := strconv.Atoi(strings.TrimSpace(input.DurationMinutes))

	user, err := s.lookupUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	date := CalendarDay(s.now())
	if input.Date != "" {
		// Already checked by validateInput.
		date, _ = ParseDate(input.Date)
	}

	exercise, err := s.exercises.CreateExercise(ctx, Exercise{
		UserID:          user.ID,
		Username:        user.Username,
		Date:            date,
		DurationMinutes: duration,
		Description:     input.Description,
	})
	if err != nil {
		return nil, storageError("failed to add exercise", err)
	}

	now := s.now()
	observability.RecordExerciseLogged(now)
	s.publish(ctx, events.ExerciseLogged{
		ExerciseID:      exercise.ID,
		UserID:          exercise.UserID,
		Username:        exercise.Username,
		Date:            exercise.Date.Format(DateLayout),
		DurationMinutes: exercise.DurationMinutes,
		Description:     exercise.Description,
		OccurredAt:      now.UTC(),
	})
	return &exercise, nil
}

// ListLogs returns the user's exercises in ascending date order. Count reflects every matching
// row, even when Limit truncates the entries.
func (s *ExerciseService) ListLogs(ctx context.Context, query LogQuery) (*ExerciseLog, error) {
	user, err := s.lookupUser(ctx, query.UserID)
	if err != nil {
		return nil, err
	}

	filter := LogFilter{UserID: user.ID}
	if from, err := ParseDate(query.From); err == nil {
		filter.From = &from
	}
	if to, err := ParseDate(query.To); err == nil {
		filter.To = &to
	}
	if limit, err := strconv.Atoi(strings.TrimSpace(query.Limit)); err == nil && limit > 0 {
		filter.Limit = limit
	}

	entries, count, err := s.exercises.ListExercises(ctx, filter)
	if err != nil {
		return nil, storageError("failed to fetch exercises", err)
	}

	return &ExerciseLog{User: *user, Count: count, Entries: entries}, nil
}

func (s *ExerciseService) lookupUser(ctx context.Context, id int64) (*User, error) {
	user, err := s.users.GetUser(ctx, id)
	if err != nil {
		return nil, storageError("failed to fetch user", err)
	}
	if user == nil {
		return nil, UserNotFound(strconv.FormatInt(id, 10))
	}
	return user, nil
}

// UserNotFound builds the not-found error for a user reference that matched nothing.
func UserNotFound(id string) error {
	return notFoundError(fmt.Sprintf("user with ID %s not found", id))
}
