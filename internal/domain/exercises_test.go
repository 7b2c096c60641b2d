package domain_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/exercisetracker/internal/domain"
	"example.com/exercisetracker/internal/events"
	"example.com/exercisetracker/internal/persistence/memory"
)

type fixture struct {
	repo      *memory.Repository
	users     *domain.UserService
	exercises *domain.ExerciseService
	publisher *recordingPublisher
}

func newFixture(t *testing.T, now time.Time) fixture {
	t.Helper()
	repo := memory.NewRepository()
	publisher := &recordingPublisher{}
	clock := func() time.Time { return now }
	return fixture{
		repo:      repo,
		users:     domain.NewUserService(repo, domain.WithClock(clock)),
		exercises: domain.NewExerciseService(repo, repo, domain.WithClock(clock), domain.WithPublisher(publisher)),
		publisher: publisher,
	}
}

func (f fixture) createUser(t *testing.T, name string) domain.User {
	t.Helper()
	user, err := f.users.CreateUser(context.Background(), domain.NewUser{Username: name})
	require.NoError(t, err)
	return *user
}

func (f fixture) append(t *testing.T, userID int64, description, duration, date string) domain.Exercise {
	t.Helper()
	exercise, err := f.exercises.AppendExercise(context.Background(), domain.NewExercise{
		UserID:          userID,
		Description:     description,
		DurationMinutes: duration,
		Date:            date,
	})
	require.NoError(t, err)
	return *exercise
}

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := domain.ParseDate(value)
	require.NoError(t, err)
	return d
}

func TestAppendExerciseStoresParsedDateAndUsername(t *testing.T) {
	f := newFixture(t, time.Now())
	alice := f.createUser(t, "alice")

	exercise := f.append(t, alice.ID, "run", "30", "2024-01-05")

	require.Equal(t, alice.ID, exercise.UserID)
	require.Equal(t, "alice", exercise.Username)
	require.Equal(t, 30, exercise.DurationMinutes)
	require.Equal(t, "run", exercise.Description)
	require.True(t, exercise.Date.Equal(mustDate(t, "2024-01-05")))
	require.Equal(t, "Fri Jan 05 2024", domain.FormatDisplayDate(exercise.Date))
}

func TestAppendExerciseDefaultsToToday(t *testing.T) {
	now := time.Date(2024, time.March, 10, 22, 30, 0, 0, time.Local)
	f := newFixture(t, now)
	alice := f.createUser(t, "alice")

	exercise := f.append(t, alice.ID, "swim", " 45 ", "")

	require.Equal(t, 45, exercise.DurationMinutes)
	require.Equal(t, "Sun Mar 10 2024", domain.FormatDisplayDate(exercise.Date))
}

func TestAppendExerciseValidation(t *testing.T) {
	cases := []struct {
		name        string
		description string
		duration    string
		date        string
		message     string
	}{
		{"missing description", "", "30", "", "description is required"},
		{"blank description", "   \t", "30", "", "description is required"},
		{"missing duration", "run", "", "", "durationMinutes is required"},
		{"non-numeric duration", "run", "abc", "", "durationMinutes must be a valid number greater than 0"},
		{"zero duration", "run", "0", "", "durationMinutes must be a valid number greater than 0"},
		{"negative duration", "run", "-5", "", "durationMinutes must be a valid number greater than 0"},
		{"fractional duration", "run", "1.5", "", "durationMinutes must be a valid number greater than 0"},
		{"duration beyond int32", "run", "3000000000", "", "durationMinutes must be a valid number greater than 0"},
		{"reformatted date", "run", "30", "01/05/2024", "date must be in the format YYYY-MM-DD"},
		{"unpadded date", "run", "30", "2024-1-5", "date must be in the format YYYY-MM-DD"},
		{"impossible date", "run", "30", "2024-02-30", "date must be in the format YYYY-MM-DD"},
		{"date with time", "run", "30", "2024-01-05T10:00:00Z", "date must be in the format YYYY-MM-DD"},
		{"description checked before duration", "", "abc", "nope", "description is required"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, time.Now())
			alice := f.createUser(t, "alice")

			_, err := f.exercises.AppendExercise(context.Background(), domain.NewExercise{
				UserID:          alice.ID,
				Description:     tc.description,
				DurationMinutes: tc.duration,
				Date:            tc.date,
			})
			require.ErrorIs(t, err, domain.ErrValidation)
			require.EqualError(t, err, tc.message)

			_, count, err := f.repo.ListExercises(context.Background(), domain.LogFilter{UserID: alice.ID})
			require.NoError(t, err)
			require.Zero(t, count, "no row may be written on validation failure")
		})
	}
}

func TestAppendExerciseUnknownUser(t *testing.T) {
	f := newFixture(t, time.Now())

	_, err := f.exercises.AppendExercise(context.Background(), domain.NewExercise{
		UserID:          999,
		Description:     "run",
		DurationMinutes: "30",
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.EqualError(t, err, "user with ID 999 not found")

	_, count, err := f.repo.ListExercises(context.Background(), domain.LogFilter{UserID: 999})
	require.NoError(t, err)
	require.Zero(t, count)
	require.Empty(t, f.publisher.events)
}

func TestAppendExercisePublishesEvent(t *testing.T) {
	f := newFixture(t, time.Now())
	alice := f.createUser(t, "alice")

	exercise := f.append(t, alice.ID, "run", "30", "2024-01-05")

	require.Len(t, f.publisher.events, 1)
	logged, ok := f.publisher.events[0].(events.ExerciseLogged)
	require.True(t, ok)
	require.Equal(t, exercise.ID, logged.ExerciseID)
	require.Equal(t, "2024-01-05", logged.Date)
	require.Equal(t, "alice", logged.Username)
}

func TestAppendExerciseWrapsStorageFailures(t *testing.T) {
	users := &stubUserRepo{getErr: errors.New("timeout")}
	svc := domain.NewExerciseService(users, memory.NewRepository())

	_, err := svc.AppendExercise(context.Background(), domain.NewExercise{UserID: 1, Description: "run", DurationMinutes: "30"})
	require.ErrorIs(t, err, domain.ErrStorage)

	users = &stubUserRepo{users: map[int64]domain.User{1: {ID: 1, Username: "alice"}}}
	svc = domain.NewExerciseService(users, failingExerciseRepo{})
	_, err = svc.AppendExercise(context.Background(), domain.NewExercise{UserID: 1, Description: "run", DurationMinutes: "30"})
	require.ErrorIs(t, err, domain.ErrStorage)

	var domainErr *domain.Error
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, "failed to add exercise", domainErr.Detail)
}

func TestListLogsOrdersByDateAndCounts(t *testing.T) {
	f := newFixture(t, time.Now())
	alice := f.createUser(t, "alice")
	bob := f.createUser(t, "bob")

	f.append(t, alice.ID, "c", "30", "2024-01-03")
	f.append(t, alice.ID, "a", "10", "2024-01-01")
	f.append(t, bob.ID, "other", "5", "2024-01-02")
	f.append(t, alice.ID, "b", "20", "2024-01-02")

	log, err := f.exercises.ListLogs(context.Background(), domain.LogQuery{UserID: alice.ID})
	require.NoError(t, err)
	require.Equal(t, alice, log.User)
	require.Equal(t, 3, log.Count)
	require.Equal(t, []string{"a", "b", "c"}, descriptions(log.Entries))
}

func TestListLogsCountIgnoresLimit(t *testing.T) {
	f := newFixture(t, time.Now())
	alice := f.createUser(t, "alice")
	for _, day := range []string{"2024-01-05", "2024-01-01", "2024-01-04", "2024-01-02", "2024-01-03"} {
		f.append(t, alice.ID, day, "30", day)
	}

	log, err := f.exercises.ListLogs(context.Background(), domain.LogQuery{UserID: alice.ID, Limit: "2"})
	require.NoError(t, err)
	require.Equal(t, 5, log.Count)
	require.Equal(t, []string{"2024-01-01", "2024-01-02"}, descriptions(log.Entries))
}

func TestListLogsDateRange(t *testing.T) {
	f := newFixture(t, time.Now())
	alice := f.createUser(t, "alice")
	for _, day := range []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04"} {
		f.append(t, alice.ID, day, "30", day)
	}

	log, err := f.exercises.ListLogs(context.Background(), domain.LogQuery{UserID: alice.ID, From: "2024-01-02", To: "2024-01-03"})
	require.NoError(t, err)
	require.Equal(t, 2, log.Count)
	require.Equal(t, []string{"2024-01-02", "2024-01-03"}, descriptions(log.Entries))

	log, err = f.exercises.ListLogs(context.Background(), domain.LogQuery{UserID: alice.ID, From: "2024-01-03"})
	require.NoError(t, err)
	require.Equal(t, []string{"2024-01-03", "2024-01-04"}, descriptions(log.Entries))
}

func TestListLogsIgnoresInvalidFilters(t *testing.T) {
	f := newFixture(t, time.Now())
	alice := f.createUser(t, "alice")
	f.append(t, alice.ID, "a", "30", "2024-01-01")
	f.append(t, alice.ID, "b", "30", "2024-01-02")

	log, err := f.exercises.ListLogs(context.Background(), domain.LogQuery{
		UserID: alice.ID,
		From:   "yesterday",
		To:     "2024-13-01",
		Limit:  "lots",
	})
	require.NoError(t, err)
	require.Equal(t, 2, log.Count)
	require.Len(t, log.Entries, 2)

	log, err = f.exercises.ListLogs(context.Background(), domain.LogQuery{UserID: alice.ID, Limit: "0"})
	require.NoError(t, err)
	require.Len(t, log.Entries, 2)
}

func TestListLogsUnknownUser(t *testing.T) {
	f := newFixture(t, time.Now())

	_, err := f.exercises.ListLogs(context.Background(), domain.LogQuery{UserID: 42})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListLogsEmpty(t *testing.T) {
	f := newFixture(t, time.Now())
	alice := f.createUser(t, "alice")

	log, err := f.exercises.ListLogs(context.Background(), domain.LogQuery{UserID: alice.ID})
	require.NoError(t, err)
	require.Zero(t, log.Count)
	require.Empty(t, log.Entries)
}

func descriptions(entries []domain.Exercise) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Description)
	}
	return out
}

type failingExerciseRepo struct{}

func (failingExerciseRepo) CreateExercise(context.Context, domain.Exercise) (domain.Exercise, error) {
	return domain.Exercise{}, errors.New("disk full")
}

func (failingExerciseRepo) ListExercises(context.Context, domain.LogFilter) ([]domain.Exercise, int, error) {
	return nil, 0, errors.New("disk full")
}
