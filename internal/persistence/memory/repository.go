// Package memory provides an embedded, in-process store for users and exercises.
package memory

import (
	"context"
	"sort"
	"sync"

	"example.com/exercisetracker/internal/domain"
)

// Repository keeps users and exercises in memory. Reads run concurrently; writes are serialised.
type Repository struct {
	mu             sync.RWMutex
	users          []domain.User
	byUsername     map[string]int
	exercises      []domain.Exercise
	nextUserID     int64
	nextExerciseID int64
}

// NewRepository constructs an empty Repository. Ids start at 1.
func NewRepository() *Repository {
	return &Repository{
		byUsername:     make(map[string]int),
		nextUserID:     1,
		nextExerciseID: 1,
	}
}

// CreateUser implements domain.UserRepository.
func (r *Repository) CreateUser(ctx context.Context, username string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byUsername[username]; ok {
		return domain.User{}, domain.ErrUsernameTaken
	}

	user := domain.User{ID: r.nextUserID, Username: username}
	r.nextUserID++
	r.byUsername[username] = len(r.users)
	r.users = append(r.users, user)
	return user, nil
}

// GetUser returns the user with id, or nil when none exists.
func (r *Repository) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Users are never deleted, so id N sits at index N-1.
	if id < 1 || id > int64(len(r.users)) {
		return nil, nil
	}
	user := r.users[id-1]
	return &user, nil
}

// FindUserByUsername returns the user with an exactly matching username, or nil.
func (r *Repository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.byUsername[username]
	if !ok {
		return nil, nil
	}
	user := r.users[idx]
	return &user, nil
}

// ListUsers returns all users in insertion order.
func (r *Repository) ListUsers(ctx context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.User, len(r.users))
	copy(out, r.users)
	return out, nil
}

// CreateExercise implements domain.ExerciseRepository.
func (r *Repository) CreateExercise(ctx context.Context, exercise domain.Exercise) (domain.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	exercise.ID = r.nextExerciseID
	r.nextExerciseID++
	r.exercises = append(r.exercises, exercise)
	return exercise, nil
}

// ListExercises implements domain.ExerciseRepository.
func (r *Repository) ListExercises(ctx context.Context, filter domain.LogFilter) ([]domain.Exercise, int, error) {
	r.mu.RLock()
	matched := make([]domain.Exercise, 0)
	for _, exercise := range r.exercises {
		if exercise.UserID != filter.UserID {
			continue
		}
		if filter.From != nil && exercise.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && exercise.Date.After(*filter.To) {
			continue
		}
		matched = append(matched, exercise)
	}
	r.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Date.Equal(matched[j].Date) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].Date.Before(matched[j].Date)
	})

	count := len(matched)
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, count, nil
}

// Close is a no-op; it lets the memory store stand in wherever a closable store is expected.
func (r *Repository) Close() {}
