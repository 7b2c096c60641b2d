package domain

import (
	"context"
	"errors"

	"example.com/exercisetracker/internal/events"
	"example.com/exercisetracker/internal/observability"
)

// NewUser captures the payload for creating a user.
type NewUser struct {
	Username string `validate:"required"`
}

// UserService registers and lists users.
type UserService struct {
	repo UserRepository
	options
}

// NewUserService constructs a UserService.
func NewUserService(repo UserRepository, opts ...Option) *UserService {
	return &UserService{repo: repo, options: buildOptions(opts)}
}

// CreateUser stores a new user after checking the username is present and not already taken.
func (s *UserService) CreateUser(ctx context.Context, input NewUser) (*User, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindUserByUsername(ctx, input.Username)
	if err != nil {
		return nil, storageError("database error", err)
	}
	if existing != nil {
		return nil, conflictError("user already exists")
	}

	user, err := s.repo.CreateUser(ctx, input.Username)
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return nil, conflictError("user already exists")
		}
		return nil, storageError("failed to create user", err)
	}

	now := s.now()
	observability.RecordUserCreated(now)
	s.publish(ctx, events.UserCreated{
		UserID:     user.ID,
		Username:   user.Username,
		OccurredAt: now.UTC(),
	})
	s.logger.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("user created")
	return &user, nil
}

// ListUsers returns every user in ascending id order.
func (s *UserService) ListUsers(ctx context.Context) ([]User, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, storageError("failed to fetch users", err)
	}
	return users, nil
}
