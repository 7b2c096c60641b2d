// Package postgres provides PostgreSQL-backed persistence for users and exercises.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/exercisetracker/internal/domain"
)

// uniqueViolation is the SQLSTATE raised when a UNIQUE constraint rejects a row.
const uniqueViolation = "23505"

// Repository implements domain.Repository on a pgx pool.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateUser inserts a user and returns it with its assigned id.
func (r *Repository) CreateUser(ctx context.Context, username string) (domain.User, error) {
	const stmt = `INSERT INTO users (username) VALUES ($1) RETURNING id, username`

	var user domain.User
	if err := r.pool.QueryRow(ctx, stmt, username).Scan(&user.ID, &user.Username); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.User{}, domain.ErrUsernameTaken
		}
		return domain.User{}, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

// GetUser returns the user with id, or nil when none exists.
func (r *Repository) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	const query = `SELECT id, username FROM users WHERE id = $1`
	return r.findUser(ctx, query, id)
}

// FindUserByUsername returns the user with an exactly matching username, or nil.
func (r *Repository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	const query = `SELECT id, username FROM users WHERE username = $1`
	return r.findUser(ctx, query, username)
}

func (r *Repository) findUser(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	if err := r.pool.QueryRow(ctx, query, arg).Scan(&user.ID, &user.Username); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// ListUsers returns all users ordered by id.
func (r *Repository) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, username FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.User, error) {
		var user domain.User
		err := row.Scan(&user.ID, &user.Username)
		return user, err
	})
}

// CreateExercise inserts an exercise row and returns it with its assigned id.
func (r *Repository) CreateExercise(ctx context.Context, exercise domain.Exercise) (domain.Exercise, error) {
	const stmt = `INSERT INTO exercises (user_id, username, date, duration_minutes, description)
        VALUES ($1, $2, $3, $4, $5) RETURNING id`

	err := r.pool.QueryRow(ctx, stmt,
		exercise.UserID,
		exercise.Username,
		exercise.Date,
		exercise.DurationMinutes,
		exercise.Description,
	).Scan(&exercise.ID)
	if err != nil {
		return domain.Exercise{}, fmt.Errorf("insert exercise: %w", err)
	}
	return exercise, nil
}

// ListExercises counts and reads the matching rows inside one read-only snapshot so the
// count agrees with the returned entries.
func (r *Repository) ListExercises(ctx context.Context, filter domain.LogFilter) ([]domain.Exercise, int, error) {
	where := ` WHERE user_id = $1`
	args := []any{filter.UserID}
	if filter.From != nil {
		args = append(args, *filter.From)
		where += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		where += fmt.Sprintf(" AND date <= $%d", len(args))
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, 0, err
	}
	defer tx.Rollback(ctx)

	var count int
	if err := tx.QueryRow(ctx, `SELECT count(*) FROM exercises`+where, args...).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("count exercises: %w", err)
	}

	query := `SELECT id, user_id, username, date, duration_minutes, description FROM exercises` +
		where + ` ORDER BY date ASC, id ASC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list exercises: %w", err)
	}
	exercises, err := pgx.CollectRows(rows, scanExercise)
	if err != nil {
		return nil, 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, 0, err
	}
	return exercises, count, nil
}

func scanExercise(row pgx.CollectableRow) (domain.Exercise, error) {
	var e domain.Exercise
	err := row.Scan(&e.ID, &e.UserID, &e.Username, &e.Date, &e.DurationMinutes, &e.Description)
	return e, err
}
