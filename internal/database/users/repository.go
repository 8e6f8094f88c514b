// Package users provides database operations for user accounts.
//
// # Usage
//
//	repo := users.NewRepository(gateway)
//	user, err := repo.Create(ctx, "a@b.com", hash)
//	if errors.Is(err, users.ErrEmailTaken) { ... }
package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mrlokans/foodjournal/internal/database"
	"github.com/mrlokans/foodjournal/internal/entities"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already registered")
)

// Repository handles all user database operations.
type Repository struct {
	gw *database.Gateway
}

// NewRepository creates a new users repository.
func NewRepository(gw *database.Gateway) *Repository {
	return &Repository{gw: gw}
}

// Create inserts a user. The UNIQUE index on email is the authority on
// duplicates: a conflicting insert returns ErrEmailTaken.
func (r *Repository) Create(ctx context.Context, email, passwordHash string) (*entities.User, error) {
	now := time.Now().UTC()
	res, err := r.gw.Exec(ctx,
		`INSERT INTO users (email, password_hash, created_at) VALUES (?, ?, ?)`,
		email, passwordHash, now,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return &entities.User{
		ID:           uint(res.LastInsertID),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
	}, nil
}

// GetByEmail retrieves a user by exact email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	rows, err := r.gw.Query(ctx,
		`SELECT id, email, password_hash FROM users WHERE email = ? LIMIT 1`, email)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return userFromRow(rows[0])
}

// GetByID retrieves a user by ID.
func (r *Repository) GetByID(ctx context.Context, id uint) (*entities.User, error) {
	rows, err := r.gw.Query(ctx,
		`SELECT id, email, password_hash FROM users WHERE id = ? LIMIT 1`, id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return userFromRow(rows[0])
}

// CountByEmail returns how many users have the given email (0 or 1).
func (r *Repository) CountByEmail(ctx context.Context, email string) (int64, error) {
	rows, err := r.gw.Query(ctx, `SELECT COUNT(*) AS n FROM users WHERE email = ?`, email)
	if err != nil {
		return 0, err
	}
	return rows[0].Int64("n")
}

func userFromRow(row database.Row) (*entities.User, error) {
	id, err := row.Int64("id")
	if err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &entities.User{
		ID:           uint(id),
		Email:        row.String("email"),
		PasswordHash: row.String("password_hash"),
	}, nil
}
