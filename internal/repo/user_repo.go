package repo

import (
	"context"
	"errors"

	"Tasker/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepo provides user lookup. The active check is part of the lookup:
// inactive users are indistinguishable from absent ones.
type UserRepo interface {
	GetActiveByUsername(ctx context.Context, username string) (domain.User, error)
}

// PGUserRepo implements UserRepo with Postgres.
type PGUserRepo struct {
	db *pgxpool.Pool
}

func NewPGUserRepo(db *pgxpool.Pool) *PGUserRepo {
	return &PGUserRepo{db: db}
}

// GetActiveByUsername returns the active user with the exact username, or
// ErrNotFound.
func (r *PGUserRepo) GetActiveByUsername(ctx context.Context, username string) (domain.User, error) {
	var u domain.User
	err := r.db.QueryRow(ctx,
		`SELECT id, username, password_hash, role, is_active, created_at
		 FROM users WHERE username = $1 AND is_active = TRUE`,
		username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, ErrNotFound
	}
	return u, err
}
