// Package repository provides user persistence for PostgreSQL and MySQL.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/natterhq/natter/internal/database"
	apperrors "github.com/natterhq/natter/internal/errors"
	userDomain "github.com/natterhq/natter/internal/user/domain"
)

// PostgreSQLUserRepository implements user persistence for PostgreSQL.
// Uses transaction support via database.GetTx().
type PostgreSQLUserRepository struct {
	db *sql.DB
}

// NewPostgreSQLUserRepository creates a new PostgreSQL user repository.
func NewPostgreSQLUserRepository(db *sql.DB) *PostgreSQLUserRepository {
	return &PostgreSQLUserRepository{db: db}
}

// Create inserts a new user. Returns ErrUserAlreadyExists when the username
// is taken.
func (p *PostgreSQLUserRepository) Create(ctx context.Context, user *userDomain.User) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO users (username, password_hash, created_at)
			  VALUES ($1, $2, $3)`

	_, err := querier.ExecContext(ctx, query, user.Username, user.PasswordHash, user.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return userDomain.ErrUserAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create user")
	}
	return nil
}

// GetByUsername retrieves a user by username. Returns ErrUserNotFound if no
// user exists.
func (p *PostgreSQLUserRepository) GetByUsername(ctx context.Context, username string) (*userDomain.User, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT username, password_hash, created_at
			  FROM users WHERE username = $1`

	var user userDomain.User

	err := querier.QueryRowContext(ctx, query, username).Scan(
		&user.Username,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, userDomain.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get user")
	}

	return &user, nil
}
