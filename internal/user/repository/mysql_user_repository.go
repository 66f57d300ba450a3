package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/natterhq/natter/internal/database"
	apperrors "github.com/natterhq/natter/internal/errors"
	userDomain "github.com/natterhq/natter/internal/user/domain"
)

// MySQLUserRepository implements user persistence for MySQL.
// Uses transaction support via database.GetTx().
type MySQLUserRepository struct {
	db *sql.DB
}

// NewMySQLUserRepository creates a new MySQL user repository.
func NewMySQLUserRepository(db *sql.DB) *MySQLUserRepository {
	return &MySQLUserRepository{db: db}
}

// Create inserts a new user. Returns ErrUserAlreadyExists when the username
// is taken.
func (m *MySQLUserRepository) Create(ctx context.Context, user *userDomain.User) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO users (username, password_hash, created_at)
			  VALUES (?, ?, ?)`

	_, err := querier.ExecContext(ctx, query, user.Username, user.PasswordHash, user.CreatedAt)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return userDomain.ErrUserAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create user")
	}
	return nil
}

// GetByUsername retrieves a user by username. Returns ErrUserNotFound if no
// user exists.
func (m *MySQLUserRepository) GetByUsername(ctx context.Context, username string) (*userDomain.User, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT username, password_hash, created_at
			  FROM users WHERE username = ?`

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
