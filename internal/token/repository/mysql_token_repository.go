package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/natterhq/natter/internal/database"
	apperrors "github.com/natterhq/natter/internal/errors"
	tokenDomain "github.com/natterhq/natter/internal/token/domain"
)

// MySQLTokenRepository implements token persistence for MySQL.
// Uses transaction support via database.GetTx().
type MySQLTokenRepository struct {
	db *sql.DB
}

// NewMySQLTokenRepository creates a new MySQL token repository.
func NewMySQLTokenRepository(db *sql.DB) *MySQLTokenRepository {
	return &MySQLTokenRepository{db: db}
}

// Create inserts a new token record.
func (m *MySQLTokenRepository) Create(ctx context.Context, record *tokenDomain.Record) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO tokens (token_id, user_id, expiry, attributes)
			  VALUES (?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		record.Digest,
		record.Subject,
		record.Expiry,
		record.Attributes,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create token")
	}
	return nil
}

// Get retrieves a token record by digest. Returns ErrTokenNotFound if no
// record exists.
func (m *MySQLTokenRepository) Get(ctx context.Context, digest string) (*tokenDomain.Record, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT token_id, user_id, expiry, attributes
			  FROM tokens WHERE token_id = ?`

	var record tokenDomain.Record

	err := querier.QueryRowContext(ctx, query, digest).Scan(
		&record.Digest,
		&record.Subject,
		&record.Expiry,
		&record.Attributes,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, tokenDomain.ErrTokenNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get token")
	}

	return &record, nil
}

// Delete removes a token record by digest. Deleting an absent record is not
// an error.
func (m *MySQLTokenRepository) Delete(ctx context.Context, digest string) error {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM tokens WHERE token_id = ?`

	if _, err := querier.ExecContext(ctx, query, digest); err != nil {
		return apperrors.Wrap(err, "failed to delete token")
	}
	return nil
}

// CountExpired returns the number of records expired at or before the given
// instant.
func (m *MySQLTokenRepository) CountExpired(ctx context.Context, before time.Time) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT COUNT(*) FROM tokens WHERE expiry <= ?`

	var count int64
	if err := querier.QueryRowContext(ctx, query, before).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count expired tokens")
	}
	return count, nil
}

// DeleteExpired removes all records expired at or before the given instant.
func (m *MySQLTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM tokens WHERE expiry <= ?`

	result, err := querier.ExecContext(ctx, query, before)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired tokens")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count deleted tokens")
	}
	return rows, nil
}
