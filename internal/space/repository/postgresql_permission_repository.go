package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/natterhq/natter/internal/database"
	apperrors "github.com/natterhq/natter/internal/errors"
	spaceDomain "github.com/natterhq/natter/internal/space/domain"
)

// PostgreSQLPermissionRepository implements permission persistence for
// PostgreSQL. Uses transaction support via database.GetTx().
type PostgreSQLPermissionRepository struct {
	db *sql.DB
}

// NewPostgreSQLPermissionRepository creates a new PostgreSQL permission
// repository.
func NewPostgreSQLPermissionRepository(db *sql.DB) *PostgreSQLPermissionRepository {
	return &PostgreSQLPermissionRepository{db: db}
}

// Create inserts a new permission grant. Returns ErrPermissionAlreadyExists
// when the user already has a grant on the space.
func (p *PostgreSQLPermissionRepository) Create(ctx context.Context, perm *spaceDomain.Permission) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO permissions (space_id, user_id, perms)
			  VALUES ($1, $2, $3)`

	_, err := querier.ExecContext(ctx, query, perm.SpaceID, perm.Username, perm.Perms)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return spaceDomain.ErrPermissionAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create permission")
	}
	return nil
}

// Get retrieves the grant a user holds on a space. Returns
// ErrPermissionNotFound if no grant exists.
func (p *PostgreSQLPermissionRepository) Get(
	ctx context.Context,
	spaceID int64,
	username string,
) (*spaceDomain.Permission, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT space_id, user_id, perms
			  FROM permissions WHERE space_id = $1 AND user_id = $2`

	var perm spaceDomain.Permission

	err := querier.QueryRowContext(ctx, query, spaceID, username).Scan(
		&perm.SpaceID,
		&perm.Username,
		&perm.Perms,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, spaceDomain.ErrPermissionNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get permission")
	}

	return &perm, nil
}
