package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/natterhq/natter/internal/database"
	apperrors "github.com/natterhq/natter/internal/errors"
	spaceDomain "github.com/natterhq/natter/internal/space/domain"
)

// MySQLPermissionRepository implements permission persistence for MySQL.
// Uses transaction support via database.GetTx().
type MySQLPermissionRepository struct {
	db *sql.DB
}

// NewMySQLPermissionRepository creates a new MySQL permission repository.
func NewMySQLPermissionRepository(db *sql.DB) *MySQLPermissionRepository {
	return &MySQLPermissionRepository{db: db}
}

// Create inserts a new permission grant. Returns ErrPermissionAlreadyExists
// when the user already has a grant on the space.
func (m *MySQLPermissionRepository) Create(ctx context.Context, perm *spaceDomain.Permission) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO permissions (space_id, user_id, perms)
			  VALUES (?, ?, ?)`

	_, err := querier.ExecContext(ctx, query, perm.SpaceID, perm.Username, perm.Perms)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return spaceDomain.ErrPermissionAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create permission")
	}
	return nil
}

// Get retrieves the grant a user holds on a space. Returns
// ErrPermissionNotFound if no grant exists.
func (m *MySQLPermissionRepository) Get(
	ctx context.Context,
	spaceID int64,
	username string,
) (*spaceDomain.Permission, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT space_id, user_id, perms
			  FROM permissions WHERE space_id = ? AND user_id = ?`

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
