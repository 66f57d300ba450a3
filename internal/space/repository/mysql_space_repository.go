package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/natterhq/natter/internal/database"
	apperrors "github.com/natterhq/natter/internal/errors"
	spaceDomain "github.com/natterhq/natter/internal/space/domain"
)

// MySQLSpaceRepository implements space persistence for MySQL.
// Uses transaction support via database.GetTx().
type MySQLSpaceRepository struct {
	db *sql.DB
}

// NewMySQLSpaceRepository creates a new MySQL space repository.
func NewMySQLSpaceRepository(db *sql.DB) *MySQLSpaceRepository {
	return &MySQLSpaceRepository{db: db}
}

// Create inserts a new space and fills in the generated ID.
func (m *MySQLSpaceRepository) Create(ctx context.Context, space *spaceDomain.Space) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO spaces (name, owner) VALUES (?, ?)`

	result, err := querier.ExecContext(ctx, query, space.Name, space.Owner)
	if err != nil {
		return apperrors.Wrap(err, "failed to create space")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return apperrors.Wrap(err, "failed to read space id")
	}
	space.ID = id
	return nil
}

// Get retrieves a space by ID. Returns ErrSpaceNotFound if no space exists.
func (m *MySQLSpaceRepository) Get(ctx context.Context, spaceID int64) (*spaceDomain.Space, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT space_id, name, owner
			  FROM spaces WHERE space_id = ?`

	var space spaceDomain.Space

	err := querier.QueryRowContext(ctx, query, spaceID).Scan(&space.ID, &space.Name, &space.Owner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, spaceDomain.ErrSpaceNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get space")
	}

	return &space, nil
}
