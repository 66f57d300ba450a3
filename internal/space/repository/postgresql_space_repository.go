// Package repository provides space, message and permission persistence for
// PostgreSQL and MySQL.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/natterhq/natter/internal/database"
	apperrors "github.com/natterhq/natter/internal/errors"
	spaceDomain "github.com/natterhq/natter/internal/space/domain"
)

// PostgreSQLSpaceRepository implements space persistence for PostgreSQL.
// Uses transaction support via database.GetTx().
type PostgreSQLSpaceRepository struct {
	db *sql.DB
}

// NewPostgreSQLSpaceRepository creates a new PostgreSQL space repository.
func NewPostgreSQLSpaceRepository(db *sql.DB) *PostgreSQLSpaceRepository {
	return &PostgreSQLSpaceRepository{db: db}
}

// Create inserts a new space and fills in the generated ID.
func (p *PostgreSQLSpaceRepository) Create(ctx context.Context, space *spaceDomain.Space) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO spaces (name, owner)
			  VALUES ($1, $2)
			  RETURNING space_id`

	err := querier.QueryRowContext(ctx, query, space.Name, space.Owner).Scan(&space.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to create space")
	}
	return nil
}

// Get retrieves a space by ID. Returns ErrSpaceNotFound if no space exists.
func (p *PostgreSQLSpaceRepository) Get(ctx context.Context, spaceID int64) (*spaceDomain.Space, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT space_id, name, owner
			  FROM spaces WHERE space_id = $1`

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
