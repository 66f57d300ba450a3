package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	spaceDomain "github.com/natterhq/natter/internal/space/domain"
	"github.com/natterhq/natter/internal/testutil"
)

func TestNewPostgreSQLSpaceRepository(t *testing.T) {
	testutil.SkipIfNoPostgres(t)
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)

	repo := NewPostgreSQLSpaceRepository(db)
	assert.NotNil(t, repo)
	assert.IsType(t, &PostgreSQLSpaceRepository{}, repo)
}

func TestPostgreSQLSpaceRepository_Create(t *testing.T) {
	testutil.SkipIfNoPostgres(t)
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLSpaceRepository(db)
	ctx := context.Background()

	space := &spaceDomain.Space{
		Name:  "general",
		Owner: "alice",
	}

	err := repo.Create(ctx, space)
	require.NoError(t, err)
	assert.NotZero(t, space.ID)

	retrieved, err := repo.Get(ctx, space.ID)
	require.NoError(t, err)

	assert.Equal(t, space.ID, retrieved.ID)
	assert.Equal(t, "general", retrieved.Name)
	assert.Equal(t, "alice", retrieved.Owner)
}

func TestPostgreSQLSpaceRepository_Get_NotFound(t *testing.T) {
	testutil.SkipIfNoPostgres(t)
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLSpaceRepository(db)
	ctx := context.Background()

	space, err := repo.Get(ctx, 99999)
	assert.Nil(t, space)
	assert.ErrorIs(t, err, spaceDomain.ErrSpaceNotFound)
}

func TestPostgreSQLSpaceRepository_Get_AuditSpace(t *testing.T) {
	testutil.SkipIfNoPostgres(t)
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLSpaceRepository(db)
	ctx := context.Background()

	// The audit space is seeded by migration and survives cleanup.
	space, err := repo.Get(ctx, spaceDomain.AuditSpaceID)
	require.NoError(t, err)
	assert.Equal(t, spaceDomain.AuditSpaceID, space.ID)
	assert.Equal(t, "audit-log", space.Name)
	assert.Equal(t, "system", space.Owner)
}
