package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natterhq/natter/internal/testutil"
	tokenDomain "github.com/natterhq/natter/internal/token/domain"
)

func TestNewPostgreSQLTokenRepository(t *testing.T) {
	testutil.SkipIfNoPostgres(t)
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)

	repo := NewPostgreSQLTokenRepository(db)
	assert.NotNil(t, repo)
	assert.IsType(t, &PostgreSQLTokenRepository{}, repo)
}

func TestPostgreSQLTokenRepository_Create(t *testing.T) {
	testutil.SkipIfNoPostgres(t)
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLTokenRepository(db)
	ctx := context.Background()

	record := &tokenDomain.Record{
		Digest:     "digest-1",
		Subject:    "alice",
		Expiry:     time.Now().UTC().Add(10 * time.Minute),
		Attributes: `[{"k":"scope","v":"full"}]`,
	}

	err := repo.Create(ctx, record)
	require.NoError(t, err)

	retrieved, err := repo.Get(ctx, record.Digest)
	require.NoError(t, err)

	assert.Equal(t, record.Digest, retrieved.Digest)
	assert.Equal(t, record.Subject, retrieved.Subject)
	assert.WithinDuration(t, record.Expiry, retrieved.Expiry, time.Second)
	assert.Equal(t, record.Attributes, retrieved.Attributes)
}

func TestPostgreSQLTokenRepository_Get_NotFound(t *testing.T) {
	testutil.SkipIfNoPostgres(t)
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLTokenRepository(db)
	ctx := context.Background()

	record, err := repo.Get(ctx, "missing-digest")
	assert.Nil(t, record)
	assert.ErrorIs(t, err, tokenDomain.ErrTokenNotFound)
}

func TestPostgreSQLTokenRepository_Delete(t *testing.T) {
	testutil.SkipIfNoPostgres(t)
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLTokenRepository(db)
	ctx := context.Background()

	record := &tokenDomain.Record{
		Digest:     "digest-delete",
		Subject:    "alice",
		Expiry:     time.Now().UTC().Add(10 * time.Minute),
		Attributes: "[]",
	}
	require.NoError(t, repo.Create(ctx, record))

	err := repo.Delete(ctx, record.Digest)
	require.NoError(t, err)

	_, err = repo.Get(ctx, record.Digest)
	assert.ErrorIs(t, err, tokenDomain.ErrTokenNotFound)

	// Deleting an absent record is not an error.
	err = repo.Delete(ctx, record.Digest)
	assert.NoError(t, err)
}

func TestPostgreSQLTokenRepository_DeleteExpired(t *testing.T) {
	testutil.SkipIfNoPostgres(t)
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLTokenRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, repo.Create(ctx, &tokenDomain.Record{
		Digest:     "expired-1",
		Subject:    "alice",
		Expiry:     now.Add(-time.Hour),
		Attributes: "[]",
	}))
	require.NoError(t, repo.Create(ctx, &tokenDomain.Record{
		Digest:     "expired-2",
		Subject:    "bob",
		Expiry:     now.Add(-time.Minute),
		Attributes: "[]",
	}))
	require.NoError(t, repo.Create(ctx, &tokenDomain.Record{
		Digest:     "live-1",
		Subject:    "alice",
		Expiry:     now.Add(time.Hour),
		Attributes: "[]",
	}))

	count, err := repo.CountExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	deleted, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	// The live record survives.
	_, err = repo.Get(ctx, "live-1")
	assert.NoError(t, err)
	_, err = repo.Get(ctx, "expired-1")
	assert.ErrorIs(t, err, tokenDomain.ErrTokenNotFound)
}
