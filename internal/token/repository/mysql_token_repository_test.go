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

func TestNewMySQLTokenRepository(t *testing.T) {
	testutil.SkipIfNoMySQL(t)
	db := testutil.SetupMySQLDB(t)
	defer testutil.TeardownDB(t, db)

	repo := NewMySQLTokenRepository(db)
	assert.NotNil(t, repo)
	assert.IsType(t, &MySQLTokenRepository{}, repo)
}

func TestMySQLTokenRepository_Create(t *testing.T) {
	testutil.SkipIfNoMySQL(t)
	db := testutil.SetupMySQLDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupMySQLDB(t, db)

	repo := NewMySQLTokenRepository(db)
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

func TestMySQLTokenRepository_Get_NotFound(t *testing.T) {
	testutil.SkipIfNoMySQL(t)
	db := testutil.SetupMySQLDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupMySQLDB(t, db)

	repo := NewMySQLTokenRepository(db)
	ctx := context.Background()

	record, err := repo.Get(ctx, "missing-digest")
	assert.Nil(t, record)
	assert.ErrorIs(t, err, tokenDomain.ErrTokenNotFound)
}

func TestMySQLTokenRepository_Delete(t *testing.T) {
	testutil.SkipIfNoMySQL(t)
	db := testutil.SetupMySQLDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupMySQLDB(t, db)

	repo := NewMySQLTokenRepository(db)
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

func TestMySQLTokenRepository_DeleteExpired(t *testing.T) {
	testutil.SkipIfNoMySQL(t)
	db := testutil.SetupMySQLDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupMySQLDB(t, db)

	repo := NewMySQLTokenRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, repo.Create(ctx, &tokenDomain.Record{
		Digest:     "expired-1",
		Subject:    "alice",
		Expiry:     now.Add(-time.Hour),
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
	assert.Equal(t, int64(1), count)

	deleted, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = repo.Get(ctx, "live-1")
	assert.NoError(t, err)
}
