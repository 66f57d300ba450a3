package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/natterhq/natter/internal/audit/domain"
	"github.com/natterhq/natter/internal/testutil"
)

func TestPostgreSQLAuditRepository_Create(t *testing.T) {
	testutil.SkipIfNoPostgres(t)
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLAuditRepository(db)
	ctx := context.Background()

	subject := "alice"
	status := 200
	entry := &auditDomain.Entry{
		RequestID: "req-1",
		Phase:     auditDomain.PhaseEnd,
		Method:    "GET",
		Path:      "/spaces/1/messages",
		Status:    &status,
		Subject:   &subject,
		AuditTime: time.Now().UTC(),
	}

	err := repo.Create(ctx, entry)
	require.NoError(t, err)
	assert.NotZero(t, entry.ID)

	entries, err := repo.List(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	retrieved := entries[0]
	assert.Equal(t, entry.ID, retrieved.ID)
	assert.Equal(t, "req-1", retrieved.RequestID)
	assert.Equal(t, auditDomain.PhaseEnd, retrieved.Phase)
	assert.Equal(t, "GET", retrieved.Method)
	assert.Equal(t, "/spaces/1/messages", retrieved.Path)
	require.NotNil(t, retrieved.Status)
	assert.Equal(t, 200, *retrieved.Status)
	require.NotNil(t, retrieved.Subject)
	assert.Equal(t, "alice", *retrieved.Subject)
	assert.WithinDuration(t, entry.AuditTime, retrieved.AuditTime, time.Second)
}

func TestPostgreSQLAuditRepository_Create_AnonymousStart(t *testing.T) {
	testutil.SkipIfNoPostgres(t)
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLAuditRepository(db)
	ctx := context.Background()

	entry := &auditDomain.Entry{
		RequestID: "req-anon",
		Phase:     auditDomain.PhaseStart,
		Method:    "POST",
		Path:      "/users",
		AuditTime: time.Now().UTC(),
	}

	err := repo.Create(ctx, entry)
	require.NoError(t, err)

	entries, err := repo.List(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Nil(t, entries[0].Status)
	assert.Nil(t, entries[0].Subject)
}

func TestPostgreSQLAuditRepository_List_NewestFirst(t *testing.T) {
	testutil.SkipIfNoPostgres(t)
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLAuditRepository(db)
	ctx := context.Background()

	for _, requestID := range []string{"req-1", "req-2", "req-3"} {
		require.NoError(t, repo.Create(ctx, &auditDomain.Entry{
			RequestID: requestID,
			Phase:     auditDomain.PhaseStart,
			Method:    "GET",
			Path:      "/spaces",
			AuditTime: time.Now().UTC(),
		}))
	}

	entries, err := repo.List(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "req-3", entries[0].RequestID)
	assert.Equal(t, "req-1", entries[2].RequestID)

	entries, err = repo.List(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "req-2", entries[0].RequestID)
}

func TestPostgreSQLAuditRepository_DeleteBefore(t *testing.T) {
	testutil.SkipIfNoPostgres(t)
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLAuditRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, repo.Create(ctx, &auditDomain.Entry{
		RequestID: "req-old",
		Phase:     auditDomain.PhaseStart,
		Method:    "GET",
		Path:      "/spaces",
		AuditTime: now.AddDate(0, 0, -100),
	}))
	require.NoError(t, repo.Create(ctx, &auditDomain.Entry{
		RequestID: "req-recent",
		Phase:     auditDomain.PhaseStart,
		Method:    "GET",
		Path:      "/spaces",
		AuditTime: now,
	}))

	cutoff := now.AddDate(0, 0, -90)

	count, err := repo.CountBefore(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	deleted, err := repo.DeleteBefore(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	entries, err := repo.List(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "req-recent", entries[0].RequestID)
}
