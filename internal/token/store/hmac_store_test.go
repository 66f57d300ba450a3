package store

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tokenDomain "github.com/natterhq/natter/internal/token/domain"
	"github.com/natterhq/natter/internal/token/service"
)

func newHmacStoreForTest(t *testing.T) (*HmacTokenStore, *memoryTokenRepo) {
	t.Helper()
	repo := newMemoryTokenRepo()
	delegate := NewDatabaseTokenStore(repo, service.NewIdentityService())
	store, err := NewHmacTokenStore(delegate, []byte("test-secret-key"))
	require.NoError(t, err)
	return store, repo
}

func TestNewHmacTokenStore_EmptySecret(t *testing.T) {
	delegate := NewDatabaseTokenStore(newMemoryTokenRepo(), service.NewIdentityService())

	store, err := NewHmacTokenStore(delegate, nil)
	assert.Nil(t, store)
	assert.Error(t, err)
}

func TestHmacTokenStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, _ := newHmacStoreForTest(t)

	tokenID, err := store.Create(ctx, &tokenDomain.Token{
		Subject: "alice",
		Expiry:  time.Now().Add(10 * time.Minute),
	})
	require.NoError(t, err)
	assert.Contains(t, tokenID, ".")

	read, err := store.Read(ctx, tokenID)
	require.NoError(t, err)
	assert.Equal(t, "alice", read.Subject)
}

func TestHmacTokenStore_Read_TamperedID(t *testing.T) {
	ctx := context.Background()
	store, _ := newHmacStoreForTest(t)

	tokenID, err := store.Create(ctx, &tokenDomain.Token{
		Subject: "alice",
		Expiry:  time.Now().Add(10 * time.Minute),
	})
	require.NoError(t, err)

	// Flip one character of the inner ID; the tag no longer matches.
	tampered := []byte(tokenID)
	if tampered[0] == 'A' {
		tampered[0] = 'B'
	} else {
		tampered[0] = 'A'
	}

	token, err := store.Read(ctx, string(tampered))
	assert.Nil(t, token)
	assert.ErrorIs(t, err, tokenDomain.ErrTokenNotFound)
}

func TestHmacTokenStore_Read_TamperedTag(t *testing.T) {
	ctx := context.Background()
	store, _ := newHmacStoreForTest(t)

	tokenID, err := store.Create(ctx, &tokenDomain.Token{
		Subject: "alice",
		Expiry:  time.Now().Add(10 * time.Minute),
	})
	require.NoError(t, err)

	idx := strings.LastIndex(tokenID, ".")
	forged := tokenID[:idx+1] + "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

	token, err := store.Read(ctx, forged)
	assert.Nil(t, token)
	assert.ErrorIs(t, err, tokenDomain.ErrTokenNotFound)
}

func TestHmacTokenStore_Read_Malformed(t *testing.T) {
	ctx := context.Background()
	store, _ := newHmacStoreForTest(t)

	cases := []string{
		"",
		"no-dot-at-all",
		".starts-with-dot",
		"ends-with-dot.",
		"id.!!!not-base64!!!",
	}
	for _, input := range cases {
		token, err := store.Read(ctx, input)
		assert.Nil(t, token, "input %q", input)
		assert.ErrorIs(t, err, tokenDomain.ErrTokenNotFound, "input %q", input)
	}
}

func TestHmacTokenStore_Read_WrongKey(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryTokenRepo()
	delegate := NewDatabaseTokenStore(repo, service.NewIdentityService())

	storeA, err := NewHmacTokenStore(delegate, []byte("key-a"))
	require.NoError(t, err)
	storeB, err := NewHmacTokenStore(delegate, []byte("key-b"))
	require.NoError(t, err)

	tokenID, err := storeA.Create(ctx, &tokenDomain.Token{
		Subject: "alice",
		Expiry:  time.Now().Add(10 * time.Minute),
	})
	require.NoError(t, err)

	token, err := storeB.Read(ctx, tokenID)
	assert.Nil(t, token)
	assert.ErrorIs(t, err, tokenDomain.ErrTokenNotFound)
}

func TestHmacTokenStore_Revoke(t *testing.T) {
	ctx := context.Background()
	store, repo := newHmacStoreForTest(t)

	tokenID, err := store.Create(ctx, &tokenDomain.Token{
		Subject: "alice",
		Expiry:  time.Now().Add(10 * time.Minute),
	})
	require.NoError(t, err)

	require.NoError(t, store.Revoke(ctx, tokenID))
	assert.Equal(t, 0, repo.size())
}

func TestHmacTokenStore_Revoke_InvalidIDIsNoOp(t *testing.T) {
	ctx := context.Background()
	store, repo := newHmacStoreForTest(t)

	tokenID, err := store.Create(ctx, &tokenDomain.Token{
		Subject: "alice",
		Expiry:  time.Now().Add(10 * time.Minute),
	})
	require.NoError(t, err)

	// A forged revoke must not delete anything.
	idx := strings.LastIndex(tokenID, ".")
	require.NoError(t, store.Revoke(ctx, tokenID[:idx]+".forged"))
	assert.Equal(t, 1, repo.size())
}
