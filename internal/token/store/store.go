// Package store provides the token store implementations: database-backed,
// HMAC-protected, and stateless.
package store

import (
	"context"

	tokenDomain "github.com/natterhq/natter/internal/token/domain"
)

// Store is the token lifecycle contract. Token IDs returned by Create are
// opaque, client-safe strings; everything about their structure is an
// implementation detail of the store that issued them.
type Store interface {
	// Create persists the token and returns its client-held ID.
	Create(ctx context.Context, token *tokenDomain.Token) (string, error)

	// Read resolves a presented token ID. Absent, expired and malformed
	// IDs are indistinguishable: all return ErrTokenNotFound. Malformed
	// input is never an internal error.
	Read(ctx context.Context, tokenID string) (*tokenDomain.Token, error)

	// Revoke invalidates the token. Revoking an unknown or already revoked
	// ID is a no-op.
	Revoke(ctx context.Context, tokenID string) error
}
