// Package repository provides token persistence for PostgreSQL and MySQL.
package repository

import (
	"context"
	"time"

	tokenDomain "github.com/natterhq/natter/internal/token/domain"
)

// TokenRepository persists token records keyed by digest.
type TokenRepository interface {
	Create(ctx context.Context, record *tokenDomain.Record) error
	Get(ctx context.Context, digest string) (*tokenDomain.Record, error)
	Delete(ctx context.Context, digest string) error

	// CountExpired returns the number of records whose expiry is at or
	// before the given instant.
	CountExpired(ctx context.Context, before time.Time) (int64, error)

	// DeleteExpired removes all records whose expiry is at or before the
	// given instant, returning the number of rows removed.
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
