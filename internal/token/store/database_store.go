package store

import (
	"context"
	"time"

	apperrors "github.com/natterhq/natter/internal/errors"
	tokenDomain "github.com/natterhq/natter/internal/token/domain"
	"github.com/natterhq/natter/internal/token/repository"
	"github.com/natterhq/natter/internal/token/service"
)

// DatabaseTokenStore persists tokens in SQL storage, keyed by the SHA-256
// digest of the client-held ID. A database compromise therefore never
// exposes usable token IDs.
type DatabaseTokenStore struct {
	repo repository.TokenRepository
	ids  service.IdentityService
	now  func() time.Time
}

// NewDatabaseTokenStore creates a database-backed token store.
func NewDatabaseTokenStore(repo repository.TokenRepository, ids service.IdentityService) *DatabaseTokenStore {
	return &DatabaseTokenStore{
		repo: repo,
		ids:  ids,
		now:  time.Now,
	}
}

// Create generates a fresh random ID, persists the record under its digest
// and returns the plain ID.
func (s *DatabaseTokenStore) Create(ctx context.Context, token *tokenDomain.Token) (string, error) {
	plainID, digest, err := s.ids.GenerateID()
	if err != nil {
		return "", err
	}

	attrs, err := token.Attributes.Encode()
	if err != nil {
		return "", apperrors.Wrap(err, "failed to encode token attributes")
	}

	record := &tokenDomain.Record{
		Digest:     digest,
		Subject:    token.Subject,
		Expiry:     token.Expiry,
		Attributes: attrs,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return "", err
	}

	return plainID, nil
}

// Read resolves a plain ID via its digest. Expired records are treated as
// absent even before the sweeper removes them.
func (s *DatabaseTokenStore) Read(ctx context.Context, tokenID string) (*tokenDomain.Token, error) {
	record, err := s.repo.Get(ctx, s.ids.DigestID(tokenID))
	if err != nil {
		return nil, err
	}

	if !record.Expiry.After(s.now()) {
		return nil, tokenDomain.ErrTokenNotFound
	}

	attrs, err := tokenDomain.DecodeAttributes(record.Attributes)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to decode token attributes")
	}

	return &tokenDomain.Token{
		Subject:    record.Subject,
		Expiry:     record.Expiry,
		Attributes: attrs,
	}, nil
}

// Revoke deletes the record for the presented ID. Unknown IDs are a no-op.
func (s *DatabaseTokenStore) Revoke(ctx context.Context, tokenID string) error {
	return s.repo.Delete(ctx, s.ids.DigestID(tokenID))
}
