package store

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"

	tokenDomain "github.com/natterhq/natter/internal/token/domain"
)

// HmacTokenStore wraps another store and appends an HMAC-SHA256 tag to each
// issued ID. A forged or tampered ID fails the tag check before the delegate
// is ever consulted, so database timing and contents reveal nothing about
// guessed IDs.
type HmacTokenStore struct {
	delegate Store
	key      []byte
}

// NewHmacTokenStore wraps delegate with HMAC protection. The MAC key is
// derived from the configured secret via HKDF-SHA256.
func NewHmacTokenStore(delegate Store, secret []byte) (*HmacTokenStore, error) {
	key, err := deriveMACKey(secret)
	if err != nil {
		return nil, err
	}
	return &HmacTokenStore{delegate: delegate, key: key}, nil
}

// Create issues an ID from the delegate and returns "<id>.<tag>" where the
// tag is base64url(HMAC-SHA256(id)).
func (s *HmacTokenStore) Create(ctx context.Context, token *tokenDomain.Token) (string, error) {
	realID, err := s.delegate.Create(ctx, token)
	if err != nil {
		return "", err
	}
	return realID + "." + s.tag(realID), nil
}

// Read verifies the tag and resolves the inner ID through the delegate.
// Malformed or tampered IDs report ErrTokenNotFound without touching the
// delegate.
func (s *HmacTokenStore) Read(ctx context.Context, tokenID string) (*tokenDomain.Token, error) {
	realID, ok := s.verify(tokenID)
	if !ok {
		return nil, tokenDomain.ErrTokenNotFound
	}
	return s.delegate.Read(ctx, realID)
}

// Revoke verifies the tag and revokes through the delegate. Invalid IDs are
// a no-op.
func (s *HmacTokenStore) Revoke(ctx context.Context, tokenID string) error {
	realID, ok := s.verify(tokenID)
	if !ok {
		return nil
	}
	return s.delegate.Revoke(ctx, realID)
}

func (s *HmacTokenStore) tag(realID string) string {
	mac := hmac.New(sha256.New, s.key)
	mac.Write([]byte(realID))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// verify splits "<id>.<tag>" at the last dot and checks the tag in constant
// time.
func (s *HmacTokenStore) verify(tokenID string) (string, bool) {
	idx := strings.LastIndex(tokenID, ".")
	if idx < 1 || idx == len(tokenID)-1 {
		return "", false
	}

	realID := tokenID[:idx]
	presented, err := base64.RawURLEncoding.DecodeString(tokenID[idx+1:])
	if err != nil {
		return "", false
	}

	mac := hmac.New(sha256.New, s.key)
	mac.Write([]byte(realID))
	expected := mac.Sum(nil)

	if !hmac.Equal(presented, expected) {
		return "", false
	}
	return realID, true
}
