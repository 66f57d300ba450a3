package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"

	apperrors "github.com/natterhq/natter/internal/errors"
)

// tokenIDBytes is the entropy of a token ID: 160 bits.
const tokenIDBytes = 20

// identityService implements IdentityService with SHA-256 digests.
type identityService struct{}

// NewIdentityService creates an IdentityService backed by crypto/rand and
// SHA-256.
func NewIdentityService() IdentityService {
	return &identityService{}
}

// GenerateID creates a 20-byte random ID, base64 URL-encoded without
// padding. The digest is what gets persisted; the plain ID never touches
// storage.
func (s *identityService) GenerateID() (string, string, error) {
	randomBytes := make([]byte, tokenIDBytes)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", "", apperrors.Wrap(err, "failed to generate random token id")
	}

	plainID := base64.RawURLEncoding.EncodeToString(randomBytes)
	return plainID, s.DigestID(plainID), nil
}

// DigestID hashes a plain ID with SHA-256, base64 URL-encoded.
func (s *identityService) DigestID(plainID string) string {
	hash := sha256.Sum256([]byte(plainID))
	return base64.RawURLEncoding.EncodeToString(hash[:])
}
