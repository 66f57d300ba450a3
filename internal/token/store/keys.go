package store

import (
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"

	apperrors "github.com/natterhq/natter/internal/errors"
)

// deriveMACKey uses HKDF-SHA256 to derive a 32-byte MAC key from the
// configured secret. The info string is versioned so the scheme can rotate
// without reusing key material.
func deriveMACKey(secret []byte) ([]byte, error) {
	if len(secret) == 0 {
		return nil, apperrors.New("token secret key is not configured")
	}

	info := []byte("token-integrity-v1")
	reader := hkdf.New(sha256.New, secret, nil, info)

	key := make([]byte, 32)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, apperrors.Wrap(err, "failed to derive token mac key")
	}
	return key, nil
}
