// Package service provides token identity primitives.
package service

// IdentityService generates and digests token identifiers.
type IdentityService interface {
	// GenerateID creates a fresh random token ID. Returns the plain ID
	// (handed to the client) and its digest (the storage key).
	GenerateID() (plainID string, digest string, err error)

	// DigestID computes the storage digest of a plain token ID.
	DigestID(plainID string) string
}
