// Package dto defines request and response shapes for session endpoints.
package dto

import (
	"time"
)

// CreateSessionResponse is the body returned when a session is created.
// The token is the only credential the client should retain.
type CreateSessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
