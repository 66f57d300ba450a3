// Package domain defines the user entity.
package domain

import (
	"time"
)

// User is a registered account. The username is the primary identifier and
// the subject carried by tokens.
type User struct {
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
