package domain

import (
	"github.com/natterhq/natter/internal/errors"
)

// User errors.
var (
	// ErrUserNotFound indicates no user exists with the given username.
	ErrUserNotFound = errors.Wrap(errors.ErrNotFound, "user not found")

	// ErrUserAlreadyExists indicates the username is taken.
	ErrUserAlreadyExists = errors.Wrap(errors.ErrConflict, "user already exists")

	// ErrInvalidCredentials indicates a failed username/password check.
	// Unknown users and wrong passwords are indistinguishable.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")
)
