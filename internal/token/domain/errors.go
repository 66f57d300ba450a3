package domain

import (
	"github.com/natterhq/natter/internal/errors"
)

// Token errors.
var (
	// ErrTokenNotFound indicates the token is absent, expired or malformed.
	// Callers cannot distinguish the three cases.
	ErrTokenNotFound = errors.Wrap(errors.ErrNotFound, "token not found")
)
