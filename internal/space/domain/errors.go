package domain

import (
	"github.com/natterhq/natter/internal/errors"
)

// Space, message and permission errors.
var (
	// ErrSpaceNotFound indicates no space exists with the given ID.
	ErrSpaceNotFound = errors.Wrap(errors.ErrNotFound, "space not found")

	// ErrMessageNotFound indicates no message exists with the given ID in
	// the space.
	ErrMessageNotFound = errors.Wrap(errors.ErrNotFound, "message not found")

	// ErrPermissionNotFound indicates the user has no grant on the space.
	ErrPermissionNotFound = errors.Wrap(errors.ErrNotFound, "permission not found")

	// ErrPermissionAlreadyExists indicates the user already has a grant on
	// the space.
	ErrPermissionAlreadyExists = errors.Wrap(errors.ErrConflict, "permission already exists")

	// ErrOwnerMismatch indicates the declared owner is not the
	// authenticated subject.
	ErrOwnerMismatch = errors.Wrap(errors.ErrInvalidInput, "owner must match the authenticated user")

	// ErrAuthorMismatch indicates the declared author is not the
	// authenticated subject.
	ErrAuthorMismatch = errors.Wrap(errors.ErrInvalidInput, "author must match the authenticated user")
)
