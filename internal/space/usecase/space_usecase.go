// Package usecase implements the space business logic.
package usecase

import (
	"context"
	"time"

	validation "github.com/jellydator/validation"

	"github.com/natterhq/natter/internal/database"
	apperrors "github.com/natterhq/natter/internal/errors"
	"github.com/natterhq/natter/internal/space/domain"
	appValidation "github.com/natterhq/natter/internal/validation"
)

// CreateSpaceInput contains the input data for space creation. Subject is
// the authenticated user, never client-supplied.
type CreateSpaceInput struct {
	Name    string
	Owner   string
	Subject string
}

// AddMemberInput contains the input data for adding a member to a space.
type AddMemberInput struct {
	SpaceID  int64
	Username string
	Perms    string
}

// PostMessageInput contains the input data for posting a message.
type PostMessageInput struct {
	SpaceID int64
	Author  string
	Subject string
	Text    string
}

// UseCase defines the space business logic operations.
type UseCase interface {
	CreateSpace(ctx context.Context, input CreateSpaceInput) (*domain.Space, error)
	AddMember(ctx context.Context, input AddMemberInput) (*domain.Permission, error)
	PostMessage(ctx context.Context, input PostMessageInput) (*domain.Message, error)
	GetMessage(ctx context.Context, spaceID, messageID int64) (*domain.Message, error)
	ListMessages(ctx context.Context, spaceID int64, offset, limit int) ([]*domain.Message, error)

	// HasPermission reports whether the user holds the capability on the
	// space. A missing grant is not an error.
	HasPermission(ctx context.Context, spaceID int64, username, capability string) (bool, error)

	// GrantPermission creates a grant directly, bypassing membership
	// checks. Used by operational tooling.
	GrantPermission(ctx context.Context, spaceID int64, username, perms string) error
}

// SpaceRepository defines the space repository operations.
type SpaceRepository interface {
	Create(ctx context.Context, space *domain.Space) error
	Get(ctx context.Context, spaceID int64) (*domain.Space, error)
}

// PermissionRepository defines the permission repository operations.
type PermissionRepository interface {
	Create(ctx context.Context, perm *domain.Permission) error
	Get(ctx context.Context, spaceID int64, username string) (*domain.Permission, error)
}

// MessageRepository defines the message repository operations.
type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) error
	Get(ctx context.Context, spaceID, messageID int64) (*domain.Message, error)
	List(ctx context.Context, spaceID int64, offset, limit int) ([]*domain.Message, error)
}

// SpaceUseCase handles space, membership and message operations.
type SpaceUseCase struct {
	txManager database.TxManager
	spaceRepo SpaceRepository
	permRepo  PermissionRepository
	msgRepo   MessageRepository
}

// NewSpaceUseCase creates a new SpaceUseCase.
func NewSpaceUseCase(
	txManager database.TxManager,
	spaceRepo SpaceRepository,
	permRepo PermissionRepository,
	msgRepo MessageRepository,
) UseCase {
	return &SpaceUseCase{
		txManager: txManager,
		spaceRepo: spaceRepo,
		permRepo:  permRepo,
		msgRepo:   msgRepo,
	}
}

func (uc *SpaceUseCase) validateCreateSpaceInput(input CreateSpaceInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("name must be between 1 and 255 characters"),
		),
		validation.Field(&input.Owner,
			validation.Required.Error("owner is required"),
			appValidation.Username,
		),
	)
	return appValidation.WrapValidationError(err)
}

// CreateSpace creates a space and grants the owner full permissions in one
// transaction. A space never exists without its owner grant.
func (uc *SpaceUseCase) CreateSpace(ctx context.Context, input CreateSpaceInput) (*domain.Space, error) {
	if err := uc.validateCreateSpaceInput(input); err != nil {
		return nil, err
	}
	if input.Owner != input.Subject {
		return nil, domain.ErrOwnerMismatch
	}

	space := &domain.Space{
		Name:  input.Name,
		Owner: input.Owner,
	}

	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := uc.spaceRepo.Create(ctx, space); err != nil {
			return err
		}

		ownerGrant := &domain.Permission{
			SpaceID:  space.ID,
			Username: input.Owner,
			Perms:    domain.CapabilityRead + domain.CapabilityWrite + domain.CapabilityDelete,
		}
		return uc.permRepo.Create(ctx, ownerGrant)
	})
	if err != nil {
		return nil, err
	}

	return space, nil
}

func (uc *SpaceUseCase) validateAddMemberInput(input AddMemberInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Username,
			validation.Required.Error("username is required"),
			appValidation.Username,
		),
		validation.Field(&input.Perms,
			validation.Required.Error("permissions are required"),
			appValidation.Perms,
		),
	)
	return appValidation.WrapValidationError(err)
}

// AddMember grants a user capabilities on an existing space.
func (uc *SpaceUseCase) AddMember(ctx context.Context, input AddMemberInput) (*domain.Permission, error) {
	if err := uc.validateAddMemberInput(input); err != nil {
		return nil, err
	}

	if _, err := uc.spaceRepo.Get(ctx, input.SpaceID); err != nil {
		return nil, err
	}

	perm := &domain.Permission{
		SpaceID:  input.SpaceID,
		Username: input.Username,
		Perms:    input.Perms,
	}
	if err := uc.permRepo.Create(ctx, perm); err != nil {
		return nil, err
	}

	return perm, nil
}

func (uc *SpaceUseCase) validatePostMessageInput(input PostMessageInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Author,
			validation.Required.Error("author is required"),
			appValidation.Username,
		),
		validation.Field(&input.Text,
			validation.Required.Error("message is required"),
			appValidation.NotBlank,
			validation.Length(1, 1024).Error("message must be between 1 and 1024 characters"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// PostMessage appends an immutable message to a space.
func (uc *SpaceUseCase) PostMessage(ctx context.Context, input PostMessageInput) (*domain.Message, error) {
	if err := uc.validatePostMessageInput(input); err != nil {
		return nil, err
	}
	if input.Author != input.Subject {
		return nil, domain.ErrAuthorMismatch
	}

	if _, err := uc.spaceRepo.Get(ctx, input.SpaceID); err != nil {
		return nil, err
	}

	message := &domain.Message{
		SpaceID: input.SpaceID,
		Author:  input.Author,
		Time:    time.Now().UTC(),
		Text:    input.Text,
	}
	if err := uc.msgRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	return message, nil
}

// GetMessage retrieves a single message.
func (uc *SpaceUseCase) GetMessage(ctx context.Context, spaceID, messageID int64) (*domain.Message, error) {
	return uc.msgRepo.Get(ctx, spaceID, messageID)
}

// ListMessages retrieves messages in a space, newest first.
func (uc *SpaceUseCase) ListMessages(
	ctx context.Context,
	spaceID int64,
	offset, limit int,
) ([]*domain.Message, error) {
	return uc.msgRepo.List(ctx, spaceID, offset, limit)
}

// HasPermission reports whether the user holds the capability on the space.
func (uc *SpaceUseCase) HasPermission(
	ctx context.Context,
	spaceID int64,
	username, capability string,
) (bool, error) {
	perm, err := uc.permRepo.Get(ctx, spaceID, username)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return perm.Allows(capability), nil
}

// GrantPermission creates a grant after checking the space exists and the
// permission string is valid.
func (uc *SpaceUseCase) GrantPermission(ctx context.Context, spaceID int64, username, perms string) error {
	if err := appValidation.WrapValidationError(
		validation.Validate(perms, validation.Required, appValidation.Perms),
	); err != nil {
		return err
	}

	if _, err := uc.spaceRepo.Get(ctx, spaceID); err != nil {
		return err
	}

	return uc.permRepo.Create(ctx, &domain.Permission{
		SpaceID:  spaceID,
		Username: username,
		Perms:    perms,
	})
}
