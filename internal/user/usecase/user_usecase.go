// Package usecase implements the user business logic.
package usecase

import (
	"context"
	"time"

	"github.com/allisson/go-pwdhash"
	validation "github.com/jellydator/validation"

	apperrors "github.com/natterhq/natter/internal/errors"
	"github.com/natterhq/natter/internal/user/domain"
	appValidation "github.com/natterhq/natter/internal/validation"
)

// RegisterInput contains the input data for user registration.
type RegisterInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UseCase defines the user business logic operations.
type UseCase interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)

	// VerifyCredentials checks a username/password pair and returns the
	// user on success. Unknown users and wrong passwords both return
	// ErrInvalidCredentials.
	VerifyCredentials(ctx context.Context, username, password string) (*domain.User, error)
}

// UserRepository defines the user repository operations the use case needs.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// UserUseCase handles user registration and credential verification.
type UserUseCase struct {
	userRepo       UserRepository
	passwordHasher *pwdhash.PasswordHasher
}

// NewUserUseCase creates a new UserUseCase. Passwords are hashed with
// Argon2id using the interactive policy.
func NewUserUseCase(userRepo UserRepository) (UseCase, error) {
	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyInteractive))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create password hasher")
	}

	return &UserUseCase{
		userRepo:       userRepo,
		passwordHasher: hasher,
	}, nil
}

func (uc *UserUseCase) validateRegisterInput(input RegisterInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Username,
			validation.Required.Error("username is required"),
			appValidation.Username,
		),
		validation.Field(&input.Password,
			validation.Required.Error("password is required"),
			validation.Length(8, 255).Error("password must be between 8 and 255 characters"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// Register creates a new user with a hashed password.
func (uc *UserUseCase) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if err := uc.validateRegisterInput(input); err != nil {
		return nil, err
	}

	hashedPassword, err := uc.passwordHasher.Hash([]byte(input.Password))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to hash password")
	}

	user := &domain.User{
		Username:     input.Username,
		PasswordHash: hashedPassword,
		CreatedAt:    time.Now().UTC(),
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// VerifyCredentials checks a username/password pair. The password hash is
// verified in constant time; the caller cannot tell an unknown user from a
// wrong password.
func (uc *UserUseCase) VerifyCredentials(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := uc.passwordHasher.Verify([]byte(password), user.PasswordHash)
	if err != nil || !ok {
		return nil, domain.ErrInvalidCredentials
	}

	return user, nil
}
