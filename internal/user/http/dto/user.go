// Package dto defines request and response shapes for user endpoints.
package dto

import (
	"time"

	validation "github.com/jellydator/validation"

	appValidation "github.com/natterhq/natter/internal/validation"
)

// RegisterUserRequest is the body of POST /users.
type RegisterUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate checks the request shape.
func (r RegisterUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username,
			validation.Required.Error("username is required"),
			appValidation.Username,
		),
		validation.Field(&r.Password,
			validation.Required.Error("password is required"),
			validation.Length(8, 255).Error("password must be between 8 and 255 characters"),
		),
	)
}

// RegisterUserResponse is the body returned on successful registration.
type RegisterUserResponse struct {
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}
