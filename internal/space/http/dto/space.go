// Package dto defines request and response shapes for space endpoints.
package dto

import (
	"time"

	validation "github.com/jellydator/validation"

	appValidation "github.com/natterhq/natter/internal/validation"
)

// CreateSpaceRequest is the body of POST /spaces.
type CreateSpaceRequest struct {
	Name  string `json:"name"`
	Owner string `json:"owner"`
}

// Validate checks the request shape.
func (r CreateSpaceRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("name must be between 1 and 255 characters"),
		),
		validation.Field(&r.Owner,
			validation.Required.Error("owner is required"),
			appValidation.Username,
		),
	)
}

// CreateSpaceResponse is the body returned when a space is created.
type CreateSpaceResponse struct {
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// AddMemberRequest is the body of POST /spaces/:spaceID/members.
type AddMemberRequest struct {
	Username    string `json:"username"`
	Permissions string `json:"permissions"`
}

// Validate checks the request shape.
func (r AddMemberRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username,
			validation.Required.Error("username is required"),
			appValidation.Username,
		),
		validation.Field(&r.Permissions,
			validation.Required.Error("permissions are required"),
			appValidation.Perms,
		),
	)
}

// AddMemberResponse is the body returned when a member is added.
type AddMemberResponse struct {
	Username    string `json:"username"`
	Permissions string `json:"permissions"`
}

// PostMessageRequest is the body of POST /spaces/:spaceID/messages.
type PostMessageRequest struct {
	Author  string `json:"author"`
	Message string `json:"message"`
}

// Validate checks the request shape.
func (r PostMessageRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Author,
			validation.Required.Error("author is required"),
			appValidation.Username,
		),
		validation.Field(&r.Message,
			validation.Required.Error("message is required"),
			appValidation.NotBlank,
			validation.Length(1, 1024).Error("message must be between 1 and 1024 characters"),
		),
	)
}

// MessageResponse is a single message.
type MessageResponse struct {
	URI     string    `json:"uri"`
	Author  string    `json:"author"`
	Time    time.Time `json:"time"`
	Message string    `json:"message"`
}
