// Package http provides HTTP handlers for user registration.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/natterhq/natter/internal/httputil"
	"github.com/natterhq/natter/internal/user/http/dto"
	userUseCase "github.com/natterhq/natter/internal/user/usecase"
	customValidation "github.com/natterhq/natter/internal/validation"
)

// UserHandler handles HTTP requests for user operations.
type UserHandler struct {
	userUseCase userUseCase.UseCase
	logger      *slog.Logger
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userUseCase userUseCase.UseCase, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
		logger:      logger,
	}
}

// RegisterUserHandler registers a new user.
// POST /users - No authentication required (this is the registration endpoint).
// Returns 201 Created with the new username.
func (h *UserHandler) RegisterUserHandler(c *gin.Context) {
	var req dto.RegisterUserRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	user, err := h.userUseCase.Register(c.Request.Context(), userUseCase.RegisterInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Header("Location", "/users/"+user.Username)
	c.JSON(http.StatusCreated, dto.RegisterUserResponse{
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	})
}
