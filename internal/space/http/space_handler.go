// Package http provides HTTP handlers for spaces, members and messages.
package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	authHTTP "github.com/natterhq/natter/internal/auth/http"
	apperrors "github.com/natterhq/natter/internal/errors"
	"github.com/natterhq/natter/internal/httputil"
	"github.com/natterhq/natter/internal/space/http/dto"
	spaceUseCase "github.com/natterhq/natter/internal/space/usecase"
	customValidation "github.com/natterhq/natter/internal/validation"
)

// SpaceHandler handles HTTP requests for space operations.
type SpaceHandler struct {
	spaceUseCase spaceUseCase.UseCase
	logger       *slog.Logger
}

// NewSpaceHandler creates a new space handler.
func NewSpaceHandler(spaceUseCase spaceUseCase.UseCase, logger *slog.Logger) *SpaceHandler {
	return &SpaceHandler{
		spaceUseCase: spaceUseCase,
		logger:       logger,
	}
}

// CreateSpaceHandler creates a new space owned by the authenticated user.
// POST /spaces - Requires authentication.
// Returns 201 Created with a Location header pointing at the new space.
func (h *SpaceHandler) CreateSpaceHandler(c *gin.Context) {
	subject, ok := authHTTP.GetSubject(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.CreateSpaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	space, err := h.spaceUseCase.CreateSpace(c.Request.Context(), spaceUseCase.CreateSpaceInput{
		Name:    req.Name,
		Owner:   req.Owner,
		Subject: subject,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	uri := fmt.Sprintf("/spaces/%d", space.ID)
	c.Header("Location", uri)
	c.JSON(http.StatusCreated, dto.CreateSpaceResponse{
		Name: space.Name,
		URI:  uri,
	})
}

// AddMemberHandler grants a user capabilities on a space.
// POST /spaces/:spaceID/members - Requires the delete capability.
// Returns 201 Created with the grant.
func (h *SpaceHandler) AddMemberHandler(c *gin.Context) {
	spaceID, ok := h.spaceIDParam(c)
	if !ok {
		return
	}

	var req dto.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	perm, err := h.spaceUseCase.AddMember(c.Request.Context(), spaceUseCase.AddMemberInput{
		SpaceID:  spaceID,
		Username: req.Username,
		Perms:    req.Permissions,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.AddMemberResponse{
		Username:    perm.Username,
		Permissions: perm.Perms,
	})
}

// PostMessageHandler appends a message to a space.
// POST /spaces/:spaceID/messages - Requires the write capability.
// Returns 201 Created with a Location header pointing at the message.
func (h *SpaceHandler) PostMessageHandler(c *gin.Context) {
	subject, ok := authHTTP.GetSubject(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	spaceID, ok := h.spaceIDParam(c)
	if !ok {
		return
	}

	var req dto.PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	message, err := h.spaceUseCase.PostMessage(c.Request.Context(), spaceUseCase.PostMessageInput{
		SpaceID: spaceID,
		Author:  req.Author,
		Subject: subject,
		Text:    req.Message,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	uri := fmt.Sprintf("/spaces/%d/messages/%d", message.SpaceID, message.ID)
	c.Header("Location", uri)
	c.JSON(http.StatusCreated, dto.MessageResponse{
		URI:     uri,
		Author:  message.Author,
		Time:    message.Time,
		Message: message.Text,
	})
}

// GetMessageHandler retrieves a single message.
// GET /spaces/:spaceID/messages/:messageID - Requires the read capability.
func (h *SpaceHandler) GetMessageHandler(c *gin.Context) {
	spaceID, ok := h.spaceIDParam(c)
	if !ok {
		return
	}

	messageID, err := strconv.ParseInt(c.Param("messageID"), 10, 64)
	if err != nil {
		httputil.HandleErrorGin(c, apperrors.ErrNotFound, h.logger)
		return
	}

	message, err := h.spaceUseCase.GetMessage(c.Request.Context(), spaceID, messageID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{
		URI:     fmt.Sprintf("/spaces/%d/messages/%d", message.SpaceID, message.ID),
		Author:  message.Author,
		Time:    message.Time,
		Message: message.Text,
	})
}

// ListMessagesHandler retrieves messages in a space, newest first.
// GET /spaces/:spaceID/messages - Requires the read capability.
func (h *SpaceHandler) ListMessagesHandler(c *gin.Context) {
	spaceID, ok := h.spaceIDParam(c)
	if !ok {
		return
	}

	pagination := httputil.ParsePagination(c)

	messages, err := h.spaceUseCase.ListMessages(
		c.Request.Context(),
		spaceID,
		pagination.Offset,
		pagination.Limit,
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	responses := make([]dto.MessageResponse, 0, len(messages))
	for _, message := range messages {
		responses = append(responses, dto.MessageResponse{
			URI:     fmt.Sprintf("/spaces/%d/messages/%d", message.SpaceID, message.ID),
			Author:  message.Author,
			Time:    message.Time,
			Message: message.Text,
		})
	}

	c.JSON(http.StatusOK, gin.H{"messages": responses})
}

func (h *SpaceHandler) spaceIDParam(c *gin.Context) (int64, bool) {
	spaceID, err := strconv.ParseInt(c.Param("spaceID"), 10, 64)
	if err != nil {
		httputil.HandleErrorGin(c, apperrors.ErrNotFound, h.logger)
		return 0, false
	}
	return spaceID, true
}
