package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/natterhq/natter/internal/auth/http/dto"
	apperrors "github.com/natterhq/natter/internal/errors"
	"github.com/natterhq/natter/internal/httputil"
	tokenDomain "github.com/natterhq/natter/internal/token/domain"
	tokenStore "github.com/natterhq/natter/internal/token/store"
	userUseCase "github.com/natterhq/natter/internal/user/usecase"
)

// SessionHandler handles login and logout.
type SessionHandler struct {
	store      tokenStore.Store
	users      userUseCase.UseCase
	expiration time.Duration
	logger     *slog.Logger
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(
	store tokenStore.Store,
	users userUseCase.UseCase,
	expiration time.Duration,
	logger *slog.Logger,
) *SessionHandler {
	return &SessionHandler{
		store:      store,
		users:      users,
		expiration: expiration,
		logger:     logger,
	}
}

// CreateSessionHandler exchanges HTTP Basic credentials for a session token.
// POST /sessions - Requires Basic credentials in the Authorization header.
// Returns 201 Created with the token and its expiry.
func (h *SessionHandler) CreateSessionHandler(c *gin.Context) {
	username, password, ok := c.Request.BasicAuth()
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	user, err := h.users.VerifyCredentials(c.Request.Context(), username, password)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	expiresAt := time.Now().Add(h.expiration)
	tokenID, err := h.store.Create(c.Request.Context(), &tokenDomain.Token{
		Subject: user.Username,
		Expiry:  expiresAt,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("session created", slog.String("subject", user.Username))

	c.JSON(http.StatusCreated, dto.CreateSessionResponse{
		Token:     tokenID,
		ExpiresAt: expiresAt,
	})
}

// DeleteSessionHandler revokes the presented token.
// DELETE /sessions - Requires token authentication.
// Returns 204 No Content. Revoking twice is a no-op.
func (h *SessionHandler) DeleteSessionHandler(c *gin.Context) {
	tokenID, ok := GetTokenID(c.Request.Context())
	if !ok {
		// Authenticated via Basic, nothing to revoke.
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	if err := h.store.Revoke(c.Request.Context(), tokenID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}
