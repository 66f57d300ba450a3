package http

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/natterhq/natter/internal/errors"
	"github.com/natterhq/natter/internal/httputil"
	tokenStore "github.com/natterhq/natter/internal/token/store"
	userUseCase "github.com/natterhq/natter/internal/user/usecase"
)

// TokenCookieName is the cookie consulted when no Authorization header
// carries a bearer token.
const TokenCookieName = "natter_token"

// PermissionChecker reports whether a user holds a capability on a space.
type PermissionChecker interface {
	HasPermission(ctx context.Context, spaceID int64, username string, capability string) (bool, error)
}

// AuthenticationMiddleware resolves the request identity without gating.
//
// Credentials are tried in order: Bearer token from the Authorization
// header, the token cookie, then HTTP Basic. A valid credential attaches
// the subject (and token attributes, for token auth) to the request
// context. Invalid or absent credentials leave the request anonymous; the
// permission gates decide later whether anonymous is acceptable. Failed
// lookups never reveal whether the user or token exists.
func AuthenticationMiddleware(
	store tokenStore.Store,
	users userUseCase.UseCase,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenID, ok := presentedToken(c); ok {
			token, err := store.Read(c.Request.Context(), tokenID)
			if err != nil {
				logger.Debug("token authentication failed", slog.String("error", err.Error()))
				c.Next()
				return
			}

			ctx := WithSubject(c.Request.Context(), token.Subject)
			ctx = WithTokenID(ctx, tokenID)
			ctx = WithAttributes(ctx, token.Attributes)
			c.Request = c.Request.WithContext(ctx)
			c.Next()
			return
		}

		if username, password, ok := c.Request.BasicAuth(); ok {
			user, err := users.VerifyCredentials(c.Request.Context(), username, password)
			if err != nil {
				logger.Debug("basic authentication failed", slog.String("username", username))
				c.Next()
				return
			}

			ctx := WithSubject(c.Request.Context(), user.Username)
			c.Request = c.Request.WithContext(ctx)
		}

		c.Next()
	}
}

// presentedToken extracts a bearer token from the Authorization header,
// falling back to the token cookie.
func presentedToken(c *gin.Context) (string, bool) {
	const bearerPrefix = "bearer "

	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > len(bearerPrefix) &&
		strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
		return authHeader[len(bearerPrefix):], true
	}

	if cookie, err := c.Cookie(TokenCookieName); err == nil && cookie != "" {
		return cookie, true
	}

	return "", false
}

// RequireAuthentication rejects anonymous requests with 401.
func RequireAuthentication(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetSubject(c.Request.Context()); !ok {
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequirePermission gates a route on a capability over the space named by
// the :spaceID path parameter. Anonymous requests get 401, authenticated
// requests without the capability get 403.
func RequirePermission(
	capability string,
	checker PermissionChecker,
	logger *slog.Logger,
) gin.HandlerFunc {
	return requirePermission(capability, checker, logger, func(c *gin.Context) (int64, bool) {
		spaceID, err := strconv.ParseInt(c.Param("spaceID"), 10, 64)
		if err != nil {
			return 0, false
		}
		return spaceID, true
	})
}

// RequirePermissionOnSpace gates a route on a capability over a fixed
// space, for resources that live outside the /spaces tree.
func RequirePermissionOnSpace(
	spaceID int64,
	capability string,
	checker PermissionChecker,
	logger *slog.Logger,
) gin.HandlerFunc {
	return requirePermission(capability, checker, logger, func(c *gin.Context) (int64, bool) {
		return spaceID, true
	})
}

func requirePermission(
	capability string,
	checker PermissionChecker,
	logger *slog.Logger,
	resolveSpace func(c *gin.Context) (int64, bool),
) gin.HandlerFunc {
	return func(c *gin.Context) {
		subject, ok := GetSubject(c.Request.Context())
		if !ok {
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		spaceID, ok := resolveSpace(c)
		if !ok {
			httputil.HandleErrorGin(c, apperrors.ErrNotFound, logger)
			c.Abort()
			return
		}

		allowed, err := checker.HasPermission(c.Request.Context(), spaceID, subject, capability)
		if err != nil {
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}
		if !allowed {
			logger.Debug("authorization failed",
				slog.String("subject", subject),
				slog.Int64("space_id", spaceID),
				slog.String("capability", capability))
			httputil.HandleErrorGin(c, apperrors.ErrForbidden, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}
