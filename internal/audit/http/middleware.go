// Package http provides the audit middleware and the audit log endpoint.
package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	auditUseCase "github.com/natterhq/natter/internal/audit/usecase"
	authHTTP "github.com/natterhq/natter/internal/auth/http"
	"github.com/natterhq/natter/internal/httputil"
)

// AuditMiddleware records a start entry before the handler runs and an end
// entry after the response is written, correlated by request ID.
//
// The start entry is fail-closed: if it cannot be written the request is
// rejected with 500 before any handler runs. The end entry failure is only
// logged, because the response has already been committed by then.
//
// Must run after the authentication middleware so the subject is captured,
// and before the permission gates so denied requests are still audited.
func AuditMiddleware(audit auditUseCase.UseCase, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		input := auditUseCase.RecordInput{
			RequestID: requestid.Get(c),
			Method:    c.Request.Method,
			Path:      c.Request.URL.Path,
		}
		if subject, ok := authHTTP.GetSubject(c.Request.Context()); ok {
			input.Subject = &subject
		}

		if err := audit.RecordStart(c.Request.Context(), input); err != nil {
			logger.Error("audit start entry failed, rejecting request",
				slog.String("request_id", input.RequestID),
				slog.Any("error", err))
			c.JSON(http.StatusInternalServerError, httputil.ErrorResponse{
				Error:   "internal_error",
				Message: "An internal error occurred",
			})
			c.Abort()
			return
		}

		c.Next()

		status := c.Writer.Status()
		input.Status = &status

		// The request context is canceled when the client disconnects, but
		// the end entry must be written regardless so every start entry gets
		// its matching end. Keep the request values, drop the cancellation.
		endCtx := context.WithoutCancel(c.Request.Context())
		if err := audit.RecordEnd(endCtx, input); err != nil {
			logger.Error("audit end entry failed",
				slog.String("request_id", input.RequestID),
				slog.Int("status", status),
				slog.Any("error", err))
		}
	}
}
