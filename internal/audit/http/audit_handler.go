package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/natterhq/natter/internal/audit/http/dto"
	auditUseCase "github.com/natterhq/natter/internal/audit/usecase"
	"github.com/natterhq/natter/internal/httputil"
)

// AuditHandler handles HTTP requests for the audit log.
type AuditHandler struct {
	auditUseCase auditUseCase.UseCase
	logger       *slog.Logger
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(auditUseCase auditUseCase.UseCase, logger *slog.Logger) *AuditHandler {
	return &AuditHandler{
		auditUseCase: auditUseCase,
		logger:       logger,
	}
}

// ListEntriesHandler retrieves audit log entries, newest first.
// GET /logs - Requires the read capability on the reserved audit space.
func (h *AuditHandler) ListEntriesHandler(c *gin.Context) {
	pagination := httputil.ParsePagination(c)

	entries, err := h.auditUseCase.List(c.Request.Context(), pagination.Offset, pagination.Limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	responses := make([]dto.EntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, dto.EntryResponse{
			ID:        entry.ID,
			RequestID: entry.RequestID,
			Phase:     string(entry.Phase),
			Method:    entry.Method,
			Path:      entry.Path,
			Status:    entry.Status,
			User:      entry.Subject,
			AuditTime: entry.AuditTime,
		})
	}

	c.JSON(http.StatusOK, dto.ListResponse{Entries: responses})
}
