package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/natterhq/natter/internal/audit/domain"
)

func TestAuditHandler_ListEntriesHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Success", func(t *testing.T) {
		status := 200
		subject := "alice"
		audit := &mockAuditUseCase{}
		audit.On("List", mock.Anything, 0, 50).Return([]*auditDomain.Entry{
			{
				ID:        2,
				RequestID: "req-2",
				Phase:     auditDomain.PhaseEnd,
				Method:    "GET",
				Path:      "/spaces",
				Status:    &status,
				Subject:   &subject,
				AuditTime: time.Now().UTC(),
			},
			{
				ID:        1,
				RequestID: "req-2",
				Phase:     auditDomain.PhaseStart,
				Method:    "GET",
				Path:      "/spaces",
				Subject:   &subject,
				AuditTime: time.Now().UTC(),
			},
		}, nil).Once()

		router := gin.New()
		handler := NewAuditHandler(audit, testLogger())
		router.GET("/logs", handler.ListEntriesHandler)

		req := httptest.NewRequest(http.MethodGet, "/logs", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"phase":"end"`)
		assert.Contains(t, w.Body.String(), `"phase":"start"`)
		assert.Contains(t, w.Body.String(), `"user":"alice"`)
		audit.AssertExpectations(t)
	})

	t.Run("Success_Pagination", func(t *testing.T) {
		audit := &mockAuditUseCase{}
		audit.On("List", mock.Anything, 10, 5).Return([]*auditDomain.Entry{}, nil).Once()

		router := gin.New()
		handler := NewAuditHandler(audit, testLogger())
		router.GET("/logs", handler.ListEntriesHandler)

		req := httptest.NewRequest(http.MethodGet, "/logs?offset=10&limit=5", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"entries":[]`)
		audit.AssertExpectations(t)
	})
}
