package httputil

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestParsePagination(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		query      string
		wantOffset int
		wantLimit  int
	}{
		{"Defaults", "", 0, 50},
		{"Explicit", "?offset=10&limit=25", 10, 25},
		{"LimitClamped", "?limit=500", 0, 100},
		{"NegativeOffsetIgnored", "?offset=-5", 0, 50},
		{"ZeroLimitIgnored", "?limit=0", 0, 50},
		{"GarbageIgnored", "?offset=abc&limit=xyz", 0, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/test"+tt.query, nil)

			p := ParsePagination(c)

			assert.Equal(t, tt.wantOffset, p.Offset)
			assert.Equal(t, tt.wantLimit, p.Limit)
		})
	}
}
