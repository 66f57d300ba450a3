package httputil

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultLimit = 50
	maxLimit     = 100
)

// Pagination holds parsed offset/limit query parameters.
type Pagination struct {
	Offset int
	Limit  int
}

// ParsePagination extracts offset and limit from the query string, applying
// defaults and clamping the limit to a sane maximum.
func ParsePagination(c *gin.Context) Pagination {
	p := Pagination{Offset: 0, Limit: defaultLimit}

	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			p.Offset = n
		}
	}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			p.Limit = n
		}
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}

	return p
}
