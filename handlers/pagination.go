package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// ParseLimit reads ?limit=, falling back to DefaultLimit for missing or
// invalid values and capping at MaxLimit.
func ParseLimit(c *gin.Context) int {
	return positiveQuery(c, "limit", DefaultLimit)
}

type PageParams struct {
	Page    int
	PerPage int
}

// ParsePage reads ?page= and ?per_page= for page-numbered listings.
func ParsePage(c *gin.Context) PageParams {
	return PageParams{
		Page:    positiveQuery(c, "page", 1),
		PerPage: positiveQuery(c, "per_page", DefaultLimit),
	}
}

func positiveQuery(c *gin.Context, key string, fallback int) int {
	n := fallback
	if s := c.Query(key); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			n = v
		}
	}
	if key != "page" && n > MaxLimit {
		n = MaxLimit
	}
	return n
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
