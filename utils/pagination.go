package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ParsePagination reads page/limit query parameters with sane bounds.
func ParsePagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultPageSize)))
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return
}

func TotalPages(total int64, limit int) int {
	if total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
