// Package handler contains the HTTP endpoints. Handlers bind input,
// enforce ownership, call repositories and shape JSON responses;
// anything heavier lives in the repository or service layers.
package handler

import (
	"context"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// dbTimeout bounds every database call made from a handler.
const dbTimeout = 5 * time.Second

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// currentUserID reads the id stored by the JWT middleware. Zero means
// unauthenticated.
func currentUserID(c echo.Context) uint64 {
	if v, ok := c.Get("user_id").(uint64); ok {
		return v
	}
	return 0
}

// parseID parses a numeric path parameter.
func parseID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}

// parseLimitOffset reads ?limit= and ?offset= with a default and a
// hard cap of 100.
func parseLimitOffset(c echo.Context, def int) (int, int) {
	limit := def
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > 100 {
		limit = 100
	}
	offset := 0
	if v, err := strconv.Atoi(c.QueryParam("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}

// averageOf computes the arithmetic mean of rating values, 0 for an
// empty slice.
func averageOf(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

func clientIP(c echo.Context) string {
	return c.RealIP()
}
