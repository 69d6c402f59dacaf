package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hekayaty/hekayaty-server/internal/model"
	"github.com/hekayaty/hekayaty-server/internal/repository"
)

// RequireAdmin re-reads the caller's role from the profiles table on
// every request, so demoting an admin takes effect immediately even if
// an old access token still carries role=admin.
func RequireAdmin(profiles *repository.ProfileRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid, ok := c.Get("user_id").(uint64)
			if !ok || uid == 0 {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			role, err := profiles.Role(c.Request().Context(), uid)
			if err != nil {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "Admin access required"})
			}
			if role != model.RoleAdmin {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "Admin access required"})
			}
			return next(c)
		}
	}
}
