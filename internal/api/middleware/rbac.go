package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cedarcrest-hospital/portal/internal/core/domain"
	"github.com/cedarcrest-hospital/portal/internal/core/service"
)

// RequireRole guards API routes. Anonymous callers get 401, authenticated
// users outside roles get 403. An empty roles list only requires a login.
func RequireRole(roles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s := SessionFrom(c)
			if s == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			switch s.Authorize(roles...) {
			case service.DecisionLogin:
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			case service.DecisionHome:
				return echo.NewHTTPError(http.StatusForbidden, "access forbidden")
			}
			return next(c)
		}
	}
}
