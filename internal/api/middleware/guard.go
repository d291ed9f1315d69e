package middleware

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/cedarcrest-hospital/portal/internal/core/domain"
	"github.com/cedarcrest-hospital/portal/internal/core/service"
)

// Guard protects page routes by redirecting: anonymous visitors go to
// loginPath with a "next" parameter, signed-in users lacking one of roles go
// to homePath.
func Guard(loginPath, homePath string, roles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			decision := service.DecisionLogin
			if s := SessionFrom(c); s != nil {
				decision = s.Authorize(roles...)
			}
			switch decision {
			case service.DecisionLogin:
				target := loginPath + "?" + url.Values{"next": {c.Request().URL.RequestURI()}}.Encode()
				return c.Redirect(http.StatusFound, target)
			case service.DecisionHome:
				return c.Redirect(http.StatusFound, homePath)
			}
			return next(c)
		}
	}
}
