package access

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/resale_market/internal/models"
	"github.com/Skotchmaster/resale_market/pkg/logging"
)

// Require rejects the request with 403 unless the role put into the echo
// context by the auth middleware is allowed to perform op.
func Require(op Operation) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if role == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing role")
			}
			if !Allowed(models.Role(role), op) {
				logging.FromContext(c.Request().Context()).Warn("access_denied", "status", 403, "role", role, "operation", string(op))
				return echo.NewHTTPError(http.StatusForbidden, "Access Denied")
			}
			return next(c)
		}
	}
}
