package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/resale_market/internal/access"
	"github.com/Skotchmaster/resale_market/internal/models"
	"github.com/Skotchmaster/resale_market/internal/service"
	middleware "github.com/Skotchmaster/resale_market/pkg/middleware/auth"
)

func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrOutOfStock),
		errors.Is(err, service.ErrInvalidSignature):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict), errors.Is(err, service.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, service.ErrUpstream):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// fail logs a service error under event and converts it into the matching
// HTTP error. Client errors keep the service message, server errors carry
// fallback instead.
func fail(l *slog.Logger, event string, err error, fallback string) error {
	code := statusOf(err)
	if code >= http.StatusInternalServerError {
		l.Error(event, "status", code, "reason", fallback, "error", err)
		return echo.NewHTTPError(code, fallback)
	}
	l.Warn(event, "status", code, "reason", err.Error(), "error", err)
	return echo.NewHTTPError(code, err.Error())
}

func badRequest(l *slog.Logger, event, reason string, err error) error {
	l.Warn(event, "status", 400, "reason", reason, "error", err)
	return echo.NewHTTPError(http.StatusBadRequest, reason)
}

// actorFrom reads the caller put into the context by the auth middleware.
func actorFrom(c echo.Context) (access.Actor, error) {
	rawID, _ := c.Get(middleware.CtxUserID).(string)
	role, _ := c.Get(middleware.CtxRole).(string)
	id, err := uuid.Parse(rawID)
	if err != nil || role == "" {
		return access.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
	}
	return access.Actor{ID: id, Role: models.Role(role)}, nil
}

func pathID(c echo.Context) (uuid.UUID, error) {
	return uuid.Parse(c.Param("id"))
}
