package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/resale_market/internal/service"
	"github.com/Skotchmaster/resale_market/internal/transport"
	"github.com/Skotchmaster/resale_market/pkg/logging"
	middleware "github.com/Skotchmaster/resale_market/pkg/middleware/auth"
	"github.com/Skotchmaster/resale_market/pkg/tokens"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func setAuthCookies(c echo.Context, p *tokens.Pair) {
	c.SetCookie(middleware.CreateCookie(middleware.AccessCookie, p.AccessToken, "/", p.AccessExp))
	c.SetCookie(middleware.CreateCookie(middleware.RefreshCookie, p.RefreshToken, "/", p.RefreshExp))
}

func clearAuthCookies(c echo.Context) {
	c.SetCookie(middleware.DeleteCookie(middleware.AccessCookie, "/"))
	c.SetCookie(middleware.DeleteCookie(middleware.RefreshCookie, "/"))
}

// refreshToken prefers the cookie and falls back to a JSON body field.
func refreshToken(c echo.Context) string {
	if ck, err := c.Cookie(middleware.RefreshCookie); err == nil && ck.Value != "" {
		return ck.Value
	}
	var body struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.Bind(&body); err != nil {
		return ""
	}
	return body.RefreshToken
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return badRequest(l, "register_failed", "invalid body", err)
	}

	user, err := h.Svc.Register(ctx, req)
	if err != nil {
		return fail(l, "register_failed", err, "register failed")
	}

	l.Info("register_success", "user_id", user.ID)
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User registered successfully",
		"user":    user,
	})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return badRequest(l, "login_failed", "invalid body", err)
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return fail(l, "login_failed", err, "login failed")
	}

	setAuthCookies(c, &res.Pair)
	l.Info("login_success", "user_id", res.User.ID)
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Login successful",
		"token":   res.AccessToken,
		"user":    res.User,
	})
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.refresh")

	raw := refreshToken(c)
	if raw == "" {
		l.Warn("refresh_failed", "status", 401, "reason", "missing refresh token")
		return echo.NewHTTPError(http.StatusUnauthorized, "missing refresh token")
	}

	pair, err := h.Svc.Refresh(ctx, raw)
	if err != nil {
		clearAuthCookies(c)
		return fail(l, "refresh_failed", err, "refresh failed")
	}

	setAuthCookies(c, pair)
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Token refreshed",
		"token":   pair.AccessToken,
	})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	err := h.Svc.Logout(ctx, refreshToken(c))
	clearAuthCookies(c)
	if err != nil {
		l.Error("logout_failed", "status", 500, "reason", "cannot revoke refresh token", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot revoke refresh token")
	}

	l.Info("logout_success")
	return c.JSON(http.StatusOK, echo.Map{"message": "Logged out"})
}

func (h *AuthHTTP) CountUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.count_users")

	n, err := h.Svc.CountUsers(ctx)
	if err != nil {
		return fail(l, "count_users_failed", err, "cannot count users")
	}
	return c.JSON(http.StatusOK, echo.Map{"count": n})
}
