package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/resale_market/pkg/tokens"
)

const (
	CtxUserID = "user_id"
	CtxRole   = "role"
)

// Refresher rotates a refresh token into a new token pair.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*tokens.Pair, error)
}

type AutoRefreshMiddleware struct {
	JWTSecret []byte
	Refresher Refresher
}

func NewAutoRefreshMiddleware(secret []byte, refresher Refresher) *AutoRefreshMiddleware {
	return &AutoRefreshMiddleware{
		JWTSecret: secret,
		Refresher: refresher,
	}
}

// RequireAuth accepts an access token from the Authorization bearer header or
// the accessToken cookie. An expired cookie token is rotated through the
// refresh cookie when a Refresher is configured.
func (m *AutoRefreshMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if raw, ok := bearerToken(c.Request()); ok {
			claims, err := tokens.AccessClaimsFromToken(raw, m.JWTSecret)
			if err != nil || claims.Subject == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}
			setUserContext(c, claims)
			return next(c)
		}

		accessCookie, err := c.Cookie(AccessCookie)
		if err != nil || accessCookie.Value == "" {
			return m.tryRefresh(c, next)
		}

		claims, err := tokens.AccessClaimsFromToken(accessCookie.Value, m.JWTSecret)
		if err == nil && claims.Subject != "" {
			setUserContext(c, claims)
			return next(c)
		}

		if !errors.Is(err, jwt.ErrTokenExpired) {
			clearAuthCookies(c)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
		}
		return m.tryRefresh(c, next)
	}
}

func (m *AutoRefreshMiddleware) tryRefresh(c echo.Context, next echo.HandlerFunc) error {
	refreshCookie, err := c.Cookie(RefreshCookie)
	if err != nil || refreshCookie.Value == "" || m.Refresher == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
	}

	pair, err := m.Refresher.Refresh(c.Request().Context(), refreshCookie.Value)
	if err != nil {
		clearAuthCookies(c)
		return echo.NewHTTPError(http.StatusUnauthorized, "refresh failed")
	}

	c.SetCookie(CreateCookie(AccessCookie, pair.AccessToken, "/", pair.AccessExp))
	c.SetCookie(CreateCookie(RefreshCookie, pair.RefreshToken, "/", pair.RefreshExp))

	claims, err := tokens.AccessClaimsFromToken(pair.AccessToken, m.JWTSecret)
	if err != nil {
		clearAuthCookies(c)
		return echo.NewHTTPError(http.StatusUnauthorized, "new access token invalid")
	}

	setUserContext(c, claims)
	return next(c)
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get(echo.HeaderAuthorization)
	if h == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}

func clearAuthCookies(c echo.Context) {
	c.SetCookie(DeleteCookie(AccessCookie, "/"))
	c.SetCookie(DeleteCookie(RefreshCookie, "/"))
}

func setUserContext(c echo.Context, claims *tokens.AccessClaims) {
	c.Set(CtxUserID, claims.Subject)
	c.Set(CtxRole, claims.Role)
}
