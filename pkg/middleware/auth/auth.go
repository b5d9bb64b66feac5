package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/autoparts_shop/pkg/tokens"
)

const (
	ContextUserID   = "user_id"
	ContextEmail    = "email"
	ContextUsername = "username"
	ContextRole     = "role"
)

type SimpleAuth struct {
	JWTSecret []byte
}

func NewSimpleAuth(secret []byte) *SimpleAuth {
	return &SimpleAuth{JWTSecret: secret}
}

// RequireAuth accepts the access token from the accessToken cookie or an
// Authorization: Bearer header, cookie first.
func (m *SimpleAuth) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw, fromCookie := tokenFromRequest(c)
		if raw == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}

		claims, err := tokens.AccessClaimsFromToken(raw, m.JWTSecret)
		if err != nil || claims == nil {
			if fromCookie {
				c.SetCookie(tokens.DeleteCookie(tokens.AccessCookieName, "/"))
			}
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}

		c.Set(ContextUserID, claims.Subject)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextUsername, claims.Username)
		c.Set(ContextRole, claims.Role)

		return next(c)
	}
}

func tokenFromRequest(c echo.Context) (string, bool) {
	if ck, err := c.Cookie(tokens.AccessCookieName); err == nil && ck.Value != "" {
		return ck.Value, true
	}
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	if v, ok := strings.CutPrefix(h, "Bearer "); ok {
		return strings.TrimSpace(v), false
	}
	return "", false
}
