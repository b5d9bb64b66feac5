package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/autoparts_shop/pkg/tokens"
)

var secret = []byte("test-jwt-secret")

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, c.Get(ContextUserID).(string)+"|"+c.Get(ContextEmail).(string))
}

func TestRequireAuth_Cookie(t *testing.T) {
	userID := uuid.NewString()
	token, err := tokens.NewAccessToken(tokens.Claims(userID, "buyer@example.com", "user", time.Minute), secret)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.AddCookie(&http.Cookie{Name: tokens.AccessCookieName, Value: token})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, NewSimpleAuth(secret).RequireAuth(okHandler)(c))
	assert.Equal(t, userID+"|buyer@example.com", rec.Body.String())
}

func TestRequireAuth_Bearer(t *testing.T) {
	userID := uuid.NewString()
	token, err := tokens.NewAccessToken(tokens.Claims(userID, "buyer@example.com", "user", time.Minute), secret)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, NewSimpleAuth(secret).RequireAuth(okHandler)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuth_Rejects(t *testing.T) {
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	rec := httptest.NewRecorder()
	err := NewSimpleAuth(secret).RequireAuth(okHandler)(e.NewContext(req, rec))
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Code)

	req = httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.AddCookie(&http.Cookie{Name: tokens.AccessCookieName, Value: "garbage"})
	rec = httptest.NewRecorder()
	err = NewSimpleAuth(secret).RequireAuth(okHandler)(e.NewContext(req, rec))
	he, ok = err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
	assert.Contains(t, rec.Header().Get("Set-Cookie"), tokens.AccessCookieName+"=;")
}
