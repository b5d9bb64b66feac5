package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/autoparts_shop/internal/models"
	"github.com/Skotchmaster/autoparts_shop/internal/service"
)

func (env *testEnv) finalized(t *testing.T) *models.Order {
	t.Helper()
	env.fillCart(t)
	order, err := env.Order.Svc.FinalizeOrder(context.Background(), env.Customer)
	require.NoError(t, err)
	return order
}

func (env *testEnv) webhook(contentType, body, signature string) (*httptest.ResponseRecorder, echo.Context) {
	req := httptest.NewRequest(http.MethodPost, "/payments/webhook", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, contentType)
	if signature != "" {
		req.Header.Set(SignatureHeader, signature)
	}
	rec := httptest.NewRecorder()
	return rec, env.E.NewContext(req, rec)
}

func TestWebhook_PaysAndRepeats(t *testing.T) {
	env := newTestEnv(t)
	order := env.finalized(t)
	body := `{"order_code":"` + order.Code + `","status":"success"}`

	rec, c := env.webhook(echo.MIMEApplicationJSON, body, "")
	require.NoError(t, env.Payment.Webhook(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMETextPlain))
	invoice := rec.Body.String()
	assert.Contains(t, invoice, "INVOICE")
	assert.Contains(t, invoice, order.Code)

	rec, c = env.webhook(echo.MIMEApplicationJSON, body, "")
	require.NoError(t, env.Payment.Webhook(c))
	assert.Equal(t, invoice, rec.Body.String())
}

func TestWebhook_FormBodyFails(t *testing.T) {
	env := newTestEnv(t)
	order := env.finalized(t)

	rec, c := env.webhook(echo.MIMEApplicationForm, "order_code="+order.Code+"&status=fail", "")
	require.NoError(t, env.Payment.Webhook(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "failed")

	_, c = env.webhook(echo.MIMEApplicationForm, "order_code="+order.Code+"&status="+service.PaymentStatusSuccess, "")
	status, body := httpError(t, env.Payment.Webhook(c))
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "invalid_transition", body.Code)
}

func TestWebhook_Rejects(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"not json", "{", http.StatusBadRequest},
		{"missing status", `{"order_code":"ABCDEFGHIJ"}`, http.StatusBadRequest},
		{"unknown order", `{"order_code":"ABCDEFGHIJ","status":"success"}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, c := env.webhook(echo.MIMEApplicationJSON, tt.body, "")
			status, _ := httpError(t, env.Payment.Webhook(c))
			assert.Equal(t, tt.wantStatus, status)
		})
	}
}

func TestWebhook_Signature(t *testing.T) {
	env := newTestEnv(t)
	secret := []byte("processor-secret")
	env.Payment.Secret = secret
	order := env.finalized(t)
	body := `{"order_code":"` + order.Code + `","status":"success"}`

	_, c := env.webhook(echo.MIMEApplicationJSON, body, "")
	status, _ := httpError(t, env.Payment.Webhook(c))
	assert.Equal(t, http.StatusUnauthorized, status)

	_, c = env.webhook(echo.MIMEApplicationJSON, body, Sign([]byte("wrong"), []byte(body)))
	status, _ = httpError(t, env.Payment.Webhook(c))
	assert.Equal(t, http.StatusUnauthorized, status)

	rec, c := env.webhook(echo.MIMEApplicationJSON, body, "sha256="+Sign(secret, []byte(body)))
	require.NoError(t, env.Payment.Webhook(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestValidSignature(t *testing.T) {
	secret, body := []byte("s"), []byte("payload")
	sig := Sign(secret, body)

	assert.True(t, ValidSignature(secret, body, sig))
	assert.True(t, ValidSignature(secret, body, " sha256="+sig))
	assert.False(t, ValidSignature(secret, []byte("other"), sig))
	assert.False(t, ValidSignature(secret, body, "zz"))
	assert.False(t, ValidSignature(secret, body, ""))
}
