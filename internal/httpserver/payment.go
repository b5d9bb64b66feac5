package httpserver

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/autoparts_shop/internal/service"
	"github.com/Skotchmaster/autoparts_shop/internal/transport"
	"github.com/Skotchmaster/autoparts_shop/pkg/logging"
)

const (
	SignatureHeader = "X-Signature"

	maxWebhookBody = 64 << 10
)

// PaymentHTTP serves the processor callback. It runs outside the session and CSRF
// middleware; when Secret is set every request must be signed with it.
type PaymentHTTP struct {
	Svc    *service.PaymentService
	Secret []byte
}

func (h *PaymentHTTP) Webhook(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.webhook")

	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody))
	if err != nil {
		return badRequest(l, "webhook_error", "cannot read body", err)
	}

	if len(h.Secret) > 0 && !ValidSignature(h.Secret, body, c.Request().Header.Get(SignatureHeader)) {
		l.Warn("webhook_error", "status", http.StatusUnauthorized, "reason", "bad signature")
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid signature")
	}

	req, err := decodeWebhook(c.Request().Header.Get(echo.HeaderContentType), body)
	if err != nil {
		return badRequest(l, "webhook_error", "invalid body", err)
	}
	if err := validate.Validate(&req); err != nil {
		return badRequest(l, "webhook_error", "order_code and status required", err)
	}

	res, err := h.Svc.HandleCallback(ctx, req.OrderCode, req.Status)
	if err != nil {
		return respondError(l, "webhook_error", err)
	}

	l.Info("webhook_handled", "order_code", res.OrderCode, "status", res.Status, "replayed", res.Replayed)
	return c.String(http.StatusOK, res.Response)
}

// processors post either JSON or a classic form
func decodeWebhook(contentType string, body []byte) (transport.WebhookRequest, error) {
	var req transport.WebhookRequest
	if strings.HasPrefix(contentType, echo.MIMEApplicationForm) {
		vals, err := url.ParseQuery(string(body))
		if err != nil {
			return req, err
		}
		req.OrderCode = vals.Get("order_code")
		req.Status = vals.Get("status")
		return req, nil
	}
	err := json.Unmarshal(body, &req)
	return req, err
}

func Sign(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func ValidSignature(secret, body []byte, sig string) bool {
	got, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(sig), "sha256="))
	if err != nil || len(got) == 0 {
		return false
	}
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return hmac.Equal(got, mac.Sum(nil))
}
