package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/autoparts_shop/internal/domain"
	"github.com/Skotchmaster/autoparts_shop/internal/transport"
	middleware "github.com/Skotchmaster/autoparts_shop/pkg/middleware/auth"
)

var (
	validate = transport.NewValidator()

	errUnauthorized = errors.New("unauthorized")
)

// errorCodes gives clients a stable name for each domain failure; the first match wins.
var errorCodes = []struct {
	err  error
	code string
}{
	{domain.ErrInvalidQuantity, "invalid_quantity"},
	{domain.ErrInvalidDeliveryDate, "invalid_delivery_date"},
	{domain.ErrInvalidShippingMethod, "invalid_shipping_method"},
	{domain.ErrProfileMissing, "profile_missing"},
	{domain.ErrEmptyCart, "empty_cart"},
	{domain.ErrPartNotFound, "part_not_found"},
	{domain.ErrOrderNotFound, "order_not_found"},
	{domain.ErrInsufficientStock, "insufficient_stock"},
	{domain.ErrOrderCodeConflict, "order_code_conflict"},
	{domain.ErrInvalidTransition, "invalid_transition"},
}

func GetCustomer(c echo.Context) (domain.Customer, error) {
	s, ok := c.Get(middleware.ContextUserID).(string)
	if !ok || s == "" {
		return domain.Customer{}, errUnauthorized
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return domain.Customer{}, errUnauthorized
	}

	email, _ := c.Get(middleware.ContextEmail).(string)
	name, _ := c.Get(middleware.ContextUsername).(string)
	return domain.Customer{ID: id, Email: email, Name: name}, nil
}

func unauthorized(l *slog.Logger, event string, err error) error {
	l.Warn(event, "status", http.StatusUnauthorized, "reason", "no user in context", "error", err)
	return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
}

func badRequest(l *slog.Logger, event, reason string, err error) error {
	l.Warn(event, "status", http.StatusBadRequest, "reason", reason, "error", err)
	return echo.NewHTTPError(http.StatusBadRequest, transport.ErrorResponse{
		Message: reason,
		Code:    "invalid_request",
		Fields:  transport.FieldErrors(err),
	})
}

// respondError maps domain errors onto HTTP statuses and logs 4xx at warn, 5xx at error.
func respondError(l *slog.Logger, event string, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		l.Error(event, "status", status, "reason", "internal error", "error", err)
		return echo.NewHTTPError(status, transport.ErrorResponse{Message: "internal error"})
	}

	body := transport.ErrorResponse{Message: err.Error()}
	var pe *domain.ProfileIncompleteError
	if errors.As(err, &pe) {
		body.Code = "profile_incomplete"
		body.Fields = pe.Fields
	} else {
		for _, ec := range errorCodes {
			if errors.Is(err, ec.err) {
				body.Code = ec.code
				break
			}
		}
	}

	l.Warn(event, "status", status, "reason", body.Code, "error", err)
	return echo.NewHTTPError(status, body)
}
