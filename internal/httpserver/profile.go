package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/autoparts_shop/internal/models"
	"github.com/Skotchmaster/autoparts_shop/internal/service"
	"github.com/Skotchmaster/autoparts_shop/internal/transport"
	"github.com/Skotchmaster/autoparts_shop/pkg/logging"
)

type ProfileHTTP struct {
	Svc *service.ProfileService
}

func (h *ProfileHTTP) GetProfile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "profile.get")

	customer, err := GetCustomer(c)
	if err != nil {
		return unauthorized(l, "get_profile_error", err)
	}

	p, err := h.Svc.Get(ctx, customer)
	if err != nil {
		return respondError(l, "get_profile_error", err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProfileHTTP) SaveProfile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "profile.save")

	customer, err := GetCustomer(c)
	if err != nil {
		return unauthorized(l, "save_profile_error", err)
	}

	var req transport.ProfileRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "save_profile_error", "invalid body", err)
	}
	if err := validate.Validate(&req); err != nil {
		return badRequest(l, "save_profile_error", "profile fields invalid", err)
	}

	p, err := h.Svc.Save(ctx, customer, models.Person{
		FullName:   req.FullName,
		Phone:      req.Phone,
		PostalCode: req.PostalCode,
		Address:    req.Address,
	})
	if err != nil {
		return respondError(l, "save_profile_error", err)
	}

	l.Info("profile_saved")
	return c.JSON(http.StatusOK, p)
}
