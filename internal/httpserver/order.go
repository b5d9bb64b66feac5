package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/autoparts_shop/internal/models"
	"github.com/Skotchmaster/autoparts_shop/internal/service"
	"github.com/Skotchmaster/autoparts_shop/internal/transport"
	"github.com/Skotchmaster/autoparts_shop/internal/util"
	"github.com/Skotchmaster/autoparts_shop/pkg/logging"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.checkout")

	customer, err := GetCustomer(c)
	if err != nil {
		return unauthorized(l, "checkout_error", err)
	}

	var req transport.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "checkout_error", "invalid body", err)
	}

	order, err := h.Svc.Checkout(ctx, customer, service.CheckoutRequest{
		ShippingMethod: models.ShippingMethod(req.PostType),
		DeliveryDate:   req.DeliveryDate,
	})
	if err != nil {
		return respondError(l, "checkout_error", err)
	}

	l.Info("checkout_success", "order_code", order.Code, "total", order.TotalPrice)
	return c.JSON(http.StatusCreated, transport.OrderView(order))
}

func (h *OrderHTTP) Finalize(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.finalize")

	customer, err := GetCustomer(c)
	if err != nil {
		return unauthorized(l, "finalize_error", err)
	}

	order, err := h.Svc.FinalizeOrder(ctx, customer)
	if err != nil {
		return respondError(l, "finalize_error", err)
	}

	l.Info("finalize_success", "order_code", order.Code, "total", order.TotalPrice)
	return c.JSON(http.StatusCreated, transport.OrderView(order))
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get")

	customer, err := GetCustomer(c)
	if err != nil {
		return unauthorized(l, "get_order_error", err)
	}

	order, err := h.Svc.GetOrder(ctx, customer.ID, c.Param("code"))
	if err != nil {
		return respondError(l, "get_order_error", err)
	}

	return c.JSON(http.StatusOK, transport.OrderView(order))
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list")

	customer, err := GetCustomer(c)
	if err != nil {
		return unauthorized(l, "list_orders_error", err)
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("page_size"), util.DefaultPageSize)

	res, err := h.Svc.ListOrders(ctx, customer.ID, page, size)
	if err != nil {
		return respondError(l, "list_orders_error", err)
	}

	data := make([]transport.OrderResponse, 0, len(res.Items))
	for i := range res.Items {
		data = append(data, transport.OrderView(&res.Items[i]))
	}
	return c.JSON(http.StatusOK, map[string]any{
		"data": data,
		"meta": pageMeta(res.Page, res.Size, res.Total, res.TotalPages(), res.HasPrev(), res.HasNext()),
	})
}
