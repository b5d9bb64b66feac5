package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/autoparts_shop/internal/service"
	"github.com/Skotchmaster/autoparts_shop/internal/transport"
	"github.com/Skotchmaster/autoparts_shop/pkg/logging"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	customer, err := GetCustomer(c)
	if err != nil {
		return unauthorized(l, "get_cart_error", err)
	}

	view, err := h.Svc.GetCart(ctx, customer.ID)
	if err != nil {
		return respondError(l, "get_cart_error", err)
	}

	return c.JSON(http.StatusOK, transport.CartResponse{
		Items: transport.ItemViews(view.Items),
		Total: view.Total,
	})
}

func (h *CartHTTP) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_item")

	customer, err := GetCustomer(c)
	if err != nil {
		return unauthorized(l, "add_item_error", err)
	}

	var req transport.AddItemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "add_item_error", "invalid body", err)
	}
	if err := validate.Validate(&req); err != nil {
		return badRequest(l, "add_item_error", "part_id required", err)
	}

	qty := req.Qty()
	item, err := h.Svc.AddItem(ctx, customer.ID, req.PartID, qty)
	if err != nil {
		return respondError(l, "add_item_error", err)
	}

	l.Info("item_added", "part_id", req.PartID, "quantity", qty)
	return c.JSON(http.StatusCreated, map[string]any{
		"status": "added",
		"item":   transport.ItemView(*item),
	})
}

func (h *CartHTTP) RemoveCartItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_item")

	customer, err := GetCustomer(c)
	if err != nil {
		return unauthorized(l, "remove_item_error", err)
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return badRequest(l, "remove_item_error", "id is not a positive integer", err)
	}

	if err := h.Svc.RemoveCartItem(ctx, customer.ID, uint(id)); err != nil {
		return respondError(l, "remove_item_error", err)
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "removed"})
}

func (h *CartHTTP) RemovePart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_part")

	customer, err := GetCustomer(c)
	if err != nil {
		return unauthorized(l, "remove_part_error", err)
	}

	partID, err := strconv.ParseUint(c.Param("part_id"), 10, 64)
	if err != nil || partID == 0 {
		return badRequest(l, "remove_part_error", "part_id is not a positive integer", err)
	}

	if err := h.Svc.RemoveItem(ctx, customer.ID, uint(partID)); err != nil {
		return respondError(l, "remove_part_error", err)
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "removed"})
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")

	customer, err := GetCustomer(c)
	if err != nil {
		return unauthorized(l, "clear_cart_error", err)
	}

	if err := h.Svc.ClearCart(ctx, customer.ID); err != nil {
		return respondError(l, "clear_cart_error", err)
	}

	l.Info("cart_cleared")
	return c.JSON(http.StatusOK, map[string]string{"status": "cleared"})
}
