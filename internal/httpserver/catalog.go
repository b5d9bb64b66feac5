package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/autoparts_shop/internal/service"
	"github.com/Skotchmaster/autoparts_shop/internal/transport"
	"github.com/Skotchmaster/autoparts_shop/internal/util"
	"github.com/Skotchmaster/autoparts_shop/pkg/logging"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) GetPart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_part")

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return badRequest(l, "get_part_failed", "id is not a positive integer", err)
	}

	part, err := h.Svc.GetPart(ctx, uint(id))
	if err != nil {
		return respondError(l, "get_part_failed", err)
	}

	return c.JSON(http.StatusOK, part)
}

func (h *CatalogHTTP) ListParts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.list_parts")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("page_size"), util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize))

	res, err := h.Svc.ListParts(ctx, page, size)
	if err != nil {
		return respondError(l, "list_parts_failed", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": res.Items,
		"meta": pageMeta(res.Page, res.Size, res.Total, res.TotalPages(), res.HasPrev(), res.HasNext()),
	})
}

func pageMeta(page, size int, total, pages int64, prev, next bool) transport.PageMeta {
	return transport.PageMeta{Page: page, Size: size, Total: total, TotalPages: pages, HasPrev: prev, HasNext: next}
}
