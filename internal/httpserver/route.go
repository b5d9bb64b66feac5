package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	middleware "github.com/Skotchmaster/autoparts_shop/pkg/middleware/auth"
)

type Deps struct {
	CatalogHandler *CatalogHTTP
	CartHandler    *CartHTTP
	OrderHandler   *OrderHTTP
	PaymentHandler *PaymentHTTP
	ProfileHandler *ProfileHTTP

	JWTSecret []byte
	// CSRF guards the cookie authenticated groups when set.
	CSRF echo.MiddlewareFunc

	Ready          func(ctx context.Context) error
	MetricsHandler http.Handler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				return c.NoContent(http.StatusServiceUnavailable)
			}
		}
		return c.NoContent(http.StatusOK)
	})
	if d.MetricsHandler != nil {
		e.GET("/metrics", echo.WrapHandler(d.MetricsHandler))
	}

	authMW := middleware.NewSimpleAuth(d.JWTSecret)
	session := []echo.MiddlewareFunc{authMW.RequireAuth}
	if d.CSRF != nil {
		session = append(session, d.CSRF)
	}

	parts := e.Group("/parts")
	parts.GET("", d.CatalogHandler.ListParts)
	parts.GET("/:id", d.CatalogHandler.GetPart)

	cart := e.Group("/cart", session...)
	cart.GET("", d.CartHandler.GetCart)
	cart.DELETE("", d.CartHandler.ClearCart)
	cart.POST("/items", d.CartHandler.AddItem)
	cart.DELETE("/items/:id", d.CartHandler.RemoveCartItem)
	cart.DELETE("/parts/:part_id", d.CartHandler.RemovePart)

	orders := e.Group("/orders", session...)
	orders.GET("", d.OrderHandler.ListOrders)
	orders.POST("", d.OrderHandler.Checkout)
	orders.POST("/finalize", d.OrderHandler.Finalize)
	orders.GET("/:code", d.OrderHandler.GetOrder)

	profile := e.Group("/profile", session...)
	profile.GET("", d.ProfileHandler.GetProfile)
	profile.PUT("", d.ProfileHandler.SaveProfile)

	e.POST("/payments/webhook", d.PaymentHandler.Webhook)
}
