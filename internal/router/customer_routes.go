package router

import (
	"github.com/labstack/echo/v4"

	"github.com/moviehouse/seat-inventory/internal/handler"
	"github.com/moviehouse/seat-inventory/internal/middleware"
	"github.com/moviehouse/seat-inventory/internal/model"
)

// RegisterCustomer registers the reservation endpoints.  Routes require
// the CUSTOMER role; the optional rate limiter wraps the order-placing
// route only, so browsing own orders is never throttled.
func RegisterCustomer(e *echo.Echo, h *handler.CustomerHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleCustomer))

	if limiter != nil {
		g.POST("/sessions/:id/orders", h.CreateOrder, limiter)
	} else {
		g.POST("/sessions/:id/orders", h.CreateOrder)
	}
	g.GET("/orders", h.MyOrders)
}
