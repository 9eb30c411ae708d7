// Package router registers the HTTP routes and attaches the auth,
// cache and rate-limit middleware to the right groups.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/moviehouse/seat-inventory/internal/handler"
	"github.com/moviehouse/seat-inventory/internal/middleware"
)

// RegisterRoutes registers routes that need no authentication or
// handler state. Currently that is only the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers registration and login under /v1/auth and the
// profile endpoint under the JWT-protected /v1 group.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}
