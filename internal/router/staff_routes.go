package router

import (
	"github.com/labstack/echo/v4"

	"github.com/moviehouse/seat-inventory/internal/handler"
	"github.com/moviehouse/seat-inventory/internal/middleware"
	"github.com/moviehouse/seat-inventory/internal/model"
)

// RegisterStaff registers the hall, movie and schedule window
// management endpoints.  Every route requires a valid token carrying
// the STAFF role.
func RegisterStaff(e *echo.Echo, s *handler.StaffHandler, jwtSecret string) {
	g := e.Group("/v1/staff")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleStaff))

	g.POST("/halls", s.CreateHall)
	g.GET("/halls", s.ListHalls)
	g.GET("/halls/:id", s.GetHall)
	g.PUT("/halls/:id", s.UpdateHall)

	g.POST("/movies", s.CreateMovie)
	g.GET("/movies", s.ListMovies)
	g.GET("/movies/:id", s.GetMovie)
	g.PUT("/movies/:id", s.UpdateMovie)

	g.POST("/windows", s.CreateWindow)
	g.GET("/windows", s.ListWindows)
	g.GET("/windows/:id", s.GetWindow)
	g.PUT("/windows/:id", s.UpdateWindow)
	g.DELETE("/windows/:id", s.DeleteWindow)
}
