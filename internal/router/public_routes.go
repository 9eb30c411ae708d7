package router

import (
	"github.com/labstack/echo/v4"

	"github.com/moviehouse/seat-inventory/internal/handler"
)

// RegisterPublic registers the unauthenticated browse endpoints.  The
// optional cache middleware wraps the whole group; pass nil to serve
// uncached.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1")
	if cache != nil {
		g.Use(cache)
	}
	// Advertised movies only; the full catalog lives on the staff surface.
	g.GET("/movies", p.ListMovies)
	g.GET("/halls", p.ListHalls)
	// Upcoming sessions with optional movie/hall/date filters and ordering.
	g.GET("/sessions", p.ListSessions)
	// Session details plus the derived seat map (free and sold numbers).
	g.GET("/sessions/:id", p.GetSession)
}
