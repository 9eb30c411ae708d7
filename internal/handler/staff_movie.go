package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/moviehouse/seat-inventory/internal/inventory"
	"github.com/moviehouse/seat-inventory/internal/model"
)

type movieReq struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Advertised  *bool   `json:"advertised"`
}

type movieResp struct {
	ID          uint64 `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Advertised  bool   `json:"advertised"`
}

func toMovieResp(m model.Movie) movieResp {
	return movieResp{ID: m.ID, Title: m.Title, Description: m.Description, Advertised: m.Advertised}
}

// CreateMovie handles POST /v1/staff/movies.
func (h *StaffHandler) CreateMovie(c echo.Context) error {
	var req movieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return respondError(c, &inventory.ValidationError{Field: "title", Reason: "must not be empty"})
	}
	m := &model.Movie{Title: title}
	if req.Description != nil {
		m.Description = strings.TrimSpace(*req.Description)
	}
	if req.Advertised != nil {
		m.Advertised = *req.Advertised
	}
	if err := h.Movies.Create(c.Request().Context(), m); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, toMovieResp(*m))
}

// ListMovies handles GET /v1/staff/movies.
func (h *StaffHandler) ListMovies(c echo.Context) error {
	movies, err := h.Movies.List(c.Request().Context(), false)
	if err != nil {
		return internalError(c, err)
	}
	out := make([]movieResp, len(movies))
	for i, m := range movies {
		out[i] = toMovieResp(m)
	}
	return c.JSON(http.StatusOK, out)
}

// GetMovie handles GET /v1/staff/movies/:id.
func (h *StaffHandler) GetMovie(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	m, err := h.Movies.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toMovieResp(*m))
}

// UpdateMovie handles PUT /v1/staff/movies/:id.
func (h *StaffHandler) UpdateMovie(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	cur, err := h.Movies.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	var req movieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if s := strings.TrimSpace(req.Title); s != "" {
		cur.Title = s
	}
	if req.Description != nil {
		cur.Description = strings.TrimSpace(*req.Description)
	}
	if req.Advertised != nil {
		cur.Advertised = *req.Advertised
	}
	if err := h.Movies.Update(c.Request().Context(), cur); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toMovieResp(*cur))
}
