package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/moviehouse/seat-inventory/internal/inventory"
	"github.com/moviehouse/seat-inventory/internal/model"
	"github.com/moviehouse/seat-inventory/internal/repository"
)

// StaffHandler bundles the repositories behind the staff surfaces:
// hall and movie catalogs plus schedule window management.
type StaffHandler struct {
	Halls    *repository.HallRepo
	Movies   *repository.MovieRepo
	Windows  *repository.WindowRepo
	Sessions *repository.SessionRepo
}

func NewStaffHandler(halls *repository.HallRepo, movies *repository.MovieRepo, windows *repository.WindowRepo, sessions *repository.SessionRepo) *StaffHandler {
	if halls == nil || movies == nil || windows == nil || sessions == nil {
		panic("nil repository passed to NewStaffHandler")
	}
	return &StaffHandler{Halls: halls, Movies: movies, Windows: windows, Sessions: sessions}
}

type hallReq struct {
	Name string  `json:"name"`
	Rows *uint32 `json:"rows"`
	Cols *uint32 `json:"cols"`
}

type hallResp struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	Rows     uint32 `json:"rows"`
	Cols     uint32 `json:"cols"`
	Capacity uint32 `json:"capacity"`
}

func toHallResp(h model.Hall) hallResp {
	return hallResp{ID: h.ID, Name: h.Name, Rows: h.Rows, Cols: h.Cols, Capacity: h.Capacity()}
}

// CreateHall handles POST /v1/staff/halls.
func (h *StaffHandler) CreateHall(c echo.Context) error {
	var req hallReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(req.Name)
	if req.Rows == nil || req.Cols == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, rows and cols are required"})
	}
	if err := inventory.ValidateHall(name, *req.Rows, *req.Cols); err != nil {
		return respondError(c, err)
	}
	hall := &model.Hall{Name: name, Rows: *req.Rows, Cols: *req.Cols}
	if err := h.Halls.Create(c.Request().Context(), hall); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, toHallResp(*hall))
}

// ListHalls handles GET /v1/staff/halls.
func (h *StaffHandler) ListHalls(c echo.Context) error {
	halls, err := h.Halls.List(c.Request().Context())
	if err != nil {
		return internalError(c, err)
	}
	out := make([]hallResp, len(halls))
	for i, hall := range halls {
		out[i] = toHallResp(hall)
	}
	return c.JSON(http.StatusOK, out)
}

// GetHall handles GET /v1/staff/halls/:id.
func (h *StaffHandler) GetHall(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	hall, err := h.Halls.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toHallResp(*hall))
}

// UpdateHall handles PUT /v1/staff/halls/:id.  Changing the grid is
// refused while any order references the hall; resizing would strand
// sold seats outside the new capacity.
func (h *StaffHandler) UpdateHall(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	cur, err := h.Halls.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	var req hallReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if s := strings.TrimSpace(req.Name); s != "" {
		cur.Name = s
	}
	if req.Rows != nil {
		cur.Rows = *req.Rows
	}
	if req.Cols != nil {
		cur.Cols = *req.Cols
	}
	if err := inventory.ValidateHall(cur.Name, cur.Rows, cur.Cols); err != nil {
		return respondError(c, err)
	}
	if err := h.Halls.Update(c.Request().Context(), cur); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toHallResp(*cur))
}
