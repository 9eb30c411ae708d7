package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/moviehouse/seat-inventory/internal/inventory"
	"github.com/moviehouse/seat-inventory/internal/model"
)

const dateLayout = "2006-01-02"

type windowReq struct {
	HallID    *uint64 `json:"hall_id"`
	MovieID   *uint64 `json:"movie_id"`
	DateStart *string `json:"date_start"` // "2006-01-02"
	DateEnd   *string `json:"date_end"`
	TimeStart *string `json:"time_start"` // "15:04" or "15:04:05"
	TimeEnd   *string `json:"time_end"`
	Price     *uint32 `json:"price"`
}

type windowResp struct {
	ID        uint64 `json:"id"`
	HallID    uint64 `json:"hall_id"`
	MovieID   uint64 `json:"movie_id"`
	DateStart string `json:"date_start"`
	DateEnd   string `json:"date_end"`
	TimeStart string `json:"time_start"`
	TimeEnd   string `json:"time_end"`
	Price     uint32 `json:"price"`
	Sessions  int    `json:"sessions"`
}

func toWindowResp(w model.Window) windowResp {
	return windowResp{
		ID:        w.ID,
		HallID:    w.HallID,
		MovieID:   w.MovieID,
		DateStart: w.DateStart.Format(dateLayout),
		DateEnd:   w.DateEnd.Format(dateLayout),
		TimeStart: inventory.FormatTimeOfDay(w.TimeStart),
		TimeEnd:   inventory.FormatTimeOfDay(w.TimeEnd),
		Price:     w.Price,
		Sessions:  w.Days(),
	}
}

// apply overlays the request's set fields onto w.  Parse failures come
// back as field-level validation errors.
func (req windowReq) apply(w *model.Window) error {
	if req.HallID != nil {
		w.HallID = *req.HallID
	}
	if req.MovieID != nil {
		w.MovieID = *req.MovieID
	}
	if req.DateStart != nil {
		d, err := time.ParseInLocation(dateLayout, *req.DateStart, time.UTC)
		if err != nil {
			return &inventory.ValidationError{Field: "date_start", Reason: "expected YYYY-MM-DD"}
		}
		w.DateStart = d
	}
	if req.DateEnd != nil {
		d, err := time.ParseInLocation(dateLayout, *req.DateEnd, time.UTC)
		if err != nil {
			return &inventory.ValidationError{Field: "date_end", Reason: "expected YYYY-MM-DD"}
		}
		w.DateEnd = d
	}
	if req.TimeStart != nil {
		t, err := inventory.ParseTimeOfDay(*req.TimeStart)
		if err != nil {
			return &inventory.ValidationError{Field: "time_start", Reason: "expected HH:MM or HH:MM:SS"}
		}
		w.TimeStart = t
	}
	if req.TimeEnd != nil {
		t, err := inventory.ParseTimeOfDay(*req.TimeEnd)
		if err != nil {
			return &inventory.ValidationError{Field: "time_end", Reason: "expected HH:MM or HH:MM:SS"}
		}
		w.TimeEnd = t
	}
	if req.Price != nil {
		w.Price = *req.Price
	}
	return nil
}

// CreateWindow handles POST /v1/staff/windows.  Validation, conflict
// checking and session materialization all run inside one transaction
// in the repository, so a conflicting window never leaves partial
// sessions behind.
func (h *StaffHandler) CreateWindow(c echo.Context) error {
	var req windowReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	var w model.Window
	if err := req.apply(&w); err != nil {
		return respondError(c, err)
	}
	today := inventory.DateOnly(time.Now().UTC())
	if err := h.Windows.Create(c.Request().Context(), &w, today); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, toWindowResp(w))
}

// ListWindows handles GET /v1/staff/windows with an optional hall_id filter.
func (h *StaffHandler) ListWindows(c echo.Context) error {
	var (
		windows []model.Window
		err     error
	)
	if hallParam := c.QueryParam("hall_id"); hallParam != "" {
		hallID, perr := parseUintParam(hallParam)
		if perr != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hall_id"})
		}
		windows, err = h.Windows.ListByHall(c.Request().Context(), hallID)
	} else {
		windows, err = h.Windows.List(c.Request().Context())
	}
	if err != nil {
		return internalError(c, err)
	}
	out := make([]windowResp, len(windows))
	for i, w := range windows {
		out[i] = toWindowResp(w)
	}
	return c.JSON(http.StatusOK, out)
}

// GetWindow handles GET /v1/staff/windows/:id and includes the sessions
// the window has materialized.
func (h *StaffHandler) GetWindow(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	w, err := h.Windows.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	sessions, err := h.Sessions.ListByWindow(c.Request().Context(), id)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"window":   toWindowResp(*w),
		"sessions": sessions,
	})
}

// UpdateWindow handles PUT /v1/staff/windows/:id.  The repository drops
// and regenerates the window's sessions; edits are refused once any of
// its seats has been sold.
func (h *StaffHandler) UpdateWindow(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	cur, err := h.Windows.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	var req windowReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := req.apply(cur); err != nil {
		return respondError(c, err)
	}
	today := inventory.DateOnly(time.Now().UTC())
	if err := h.Windows.Update(c.Request().Context(), cur, today); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toWindowResp(*cur))
}

// DeleteWindow handles DELETE /v1/staff/windows/:id.
func (h *StaffHandler) DeleteWindow(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Windows.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
