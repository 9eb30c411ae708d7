// Package handler contains the Echo HTTP handlers: staff catalog and
// scheduling surfaces, the customer reservation surface and the public
// browse endpoints.  Handlers bind input, call into repositories or the
// reservation engine, and translate domain errors to HTTP responses.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/moviehouse/seat-inventory/internal/inventory"
	"github.com/moviehouse/seat-inventory/internal/repository"
)

// getUserID extracts the authenticated user's ID stored by the JWT
// middleware under "user_id".
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses a numeric :id path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

func parseUintParam(s string) (uint64, error) {
	return strconv.ParseUint(s, 10, 64)
}

// domainError maps validation, conflict and not-found errors from the
// inventory and repository layers to JSON responses.  It returns false
// when the error is not a recognized domain error, in which case the
// caller should respond with a generic 500.
func domainError(c echo.Context, err error) (bool, error) {
	var (
		ve       *inventory.ValidationError
		conflict *inventory.ScheduleConflictError
		inUse    *inventory.InUseError
		expired  *inventory.SessionExpiredError
		dup      *inventory.DuplicateSeatError
		oor      *inventory.SeatOutOfRangeError
		sold     *inventory.SeatAlreadySoldError
		race     *inventory.ReservationError
	)
	switch {
	case errors.As(err, &ve):
		return true, c.JSON(http.StatusBadRequest, echo.Map{"error": ve.Error(), "field": ve.Field})
	case errors.Is(err, inventory.ErrPastDate),
		errors.Is(err, inventory.ErrDateRange),
		errors.Is(err, inventory.ErrTimeRange):
		return true, c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.As(err, &conflict):
		return true, c.JSON(http.StatusConflict, echo.Map{
			"error":     conflict.Error(),
			"window_id": conflict.WindowID,
		})
	case errors.As(err, &inUse):
		return true, c.JSON(http.StatusConflict, echo.Map{
			"error":  inUse.Error(),
			"orders": inUse.Orders,
		})
	case errors.As(err, &expired):
		return true, c.JSON(http.StatusGone, echo.Map{"error": expired.Error()})
	case errors.As(err, &dup):
		return true, c.JSON(http.StatusBadRequest, echo.Map{"error": dup.Error(), "seats": dup.Seats})
	case errors.As(err, &oor):
		return true, c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"error":      oor.Error(),
			"seats":      oor.Seats,
			"capacity":   oor.Capacity,
			"free_seats": oor.Free,
		})
	case errors.As(err, &sold):
		return true, c.JSON(http.StatusConflict, echo.Map{
			"error":      sold.Error(),
			"seats":      sold.Seats,
			"free_seats": sold.Free,
		})
	case errors.As(err, &race):
		return true, c.JSON(http.StatusConflict, echo.Map{
			"error":      race.Error(),
			"seats":      race.Losing,
			"free_seats": race.Free,
		})
	case errors.Is(err, inventory.ErrSessionNotFound),
		errors.Is(err, repository.ErrHallNotFound),
		errors.Is(err, repository.ErrMovieNotFound),
		errors.Is(err, repository.ErrWindowNotFound),
		errors.Is(err, repository.ErrUserNotFound):
		return true, c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrNameTaken):
		return true, c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	return false, nil
}

// internalError logs the unexpected error and responds with a generic 500.
func internalError(c echo.Context, err error) error {
	c.Logger().Errorf("internal error: %v", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// respondError translates err, falling back to a generic 500.
func respondError(c echo.Context, err error) error {
	if ok, resp := domainError(c, err); ok {
		return resp
	}
	return internalError(c, err)
}
