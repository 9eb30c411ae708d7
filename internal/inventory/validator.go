package inventory

import (
	"time"

	"github.com/moviehouse/seat-inventory/internal/model"
)

// ValidateWindow decides whether a candidate schedule window may be
// persisted.  existing must contain every other window on the same
// hall; excludeID skips the window being updated so it never conflicts
// with itself.  today is the caller's current date (time portion is
// ignored).  Rules run in order:
//
//  1. date_start must not be in the past        -> ErrPastDate
//  2. date_end must not precede date_start      -> ErrDateRange
//  3. time_end must be strictly after time_start -> ErrTimeRange
//  4. no existing window may overlap in both days and hours
//     -> *ScheduleConflictError naming the first clash
//
// The overlap predicate is inclusive on both ends of both ranges: a
// window ending 21:00 conflicts with one starting 21:00 on a shared
// day.  An off-by-one here silently double-books a hall, so the bounds
// are spelled out rather than folded into a generic interval check.
func ValidateWindow(cand model.Window, existing []model.Window, today time.Time, excludeID uint64) error {
	if cand.DateStart.Before(DateOnly(today)) {
		return ErrPastDate
	}
	if cand.DateEnd.Before(cand.DateStart) {
		return ErrDateRange
	}
	if cand.TimeEnd <= cand.TimeStart {
		return ErrTimeRange
	}
	for _, w := range existing {
		if excludeID != 0 && w.ID == excludeID {
			continue
		}
		if w.HallID != cand.HallID {
			continue
		}
		daysCross := withinDates(cand.DateStart, w.DateStart, w.DateEnd) ||
			withinDates(cand.DateEnd, w.DateStart, w.DateEnd)
		hoursCross := (w.TimeStart <= cand.TimeStart && cand.TimeStart <= w.TimeEnd) ||
			(w.TimeStart <= cand.TimeEnd && cand.TimeEnd <= w.TimeEnd)
		if daysCross && hoursCross {
			return &ScheduleConflictError{WindowID: w.ID}
		}
	}
	return nil
}

// withinDates reports lo <= d <= hi with inclusive bounds.
func withinDates(d, lo, hi time.Time) bool {
	return !d.Before(lo) && !d.After(hi)
}

// ValidateHall checks a hall layout before persistence.  Name must be
// non-empty (uniqueness is the database's job) and both grid dimensions
// must be at least one.
func ValidateHall(name string, rows, cols uint32) error {
	if name == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if rows < 1 {
		return &ValidationError{Field: "rows", Reason: "must be at least 1"}
	}
	if cols < 1 {
		return &ValidationError{Field: "cols", Reason: "must be at least 1"}
	}
	return nil
}

// ValidateWindowShape checks field-level constraints that do not need
// the existing-window set: referenced ids and a positive price.  It
// runs before ValidateWindow so malformed input never reaches the
// conflict scan.
func ValidateWindowShape(cand model.Window) error {
	if cand.HallID == 0 {
		return &ValidationError{Field: "hall_id", Reason: "is required"}
	}
	if cand.MovieID == 0 {
		return &ValidationError{Field: "movie_id", Reason: "is required"}
	}
	if cand.Price < 1 {
		return &ValidationError{Field: "price", Reason: "must be at least 1"}
	}
	return nil
}
