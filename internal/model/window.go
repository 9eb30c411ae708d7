package model

import "time"

// Window (schedule window) defines a recurring daily showing of a movie
// in a hall: one session per calendar day in [DateStart, DateEnd], each
// running TimeStart..TimeEnd at the given price.
//
// DateStart and DateEnd are date-only values (UTC midnight).  TimeStart
// and TimeEnd are offsets from midnight; TimeEnd must be strictly after
// TimeStart.  No two windows on the same hall may overlap in both their
// date ranges and their time ranges (inclusive bounds on both; see
// inventory.ValidateWindow).
type Window struct {
	ID        uint64
	HallID    uint64
	MovieID   uint64
	DateStart time.Time     // schedule_windows.date_start (DATE)
	DateEnd   time.Time     // schedule_windows.date_end (DATE)
	TimeStart time.Duration // schedule_windows.time_start (TIME, offset from midnight)
	TimeEnd   time.Duration // schedule_windows.time_end (TIME)
	Price     uint32        // > 0
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Days returns the number of calendar days covered by the window,
// counting both endpoints.  A window with DateStart == DateEnd covers
// one day.
func (w Window) Days() int {
	return int(w.DateEnd.Sub(w.DateStart).Hours()/24) + 1
}
