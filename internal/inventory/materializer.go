package inventory

import (
	"time"

	"github.com/moviehouse/seat-inventory/internal/model"
)

// SessionPlan is the materialization blueprint for one calendar day of
// a schedule window: the session date plus the seat numbers to create.
// Plans are pure values; WindowRepo executes them inside the same
// transaction that persists the window.
type SessionPlan struct {
	Date  time.Time
	Seats []uint32
}

// MaterializeSessions expands a validated window into one plan per
// calendar day in [DateStart, DateEnd], each carrying seat numbers
// 1..capacity.  The expansion is deterministic, so regenerating a
// window (after an edit with no attached orders) yields exactly the
// same session and seat counts as the original run.
func MaterializeSessions(w model.Window, capacity uint32) []SessionPlan {
	numbers := make([]uint32, capacity)
	for i := range numbers {
		numbers[i] = uint32(i) + 1
	}
	plans := make([]SessionPlan, 0, w.Days())
	for day := 0; day < w.Days(); day++ {
		plans = append(plans, SessionPlan{
			Date:  w.DateStart.AddDate(0, 0, day),
			Seats: numbers,
		})
	}
	return plans
}
