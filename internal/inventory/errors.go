// Package inventory implements the seat inventory and scheduling
// conflict core: window validation, session materialization plans, the
// derived seat ledger contract and the reservation engine.  Everything
// here is request-scoped and recoverable; only storage connectivity
// failures propagate as plain errors for the HTTP layer to translate
// into a generic service error.
package inventory

import (
	"errors"
	"fmt"
)

// Sentinel errors for payload-less validation failures.  Handlers
// translate these into 400 responses.
var (
	// ErrPastDate rejects a window whose date_start is before today.
	ErrPastDate = errors.New("cannot schedule sessions in the past")
	// ErrDateRange rejects a window whose date_end precedes date_start.
	ErrDateRange = errors.New("date_end cannot be before date_start")
	// ErrTimeRange rejects a window whose time_end is not after time_start.
	ErrTimeRange = errors.New("time_end must be after time_start")
)

// ValidationError describes malformed input (bad shape or range) on a
// single field, e.g. hall rows below one or a non-positive price.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ScheduleConflictError is returned when a candidate window overlaps an
// existing window on the same hall in both days and hours.  WindowID
// names the first conflicting window so staff can resolve the clash.
type ScheduleConflictError struct {
	WindowID uint64
}

func (e *ScheduleConflictError) Error() string {
	return fmt.Sprintf("schedule crosses at least with window #%d", e.WindowID)
}

// InUseError blocks edits or deletes that would orphan sold inventory.
// Orders reports how many orders currently reference the resource.
type InUseError struct {
	Resource string // "window", "hall" or "movie"
	ID       uint64
	Orders   int64
}

func (e *InUseError) Error() string {
	return fmt.Sprintf("cannot modify %s #%d: %d order(s) already reference it", e.Resource, e.ID, e.Orders)
}

// SessionExpiredError rejects reservations against a session whose
// showing has already started.
type SessionExpiredError struct {
	SessionID uint64
}

func (e *SessionExpiredError) Error() string {
	return fmt.Sprintf("session #%d has already started", e.SessionID)
}

// DuplicateSeatError rejects a reservation request naming the same seat
// number more than once.
type DuplicateSeatError struct {
	Seats []uint32
}

func (e *DuplicateSeatError) Error() string {
	return fmt.Sprintf("duplicate seat numbers in request: %v", e.Seats)
}

// SeatOutOfRangeError rejects seat numbers outside [1, capacity].  Free
// carries the current free-seat list so the caller can retry with
// corrected input immediately.
type SeatOutOfRangeError struct {
	Seats    []uint32
	Capacity uint32
	Free     []uint32
}

func (e *SeatOutOfRangeError) Error() string {
	return fmt.Sprintf("seats %v do not exist in this hall (capacity %d); free seats: %v", e.Seats, e.Capacity, e.Free)
}

// SeatAlreadySoldError rejects a reservation naming seats that already
// have an order.  Free carries the current free-seat list.
type SeatAlreadySoldError struct {
	Seats []uint32
	Free  []uint32
}

func (e *SeatAlreadySoldError) Error() string {
	return fmt.Sprintf("seats %v are not free anymore; free seats: %v", e.Seats, e.Free)
}

// ReservationError reports a reservation batch that lost a concurrent
// seat race at commit time.  The whole batch was rolled back; Losing
// lists the seats re-derived as sold from a fresh free-seat read.
type ReservationError struct {
	SessionID uint64
	Losing    []uint32
	Free      []uint32
}

func (e *ReservationError) Error() string {
	return fmt.Sprintf("reservation on session #%d lost seats %v to a concurrent order; free seats: %v", e.SessionID, e.Losing, e.Free)
}
