package model

import "time"

// Session is one concrete calendar-day instance of a schedule window.
// The (WindowID, Date) pair is unique.  Sessions are destroyed and
// regenerated when their window is edited, but only while no order
// references any of their seats.
type Session struct {
	ID       uint64
	WindowID uint64
	Date     time.Time // date-only, UTC midnight
}

// Seat is one numbered bookable unit within a session.  Number runs
// 1..hall capacity and is unique per session.  A seat has no stored
// availability flag: it is free exactly when no order references it.
type Seat struct {
	ID        uint64
	SessionID uint64
	Number    uint32
}
