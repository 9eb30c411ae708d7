package model

import "time"

// Hall is a physical screening hall with a fixed seat grid.  Rows and
// Cols define the layout; every session derived from the hall gets
// exactly Rows*Cols numbered seats.  The layout becomes effectively
// immutable once an order exists anywhere under the hall (see
// HallRepo.Update).
type Hall struct {
	ID        uint64    // halls.id
	Name      string    // halls.name, unique
	Rows      uint32    // halls.seat_rows, >= 1
	Cols      uint32    // halls.seat_cols, >= 1
	CreatedAt time.Time // halls.created_at
	UpdatedAt time.Time // halls.updated_at
}

// Capacity returns the number of bookable seats in the hall.
func (h Hall) Capacity() uint32 {
	return h.Rows * h.Cols
}
