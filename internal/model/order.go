package model

import "time"

// Order records one sold seat attributed to a customer.  There is one
// row per seat, not per checkout: reserving three seats creates three
// orders inside a single transaction.  The UNIQUE index on seat_id
// guarantees a seat is sold at most once even under concurrent writers.
type Order struct {
	ID         uint64
	CustomerID uint64
	SeatID     uint64
	CreatedAt  time.Time
}
