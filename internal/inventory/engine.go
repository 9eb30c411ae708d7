package inventory

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/moviehouse/seat-inventory/internal/model"
)

// SessionInfo is the slice of session state the reservation engine
// needs: when the showing starts and how many seats the hall holds.
type SessionInfo struct {
	ID        uint64
	WindowID  uint64
	Date      time.Time     // date-only, UTC midnight
	TimeStart time.Duration // offset from midnight
	Capacity  uint32
}

// StartsAt combines the session date with the window's start time.
func (s SessionInfo) StartsAt() time.Time {
	return s.Date.Add(s.TimeStart)
}

// ErrSeatRace is returned by SeatStore.ReserveSeats when a concurrent
// writer sold one of the requested seats between the engine's free
// check and the commit.  The store must have rolled the whole batch
// back before returning it.  The engine translates it into a
// *ReservationError with the losing seats re-derived from a fresh read.
var ErrSeatRace = errors.New("seat sold by a concurrent order")

// ErrSessionNotFound is returned by SeatStore.Session for unknown ids.
var ErrSessionNotFound = errors.New("session not found")

// SeatStore is the persistence contract the engine reserves against.
// FreeSeats is the seat ledger: a seat is free exactly when no order
// references it, recomputed at read time rather than stored as a flag.
// ReserveSeats must be atomic and serializable per seat: either every
// requested seat becomes sold or none does, and two concurrent calls
// for the same seat must not both succeed.
type SeatStore interface {
	Session(ctx context.Context, id uint64) (*SessionInfo, error)
	FreeSeats(ctx context.Context, sessionID uint64) ([]uint32, error)
	ReserveSeats(ctx context.Context, sessionID, customerID uint64, numbers []uint32) ([]model.Order, error)
}

// Engine orchestrates seat reservations: it validates the request
// against the current ledger state for friendly errors, then delegates
// the serializable check-and-insert to the store.  No partial
// reservation is ever committed.
type Engine struct {
	store SeatStore
	now   func() time.Time
}

// NewEngine builds an Engine over the given store.
func NewEngine(store SeatStore) *Engine {
	return &Engine{store: store, now: time.Now}
}

// Reserve sells the requested seat numbers on a session to a customer.
// Validation order, failing fast:
//
//  1. the session must not have started    -> *SessionExpiredError
//  2. no duplicate seat numbers            -> *DuplicateSeatError
//  3. every number within [1, capacity]    -> *SeatOutOfRangeError
//  4. every number currently free          -> *SeatAlreadySoldError
//
// then one atomic commit.  A losing concurrent writer surfaces as a
// *ReservationError carrying the losing seats and a fresh free-seat
// list; the batch is rolled back in full.  The caller may retry once
// after re-reading free seats, but the engine never retries itself.
func (e *Engine) Reserve(ctx context.Context, customerID, sessionID uint64, numbers []uint32) ([]model.Order, error) {
	if len(numbers) == 0 {
		return nil, &ValidationError{Field: "seats", Reason: "must name at least one seat"}
	}
	sess, err := e.store.Session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !e.now().UTC().Before(sess.StartsAt()) {
		return nil, &SessionExpiredError{SessionID: sessionID}
	}
	if dup := duplicates(numbers); len(dup) > 0 {
		return nil, &DuplicateSeatError{Seats: dup}
	}
	free, err := e.store.FreeSeats(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if out := outOfRange(numbers, sess.Capacity); len(out) > 0 {
		return nil, &SeatOutOfRangeError{Seats: out, Capacity: sess.Capacity, Free: free}
	}
	if sold := missingFrom(numbers, free); len(sold) > 0 {
		return nil, &SeatAlreadySoldError{Seats: sold, Free: free}
	}
	orders, err := e.store.ReserveSeats(ctx, sessionID, customerID, numbers)
	if err != nil {
		if errors.Is(err, ErrSeatRace) {
			// Another writer won between our free check and the commit.
			// Re-derive the losing seats from a fresh ledger read.
			fresh, rerr := e.store.FreeSeats(ctx, sessionID)
			if rerr != nil {
				return nil, rerr
			}
			return nil, &ReservationError{
				SessionID: sessionID,
				Losing:    missingFrom(numbers, fresh),
				Free:      fresh,
			}
		}
		return nil, err
	}
	return orders, nil
}

// FreeSeats exposes the ledger read for browse endpoints: the sorted
// seat numbers on the session with no order.
func (e *Engine) FreeSeats(ctx context.Context, sessionID uint64) ([]uint32, error) {
	free, err := e.store.FreeSeats(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sort.Slice(free, func(i, j int) bool { return free[i] < free[j] })
	return free, nil
}

// IsFree reports whether a single seat number is currently free.
func (e *Engine) IsFree(ctx context.Context, sessionID uint64, number uint32) (bool, error) {
	free, err := e.store.FreeSeats(ctx, sessionID)
	if err != nil {
		return false, err
	}
	for _, n := range free {
		if n == number {
			return true, nil
		}
	}
	return false, nil
}

// duplicates returns each seat number that appears more than once,
// once per offender, preserving request order.
func duplicates(numbers []uint32) []uint32 {
	seen := make(map[uint32]int, len(numbers))
	var dup []uint32
	for _, n := range numbers {
		seen[n]++
		if seen[n] == 2 {
			dup = append(dup, n)
		}
	}
	return dup
}

// outOfRange returns the requested numbers outside [1, capacity].
func outOfRange(numbers []uint32, capacity uint32) []uint32 {
	var out []uint32
	for _, n := range numbers {
		if n < 1 || n > capacity {
			out = append(out, n)
		}
	}
	return out
}

// missingFrom returns the requested numbers absent from the free set.
func missingFrom(numbers, free []uint32) []uint32 {
	set := make(map[uint32]struct{}, len(free))
	for _, n := range free {
		set[n] = struct{}{}
	}
	var missing []uint32
	for _, n := range numbers {
		if _, ok := set[n]; !ok {
			missing = append(missing, n)
		}
	}
	return missing
}
