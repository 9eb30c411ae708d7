package inventory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moviehouse/seat-inventory/internal/model"
)

// fakeStore is an in-memory SeatStore.  ReserveSeats holds one mutex
// across the whole check-and-insert, giving the same per-seat
// serializability the MySQL implementation gets from row locks.
type fakeStore struct {
	mu         sync.Mutex
	sess       map[uint64]SessionInfo
	sold       map[uint64]map[uint32]uint64 // session -> seat number -> customer
	nextOrder  uint64
	preReserve func() // runs at the top of ReserveSeats, before the check
}

func newFakeStore(sessions ...SessionInfo) *fakeStore {
	s := &fakeStore{
		sess: make(map[uint64]SessionInfo),
		sold: make(map[uint64]map[uint32]uint64),
	}
	for _, info := range sessions {
		s.sess[info.ID] = info
		s.sold[info.ID] = make(map[uint32]uint64)
	}
	return s
}

func (s *fakeStore) Session(ctx context.Context, id uint64) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	info, ok := s.sess[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return &info, nil
}

func (s *fakeStore) FreeSeats(ctx context.Context, sessionID uint64) ([]uint32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	info, ok := s.sess[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	var free []uint32
	for n := uint32(1); n <= info.Capacity; n++ {
		if _, taken := s.sold[sessionID][n]; !taken {
			free = append(free, n)
		}
	}
	return free, nil
}

func (s *fakeStore) ReserveSeats(ctx context.Context, sessionID, customerID uint64, numbers []uint32) ([]model.Order, error) {
	if s.preReserve != nil {
		s.preReserve()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range numbers {
		if _, taken := s.sold[sessionID][n]; taken {
			return nil, ErrSeatRace
		}
	}
	orders := make([]model.Order, 0, len(numbers))
	for _, n := range numbers {
		s.sold[sessionID][n] = customerID
		s.nextOrder++
		orders = append(orders, model.Order{
			ID:         s.nextOrder,
			CustomerID: customerID,
			SeatID:     uint64(n),
			CreatedAt:  time.Now().UTC(),
		})
	}
	return orders, nil
}

func (s *fakeStore) ordersFor(sessionID uint64, number uint32) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.sold[sessionID][number]; taken {
		return 1
	}
	return 0
}

func testSession(capacity uint32) SessionInfo {
	return SessionInfo{
		ID:        1,
		WindowID:  1,
		Date:      time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		TimeStart: 20 * time.Hour,
		Capacity:  capacity,
	}
}

// engineAt pins the engine clock so expiry checks are deterministic.
func engineAt(store SeatStore, now time.Time) *Engine {
	e := NewEngine(store)
	e.now = func() time.Time { return now }
	return e
}

var beforeShow = time.Date(2026, 9, 10, 19, 0, 0, 0, time.UTC)

func TestReserveSingleSeat(t *testing.T) {
	store := newFakeStore(testSession(12))
	e := engineAt(store, beforeShow)

	orders, err := e.Reserve(context.Background(), 42, 1, []uint32{7})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, uint64(42), orders[0].CustomerID)

	free, err := e.FreeSeats(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, free, 11)
	assert.NotContains(t, free, uint32(7))

	ok, err := e.IsFree(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReserveBatchAllOrNothing(t *testing.T) {
	store := newFakeStore(testSession(12))
	e := engineAt(store, beforeShow)

	_, err := e.Reserve(context.Background(), 1, 1, []uint32{5})
	require.NoError(t, err)

	// 5 is sold, so the whole batch must be rejected and 4/6 stay free.
	_, err = e.Reserve(context.Background(), 2, 1, []uint32{4, 5, 6})
	var sold *SeatAlreadySoldError
	require.ErrorAs(t, err, &sold)
	assert.Equal(t, []uint32{5}, sold.Seats)
	assert.Contains(t, sold.Free, uint32(4))
	assert.Contains(t, sold.Free, uint32(6))

	free, err := e.FreeSeats(context.Background(), 1)
	require.NoError(t, err)
	assert.Contains(t, free, uint32(4))
	assert.Contains(t, free, uint32(6))
}

func TestReserveValidationOrder(t *testing.T) {
	store := newFakeStore(testSession(10))
	e := engineAt(store, beforeShow)
	ctx := context.Background()

	_, err := e.Reserve(ctx, 1, 1, nil)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "seats", ve.Field)

	_, err = e.Reserve(ctx, 1, 99, []uint32{1})
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = e.Reserve(ctx, 1, 1, []uint32{3, 3, 8, 8})
	var dup *DuplicateSeatError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, []uint32{3, 8}, dup.Seats)

	_, err = e.Reserve(ctx, 1, 1, []uint32{0, 5, 11})
	var oor *SeatOutOfRangeError
	require.ErrorAs(t, err, &oor)
	assert.Equal(t, []uint32{0, 11}, oor.Seats)
	assert.Equal(t, uint32(10), oor.Capacity)
	assert.Len(t, oor.Free, 10)
}

func TestReserveExpiredSession(t *testing.T) {
	store := newFakeStore(testSession(10))
	ctx := context.Background()

	// Exactly at showtime counts as started.
	e := engineAt(store, time.Date(2026, 9, 10, 20, 0, 0, 0, time.UTC))
	_, err := e.Reserve(ctx, 1, 1, []uint32{1})
	var expired *SessionExpiredError
	require.ErrorAs(t, err, &expired)
	assert.Equal(t, uint64(1), expired.SessionID)

	// One second earlier still sells.
	e = engineAt(store, time.Date(2026, 9, 10, 19, 59, 59, 0, time.UTC))
	_, err = e.Reserve(ctx, 1, 1, []uint32{1})
	assert.NoError(t, err)
}

func TestReserveSeatRaceSurfacesFreshState(t *testing.T) {
	store := newFakeStore(testSession(10))
	e := engineAt(store, beforeShow)
	ctx := context.Background()

	// A competing order lands between the engine's free check and the
	// store commit.
	store.preReserve = func() {
		store.preReserve = nil
		store.mu.Lock()
		store.sold[1][7] = 99
		store.mu.Unlock()
	}

	_, err := e.Reserve(ctx, 1, 1, []uint32{6, 7})
	var race *ReservationError
	require.ErrorAs(t, err, &race)
	assert.Equal(t, uint64(1), race.SessionID)
	assert.Equal(t, []uint32{7}, race.Losing)
	assert.Contains(t, race.Free, uint32(6))
	assert.NotContains(t, race.Free, uint32(7))

	// The losing batch was rolled back in full: 6 is still free.
	assert.Zero(t, store.ordersFor(1, 6))
}

func TestConcurrentReservationsOneWinner(t *testing.T) {
	store := newFakeStore(testSession(10))
	e := engineAt(store, beforeShow)

	const goroutines = 32
	var wg sync.WaitGroup
	errs := make([]error, goroutines)
	start := make(chan struct{})

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = e.Reserve(context.Background(), uint64(i+1), 1, []uint32{3})
		}(i)
	}
	close(start)
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		// Losers see either the pre-check rejection or the commit race.
		var sold *SeatAlreadySoldError
		var race *ReservationError
		if !errors.As(err, &sold) && !errors.As(err, &race) {
			t.Errorf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, wins, "exactly one reservation must win the seat")
	assert.Equal(t, 1, store.ordersFor(1, 3))
}
