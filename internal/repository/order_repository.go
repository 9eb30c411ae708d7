package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/moviehouse/seat-inventory/internal/inventory"
	"github.com/moviehouse/seat-inventory/internal/model"
)

// OrderRepo persists orders and implements inventory.SeatStore, the
// contract the reservation engine reserves against.  The critical
// section (availability check plus order insert for the requested
// seats) runs in one transaction with row locks on the seat rows,
// backed by the UNIQUE index on orders.seat_id.  A losing concurrent
// writer gets inventory.ErrSeatRace, never a half-committed batch.
type OrderRepo struct {
	db *sql.DB
}

// NewOrderRepo constructs an OrderRepo with the given DB handle.
func NewOrderRepo(db *sql.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

// Session loads the reservation-relevant slice of a session: its date,
// the window's start time and the hall capacity.
func (r *OrderRepo) Session(ctx context.Context, id uint64) (*inventory.SessionInfo, error) {
	const q = `SELECT se.id, se.window_id, se.date, w.time_start, h.seat_rows * h.seat_cols
	           FROM sessions se
	           JOIN schedule_windows w ON w.id = se.window_id
	           JOIN halls h ON h.id = w.hall_id
	           WHERE se.id = ?`
	var info inventory.SessionInfo
	var ts string
	err := r.db.QueryRowContext(ctx, q, id).Scan(&info.ID, &info.WindowID, &info.Date, &ts, &info.Capacity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, inventory.ErrSessionNotFound
		}
		return nil, err
	}
	if info.TimeStart, err = inventory.ParseTimeOfDay(ts); err != nil {
		return nil, err
	}
	info.Date = inventory.DateOnly(info.Date)
	return &info, nil
}

// FreeSeats is the seat ledger read: seat numbers on the session with
// no order row.  Free is derived from order absence at read time, so
// the ledger can never disagree with the orders table.
func (r *OrderRepo) FreeSeats(ctx context.Context, sessionID uint64) ([]uint32, error) {
	const q = `SELECT st.number
	           FROM seats st
	           LEFT JOIN orders o ON o.seat_id = st.id
	           WHERE st.session_id = ? AND o.id IS NULL
	           ORDER BY st.number`
	rows, err := r.db.QueryContext(ctx, q, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	free := make([]uint32, 0)
	for rows.Next() {
		var n uint32
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		free = append(free, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return free, nil
}

// ReserveSeats sells the given seat numbers to the customer in one
// transaction: lock the seat rows, verify none has an order, insert
// one order per seat.  If any seat was grabbed concurrently the whole
// batch rolls back and inventory.ErrSeatRace is returned; the UNIQUE
// index on orders.seat_id catches writers that raced past the locked
// check on other connections.
func (r *OrderRepo) ReserveSeats(ctx context.Context, sessionID, customerID uint64, numbers []uint32) ([]model.Order, error) {
	if len(numbers) == 0 {
		return nil, nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(numbers)), ",")
	args := make([]interface{}, 0, len(numbers)+1)
	args = append(args, sessionID)
	for _, n := range numbers {
		args = append(args, n)
	}
	lockQ := `SELECT id, number FROM seats WHERE session_id = ? AND number IN (` + placeholders + `) FOR UPDATE`
	rows, err := tx.QueryContext(ctx, lockQ, args...)
	if err != nil {
		return nil, err
	}
	seatIDs := make(map[uint32]uint64, len(numbers))
	for rows.Next() {
		var id uint64
		var n uint32
		if err := rows.Scan(&id, &n); err != nil {
			rows.Close()
			return nil, err
		}
		seatIDs[n] = id
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()
	if len(seatIDs) != len(numbers) {
		// A seat row vanished under us (window regeneration race).
		return nil, inventory.ErrSeatRace
	}

	ids := make([]interface{}, 0, len(numbers))
	ph := strings.TrimSuffix(strings.Repeat("?,", len(seatIDs)), ",")
	for _, n := range numbers {
		ids = append(ids, seatIDs[n])
	}
	var sold int64
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders WHERE seat_id IN (`+ph+`)`, ids...).Scan(&sold); err != nil {
		return nil, err
	}
	if sold > 0 {
		return nil, inventory.ErrSeatRace
	}

	now := time.Now().UTC()
	orders := make([]model.Order, 0, len(numbers))
	for _, n := range numbers {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO orders (customer_id, seat_id, created_at) VALUES (?, ?, ?)`,
			customerID, seatIDs[n], now)
		if err != nil {
			if isDuplicateKey(err) {
				return nil, inventory.ErrSeatRace
			}
			return nil, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		orders = append(orders, model.Order{
			ID:         uint64(id),
			CustomerID: customerID,
			SeatID:     seatIDs[n],
			CreatedAt:  now,
		})
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return orders, nil
}

// OrderDetail is the customer-facing view of one sold seat with its
// session context, returned newest first by ListByCustomer.
type OrderDetail struct {
	ID         uint64 `json:"id"`
	SeatNumber uint32 `json:"seat_number"`
	SessionID  uint64 `json:"session_id"`
	Date       string `json:"date"`
	TimeStart  string `json:"time_start"`
	MovieTitle string `json:"movie_title"`
	HallName   string `json:"hall_name"`
	Price      uint32 `json:"price"`
	CreatedAt  string `json:"created_at"`
}

// ListByCustomer returns every order the customer placed, newest first.
func (r *OrderRepo) ListByCustomer(ctx context.Context, customerID uint64) ([]OrderDetail, error) {
	const q = `SELECT o.id, st.number, se.id, se.date, w.time_start, m.title, h.name, w.price, o.created_at
	           FROM orders o
	           JOIN seats st ON st.id = o.seat_id
	           JOIN sessions se ON se.id = st.session_id
	           JOIN schedule_windows w ON w.id = se.window_id
	           JOIN movies m ON m.id = w.movie_id
	           JOIN halls h ON h.id = w.hall_id
	           WHERE o.customer_id = ?
	           ORDER BY o.created_at DESC, o.id DESC`
	rows, err := r.db.QueryContext(ctx, q, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]OrderDetail, 0)
	for rows.Next() {
		var d OrderDetail
		var date, created time.Time
		if err := rows.Scan(&d.ID, &d.SeatNumber, &d.SessionID, &date, &d.TimeStart, &d.MovieTitle, &d.HallName, &d.Price, &created); err != nil {
			return nil, err
		}
		d.Date = date.Format("2006-01-02")
		d.CreatedAt = created.UTC().Format(time.RFC3339)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
