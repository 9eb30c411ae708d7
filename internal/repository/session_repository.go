package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/moviehouse/seat-inventory/internal/inventory"
)

// SessionRepo serves read models for sessions: the public browse list
// and the per-session detail used by the seat map endpoint.  Session
// rows themselves are written only by WindowRepo during
// materialization.
type SessionRepo struct {
	db *sql.DB
}

// NewSessionRepo constructs a SessionRepo with the given DB handle.
func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// SessionDetail joins a session with its window, movie and hall for
// display.  FreeSeats is populated separately from the seat ledger.
type SessionDetail struct {
	ID         uint64 `json:"id"`
	WindowID   uint64 `json:"window_id"`
	Date       string `json:"date"`       // "2006-01-02"
	TimeStart  string `json:"time_start"` // "15:04:05"
	TimeEnd    string `json:"time_end"`
	Price      uint32 `json:"price"`
	MovieID    uint64 `json:"movie_id"`
	MovieTitle string `json:"movie_title"`
	HallID     uint64 `json:"hall_id"`
	HallName   string `json:"hall_name"`
	HallRows   uint32 `json:"hall_rows"`
	HallCols   uint32 `json:"hall_cols"`
	Capacity   uint32 `json:"capacity"`
}

// SessionFilter narrows and orders the upcoming-session listing.  Zero
// values mean "no constraint".  OrderPrice and OrderTime accept "asc"
// or "desc"; price ordering wins when both are set.
type SessionFilter struct {
	MovieTitle string
	HallName   string
	DateFrom   time.Time
	DateTo     time.Time
	OrderPrice string
	OrderTime  string
}

const sessionDetailCols = `se.id, se.window_id, se.date, w.time_start, w.time_end, w.price,
	       m.id, m.title, h.id, h.name, h.seat_rows, h.seat_cols`

const sessionDetailFrom = ` FROM sessions se
	       JOIN schedule_windows w ON w.id = se.window_id
	       JOIN movies m ON m.id = w.movie_id
	       JOIN halls h ON h.id = w.hall_id`

func scanSessionDetail(s interface{ Scan(...any) error }) (SessionDetail, error) {
	var d SessionDetail
	var date time.Time
	var hallRows, hallCols uint32
	if err := s.Scan(&d.ID, &d.WindowID, &date, &d.TimeStart, &d.TimeEnd, &d.Price,
		&d.MovieID, &d.MovieTitle, &d.HallID, &d.HallName, &hallRows, &hallCols); err != nil {
		return SessionDetail{}, err
	}
	d.Date = date.Format("2006-01-02")
	d.HallRows = hallRows
	d.HallCols = hallCols
	d.Capacity = hallRows * hallCols
	return d, nil
}

// GetDetail loads one session with its schedule and hall context.  It
// returns inventory.ErrSessionNotFound for unknown ids so callers can
// render a 404 without importing database/sql.
func (r *SessionRepo) GetDetail(ctx context.Context, id uint64) (*SessionDetail, error) {
	q := `SELECT ` + sessionDetailCols + sessionDetailFrom + ` WHERE se.id = ?`
	d, err := scanSessionDetail(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, inventory.ErrSessionNotFound
		}
		return nil, err
	}
	return &d, nil
}

// ListByWindow returns a window's sessions ordered by date.  Staff use
// it to inspect what a window materialized into.
func (r *SessionRepo) ListByWindow(ctx context.Context, windowID uint64) ([]SessionDetail, error) {
	q := `SELECT ` + sessionDetailCols + sessionDetailFrom + ` WHERE se.window_id = ? ORDER BY se.date`
	rows, err := r.db.QueryContext(ctx, q, windowID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSessionDetails(rows)
}

// ListUpcoming returns sessions that have not started yet: any future
// date, or today when the showing's start time is still ahead of now.
// The filter narrows by movie title, hall name and date bounds and
// optionally orders by price or start time (default: date then time).
func (r *SessionRepo) ListUpcoming(ctx context.Context, now time.Time, f SessionFilter) ([]SessionDetail, error) {
	q := `SELECT ` + sessionDetailCols + sessionDetailFrom +
		` WHERE (se.date > ? OR (se.date = ? AND w.time_start > ?))`
	today := now.UTC().Format("2006-01-02")
	clock := now.UTC().Format("15:04:05")
	args := []interface{}{today, today, clock}

	if f.MovieTitle != "" {
		q += ` AND m.title = ?`
		args = append(args, f.MovieTitle)
	}
	if f.HallName != "" {
		q += ` AND h.name = ?`
		args = append(args, f.HallName)
	}
	if !f.DateFrom.IsZero() {
		q += ` AND se.date >= ?`
		args = append(args, f.DateFrom.Format("2006-01-02"))
	}
	if !f.DateTo.IsZero() {
		q += ` AND se.date <= ?`
		args = append(args, f.DateTo.Format("2006-01-02"))
	}

	switch {
	case f.OrderPrice == "asc":
		q += ` ORDER BY w.price, se.date`
	case f.OrderPrice == "desc":
		q += ` ORDER BY w.price DESC, se.date`
	case f.OrderTime == "asc":
		q += ` ORDER BY w.time_start, se.date`
	case f.OrderTime == "desc":
		q += ` ORDER BY w.time_start DESC, se.date`
	default:
		q += ` ORDER BY se.date, w.time_start`
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSessionDetails(rows)
}

func collectSessionDetails(rows *sql.Rows) ([]SessionDetail, error) {
	out := make([]SessionDetail, 0)
	for rows.Next() {
		d, err := scanSessionDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
