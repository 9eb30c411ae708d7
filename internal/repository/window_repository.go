package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/moviehouse/seat-inventory/internal/inventory"
	"github.com/moviehouse/seat-inventory/internal/model"
)

// WindowRepo manages schedule windows together with the sessions and
// seats they own.  Conflict validation and materialization run inside
// one transaction per operation: the hall's windows are locked with
// SELECT ... FOR UPDATE before the pure validator runs, so two
// concurrent staff edits cannot both pass validation against a stale
// snapshot and create overlapping windows.
type WindowRepo struct {
	db *sql.DB
}

// NewWindowRepo constructs a WindowRepo with the given DB handle.
func NewWindowRepo(db *sql.DB) *WindowRepo {
	return &WindowRepo{db: db}
}

const windowCols = `id, hall_id, movie_id, date_start, date_end, time_start, time_end, price, created_at, updated_at`

// scanWindow reads one schedule_windows row.  TIME columns arrive as
// "HH:MM:SS" strings and are converted to midnight offsets.
func scanWindow(s interface{ Scan(...any) error }) (model.Window, error) {
	var w model.Window
	var ts, te string
	if err := s.Scan(&w.ID, &w.HallID, &w.MovieID, &w.DateStart, &w.DateEnd, &ts, &te, &w.Price, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return model.Window{}, err
	}
	var err error
	if w.TimeStart, err = inventory.ParseTimeOfDay(ts); err != nil {
		return model.Window{}, err
	}
	if w.TimeEnd, err = inventory.ParseTimeOfDay(te); err != nil {
		return model.Window{}, err
	}
	return w, nil
}

// GetByID retrieves a window, returning ErrWindowNotFound when absent.
func (r *WindowRepo) GetByID(ctx context.Context, id uint64) (*model.Window, error) {
	w, err := scanWindow(r.db.QueryRowContext(ctx, `SELECT `+windowCols+` FROM schedule_windows WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWindowNotFound
		}
		return nil, err
	}
	return &w, nil
}

// ListByHall returns all windows scheduled in a hall, newest first.
func (r *WindowRepo) ListByHall(ctx context.Context, hallID uint64) ([]model.Window, error) {
	const q = `SELECT ` + windowCols + ` FROM schedule_windows WHERE hall_id = ? ORDER BY date_start DESC`
	rows, err := r.db.QueryContext(ctx, q, hallID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Window
	for rows.Next() {
		w, err := scanWindow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// List returns every window, newest first.  Used by the staff overview.
func (r *WindowRepo) List(ctx context.Context) ([]model.Window, error) {
	const q = `SELECT ` + windowCols + ` FROM schedule_windows ORDER BY date_start DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Window
	for rows.Next() {
		w, err := scanWindow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// lockHallWindowsTx loads every window on the hall under row locks so
// the conflict scan and the subsequent insert form one serializable
// unit.
func lockHallWindowsTx(ctx context.Context, tx *sql.Tx, hallID uint64) ([]model.Window, error) {
	const q = `SELECT ` + windowCols + ` FROM schedule_windows WHERE hall_id = ? FOR UPDATE`
	rows, err := tx.QueryContext(ctx, q, hallID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Window
	for rows.Next() {
		w, err := scanWindow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// hallCapacityTx reads the hall layout under a shared lock so the seat
// grid cannot change while sessions are being materialized.
func hallCapacityTx(ctx context.Context, tx *sql.Tx, hallID uint64) (uint32, error) {
	var rows, cols uint32
	err := tx.QueryRowContext(ctx, `SELECT seat_rows, seat_cols FROM halls WHERE id = ? FOR SHARE`, hallID).
		Scan(&rows, &cols)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrHallNotFound
		}
		return 0, err
	}
	return rows * cols, nil
}

// countOrdersTx counts orders transitively attached to a window's
// sessions.  Any non-zero count blocks edits and deletes.
func countOrdersTx(ctx context.Context, tx *sql.Tx, windowID uint64) (int64, error) {
	const q = `SELECT COUNT(*)
	           FROM orders o
	           JOIN seats st ON st.id = o.seat_id
	           JOIN sessions se ON se.id = st.session_id
	           WHERE se.window_id = ?`
	var n int64
	err := tx.QueryRowContext(ctx, q, windowID).Scan(&n)
	return n, err
}

// materializeTx expands the window into sessions and seats.  Each plan
// becomes one sessions row followed by a bulk seats insert; everything
// participates in the caller's transaction.
func materializeTx(ctx context.Context, tx *sql.Tx, w model.Window, capacity uint32) error {
	for _, plan := range inventory.MaterializeSessions(w, capacity) {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO sessions (window_id, date) VALUES (?, ?)`,
			w.ID, plan.Date.Format("2006-01-02"))
		if err != nil {
			return err
		}
		sessionID, err := res.LastInsertId()
		if err != nil {
			return err
		}
		if len(plan.Seats) == 0 {
			continue
		}
		query := `INSERT INTO seats (session_id, number) VALUES `
		args := make([]interface{}, 0, len(plan.Seats)*2)
		for i, n := range plan.Seats {
			if i > 0 {
				query += ","
			}
			query += "(?, ?)"
			args = append(args, sessionID, n)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	return nil
}

// dropSessionsTx deletes a window's seats and sessions.  Callers must
// have verified that no order references them (countOrdersTx == 0).
func dropSessionsTx(ctx context.Context, tx *sql.Tx, windowID uint64) error {
	const delSeats = `DELETE st FROM seats st
	                  JOIN sessions se ON se.id = st.session_id
	                  WHERE se.window_id = ?`
	if _, err := tx.ExecContext(ctx, delSeats, windowID); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE window_id = ?`, windowID)
	return err
}

// Create validates the candidate against the hall's existing windows
// and, when accepted, persists it and materializes one session per
// calendar day with a full seat grid, all in one transaction.  today
// anchors the past-date rule.  Validation failures surface as the
// inventory error taxonomy; w is populated with generated fields on
// success.
func (r *WindowRepo) Create(ctx context.Context, w *model.Window, today time.Time) error {
	if err := inventory.ValidateWindowShape(*w); err != nil {
		return err
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	capacity, err := hallCapacityTx(ctx, tx, w.HallID)
	if err != nil {
		return err
	}
	existing, err := lockHallWindowsTx(ctx, tx, w.HallID)
	if err != nil {
		return err
	}
	if err := inventory.ValidateWindow(*w, existing, today, 0); err != nil {
		return err
	}

	const q = `INSERT INTO schedule_windows (hall_id, movie_id, date_start, date_end, time_start, time_end, price)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q,
		w.HallID, w.MovieID,
		w.DateStart.Format("2006-01-02"), w.DateEnd.Format("2006-01-02"),
		inventory.FormatTimeOfDay(w.TimeStart), inventory.FormatTimeOfDay(w.TimeEnd),
		w.Price)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	w.ID = uint64(id)

	if err := materializeTx(ctx, tx, *w, capacity); err != nil {
		return err
	}
	fresh, err := scanWindow(tx.QueryRowContext(ctx, `SELECT `+windowCols+` FROM schedule_windows WHERE id = ?`, w.ID))
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	*w = fresh
	return nil
}

// Update edits a window and regenerates its sessions.  The operation is
// explicitly two-phase inside one transaction: first the in-use guard
// (any attached order returns *inventory.InUseError and nothing
// changes), then validation against the hall's other windows, then an
// atomic drop-and-rematerialize of the session tree.  Regeneration is
// idempotent: the new session/seat counts equal what a fresh create
// would produce.
func (r *WindowRepo) Update(ctx context.Context, w *model.Window, today time.Time) error {
	if err := inventory.ValidateWindowShape(*w); err != nil {
		return err
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT 1 FROM schedule_windows WHERE id = ? FOR UPDATE`, w.ID).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrWindowNotFound
		}
		return err
	}
	n, err := countOrdersTx(ctx, tx, w.ID)
	if err != nil {
		return err
	}
	if n > 0 {
		return &inventory.InUseError{Resource: "window", ID: w.ID, Orders: n}
	}

	capacity, err := hallCapacityTx(ctx, tx, w.HallID)
	if err != nil {
		return err
	}
	existing, err := lockHallWindowsTx(ctx, tx, w.HallID)
	if err != nil {
		return err
	}
	if err := inventory.ValidateWindow(*w, existing, today, w.ID); err != nil {
		return err
	}

	if err := dropSessionsTx(ctx, tx, w.ID); err != nil {
		return err
	}
	const q = `UPDATE schedule_windows
	           SET hall_id = ?, movie_id = ?, date_start = ?, date_end = ?, time_start = ?, time_end = ?, price = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	if _, err := tx.ExecContext(ctx, q,
		w.HallID, w.MovieID,
		w.DateStart.Format("2006-01-02"), w.DateEnd.Format("2006-01-02"),
		inventory.FormatTimeOfDay(w.TimeStart), inventory.FormatTimeOfDay(w.TimeEnd),
		w.Price, w.ID); err != nil {
		return err
	}
	if err := materializeTx(ctx, tx, *w, capacity); err != nil {
		return err
	}
	fresh, err := scanWindow(tx.QueryRowContext(ctx, `SELECT `+windowCols+` FROM schedule_windows WHERE id = ?`, w.ID))
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	*w = fresh
	return nil
}

// Delete removes a window with its sessions and seats.  Any order
// attached anywhere under the window aborts the delete with
// *inventory.InUseError, leaving the whole tree untouched.
func (r *WindowRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT 1 FROM schedule_windows WHERE id = ? FOR UPDATE`, id).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrWindowNotFound
		}
		return err
	}
	n, err := countOrdersTx(ctx, tx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return &inventory.InUseError{Resource: "window", ID: id, Orders: n}
	}
	if err := dropSessionsTx(ctx, tx, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM schedule_windows WHERE id = ?`, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
