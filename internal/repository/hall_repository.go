package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/moviehouse/seat-inventory/internal/inventory"
	"github.com/moviehouse/seat-inventory/internal/model"
)

// HallRepo manages persistence for halls.  Beyond plain CRUD it
// enforces the in-use guard: a hall layout cannot change once any
// order exists under it, because regenerated seat grids would orphan
// sold seats.
type HallRepo struct {
	db *sql.DB
}

// NewHallRepo constructs a HallRepo with the given DB handle.
func NewHallRepo(db *sql.DB) *HallRepo {
	return &HallRepo{db: db}
}

// Create inserts a new hall and populates the generated ID and
// timestamp fields on h.  A duplicate name returns ErrNameTaken.
func (r *HallRepo) Create(ctx context.Context, h *model.Hall) error {
	const q = `INSERT INTO halls (name, seat_rows, seat_cols) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, h.Name, h.Rows, h.Cols)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrNameTaken
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	h.ID = uint64(id)
	const sel = `SELECT id, name, seat_rows, seat_cols, created_at, updated_at FROM halls WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, h.ID).
		Scan(&h.ID, &h.Name, &h.Rows, &h.Cols, &h.CreatedAt, &h.UpdatedAt)
}

// GetByID retrieves a hall, returning ErrHallNotFound when absent.
func (r *HallRepo) GetByID(ctx context.Context, id uint64) (*model.Hall, error) {
	const q = `SELECT id, name, seat_rows, seat_cols, created_at, updated_at FROM halls WHERE id = ?`
	var h model.Hall
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&h.ID, &h.Name, &h.Rows, &h.Cols, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHallNotFound
		}
		return nil, err
	}
	return &h, nil
}

// List returns all halls ordered by name.
func (r *HallRepo) List(ctx context.Context) ([]model.Hall, error) {
	const q = `SELECT id, name, seat_rows, seat_cols, created_at, updated_at FROM halls ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Hall
	for rows.Next() {
		var h model.Hall
		if err := rows.Scan(&h.ID, &h.Name, &h.Rows, &h.Cols, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update changes a hall's name and layout.  The update runs in a
// transaction: if any order references a seat under the hall, nothing
// changes and an *inventory.InUseError is returned, since a layout
// edit would invalidate sold seat numbers.
func (r *HallRepo) Update(ctx context.Context, h *model.Hall) error {
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

	const countQ = `SELECT COUNT(*)
	                FROM orders o
	                JOIN seats st ON st.id = o.seat_id
	                JOIN sessions se ON se.id = st.session_id
	                JOIN schedule_windows w ON w.id = se.window_id
	                WHERE w.hall_id = ?`
	var n int64
	if err := tx.QueryRowContext(ctx, countQ, h.ID).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return &inventory.InUseError{Resource: "hall", ID: h.ID, Orders: n}
	}

	const q = `UPDATE halls SET name = ?, seat_rows = ?, seat_cols = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := tx.ExecContext(ctx, q, h.Name, h.Rows, h.Cols, h.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrNameTaken
		}
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		// Either the hall is gone or the values are identical; tell them apart.
		var one int
		if err := tx.QueryRowContext(ctx, `SELECT 1 FROM halls WHERE id = ?`, h.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrHallNotFound
			}
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
