package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/moviehouse/seat-inventory/internal/inventory"
	"github.com/moviehouse/seat-inventory/internal/model"
)

// MovieRepo manages persistence for movies.  Edits are blocked once an
// order exists for the movie anywhere under its schedule windows, so a
// sold ticket never points at rewritten content.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo constructs a MovieRepo with the given DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo {
	return &MovieRepo{db: db}
}

// Create inserts a new movie and populates generated fields on m.
// A duplicate title returns ErrNameTaken.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) error {
	const q = `INSERT INTO movies (title, description, advertised) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, m.Title, m.Description, m.Advertised)
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
	m.ID = uint64(id)
	const sel = `SELECT id, title, description, advertised, created_at, updated_at FROM movies WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, m.ID).
		Scan(&m.ID, &m.Title, &m.Description, &m.Advertised, &m.CreatedAt, &m.UpdatedAt)
}

// GetByID retrieves a movie, returning ErrMovieNotFound when absent.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*model.Movie, error) {
	const q = `SELECT id, title, description, advertised, created_at, updated_at FROM movies WHERE id = ?`
	var m model.Movie
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&m.ID, &m.Title, &m.Description, &m.Advertised, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return &m, nil
}

// List returns movies ordered by title.  When advertisedOnly is true it
// returns only advertised movies, the set shown on the public index.
func (r *MovieRepo) List(ctx context.Context, advertisedOnly bool) ([]model.Movie, error) {
	q := `SELECT id, title, description, advertised, created_at, updated_at FROM movies`
	if advertisedOnly {
		q += ` WHERE advertised = 1`
	}
	q += ` ORDER BY title`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Movie
	for rows.Next() {
		var m model.Movie
		if err := rows.Scan(&m.ID, &m.Title, &m.Description, &m.Advertised, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update changes a movie's fields inside a transaction, guarded by the
// same in-use rule as halls: any order referencing the movie blocks the
// edit with an *inventory.InUseError.
func (r *MovieRepo) Update(ctx context.Context, m *model.Movie) error {
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
	                WHERE w.movie_id = ?`
	var n int64
	if err := tx.QueryRowContext(ctx, countQ, m.ID).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return &inventory.InUseError{Resource: "movie", ID: m.ID, Orders: n}
	}

	const q = `UPDATE movies SET title = ?, description = ?, advertised = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := tx.ExecContext(ctx, q, m.Title, m.Description, m.Advertised, m.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrNameTaken
		}
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		var one int
		if err := tx.QueryRowContext(ctx, `SELECT 1 FROM movies WHERE id = ?`, m.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrMovieNotFound
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
