// Package repository contains the MySQL data access layer.  Repositories
// are thin structs over *sql.DB with context-first methods; operations
// that must span tables atomically (window materialization, seat
// reservation) run inside a single transaction owned by the repository.
// Sentinel values below let handlers distinguish failure scenarios
// without string matching.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrHallNotFound is returned when a hall lookup yields no rows.
var ErrHallNotFound = errors.New("hall not found")

// ErrMovieNotFound is returned when a movie lookup yields no rows.
var ErrMovieNotFound = errors.New("movie not found")

// ErrWindowNotFound is returned when a schedule window lookup yields no rows.
var ErrWindowNotFound = errors.New("schedule window not found")

// ErrUserNotFound is returned when a user lookup yields no rows.
var ErrUserNotFound = errors.New("user not found")

// ErrNameTaken signals a UNIQUE violation on a natural key (hall name,
// movie title, user email).  Handlers translate it into a field-level
// validation failure.
var ErrNameTaken = errors.New("name already taken")

// isDuplicateKey reports whether err is a MySQL duplicate-entry error
// (code 1062), the storage-layer signal behind both natural-key
// uniqueness and the orders.seat_id reservation backstop.
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
