package model

import "time"

// Movie is the subject a schedule window shows.  Advertised movies are
// surfaced on the public index listing.  Once any order references the
// movie (through a window's sessions), edits are rejected so tickets
// never point at rewritten content.
type Movie struct {
	ID          uint64
	Title       string // unique
	Description string
	Advertised  bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
