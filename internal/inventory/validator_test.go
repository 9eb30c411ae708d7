package inventory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moviehouse/seat-inventory/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func window(id uint64, hallID uint64, ds, de time.Time, ts, te time.Duration) model.Window {
	return model.Window{
		ID:        id,
		HallID:    hallID,
		MovieID:   1,
		DateStart: ds,
		DateEnd:   de,
		TimeStart: ts,
		TimeEnd:   te,
		Price:     900,
	}
}

var today = day(2026, 9, 1)

func TestValidateWindowRanges(t *testing.T) {
	cand := window(0, 1, day(2026, 8, 31), day(2026, 9, 5), 18*time.Hour, 20*time.Hour)
	assert.ErrorIs(t, ValidateWindow(cand, nil, today, 0), ErrPastDate)

	cand = window(0, 1, day(2026, 9, 5), day(2026, 9, 4), 18*time.Hour, 20*time.Hour)
	assert.ErrorIs(t, ValidateWindow(cand, nil, today, 0), ErrDateRange)

	cand = window(0, 1, day(2026, 9, 5), day(2026, 9, 5), 20*time.Hour, 20*time.Hour)
	assert.ErrorIs(t, ValidateWindow(cand, nil, today, 0), ErrTimeRange)

	// Starting today is allowed; a single-day window is allowed.
	cand = window(0, 1, today, today, 18*time.Hour, 20*time.Hour)
	assert.NoError(t, ValidateWindow(cand, nil, today, 0))
}

func TestValidateWindowConflicts(t *testing.T) {
	existing := []model.Window{
		window(7, 1, day(2026, 9, 10), day(2026, 9, 14), 18*time.Hour, 21*time.Hour),
	}

	// Same days, same hours.
	cand := window(0, 1, day(2026, 9, 12), day(2026, 9, 13), 19*time.Hour, 20*time.Hour)
	var conflict *ScheduleConflictError
	require.ErrorAs(t, ValidateWindow(cand, existing, today, 0), &conflict)
	assert.Equal(t, uint64(7), conflict.WindowID)

	// Starts inside the existing range and runs past its end; the
	// shared days plus nested hours still conflict.
	cand = window(0, 1, day(2026, 9, 12), day(2026, 9, 20), 19*time.Hour, 20*time.Hour)
	require.ErrorAs(t, ValidateWindow(cand, existing, today, 0), &conflict)
	assert.Equal(t, uint64(7), conflict.WindowID)

	// Shared day but disjoint hours: no conflict.
	cand = window(0, 1, day(2026, 9, 12), day(2026, 9, 13), 10*time.Hour, 12*time.Hour)
	assert.NoError(t, ValidateWindow(cand, existing, today, 0))

	// Overlapping hours but disjoint days: no conflict.
	cand = window(0, 1, day(2026, 9, 20), day(2026, 9, 25), 19*time.Hour, 20*time.Hour)
	assert.NoError(t, ValidateWindow(cand, existing, today, 0))

	// Another hall entirely: no conflict.
	cand = window(0, 2, day(2026, 9, 12), day(2026, 9, 13), 19*time.Hour, 20*time.Hour)
	assert.NoError(t, ValidateWindow(cand, existing, today, 0))
}

func TestValidateWindowInclusiveBounds(t *testing.T) {
	existing := []model.Window{
		window(3, 1, day(2026, 9, 10), day(2026, 9, 14), 18*time.Hour, 21*time.Hour),
	}

	// Candidate starting the day the existing window ends, at the hour
	// the existing window ends: both bounds are inclusive, so this
	// still conflicts.
	cand := window(0, 1, day(2026, 9, 14), day(2026, 9, 20), 21*time.Hour, 23*time.Hour)
	var conflict *ScheduleConflictError
	assert.ErrorAs(t, ValidateWindow(cand, existing, today, 0), &conflict)

	// One minute later clears the time overlap.
	cand = window(0, 1, day(2026, 9, 14), day(2026, 9, 20), 21*time.Hour+time.Minute, 23*time.Hour)
	assert.NoError(t, ValidateWindow(cand, existing, today, 0))

	// One day later clears the date overlap even at identical hours.
	cand = window(0, 1, day(2026, 9, 15), day(2026, 9, 20), 18*time.Hour, 21*time.Hour)
	assert.NoError(t, ValidateWindow(cand, existing, today, 0))
}

func TestValidateWindowAsymmetricEnvelope(t *testing.T) {
	existing := []model.Window{
		window(5, 1, day(2026, 9, 10), day(2026, 9, 12), 18*time.Hour, 20*time.Hour),
	}

	// The candidate strictly contains the existing window: neither of
	// the candidate's endpoints falls inside the existing range, so the
	// day check does not fire.  The predicate tests the candidate's
	// endpoints against the existing range only.
	cand := window(0, 1, day(2026, 9, 8), day(2026, 9, 16), 18*time.Hour, 20*time.Hour)
	assert.NoError(t, ValidateWindow(cand, existing, today, 0))

	// Flip the roles and the overlap is caught.
	cand = window(0, 1, day(2026, 9, 11), day(2026, 9, 11), 18*time.Hour, 20*time.Hour)
	var conflict *ScheduleConflictError
	assert.ErrorAs(t, ValidateWindow(cand, existing, today, 0), &conflict)
}

func TestValidateWindowExcludesSelfOnUpdate(t *testing.T) {
	existing := []model.Window{
		window(9, 1, day(2026, 9, 10), day(2026, 9, 14), 18*time.Hour, 21*time.Hour),
	}

	// Re-validating window 9 against a set that includes itself must
	// not self-conflict.
	cand := window(9, 1, day(2026, 9, 10), day(2026, 9, 14), 18*time.Hour, 21*time.Hour)
	assert.NoError(t, ValidateWindow(cand, existing, today, 9))

	// A different window with the same slot still conflicts.
	cand = window(0, 1, day(2026, 9, 10), day(2026, 9, 14), 18*time.Hour, 21*time.Hour)
	var conflict *ScheduleConflictError
	assert.ErrorAs(t, ValidateWindow(cand, existing, today, 0), &conflict)
}

func TestValidateHall(t *testing.T) {
	assert.NoError(t, ValidateHall("Main", 5, 6))

	var ve *ValidationError
	require.ErrorAs(t, ValidateHall("", 5, 6), &ve)
	assert.Equal(t, "name", ve.Field)
	require.ErrorAs(t, ValidateHall("Main", 0, 6), &ve)
	assert.Equal(t, "rows", ve.Field)
	require.ErrorAs(t, ValidateHall("Main", 5, 0), &ve)
	assert.Equal(t, "cols", ve.Field)
}

func TestValidateWindowShape(t *testing.T) {
	good := window(0, 1, today, today, 18*time.Hour, 20*time.Hour)
	assert.NoError(t, ValidateWindowShape(good))

	var ve *ValidationError
	bad := good
	bad.HallID = 0
	require.ErrorAs(t, ValidateWindowShape(bad), &ve)
	assert.Equal(t, "hall_id", ve.Field)

	bad = good
	bad.MovieID = 0
	require.ErrorAs(t, ValidateWindowShape(bad), &ve)
	assert.Equal(t, "movie_id", ve.Field)

	bad = good
	bad.Price = 0
	require.ErrorAs(t, ValidateWindowShape(bad), &ve)
	assert.Equal(t, "price", ve.Field)
}
