package inventory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaterializeSessions(t *testing.T) {
	// Five calendar days in a 5x6 hall: 5 plans of 30 seats each.
	w := window(1, 1, day(2026, 9, 10), day(2026, 9, 14), 18*time.Hour, 20*time.Hour)
	plans := MaterializeSessions(w, 30)

	require.Len(t, plans, 5)
	for i, p := range plans {
		assert.Equal(t, day(2026, 9, 10+i), p.Date)
		require.Len(t, p.Seats, 30)
		assert.Equal(t, uint32(1), p.Seats[0])
		assert.Equal(t, uint32(30), p.Seats[29])
	}
}

func TestMaterializeSingleDay(t *testing.T) {
	w := window(1, 1, day(2026, 9, 10), day(2026, 9, 10), 18*time.Hour, 20*time.Hour)
	plans := MaterializeSessions(w, 4)

	require.Len(t, plans, 1)
	assert.Equal(t, []uint32{1, 2, 3, 4}, plans[0].Seats)
}

func TestMaterializeDeterministic(t *testing.T) {
	// Regenerating after an edit must yield identical counts: same
	// dates, same seat numbers, run after run.
	w := window(1, 1, day(2026, 9, 10), day(2026, 9, 12), 18*time.Hour, 20*time.Hour)
	first := MaterializeSessions(w, 12)
	second := MaterializeSessions(w, 12)
	assert.Equal(t, first, second)
}
