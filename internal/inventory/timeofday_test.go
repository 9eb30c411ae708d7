package inventory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	d, err := ParseTimeOfDay("18:30")
	require.NoError(t, err)
	assert.Equal(t, 18*time.Hour+30*time.Minute, d)

	d, err = ParseTimeOfDay("09:05:30")
	require.NoError(t, err)
	assert.Equal(t, 9*time.Hour+5*time.Minute+30*time.Second, d)

	for _, bad := range []string{"", "18", "24:00", "12:60", "noon", "-1:00"} {
		_, err := ParseTimeOfDay(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestFormatTimeOfDay(t *testing.T) {
	assert.Equal(t, "18:30:00", FormatTimeOfDay(18*time.Hour+30*time.Minute))
	assert.Equal(t, "00:00:00", FormatTimeOfDay(0))
}

func TestDateOnly(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	in := time.Date(2026, 9, 10, 1, 30, 0, 0, loc) // 2026-09-09T22:30Z
	assert.Equal(t, time.Date(2026, 9, 9, 0, 0, 0, 0, time.UTC), DateOnly(in))
}
