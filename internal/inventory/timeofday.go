package inventory

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Time-of-day values are modeled as offsets from midnight so that the
// inclusive overlap comparisons in ValidateWindow reduce to plain
// integer comparisons.  MySQL TIME columns scan as "HH:MM:SS" strings;
// the repository layer converts with these helpers.

// ParseTimeOfDay parses "HH:MM" or "HH:MM:SS" into an offset from
// midnight.  The hour must be within 0..23 so a time of day always
// falls inside a single calendar date.
func ParseTimeOfDay(s string) (time.Duration, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid time of day %q", s)
		}
		nums[i] = n
	}
	if nums[0] > 23 || nums[1] > 59 || nums[2] > 59 {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	return time.Duration(nums[0])*time.Hour +
		time.Duration(nums[1])*time.Minute +
		time.Duration(nums[2])*time.Second, nil
}

// FormatTimeOfDay renders an offset from midnight as "HH:MM:SS", the
// format MySQL TIME columns expect.
func FormatTimeOfDay(d time.Duration) string {
	h := int(d / time.Hour)
	m := int(d/time.Minute) % 60
	s := int(d/time.Second) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// DateOnly truncates t to UTC midnight.  All window and session dates
// are stored and compared in this form.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
