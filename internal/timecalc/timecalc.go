package timecalc

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date format used everywhere: ISO 8601
// without a time zone.
const DateLayout = "2006-01-02"

// ParseDate parses a strict YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// Minutes converts an hours+minutes pair into total minutes.
func Minutes(hours, minutes int) int {
	return hours*60 + minutes
}

// FormatMinutes formats a minute total as a human-readable string like
// "4h 15m" or "45m".
func FormatMinutes(total int) string {
	h := total / 60
	m := total % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
