package domain

import "time"

// DateLayout is the ISO calendar date format used on the wire and as cache keys.
const DateLayout = "2006-01-02"

// DateOf truncates t to its calendar date in t's own location.
// The result is midnight UTC so that dates compare and subtract exactly.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(DateOf(b).Sub(DateOf(a)).Hours() / 24)
}
