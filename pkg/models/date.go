package models

import "time"

// DateFormat is the wire format for all date fields.
const DateFormat = "2006-01-02"

// DateOf truncates t to a calendar date at UTC midnight. All loan and
// reservation dates are stored in this form so that comparisons are
// day-granular.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar date at UTC midnight.
func Today() time.Time {
	return DateOf(time.Now().UTC())
}

// ParseDate parses a YYYY-MM-DD string into a UTC midnight time.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateFormat, s, time.UTC)
}
