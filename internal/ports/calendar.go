package ports

import "time"

// Calendar converts between instants and the practitioner's display
// calendar. Parse accepts "YYYY-MM-DD HH:MM" and "YYYY-MM-DD".
type Calendar interface {
	ToDisplay(t time.Time) string
	ToDisplayDate(t time.Time) string
	Parse(input string) (time.Time, error)
	Location() *time.Location
}
