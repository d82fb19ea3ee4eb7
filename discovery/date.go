package discovery

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// DateLayout is the layout of a target date on the command line and in
// storage.
const DateLayout = "2006-01-02"

// Date is a calendar date with no time component.
type Date = civil.Date

// ParseDate parses a date in YYYY-MM-DD format.
func ParseDate(s string) (Date, error) {
	d, err := civil.ParseDate(s)
	if err != nil {
		return Date{}, fmt.Errorf("date must be in YYYY-MM-DD format: %w", err)
	}
	return d, nil
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	return civil.DateOf(t)
}

// Today returns the current date in loc.
func Today(loc *time.Location) Date {
	if loc == nil {
		loc = time.Local
	}
	return civil.DateOf(time.Now().In(loc))
}
