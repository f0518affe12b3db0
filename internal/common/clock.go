package common

import (
	"time"
	_ "time/tzdata"
)

// DateLayout is the compact date format used in prompts and report file names.
const DateLayout = "20060102"

// Clock returns the current time. Services take one so tests can pin "today".
type Clock func() time.Time

// SystemClock returns time.Now in the given location.
func SystemClock(loc *time.Location) Clock {
	return func() time.Time {
		return time.Now().In(loc)
	}
}

// FixedClock always returns t.
func FixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

// Today truncates the clock reading to midnight in its own location.
func (c Clock) Today() time.Time {
	now := c()
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

// FormatDate renders t as YYYYMMDD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
