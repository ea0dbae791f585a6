package timetricks

import (
	"time"
)

const (
	dayFormat   = "20060102"
	clockFormat = "15:04"
)

func SameDay(t time.Time, t2 time.Time) bool {
	return t.Format(dayFormat) == t2.Format(dayFormat)
}

func TrimClock(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// HourCursor returns t in UTC with everything below the hour dropped. The tide
// API serves data from this point on.
func HourCursor(t time.Time) time.Time {
	return t.UTC().Truncate(time.Hour)
}

// Clock formats the wall clock of t as "15:04", either in UTC or in loc. A nil
// loc means time.Local.
func Clock(t time.Time, utc bool, loc *time.Location) string {
	if utc {
		return t.UTC().Format(clockFormat)
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(clockFormat)
}
