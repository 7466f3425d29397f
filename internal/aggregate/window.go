package aggregate

import "time"

// MonthWindow returns the closed interval [first instant, last instant] of the
// zero-based month of year in loc. A nil loc means UTC.
func MonthWindow(month, year int, loc *time.Location) (start, end time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	start = time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, loc)
	end = start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}

func within(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}
