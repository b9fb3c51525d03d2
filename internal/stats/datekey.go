// Package stats derives calendar statistics from date-keyed records.
//
// Every function takes the reference day explicitly and never reads the
// wall clock. Dates are calendar days with no time-of-day component; a key
// that is not a valid YYYY-MM-DD date is ignored by every aggregate.
package stats

import "time"

// KeyLayout is the layout of completion and session date keys.
const KeyLayout = "2006-01-02"

// ParseKey parses a YYYY-MM-DD key into a UTC midnight time.
func ParseKey(s string) (time.Time, bool) {
	t, err := time.ParseInLocation(KeyLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Key formats the calendar day of t (in t's own location) as YYYY-MM-DD.
func Key(t time.Time) string {
	return Day(t).Format(KeyLayout)
}

// Day truncates t to its calendar day, expressed as UTC midnight so that
// day arithmetic never crosses a DST boundary.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MonthStart returns the first day of t's month.
func MonthStart(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

// DaysInMonth returns the number of days in t's month.
func DaysInMonth(t time.Time) int {
	return MonthStart(t).AddDate(0, 1, -1).Day()
}

func sameMonth(a, b time.Time) bool {
	ay, am, _ := a.Date()
	by, bm, _ := b.Date()
	return ay == by && am == bm
}
