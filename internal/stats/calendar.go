package stats

import (
	"strings"
	"time"
)

// CalendarGrid returns every day of the calendar sheet for ref's month:
// from the weekStart-aligned day on or before the 1st through the last day
// of the week row holding the month's final day. The length is always a
// multiple of seven; weekStart outside Sunday..Saturday wraps around.
func CalendarGrid(ref time.Time, weekStart time.Weekday) []time.Time {
	first := MonthStart(ref)
	last := first.AddDate(0, 1, -1)

	ws := mod7(int(weekStart))
	lead := mod7(int(first.Weekday()) - ws)
	start := first.AddDate(0, 0, -lead)

	trail := mod7(ws + 6 - int(last.Weekday()))
	end := last.AddDate(0, 0, trail)

	out := make([]time.Time, 0, 42)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

// mod7 is x modulo seven, never negative.
func mod7(x int) int { return ((x % 7) + 7) % 7 }

// ParseWeekday maps names like "monday" or "sun" to a time.Weekday.
func ParseWeekday(s string) (time.Weekday, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || s == name[:3] {
			return d, true
		}
	}
	return time.Sunday, false
}
