package stats

import (
	"time"

	"github.com/mithrel/zenith/pkg/api"
)

// DayBucket is the activity of one day of a month.
type DayBucket struct {
	Day     int `json:"day"`
	Count   int `json:"count"`
	Minutes int `json:"minutes,omitempty"`
}

func emptySeries(month time.Time) []DayBucket {
	n := DaysInMonth(month)
	out := make([]DayBucket, n)
	for i := range out {
		out[i].Day = i + 1
	}
	return out
}

// MonthlySeries counts the dates falling on each day of month. The result
// has one bucket per calendar day, zero-count days included.
func MonthlySeries(dates []string, month time.Time) []DayBucket {
	out := emptySeries(month)
	for _, k := range dates {
		d, ok := ParseKey(k)
		if !ok || !sameMonth(d, month) {
			continue
		}
		out[d.Day()-1].Count++
	}
	return out
}

// SessionSeries is MonthlySeries over focus sessions, also summing minutes.
func SessionSeries(sessions []api.Session, month time.Time) []DayBucket {
	out := emptySeries(month)
	for _, s := range sessions {
		d, ok := validSession(s)
		if !ok || !sameMonth(d, month) {
			continue
		}
		b := &out[d.Day()-1]
		b.Count++
		b.Minutes += s.DurationMinutes
	}
	return out
}

// CompletionSeries marks each day of month with 1 when the habit was done.
func CompletionSeries(c api.CompletionSet, month time.Time) []DayBucket {
	out := emptySeries(month)
	for d := range days(c) {
		if sameMonth(d, month) {
			out[d.Day()-1].Count = 1
		}
	}
	return out
}

// SessionsOn counts the sessions recorded on day.
func SessionsOn(sessions []api.Session, day time.Time) int {
	want := Day(day)
	n := 0
	for _, s := range sessions {
		if d, ok := validSession(s); ok && d.Equal(want) {
			n++
		}
	}
	return n
}

// MinutesIn sums session minutes in month.
func MinutesIn(sessions []api.Session, month time.Time) int {
	total := 0
	for _, s := range sessions {
		if d, ok := validSession(s); ok && sameMonth(d, month) {
			total += s.DurationMinutes
		}
	}
	return total
}

func validSession(s api.Session) (time.Time, bool) {
	if s.DurationMinutes <= 0 {
		return time.Time{}, false
	}
	return ParseKey(s.Date)
}
