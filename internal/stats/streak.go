package stats

import (
	"time"

	"github.com/mithrel/zenith/pkg/api"
)

// days returns the set of valid, completed days in c.
func days(c api.CompletionSet) map[time.Time]struct{} {
	out := make(map[time.Time]struct{}, len(c))
	for k, done := range c {
		if !done {
			continue
		}
		if d, ok := ParseKey(k); ok {
			out[d] = struct{}{}
		}
	}
	return out
}

// CurrentStreak counts consecutive completed days walking back from today.
// Today itself must be completed for the streak to be non-zero.
func CurrentStreak(c api.CompletionSet, today time.Time) int {
	set := days(c)
	n := 0
	for d := Day(today); ; d = d.AddDate(0, 0, -1) {
		if _, ok := set[d]; !ok {
			return n
		}
		n++
	}
}

// CountInMonth returns how many completed days fall in ref's year and month.
func CountInMonth(c api.CompletionSet, ref time.Time) int {
	n := 0
	for d := range days(c) {
		if sameMonth(d, ref) {
			n++
		}
	}
	return n
}

// TotalCount returns the number of completed days.
func TotalCount(c api.CompletionSet) int {
	return len(days(c))
}

// Invalid returns the keys of c that are not valid dates, for reporting.
func Invalid(c api.CompletionSet) []string {
	var out []string
	for k := range c {
		if _, ok := ParseKey(k); !ok {
			out = append(out, k)
		}
	}
	return out
}

// Progress is completion against a monthly goal.
type Progress struct {
	Done    int     `json:"done"`
	Goal    int     `json:"goal"`
	Percent float64 `json:"percent"` // 0-100, capped
}

// GoalProgress reports ref's month completions against goal days.
func GoalProgress(c api.CompletionSet, ref time.Time, goal int) Progress {
	p := Progress{Done: CountInMonth(c, ref), Goal: goal}
	if goal > 0 {
		p.Percent = float64(p.Done) * 100 / float64(goal)
		if p.Percent > 100 {
			p.Percent = 100
		}
	}
	return p
}
