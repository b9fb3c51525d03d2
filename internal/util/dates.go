package util

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mithrel/zenith/internal/stats"
)

// ParseDay resolves a day expression relative to now and returns its
// YYYY-MM-DD key. Accepted forms: "" or "today", "yesterday", "tomorrow",
// "Nd" (N days ago), "Nw" (N weeks ago) and an absolute YYYY-MM-DD.
func ParseDay(s string, now time.Time) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	today := stats.Day(now)
	switch s {
	case "", "today":
		return stats.Key(today), nil
	case "yesterday":
		return stats.Key(today.AddDate(0, 0, -1)), nil
	case "tomorrow":
		return stats.Key(today.AddDate(0, 0, 1)), nil
	}

	suffixes := []struct {
		suffix string
		days   int
	}{
		{"w", 7},
		{"d", 1},
	}
	for _, sfx := range suffixes {
		if strings.HasSuffix(s, sfx.suffix) {
			n, err := strconv.Atoi(strings.TrimSuffix(s, sfx.suffix))
			if err != nil || n < 0 {
				return "", fmt.Errorf("invalid %s offset: %q", sfx.suffix, s)
			}
			return stats.Key(today.AddDate(0, 0, -n*sfx.days)), nil
		}
	}

	if _, ok := stats.ParseKey(s); ok {
		return s, nil
	}
	return "", fmt.Errorf("invalid date: %q (want YYYY-MM-DD, today, yesterday or Nd)", s)
}

// ParseMonth resolves "", "this", "last", "next" or YYYY-MM into the first
// day of that month (UTC).
func ParseMonth(s string, now time.Time) (time.Time, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	cur := stats.MonthStart(now)
	switch s {
	case "", "this":
		return cur, nil
	case "last":
		return cur.AddDate(0, -1, 0), nil
	case "next":
		return cur.AddDate(0, 1, 0), nil
	}
	t, err := time.ParseInLocation("2006-01", s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month: %q (want YYYY-MM, this or last)", s)
	}
	return t, nil
}
