package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/zenith/pkg/api"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, ok := ParseKey(s)
	require.True(t, ok, "bad test date %q", s)
	return d
}

func TestParseKey(t *testing.T) {
	d, ok := ParseKey("2024-02-29")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), d)

	for _, bad := range []string{"", "2024-6-1", "2023-02-29", "2024/06/01", "2024-06-01T10:00:00Z", "yesterday"} {
		_, ok := ParseKey(bad)
		assert.False(t, ok, "expected %q to be rejected", bad)
	}
}

func TestKeyUsesCalendarDayOfLocation(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	late := time.Date(2024, 6, 1, 23, 30, 0, 0, loc)
	assert.Equal(t, "2024-06-01", Key(late))
	assert.Equal(t, "2024-06-01", Key(day(t, "2024-06-01")))
}

func TestCurrentStreak(t *testing.T) {
	tests := []struct {
		name  string
		c     api.CompletionSet
		today string
		want  int
	}{
		{"two consecutive", api.CompletionSet{"2024-06-01": true, "2024-06-02": true}, "2024-06-02", 2},
		{"gap breaks streak", api.CompletionSet{"2024-05-31": true, "2024-06-02": true}, "2024-06-02", 1},
		{"today missing", api.CompletionSet{"2024-06-01": true}, "2024-06-02", 0},
		{"empty", api.CompletionSet{}, "2024-06-02", 0},
		{"nil", nil, "2024-06-02", 0},
		{"crosses month and year", api.CompletionSet{"2023-12-31": true, "2024-01-01": true, "2023-12-30": true}, "2024-01-01", 3},
		{"false value is absent", api.CompletionSet{"2024-06-01": false, "2024-06-02": true}, "2024-06-02", 1},
		{"malformed keys ignored", api.CompletionSet{"junk": true, "2024-06-02": true, "2024-6-1": true}, "2024-06-02", 1},
		{"future days do not count", api.CompletionSet{"2024-06-03": true, "2024-06-02": true}, "2024-06-02", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CurrentStreak(tt.c, day(t, tt.today)))
		})
	}
}

func TestCurrentStreakIgnoresTimeOfDay(t *testing.T) {
	c := api.CompletionSet{"2024-06-01": true, "2024-06-02": true}
	evening := time.Date(2024, 6, 2, 21, 45, 0, 0, time.UTC)
	assert.Equal(t, 2, CurrentStreak(c, evening))
}

func TestCountInMonthAndTotal(t *testing.T) {
	c := api.CompletionSet{
		"2024-06-01": true,
		"2024-06-15": true,
		"2024-05-31": true,
		"2023-06-10": true,
		"2024-06-20": false,
		"oops":       true,
	}
	assert.Equal(t, 2, CountInMonth(c, day(t, "2024-06-30")))
	assert.Equal(t, 1, CountInMonth(c, day(t, "2024-05-01")))
	assert.Equal(t, 0, CountInMonth(c, day(t, "2024-07-01")))
	assert.Equal(t, 4, TotalCount(c))
	assert.Equal(t, []string{"oops"}, Invalid(c))
}

func TestGoalProgress(t *testing.T) {
	c := api.CompletionSet{"2024-06-01": true, "2024-06-02": true, "2024-06-03": true}
	p := GoalProgress(c, day(t, "2024-06-10"), 12)
	assert.Equal(t, 3, p.Done)
	assert.Equal(t, 12, p.Goal)
	assert.InDelta(t, 25.0, p.Percent, 0.001)

	assert.InDelta(t, 100.0, GoalProgress(c, day(t, "2024-06-10"), 2).Percent, 0.001)
	assert.Zero(t, GoalProgress(c, day(t, "2024-06-10"), 0).Percent)
}

func TestCalendarGrid(t *testing.T) {
	tests := []struct {
		name      string
		ref       string
		weekStart time.Weekday
		first     string
		last      string
		n         int
	}{
		// June 2024 starts on a Saturday and ends on a Sunday.
		{"june sunday start", "2024-06-15", time.Sunday, "2024-05-26", "2024-07-06", 42},
		{"june monday start", "2024-06-15", time.Monday, "2024-05-27", "2024-06-30", 35},
		// February 2015 is exactly four Sunday-aligned rows.
		{"exact fit", "2015-02-10", time.Sunday, "2015-02-01", "2015-02-28", 28},
		{"leap february", "2024-02-29", time.Monday, "2024-01-29", "2024-03-03", 35},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid := CalendarGrid(day(t, tt.ref), tt.weekStart)
			require.Len(t, grid, tt.n)
			assert.Equal(t, tt.first, Key(grid[0]))
			assert.Equal(t, tt.last, Key(grid[len(grid)-1]))
			assert.Equal(t, tt.weekStart, grid[0].Weekday())
			assert.Zero(t, len(grid)%7)
			for i := 1; i < len(grid); i++ {
				assert.Equal(t, grid[i-1].AddDate(0, 0, 1), grid[i])
			}
		})
	}
}

func TestCalendarGridWrapsWeekStart(t *testing.T) {
	ref := day(t, "2024-06-15")
	for _, tt := range []struct {
		weekStart time.Weekday
		same      time.Weekday
	}{
		{8, time.Monday},
		{14, time.Sunday},
		{-1, time.Saturday},
		{-6, time.Monday},
	} {
		grid := CalendarGrid(ref, tt.weekStart)
		want := CalendarGrid(ref, tt.same)
		require.Equal(t, want, grid, "weekStart %d", int(tt.weekStart))
		assert.Equal(t, tt.same, grid[0].Weekday())
		assert.Zero(t, len(grid)%7)
		assert.False(t, grid[0].After(MonthStart(ref)))
	}
}

func TestParseWeekday(t *testing.T) {
	d, ok := ParseWeekday("Monday")
	assert.True(t, ok)
	assert.Equal(t, time.Monday, d)
	d, ok = ParseWeekday("sat")
	assert.True(t, ok)
	assert.Equal(t, time.Saturday, d)
	_, ok = ParseWeekday("someday")
	assert.False(t, ok)
}

func TestMonthlySeriesEmptyMonthHasNoGaps(t *testing.T) {
	series := MonthlySeries(nil, day(t, "2024-04-10"))
	require.Len(t, series, 30)
	for i, b := range series {
		assert.Equal(t, i+1, b.Day)
		assert.Zero(t, b.Count)
	}
	assert.Len(t, MonthlySeries(nil, day(t, "2024-02-01")), 29)
	assert.Len(t, MonthlySeries(nil, day(t, "2023-02-01")), 28)
}

func TestMonthlySeriesCounts(t *testing.T) {
	dates := []string{"2024-06-01", "2024-06-01", "2024-06-30", "2024-05-01", "bad"}
	series := MonthlySeries(dates, day(t, "2024-06-12"))
	require.Len(t, series, 30)
	assert.Equal(t, 2, series[0].Count)
	assert.Equal(t, 1, series[29].Count)
	total := 0
	for _, b := range series {
		total += b.Count
	}
	assert.Equal(t, 3, total)
}

func TestSessionAggregates(t *testing.T) {
	sessions := []api.Session{
		{ID: "1", Date: "2024-06-03", DurationMinutes: 25},
		{ID: "2", Date: "2024-06-03", DurationMinutes: 25},
		{ID: "3", Date: "2024-06-04", DurationMinutes: 50},
		{ID: "4", Date: "2024-07-01", DurationMinutes: 25},
		{ID: "5", Date: "not-a-date", DurationMinutes: 25},
		{ID: "6", Date: "2024-06-04", DurationMinutes: 0},
	}
	month := day(t, "2024-06-15")
	series := SessionSeries(sessions, month)
	require.Len(t, series, 30)
	assert.Equal(t, DayBucket{Day: 3, Count: 2, Minutes: 50}, series[2])
	assert.Equal(t, DayBucket{Day: 4, Count: 1, Minutes: 50}, series[3])
	assert.Equal(t, 2, SessionsOn(sessions, day(t, "2024-06-03")))
	assert.Equal(t, 0, SessionsOn(sessions, day(t, "2024-06-05")))
	assert.Equal(t, 100, MinutesIn(sessions, month))
}

func TestCompletionSeries(t *testing.T) {
	c := api.CompletionSet{"2024-04-02": true, "2024-04-30": true, "2024-05-01": true}
	series := CompletionSeries(c, day(t, "2024-04-01"))
	require.Len(t, series, 30)
	assert.Equal(t, 1, series[1].Count)
	assert.Equal(t, 1, series[29].Count)
	assert.Equal(t, 0, series[0].Count)
}

func TestAggregatesAreOrderIndependent(t *testing.T) {
	c := api.CompletionSet{}
	for i := 1; i <= 20; i++ {
		c[Key(day(t, "2024-06-01").AddDate(0, 0, i-1))] = true
	}
	want := CurrentStreak(c, day(t, "2024-06-20"))
	for i := 0; i < 10; i++ {
		assert.Equal(t, want, CurrentStreak(c, day(t, "2024-06-20")))
	}
	assert.Equal(t, 20, want)
}
