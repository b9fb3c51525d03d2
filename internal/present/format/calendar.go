package format

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mithrel/zenith/internal/stats"
	"github.com/mithrel/zenith/pkg/api"
)

// CalendarView is one month of a habit rendered as a week grid.
type CalendarView struct {
	Title     string
	Month     time.Time
	WeekStart time.Weekday
	Done      api.CompletionSet
	// Today is highlighted when it falls inside Month.
	Today string
	// Weekdays holds seven labels beginning with Sunday.
	Weekdays []string
	Styled   bool
}

var (
	doneStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	todayStyle = lipgloss.NewStyle().Underline(true)
)

// WriteCalendar prints the grid; completed days carry a trailing "*".
func WriteCalendar(w io.Writer, v CalendarView) error {
	var b strings.Builder
	if v.Title != "" {
		b.WriteString(v.Title + "\n")
	}
	b.WriteString(strings.TrimRight(weekdayHeader(v.Weekdays, v.WeekStart), " ") + "\n")

	grid := stats.CalendarGrid(v.Month, v.WeekStart)
	for i := 0; i < len(grid); i += 7 {
		var row strings.Builder
		for _, d := range grid[i : i+7] {
			row.WriteString(cell(d, v))
		}
		b.WriteString(strings.TrimRight(row.String(), " ") + "\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func weekdayHeader(labels []string, start time.Weekday) string {
	if len(labels) != 7 {
		labels = []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}
	}
	var b strings.Builder
	for i := 0; i < 7; i++ {
		b.WriteString(fmt.Sprintf("%-4s", labels[(int(start)+i)%7]))
	}
	return b.String()
}

func cell(d time.Time, v CalendarView) string {
	if d.Month() != v.Month.Month() || d.Year() != v.Month.Year() {
		return "    "
	}
	key := stats.Key(d)
	num := fmt.Sprintf("%2d", d.Day())
	mark := " "
	if v.Done[key] {
		mark = "*"
		if v.Styled {
			num = doneStyle.Render(num)
		}
	}
	if v.Styled && key == v.Today {
		num = todayStyle.Render(num)
	}
	return num + mark + " "
}
