package format

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mithrel/zenith/pkg/api"
)

const stampLayout = "2006-01-02 15:04"

// HabitSummary is the per-habit row shown by `habit list` and `habit stats`.
type HabitSummary struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Goal    int     `json:"goal"`
	Streak  int     `json:"streak"`
	Month   int     `json:"month"`
	Total   int     `json:"total"`
	Percent float64 `json:"percent"`
}

func esc(field string) string {
	field = strings.ReplaceAll(field, "\t", "\\t")
	field = strings.ReplaceAll(field, "\n", "\\n")
	return field
}

func joinTags(tags []string) string {
	return strings.Join(tags, ",")
}

// ShortID trims a UUID to a prefix that is still practical to type.
func ShortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func table(w io.Writer, headers bool, header string, rows func(tw io.Writer)) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if headers {
		_, _ = io.WriteString(tw, header+"\n")
	}
	rows(tw)
	return tw.Flush()
}

func WritePlainNotes(w io.Writer, notes []api.Note, headers bool) error {
	return table(w, headers, "id\ttitle\ttags\tupdated", func(tw io.Writer) {
		for _, n := range notes {
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
				ShortID(n.ID), esc(n.Title), esc(joinTags(n.Tags)), n.UpdatedAt.UTC().Format(stampLayout))
		}
	})
}

// WritePlainNote prints the header fields followed by the raw content.
func WritePlainNote(w io.Writer, n api.Note) error {
	_, err := fmt.Fprintf(w, "ID: %s\nTitle: %s\nTags: %s\nCreated: %s\nUpdated: %s\nVersion: %d\n---\n%s\n",
		n.ID, n.Title, strings.Join(n.Tags, ", "),
		n.CreatedAt.UTC().Format(stampLayout), n.UpdatedAt.UTC().Format(stampLayout),
		n.Version, n.Content)
	return err
}

func WritePlainTasks(w io.Writer, tasks []api.Task, headers bool) error {
	return table(w, headers, "id\tstatus\tpriority\tdue\ttitle", func(tw io.Writer) {
		for _, t := range tasks {
			due := t.DueDate
			if due == "" {
				due = "-"
			}
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", ShortID(t.ID), t.Status, t.Priority, due, esc(t.Title))
		}
	})
}

func WritePlainHabits(w io.Writer, habits []HabitSummary, headers bool) error {
	return table(w, headers, "id\tname\tstreak\tmonth\tgoal\ttotal", func(tw io.Writer) {
		for _, h := range habits {
			goal := "-"
			if h.Goal > 0 {
				goal = fmt.Sprintf("%d (%.0f%%)", h.Goal, h.Percent)
			}
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%d\n", ShortID(h.ID), esc(h.Name), h.Streak, h.Month, goal, h.Total)
		}
	})
}

func WritePlainSessions(w io.Writer, sessions []api.Session, headers bool) error {
	return table(w, headers, "id\tdate\tminutes", func(tw io.Writer) {
		for _, s := range sessions {
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\n", ShortID(s.ID), s.Date, s.DurationMinutes)
		}
	})
}
