package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mithrel/zenith/pkg/api"
)

const columnWidth = 30

var (
	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Width(columnWidth)
	columnTitle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	priorityStyle = map[api.TaskPriority]lipgloss.Style{
		api.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		api.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("221")),
		api.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
	}
)

// WriteBoard lays tasks out as one column per status, in api.Statuses order.
// titles maps a status to its display heading; missing entries use the status.
func WriteBoard(w io.Writer, tasks []api.Task, titles map[api.TaskStatus]string) error {
	cols := make([]string, 0, len(api.Statuses))
	for _, st := range api.Statuses {
		title := titles[st]
		if title == "" {
			title = string(st)
		}
		var cards []string
		for _, t := range tasks {
			if t.Status == st {
				cards = append(cards, card(t))
			}
		}
		body := columnTitle.Render(fmt.Sprintf("%s (%d)", title, len(cards)))
		if len(cards) > 0 {
			body += "\n\n" + strings.Join(cards, "\n")
		}
		cols = append(cols, columnStyle.Render(body))
	}
	_, err := io.WriteString(w, lipgloss.JoinHorizontal(lipgloss.Top, cols...)+"\n")
	return err
}

func card(t api.Task) string {
	mark := priorityStyle[t.Priority].Render("●")
	line := fmt.Sprintf("%s %s", mark, t.Title)
	meta := ShortID(t.ID)
	if t.DueDate != "" {
		meta += " due " + t.DueDate
	}
	return line + "\n  " + lipgloss.NewStyle().Faint(true).Render(meta)
}
