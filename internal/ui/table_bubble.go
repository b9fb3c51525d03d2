package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mithrel/zenith/internal/render"
	"github.com/mithrel/zenith/pkg/api"
)

// RenderNotesTable opens an interactive Bubble Tea table to browse notes.
// Enter toggles a preview of the selected note below the table.
func RenderNotesTable(ctx context.Context, notes []api.Note) error {
	m := newNotesModel(notes)
	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func newNotesModel(notes []api.Note) notesModel {
	cols := []table.Column{
		{Title: "ID", Width: 10},
		{Title: "Title", Width: 40},
		{Title: "Tags", Width: 20},
		{Title: "Updated", Width: 16},
	}

	rows := make([]table.Row, 0, len(notes))
	for _, n := range notes {
		rows = append(rows, table.Row{
			shortID(n.ID),
			truncate(n.Title, 40),
			truncate(strings.Join(n.Tags, ", "), 20),
			n.UpdatedAt.Local().Format("2006-01-02 15:04"),
		})
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(min(12, max(3, len(rows)+3))),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return notesModel{table: t, notes: notes}
}

type notesModel struct {
	table   table.Model
	notes   []api.Note
	preview bool
}

func (m notesModel) Init() tea.Cmd { return nil }

func (m notesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "enter":
			m.preview = !m.preview
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

var previewStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("240")).
	Padding(0, 1).
	Width(86)

func (m notesModel) View() string {
	if len(m.notes) == 0 {
		return "(no notes)\n"
	}
	out := m.table.View() + "\n"
	if m.preview {
		if i := m.table.Cursor(); i >= 0 && i < len(m.notes) {
			out += previewStyle.Render(previewText(m.notes[i].Content)) + "\n"
		}
	}
	return out + "↑/↓ to navigate • enter preview • q to exit\n"
}

// previewText shows the rendered fragment with tags flattened to line breaks,
// which is enough structure for a terminal pane.
func previewText(content string) string {
	html := render.Markdown(content)
	r := strings.NewReplacer(
		"<br/>", "\n", "<hr/>", "\n────\n",
		"<ul>", "\n", "</ul>", "\n", "<li>", "• ", "</li>", "\n",
		"<h1>", "", "</h1>", "\n", "<h2>", "", "</h2>", "\n", "<h3>", "", "</h3>", "\n",
		"<strong>", "", "</strong>", "", "<em>", "", "</em>", "",
		"&lt;", "<", "&gt;", ">",
	)
	return strings.TrimSpace(r.Replace(html))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
