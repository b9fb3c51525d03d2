package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/mithrel/zenith/pkg/api"
)

// PrettyStyle picks the glamour style: colors on a terminal, plain otherwise.
func PrettyStyle(tty bool) string {
	if tty {
		return "dracula"
	}
	return "notty"
}

// RenderPretty renders markdown for the terminal using glamour.
func RenderPretty(md, style string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}

// WritePrettyNote renders a single note with markdown formatting using glamour.
func WritePrettyNote(w io.Writer, n api.Note, style string) error {
	md := fmt.Sprintf(`# %s

> **ID:** %s | **Updated:** %s
>
> **Tags:** %s

---

%s
`, n.Title, n.ID, n.UpdatedAt.UTC().Format(stampLayout), strings.Join(n.Tags, ", "), strings.TrimSpace(n.Content))

	out, err := RenderPretty(md, style)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
