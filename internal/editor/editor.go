// Package editor round-trips a note through the user's $VISUAL or $EDITOR.
//
// The scratch file carries a small header (title and tags) above a "---"
// separator; everything after it is the markdown body.
package editor

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const (
	titleKey  = "Title:"
	tagsKey   = "Tags:"
	separator = "---"

	maxTitle = 120
)

// Draft is the editable part of a note.
type Draft struct {
	Title string
	Tags  []string
	Body  string
}

// Compose renders d as the text presented to the editor.
func (d Draft) Compose() string {
	var b strings.Builder
	b.WriteString("# zenith note\n")
	b.WriteString("# Lines starting with '#' above the separator are ignored.\n")
	b.WriteString("# Tags are comma-separated. Write the markdown body after '---'.\n")
	b.WriteString(titleKey + " " + d.Title + "\n")
	b.WriteString(tagsKey + " " + strings.Join(d.Tags, ", ") + "\n")
	b.WriteString(separator + "\n")
	if d.Body != "" {
		b.WriteString(d.Body)
		if !strings.HasSuffix(d.Body, "\n") {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// EffectiveTitle is the explicit title or, failing that, the first body line.
func (d Draft) EffectiveTitle() string {
	if t := strings.TrimSpace(d.Title); t != "" {
		return t
	}
	return FirstLine(d.Body)
}

// Parse reads editor output back into a Draft. Unknown header lines are
// dropped; a file without a separator has no body.
func Parse(s string) Draft {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	var d Draft
	head, body, found := strings.Cut(s, "\n"+separator+"\n")
	if !found {
		if strings.HasPrefix(s, separator+"\n") {
			head, body, found = "", strings.TrimPrefix(s, separator+"\n"), true
		} else if strings.HasSuffix(s, "\n"+separator) {
			head = strings.TrimSuffix(s, "\n"+separator)
		} else {
			head = s
		}
	}
	for _, line := range strings.Split(head, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "#"):
		case strings.HasPrefix(line, titleKey):
			d.Title = strings.TrimSpace(strings.TrimPrefix(line, titleKey))
		case strings.HasPrefix(line, tagsKey):
			for _, t := range strings.Split(strings.TrimPrefix(line, tagsKey), ",") {
				if t = strings.TrimSpace(t); t != "" {
					d.Tags = append(d.Tags, t)
				}
			}
		}
	}
	if found {
		d.Body = strings.TrimSpace(body)
	}
	return d
}

// FirstLine returns the first non-blank line with whitespace squashed,
// cut to a title-sized length.
func FirstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if f := strings.Fields(line); len(f) > 0 {
			out := strings.Join(f, " ")
			if len(out) > maxTitle {
				out = out[:maxTitle]
			}
			return out
		}
	}
	return ""
}

// PathForID returns the scratch file path used while editing note id.
func PathForID(id string) (string, error) {
	name := id + ".zenith.md"
	if xdg := os.Getenv("XDG_RUNTIME_DIR"); xdg != "" {
		return filepath.Join(xdg, "zenith", name), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "zenith", "edit", name), nil
}

// Command builds the editor invocation for path. $VISUAL wins over
// $EDITOR; both may carry flags, so they run through sh.
func Command(ctx context.Context, path string) (*exec.Cmd, error) {
	ed := os.Getenv("VISUAL")
	if strings.TrimSpace(ed) == "" {
		ed = os.Getenv("EDITOR")
	}
	if strings.TrimSpace(ed) != "" {
		cmd := exec.CommandContext(ctx, "sh", "-c", `$ZENITH_EDITOR "$ZENITH_FILE"`)
		cmd.Env = append(os.Environ(), "ZENITH_EDITOR="+ed, "ZENITH_FILE="+path)
		return cmd, nil
	}
	for _, cand := range []string{"nvim", "vim", "vi", "nano"} {
		if p, err := exec.LookPath(cand); err == nil {
			return exec.CommandContext(ctx, p, path), nil
		}
	}
	return nil, errors.New("no editor found; set $EDITOR or $VISUAL")
}

// Edit writes d to path, waits for the editor and parses the result.
// changed reports whether the file bytes differ from what was written.
func Edit(ctx context.Context, path string, d Draft) (out Draft, changed bool, err error) {
	initial := []byte(d.Compose())
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return Draft{}, false, err
	}
	if err := os.WriteFile(path, initial, 0o600); err != nil {
		return Draft{}, false, err
	}
	cmd, err := Command(ctx, path)
	if err != nil {
		return Draft{}, false, err
	}
	cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	if err := cmd.Run(); err != nil {
		return Draft{}, false, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Draft{}, false, err
	}
	return Parse(string(data)), !bytes.Equal(data, initial), nil
}
