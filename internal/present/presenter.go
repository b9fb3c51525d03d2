package present

import (
	"context"
	"errors"
	"io"

	"github.com/mithrel/zenith/internal/present/format"
	"github.com/mithrel/zenith/internal/ui"
	"github.com/mithrel/zenith/pkg/api"
)

type Mode int

const (
	ModePlain Mode = iota
	ModePretty
	ModeJSON
	ModeNDJSON
	ModeTUI
	ModeBoard
)

type Options struct {
	Mode       Mode
	JSONIndent bool
	Headers    bool
	// Style is the glamour style used by ModePretty.
	Style string
	// StatusTitles are localized board column headings.
	StatusTitles map[api.TaskStatus]string
}

var errUnsupported = errors.New("output mode not supported here")

// ParseMode parses "plain", "pretty", "json", "ndjson", "tui" or "board".
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "plain":
		return ModePlain, true
	case "pretty":
		return ModePretty, true
	case "json":
		return ModeJSON, true
	case "ndjson":
		return ModeNDJSON, true
	case "tui":
		return ModeTUI, true
	case "board":
		return ModeBoard, true
	default:
		return ModePlain, false
	}
}

// RenderNotes renders a list of notes according to options.
func RenderNotes(ctx context.Context, w io.Writer, notes []api.Note, opts Options) error {
	switch opts.Mode {
	case ModeJSON:
		return format.WriteJSON(w, notes, opts.JSONIndent)
	case ModeNDJSON:
		return format.WriteNDJSON(w, notes)
	case ModeTUI:
		return ui.RenderNotesTable(ctx, notes)
	case ModeBoard:
		return errUnsupported
	default:
		return format.WritePlainNotes(w, notes, opts.Headers)
	}
}

// RenderNote renders a single note according to options.
func RenderNote(w io.Writer, n api.Note, opts Options) error {
	switch opts.Mode {
	case ModeJSON:
		return format.WriteJSON(w, n, opts.JSONIndent)
	case ModeNDJSON:
		return format.WriteNDJSON(w, []api.Note{n})
	case ModePretty:
		return format.WritePrettyNote(w, n, opts.Style)
	case ModeTUI, ModeBoard:
		return errUnsupported
	default:
		return format.WritePlainNote(w, n)
	}
}

// RenderTasks renders tasks as a table, JSON or a status board.
func RenderTasks(w io.Writer, tasks []api.Task, opts Options) error {
	switch opts.Mode {
	case ModeJSON:
		return format.WriteJSON(w, tasks, opts.JSONIndent)
	case ModeNDJSON:
		return format.WriteNDJSON(w, tasks)
	case ModeBoard:
		return format.WriteBoard(w, tasks, opts.StatusTitles)
	case ModeTUI:
		return errUnsupported
	default:
		return format.WritePlainTasks(w, tasks, opts.Headers)
	}
}

// RenderHabits renders habit summaries.
func RenderHabits(w io.Writer, habits []format.HabitSummary, opts Options) error {
	switch opts.Mode {
	case ModeJSON:
		return format.WriteJSON(w, habits, opts.JSONIndent)
	case ModeNDJSON:
		return format.WriteNDJSON(w, habits)
	case ModePlain, ModePretty:
		return format.WritePlainHabits(w, habits, opts.Headers)
	default:
		return errUnsupported
	}
}

// RenderSessions renders logged focus sessions.
func RenderSessions(w io.Writer, sessions []api.Session, opts Options) error {
	switch opts.Mode {
	case ModeJSON:
		return format.WriteJSON(w, sessions, opts.JSONIndent)
	case ModeNDJSON:
		return format.WriteNDJSON(w, sessions)
	case ModePlain, ModePretty:
		return format.WritePlainSessions(w, sessions, opts.Headers)
	default:
		return errUnsupported
	}
}
