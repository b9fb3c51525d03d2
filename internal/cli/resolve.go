package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/mithrel/zenith/internal/db"
	"github.com/mithrel/zenith/internal/wire"
	"github.com/mithrel/zenith/pkg/api"
)

// matchID picks the single id equal to ref or starting with it.
func matchID(kind, ref string, ids []string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("%s id is required", kind)
	}
	var hits []string
	for _, id := range ids {
		if id == ref {
			return id, nil
		}
		if strings.HasPrefix(id, ref) {
			hits = append(hits, id)
		}
	}
	switch len(hits) {
	case 0:
		return "", fmt.Errorf("%s %q: %w", kind, ref, db.ErrNotFound)
	case 1:
		return hits[0], nil
	default:
		return "", fmt.Errorf("%s id %q is ambiguous (%d matches)", kind, ref, len(hits))
	}
}

func resolveNote(ctx context.Context, app *wire.App, ref string) (api.Note, error) {
	notes, err := app.Store.Notes.ListNotes(ctx, api.NoteQuery{})
	if err != nil {
		return api.Note{}, err
	}
	ids := make([]string, len(notes))
	for i, n := range notes {
		ids[i] = n.ID
	}
	id, err := matchID("note", ref, ids)
	if err != nil {
		return api.Note{}, err
	}
	return app.Store.Notes.GetNote(ctx, id)
}

func resolveTask(ctx context.Context, app *wire.App, ref string) (api.Task, error) {
	tasks, err := app.Store.Tasks.ListTasks(ctx, "")
	if err != nil {
		return api.Task{}, err
	}
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	id, err := matchID("task", ref, ids)
	if err != nil {
		return api.Task{}, err
	}
	return app.Store.Tasks.GetTask(ctx, id)
}

// resolveHabit accepts a case-insensitive habit name or an id prefix.
func resolveHabit(ctx context.Context, app *wire.App, ref string) (api.Habit, error) {
	habits, err := app.Store.Habits.ListHabits(ctx)
	if err != nil {
		return api.Habit{}, err
	}
	ids := make([]string, len(habits))
	for i, h := range habits {
		if strings.EqualFold(h.Name, strings.TrimSpace(ref)) {
			return h, nil
		}
		ids[i] = h.ID
	}
	id, err := matchID("habit", ref, ids)
	if err != nil {
		return api.Habit{}, err
	}
	for _, h := range habits {
		if h.ID == id {
			return h, nil
		}
	}
	return api.Habit{}, db.ErrNotFound
}
