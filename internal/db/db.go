package db

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mithrel/zenith/pkg/api"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
	ErrInvalid  = errors.New("invalid record")
)

type NoteRepo interface {
	CreateNote(ctx context.Context, n api.Note) (api.Note, error)
	GetNote(ctx context.Context, id string) (api.Note, error)
	// UpdateNoteCAS stores n only if the stored version equals ifVersion,
	// bumping the version and UpdatedAt.
	UpdateNoteCAS(ctx context.Context, n api.Note, ifVersion int64) (api.Note, error)
	DeleteNote(ctx context.Context, id string) error
	// ListNotes returns notes most recently updated first.
	ListNotes(ctx context.Context, q api.NoteQuery) ([]api.Note, error)
	ListTags(ctx context.Context) ([]api.TagStat, error)
}

type TaskRepo interface {
	CreateTask(ctx context.Context, t api.Task) (api.Task, error)
	GetTask(ctx context.Context, id string) (api.Task, error)
	UpdateTask(ctx context.Context, t api.Task) (api.Task, error)
	DeleteTask(ctx context.Context, id string) error
	// ListTasks returns tasks oldest first; an empty status lists all.
	ListTasks(ctx context.Context, status api.TaskStatus) ([]api.Task, error)
}

type HabitRepo interface {
	CreateHabit(ctx context.Context, h api.Habit) (api.Habit, error)
	GetHabit(ctx context.Context, id string) (api.Habit, error)
	ListHabits(ctx context.Context) ([]api.Habit, error)
	DeleteHabit(ctx context.Context, id string) error
	// SetCompletion marks or clears day (YYYY-MM-DD) and returns the updated habit.
	SetCompletion(ctx context.Context, id, day string, done bool) (api.Habit, error)
}

type SessionRepo interface {
	AddSession(ctx context.Context, s api.Session) (api.Session, error)
	// ListSessions returns sessions with since <= date <= until; empty
	// bounds are open.
	ListSessions(ctx context.Context, since, until string) ([]api.Session, error)
}

// Store bundles the repositories of one backing database.
type Store struct {
	Notes    NoteRepo
	Tasks    TaskRepo
	Habits   HabitRepo
	Sessions SessionRepo

	closer io.Closer
	// tx is the backend, checked for TxProvider by Atomic.
	tx any
}

// Close releases the underlying database.
func (s *Store) Close() error {
	if s == nil || s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// Open returns a Store for dsn: "sqlite://<path>" or "mem://".
func Open(ctx context.Context, dsn string) (*Store, error) {
	switch {
	case strings.HasPrefix(dsn, "sqlite://"):
		return openSQLite(ctx, strings.TrimPrefix(dsn, "sqlite://"))
	case dsn == "mem://" || dsn == "mem":
		m := newMemStore()
		return &Store{Notes: m, Tasks: m, Habits: m, Sessions: m}, nil
	default:
		return nil, fmt.Errorf("unsupported database url %q", dsn)
	}
}

// uniqueStrings lower-cases, trims and de-duplicates, keeping first-seen order.
func uniqueStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
