package db

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mithrel/zenith/pkg/api"
)

// memStore keeps everything in maps; it backs "mem://" and tests.
type memStore struct {
	mu       sync.RWMutex
	notes    map[string]api.Note
	tasks    map[string]api.Task
	habits   map[string]api.Habit
	sessions map[string]api.Session
}

func newMemStore() *memStore {
	return &memStore{
		notes:    make(map[string]api.Note),
		tasks:    make(map[string]api.Task),
		habits:   make(map[string]api.Habit),
		sessions: make(map[string]api.Session),
	}
}

func cloneNote(n api.Note) api.Note {
	n.Tags = append([]string(nil), n.Tags...)
	return n
}

func cloneHabit(h api.Habit) api.Habit {
	c := make(api.CompletionSet, len(h.Completions))
	for k, v := range h.Completions {
		if v {
			c[k] = true
		}
	}
	h.Completions = c
	return h
}

// Notes

func (m *memStore) CreateNote(ctx context.Context, n api.Note) (api.Note, error) {
	if err := validateNote(n); err != nil {
		return api.Note{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.notes[n.ID]; ok {
		return api.Note{}, ErrConflict
	}
	if n.Version == 0 {
		n.Version = 1
	}
	n.Tags = uniqueStrings(n.Tags)
	m.notes[n.ID] = cloneNote(n)
	return cloneNote(n), nil
}

func (m *memStore) GetNote(ctx context.Context, id string) (api.Note, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.notes[id]
	if !ok {
		return api.Note{}, ErrNotFound
	}
	return cloneNote(n), nil
}

func (m *memStore) UpdateNoteCAS(ctx context.Context, n api.Note, ifVersion int64) (api.Note, error) {
	if err := validateNote(n); err != nil {
		return api.Note{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.notes[n.ID]
	if !ok {
		return api.Note{}, ErrNotFound
	}
	if cur.Version != ifVersion {
		return api.Note{}, ErrConflict
	}
	n.CreatedAt = cur.CreatedAt
	n.Version = cur.Version + 1
	if n.UpdatedAt.IsZero() {
		n.UpdatedAt = time.Now().UTC()
	}
	n.Tags = uniqueStrings(n.Tags)
	m.notes[n.ID] = cloneNote(n)
	return cloneNote(n), nil
}

func (m *memStore) DeleteNote(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.notes[id]; !ok {
		return ErrNotFound
	}
	delete(m.notes, id)
	return nil
}

func (m *memStore) ListNotes(ctx context.Context, q api.NoteQuery) ([]api.Note, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	want := uniqueStrings(q.TagsAny)
	text := strings.ToLower(strings.TrimSpace(q.Text))
	out := make([]api.Note, 0, len(m.notes))
	for _, n := range m.notes {
		if len(want) > 0 && !hasAnyTag(n.Tags, want) {
			continue
		}
		if text != "" && !strings.Contains(strings.ToLower(n.Title), text) && !strings.Contains(strings.ToLower(n.Content), text) {
			continue
		}
		out = append(out, cloneNote(n))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func hasAnyTag(tags, want []string) bool {
	for _, t := range tags {
		for _, w := range want {
			if t == w {
				return true
			}
		}
	}
	return false
}

func (m *memStore) ListTags(ctx context.Context) ([]api.TagStat, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := map[string]int{}
	for _, n := range m.notes {
		for _, t := range n.Tags {
			counts[t]++
		}
	}
	out := make([]api.TagStat, 0, len(counts))
	for t, c := range counts {
		out = append(out, api.TagStat{Tag: t, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tag < out[j].Tag
	})
	return out, nil
}

// Tasks

func (m *memStore) CreateTask(ctx context.Context, t api.Task) (api.Task, error) {
	if err := validateTask(t); err != nil {
		return api.Task{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[t.ID]; ok {
		return api.Task{}, ErrConflict
	}
	m.tasks[t.ID] = t
	return t, nil
}

func (m *memStore) GetTask(ctx context.Context, id string) (api.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tasks[id]
	if !ok {
		return api.Task{}, ErrNotFound
	}
	return t, nil
}

func (m *memStore) UpdateTask(ctx context.Context, t api.Task) (api.Task, error) {
	if err := validateTask(t); err != nil {
		return api.Task{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.tasks[t.ID]
	if !ok {
		return api.Task{}, ErrNotFound
	}
	t.CreatedAt = cur.CreatedAt
	m.tasks[t.ID] = t
	return t, nil
}

func (m *memStore) DeleteTask(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[id]; !ok {
		return ErrNotFound
	}
	delete(m.tasks, id)
	return nil
}

func (m *memStore) ListTasks(ctx context.Context, status api.TaskStatus) ([]api.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]api.Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		if status != "" && t.Status != status {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Habits

func (m *memStore) CreateHabit(ctx context.Context, h api.Habit) (api.Habit, error) {
	if err := validateHabit(h); err != nil {
		return api.Habit{}, err
	}
	for k, v := range h.Completions {
		if v {
			if err := validateDay(k); err != nil {
				return api.Habit{}, err
			}
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.habits[h.ID]; ok {
		return api.Habit{}, ErrConflict
	}
	m.habits[h.ID] = cloneHabit(h)
	return cloneHabit(h), nil
}

func (m *memStore) GetHabit(ctx context.Context, id string) (api.Habit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.habits[id]
	if !ok {
		return api.Habit{}, ErrNotFound
	}
	return cloneHabit(h), nil
}

func (m *memStore) ListHabits(ctx context.Context) ([]api.Habit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]api.Habit, 0, len(m.habits))
	for _, h := range m.habits {
		out = append(out, cloneHabit(h))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *memStore) DeleteHabit(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.habits[id]; !ok {
		return ErrNotFound
	}
	delete(m.habits, id)
	return nil
}

func (m *memStore) SetCompletion(ctx context.Context, id, day string, done bool) (api.Habit, error) {
	if err := validateDay(day); err != nil {
		return api.Habit{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.habits[id]
	if !ok {
		return api.Habit{}, ErrNotFound
	}
	h = cloneHabit(h)
	if done {
		h.Completions[day] = true
	} else {
		delete(h.Completions, day)
	}
	m.habits[id] = h
	return cloneHabit(h), nil
}

// Sessions

func (m *memStore) AddSession(ctx context.Context, s api.Session) (api.Session, error) {
	if err := validateSession(s); err != nil {
		return api.Session{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[s.ID]; ok {
		return api.Session{}, ErrConflict
	}
	m.sessions[s.ID] = s
	return s, nil
}

func (m *memStore) ListSessions(ctx context.Context, since, until string) ([]api.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]api.Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		if since != "" && s.Date < since {
			continue
		}
		if until != "" && s.Date > until {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
