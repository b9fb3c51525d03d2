package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mithrel/zenith/pkg/api"
)

type sqliteStore struct{ db *sql.DB }

// tsLayout is fixed-width so stored timestamps sort as text.
const tsLayout = "2006-01-02T15:04:05.000000000Z07:00"

func ts(t time.Time) string { return t.UTC().Format(tsLayout) }

func parseTS(s string) time.Time {
	t, err := time.Parse(tsLayout, s)
	if err != nil {
		t, _ = time.Parse(time.RFC3339Nano, s)
	}
	return t
}

// openSQLite connects to a SQLite database using modernc.org/sqlite driver and ensures schema exists.
func openSQLite(ctx context.Context, path string) (*Store, error) {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	// Pragmas in the DSN apply to every pooled connection.
	dbh, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}
	if err := dbh.PingContext(ctx); err != nil {
		_ = dbh.Close()
		return nil, err
	}
	if err := migrate(ctx, dbh); err != nil {
		_ = dbh.Close()
		return nil, err
	}
	s := &sqliteStore{db: dbh}
	return &Store{Notes: s, Tasks: s, Habits: s, Sessions: s, closer: dbh, tx: s}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS notes (
  id TEXT PRIMARY KEY,
  version INTEGER NOT NULL,
  title TEXT NOT NULL,
  content TEXT NOT NULL,
  tags TEXT NOT NULL,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_notes_updated_id ON notes(updated_at DESC, id);
CREATE TABLE IF NOT EXISTS note_tags (
  note_id TEXT NOT NULL,
  tag TEXT NOT NULL COLLATE NOCASE,
  PRIMARY KEY(note_id, tag),
  FOREIGN KEY(note_id) REFERENCES notes(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_note_tags_tag_note ON note_tags(tag, note_id);
CREATE TABLE IF NOT EXISTS tasks (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  priority TEXT NOT NULL,
  status TEXT NOT NULL,
  due_date TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tasks_status_created ON tasks(status, created_at);
CREATE TABLE IF NOT EXISTS habits (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  goal INTEGER NOT NULL DEFAULT 0,
  created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS habit_completions (
  habit_id TEXT NOT NULL,
  day TEXT NOT NULL,
  PRIMARY KEY(habit_id, day),
  FOREIGN KEY(habit_id) REFERENCES habits(id) ON DELETE CASCADE
);
CREATE TABLE IF NOT EXISTS sessions (
  id TEXT PRIMARY KEY,
  day TEXT NOT NULL,
  minutes INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_day ON sessions(day);
`)
	return err
}

func (s *sqliteStore) inTx(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error {
	return RunInTx(ctx, s, fn)
}

// querier is the part of *sql.DB and *sql.Tx the repositories use.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// conn routes a statement through the transaction in ctx, if any.
func (s *sqliteStore) conn(ctx context.Context) querier {
	if tx := TxFromContext(ctx); tx != nil {
		return tx
	}
	return s.db
}

// BeginTx implements TxProvider.
func (s *sqliteStore) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return s.db.BeginTx(ctx, nil)
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Notes

func (s *sqliteStore) CreateNote(ctx context.Context, n api.Note) (api.Note, error) {
	if err := validateNote(n); err != nil {
		return api.Note{}, err
	}
	if n.Version == 0 {
		n.Version = 1
	}
	n.Tags = uniqueStrings(n.Tags)
	err := s.inTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		tagsJSON, _ := json.Marshal(nonNil(n.Tags))
		_, err := tx.ExecContext(ctx, `INSERT INTO notes(id, version, title, content, tags, created_at, updated_at) VALUES(?,?,?,?,?,?,?)`,
			n.ID, n.Version, n.Title, n.Content, string(tagsJSON), ts(n.CreatedAt), ts(n.UpdatedAt))
		if isUniqueViolation(err) {
			return ErrConflict
		}
		if err != nil {
			return err
		}
		return upsertNoteTags(ctx, tx, n.ID, n.Tags)
	})
	if err != nil {
		return api.Note{}, err
	}
	return n, nil
}

func (s *sqliteStore) GetNote(ctx context.Context, id string) (api.Note, error) {
	row := s.conn(ctx).QueryRowContext(ctx, `SELECT id, version, title, content, tags, created_at, updated_at FROM notes WHERE id=?`, id)
	n, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return api.Note{}, ErrNotFound
	}
	return n, err
}

type scanner interface{ Scan(dest ...any) error }

func scanNote(r scanner) (api.Note, error) {
	var n api.Note
	var tagsJSON, created, updated string
	if err := r.Scan(&n.ID, &n.Version, &n.Title, &n.Content, &tagsJSON, &created, &updated); err != nil {
		return api.Note{}, err
	}
	_ = json.Unmarshal([]byte(tagsJSON), &n.Tags)
	n.CreatedAt = parseTS(created)
	n.UpdatedAt = parseTS(updated)
	return n, nil
}

func (s *sqliteStore) UpdateNoteCAS(ctx context.Context, n api.Note, ifVersion int64) (api.Note, error) {
	if err := validateNote(n); err != nil {
		return api.Note{}, err
	}
	if n.UpdatedAt.IsZero() {
		n.UpdatedAt = time.Now().UTC()
	}
	n.Tags = uniqueStrings(n.Tags)
	var out api.Note
	err := s.inTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `SELECT id, version, title, content, tags, created_at, updated_at FROM notes WHERE id=?`, n.ID)
		cur, err := scanNote(row)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if cur.Version != ifVersion {
			return ErrConflict
		}
		n.CreatedAt = cur.CreatedAt
		n.Version = cur.Version + 1
		tagsJSON, _ := json.Marshal(nonNil(n.Tags))
		res, err := tx.ExecContext(ctx, `UPDATE notes SET version=?, title=?, content=?, tags=?, updated_at=? WHERE id=? AND version=?`,
			n.Version, n.Title, n.Content, string(tagsJSON), ts(n.UpdatedAt), n.ID, ifVersion)
		if err != nil {
			return err
		}
		if affected, _ := res.RowsAffected(); affected == 0 {
			return ErrConflict
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM note_tags WHERE note_id=?`, n.ID); err != nil {
			return err
		}
		if err := upsertNoteTags(ctx, tx, n.ID, n.Tags); err != nil {
			return err
		}
		out = n
		return nil
	})
	if err != nil {
		return api.Note{}, err
	}
	return out, nil
}

func (s *sqliteStore) DeleteNote(ctx context.Context, id string) error {
	return s.inTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM note_tags WHERE note_id=?`, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM notes WHERE id=?`, id)
		if err != nil {
			return err
		}
		if affected, _ := res.RowsAffected(); affected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func (s *sqliteStore) ListNotes(ctx context.Context, q api.NoteQuery) ([]api.Note, error) {
	sqlq := `SELECT n.id, n.version, n.title, n.content, n.tags, n.created_at, n.updated_at FROM notes n`
	var args []any
	var where []string
	if tags := uniqueStrings(q.TagsAny); len(tags) > 0 {
		ph := make([]string, len(tags))
		for i, t := range tags {
			ph[i] = "?"
			args = append(args, t)
		}
		where = append(where, `EXISTS (SELECT 1 FROM note_tags nt WHERE nt.note_id = n.id AND nt.tag IN (`+strings.Join(ph, ",")+`))`)
	}
	if text := strings.TrimSpace(q.Text); text != "" {
		// LIKE folds ASCII case only
		pat := "%" + likeEscaper.Replace(text) + "%"
		where = append(where, `(n.title LIKE ? ESCAPE '\' OR n.content LIKE ? ESCAPE '\')`)
		args = append(args, pat, pat)
	}
	if len(where) > 0 {
		sqlq += ` WHERE ` + strings.Join(where, " AND ")
	}
	sqlq += ` ORDER BY n.updated_at DESC, n.id DESC`
	if q.Limit > 0 {
		sqlq += ` LIMIT ?`
		args = append(args, q.Limit)
	}
	rows, err := s.conn(ctx).QueryContext(ctx, sqlq, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []api.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// ListTags returns tag counts, most used first.
func (s *sqliteStore) ListTags(ctx context.Context) ([]api.TagStat, error) {
	rows, err := s.conn(ctx).QueryContext(ctx, `SELECT tag, COUNT(DISTINCT note_id) AS cnt FROM note_tags GROUP BY tag ORDER BY cnt DESC, tag ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []api.TagStat
	for rows.Next() {
		var t api.TagStat
		if err := rows.Scan(&t.Tag, &t.Count); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func upsertNoteTags(ctx context.Context, tx *sql.Tx, noteID string, tags []string) error {
	for _, t := range tags {
		if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO note_tags(note_id, tag) VALUES(?,?)`, noteID, t); err != nil {
			return err
		}
	}
	return nil
}

func nonNil(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

// Tasks

const taskColumns = `id, title, description, priority, status, due_date, created_at`

func scanTask(r scanner) (api.Task, error) {
	var t api.Task
	var priority, status, created string
	if err := r.Scan(&t.ID, &t.Title, &t.Description, &priority, &status, &t.DueDate, &created); err != nil {
		return api.Task{}, err
	}
	t.Priority = api.TaskPriority(priority)
	t.Status = api.TaskStatus(status)
	t.CreatedAt = parseTS(created)
	return t, nil
}

func (s *sqliteStore) CreateTask(ctx context.Context, t api.Task) (api.Task, error) {
	if err := validateTask(t); err != nil {
		return api.Task{}, err
	}
	_, err := s.conn(ctx).ExecContext(ctx, `INSERT INTO tasks(`+taskColumns+`) VALUES(?,?,?,?,?,?,?)`,
		t.ID, t.Title, t.Description, string(t.Priority), string(t.Status), t.DueDate, ts(t.CreatedAt))
	if isUniqueViolation(err) {
		return api.Task{}, ErrConflict
	}
	if err != nil {
		return api.Task{}, err
	}
	return t, nil
}

func (s *sqliteStore) GetTask(ctx context.Context, id string) (api.Task, error) {
	t, err := scanTask(s.conn(ctx).QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id=?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return api.Task{}, ErrNotFound
	}
	return t, err
}

func (s *sqliteStore) UpdateTask(ctx context.Context, t api.Task) (api.Task, error) {
	if err := validateTask(t); err != nil {
		return api.Task{}, err
	}
	var out api.Task
	err := s.inTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		cur, err := scanTask(tx.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id=?`, t.ID))
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		t.CreatedAt = cur.CreatedAt
		_, err = tx.ExecContext(ctx, `UPDATE tasks SET title=?, description=?, priority=?, status=?, due_date=? WHERE id=?`,
			t.Title, t.Description, string(t.Priority), string(t.Status), t.DueDate, t.ID)
		out = t
		return err
	})
	if err != nil {
		return api.Task{}, err
	}
	return out, nil
}

func (s *sqliteStore) DeleteTask(ctx context.Context, id string) error {
	res, err := s.conn(ctx).ExecContext(ctx, `DELETE FROM tasks WHERE id=?`, id)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *sqliteStore) ListTasks(ctx context.Context, status api.TaskStatus) ([]api.Task, error) {
	q := `SELECT ` + taskColumns + ` FROM tasks`
	var args []any
	if status != "" {
		q += ` WHERE status = ?`
		args = append(args, string(status))
	}
	q += ` ORDER BY created_at ASC, id ASC`
	rows, err := s.conn(ctx).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []api.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Habits

func (s *sqliteStore) CreateHabit(ctx context.Context, h api.Habit) (api.Habit, error) {
	if err := validateHabit(h); err != nil {
		return api.Habit{}, err
	}
	c := make(api.CompletionSet, len(h.Completions))
	for k, v := range h.Completions {
		if !v {
			continue
		}
		if err := validateDay(k); err != nil {
			return api.Habit{}, err
		}
		c[k] = true
	}
	h.Completions = c
	err := s.inTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO habits(id, name, goal, created_at) VALUES(?,?,?,?)`, h.ID, h.Name, h.Goal, ts(h.CreatedAt))
		if isUniqueViolation(err) {
			return ErrConflict
		}
		if err != nil {
			return err
		}
		for day := range h.Completions {
			if _, err := tx.ExecContext(ctx, `INSERT INTO habit_completions(habit_id, day) VALUES(?,?)`, h.ID, day); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return api.Habit{}, err
	}
	return h, nil
}

func (s *sqliteStore) GetHabit(ctx context.Context, id string) (api.Habit, error) {
	var h api.Habit
	var created string
	err := s.conn(ctx).QueryRowContext(ctx, `SELECT id, name, goal, created_at FROM habits WHERE id=?`, id).Scan(&h.ID, &h.Name, &h.Goal, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return api.Habit{}, ErrNotFound
	}
	if err != nil {
		return api.Habit{}, err
	}
	h.CreatedAt = parseTS(created)
	all, err := s.completions(ctx, id)
	if err != nil {
		return api.Habit{}, err
	}
	h.Completions = all[id]
	if h.Completions == nil {
		h.Completions = api.CompletionSet{}
	}
	return h, nil
}

// completions loads completion sets keyed by habit id; an empty id loads all.
func (s *sqliteStore) completions(ctx context.Context, id string) (map[string]api.CompletionSet, error) {
	q := `SELECT habit_id, day FROM habit_completions`
	var args []any
	if id != "" {
		q += ` WHERE habit_id = ?`
		args = append(args, id)
	}
	rows, err := s.conn(ctx).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]api.CompletionSet{}
	for rows.Next() {
		var hid, day string
		if err := rows.Scan(&hid, &day); err != nil {
			return nil, err
		}
		if out[hid] == nil {
			out[hid] = api.CompletionSet{}
		}
		out[hid][day] = true
	}
	return out, rows.Err()
}

func (s *sqliteStore) ListHabits(ctx context.Context) ([]api.Habit, error) {
	rows, err := s.conn(ctx).QueryContext(ctx, `SELECT id, name, goal, created_at FROM habits ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	var out []api.Habit
	for rows.Next() {
		var h api.Habit
		var created string
		if err := rows.Scan(&h.ID, &h.Name, &h.Goal, &created); err != nil {
			rows.Close()
			return nil, err
		}
		h.CreatedAt = parseTS(created)
		out = append(out, h)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	all, err := s.completions(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Completions = all[out[i].ID]
		if out[i].Completions == nil {
			out[i].Completions = api.CompletionSet{}
		}
	}
	return out, nil
}

func (s *sqliteStore) DeleteHabit(ctx context.Context, id string) error {
	return s.inTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM habit_completions WHERE habit_id=?`, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM habits WHERE id=?`, id)
		if err != nil {
			return err
		}
		if affected, _ := res.RowsAffected(); affected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *sqliteStore) SetCompletion(ctx context.Context, id, day string, done bool) (api.Habit, error) {
	if err := validateDay(day); err != nil {
		return api.Habit{}, err
	}
	err := s.inTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var exists int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM habits WHERE id=?`, id).Scan(&exists); err != nil {
			return err
		}
		if exists == 0 {
			return ErrNotFound
		}
		var err error
		if done {
			_, err = tx.ExecContext(ctx, `INSERT OR IGNORE INTO habit_completions(habit_id, day) VALUES(?,?)`, id, day)
		} else {
			_, err = tx.ExecContext(ctx, `DELETE FROM habit_completions WHERE habit_id=? AND day=?`, id, day)
		}
		return err
	})
	if err != nil {
		return api.Habit{}, err
	}
	return s.GetHabit(ctx, id)
}

// Sessions

func (s *sqliteStore) AddSession(ctx context.Context, sess api.Session) (api.Session, error) {
	if err := validateSession(sess); err != nil {
		return api.Session{}, err
	}
	_, err := s.conn(ctx).ExecContext(ctx, `INSERT INTO sessions(id, day, minutes) VALUES(?,?,?)`, sess.ID, sess.Date, sess.DurationMinutes)
	if isUniqueViolation(err) {
		return api.Session{}, ErrConflict
	}
	if err != nil {
		return api.Session{}, err
	}
	return sess, nil
}

func (s *sqliteStore) ListSessions(ctx context.Context, since, until string) ([]api.Session, error) {
	q := `SELECT id, day, minutes FROM sessions`
	var conds []string
	var args []any
	if since != "" {
		conds = append(conds, "day >= ?")
		args = append(args, since)
	}
	if until != "" {
		conds = append(conds, "day <= ?")
		args = append(args, until)
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY day ASC, id ASC"
	rows, err := s.conn(ctx).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []api.Session
	for rows.Next() {
		var sess api.Session
		if err := rows.Scan(&sess.ID, &sess.Date, &sess.DurationMinutes); err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}
