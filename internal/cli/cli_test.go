package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/zenith/internal/db"
	"github.com/mithrel/zenith/internal/i18n"
	"github.com/mithrel/zenith/pkg/api"
)

// setupEnv isolates config, data and editor scratch files under a temp dir.
func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_RUNTIME_DIR", filepath.Join(dir, "run"))
	t.Setenv("ZENITH_DATA_DIR", filepath.Join(dir, "data"))
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "")
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(&bytes.Buffer{})
	root.SetArgs(append([]string{"--today", "2024-06-03"}, args...))
	err := root.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	require.NoError(t, err, "zenith-cli %s", strings.Join(args, " "))
	return out
}

// createdID pulls the id from a "Created ... <id>" line.
func createdID(t *testing.T, out string) string {
	t.Helper()
	fields := strings.Fields(out)
	require.NotEmpty(t, fields)
	return fields[len(fields)-1]
}

func editorScript(t *testing.T, dir, body string) {
	t.Helper()
	script := filepath.Join(dir, "edit.sh")
	require.NoError(t, os.WriteFile(script, []byte(body), 0o700))
	t.Setenv("EDITOR", "sh "+script)
}

func TestNoteFlow(t *testing.T) {
	dir := setupEnv(t)

	out := mustRun(t, "note", "add", "Groceries", "-t", "shop", "-m", "- milk\n- eggs")
	require.True(t, strings.HasPrefix(out, "Created note "), out)
	id := createdID(t, out)

	out = mustRun(t, "note", "list", "--output", "plain")
	assert.Contains(t, out, "Groceries")
	assert.Contains(t, out, "shop")
	assert.Contains(t, out, id[:8])

	out = mustRun(t, "note", "preview", id[:8])
	assert.Equal(t, "<ul><li>milk</li><li>eggs</li></ul>\n", out)

	out = mustRun(t, "note", "show", id, "--output", "json")
	var n api.Note
	require.NoError(t, json.Unmarshal([]byte(out), &n))
	assert.Equal(t, "Groceries", n.Title)
	assert.Equal(t, []string{"shop"}, n.Tags)

	target := filepath.Join(dir, "export", "groceries.html")
	out = mustRun(t, "note", "export", id, "-o", target)
	assert.Contains(t, out, target)
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<title>Groceries</title>")
	assert.Contains(t, string(data), "<ul><li>milk</li><li>eggs</li></ul>")

	out = mustRun(t, "note", "tags")
	assert.Equal(t, "shop\t1\n", out)

	_, err = run(t, "note", "delete", id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")

	out = mustRun(t, "note", "delete", id, "--yes")
	assert.Contains(t, out, "Deleted note "+id)
	_, err = run(t, "note", "show", id)
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestNoteDefaultTagsFromEnv(t *testing.T) {
	setupEnv(t)
	t.Setenv("ZENITH_DEFAULT_TAGS", "inbox, later")
	id := createdID(t, mustRun(t, "note", "Quick thought"))

	var n api.Note
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, "note", "show", id, "--output", "json")), &n))
	assert.Equal(t, []string{"inbox", "later"}, n.Tags)
}

func TestNoteEditWithEditor(t *testing.T) {
	dir := setupEnv(t)
	id := createdID(t, mustRun(t, "note", "add", "Draft", "-m", "old body"))

	editorScript(t, dir, "printf 'Title: Renamed\\nTags: a, b\\n---\\nnew body\\n' > \"$1\"\n")
	out := mustRun(t, "note", "edit", id[:6])
	assert.Contains(t, out, "Saved note "+id)

	out = mustRun(t, "note", "show", id, "--output", "plain")
	assert.Contains(t, out, "Title: Renamed")
	assert.Contains(t, out, "Tags: a, b")
	assert.Contains(t, out, "new body")

	// an editor that leaves the file alone keeps the note as is
	editorScript(t, dir, "true\n")
	out = mustRun(t, "note", "edit", id)
	assert.Contains(t, out, "No edits")

	editorScript(t, dir, ": > \"$1\"\n")
	out = mustRun(t, "note", "edit", id)
	assert.Contains(t, out, "Deleted note "+id)
	_, err := run(t, "note", "show", id)
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestNoteAddWithEditor(t *testing.T) {
	dir := setupEnv(t)
	editorScript(t, dir, "printf 'Title:\\nTags: idea\\n---\\nFirst line wins\\nmore\\n' > \"$1\"\n")
	id := createdID(t, mustRun(t, "note", "add"))

	var n api.Note
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, "note", "show", id, "--output", "json")), &n))
	assert.Equal(t, "First line wins", n.Title)
	assert.Equal(t, []string{"idea"}, n.Tags)
	assert.Equal(t, "First line wins\nmore", n.Content)
}

func TestTaskFlow(t *testing.T) {
	setupEnv(t)

	out := mustRun(t, "task", "list", "--output", "plain")
	assert.Equal(t, "No tasks.\n", out)

	id := createdID(t, mustRun(t, "task", "add", "Write", "report", "--due", "tomorrow", "-p", "high"))

	out = mustRun(t, "task", "move", id[:8], "doing")
	assert.Equal(t, "Moved task "+id+" to In Progress\n", out)

	var tasks []api.Task
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, "task", "list", "--output", "json")), &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, "Write report", tasks[0].Title)
	assert.Equal(t, api.StatusInProgress, tasks[0].Status)
	assert.Equal(t, api.PriorityHigh, tasks[0].Priority)
	assert.Equal(t, "2024-06-04", tasks[0].DueDate)

	out = mustRun(t, "task", "list", "-s", "todo", "--output", "plain")
	assert.Equal(t, "No tasks.\n", out)

	_, err := run(t, "task", "move", id, "sideways")
	assert.Error(t, err)

	out = mustRun(t, "task", "delete", id)
	assert.Contains(t, out, "Deleted task "+id)
}

func TestHabitFlow(t *testing.T) {
	setupEnv(t)

	mustRun(t, "habit", "add", "Read")
	_, err := run(t, "habit", "add", "read")
	assert.Error(t, err)

	out := mustRun(t, "habit", "done", "read")
	assert.Contains(t, out, "Marked Read done on 2024-06-03")
	assert.Contains(t, out, "Current streak: 1")
	mustRun(t, "habit", "done", "Read", "--date", "yesterday")
	mustRun(t, "habit", "done", "Read", "--date", "2024-06-01")
	mustRun(t, "habit", "done", "Read", "--date", "2024-05-31")

	out = mustRun(t, "habit", "stats", "Read")
	assert.Contains(t, out, "Read (2024-06)")
	assert.Contains(t, out, "Current streak: 4")
	assert.Contains(t, out, "This month: 3")
	assert.Contains(t, out, "Total: 4")
	assert.Contains(t, out, "Goal: 3/20 days (15%)")
	assert.Contains(t, out, "\n 3    1 #\n")

	var st habitStats
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, "habit", "stats", "Read", "--month", "2024-05", "--output", "json")), &st))
	assert.Equal(t, "2024-05", st.MonthKey)
	assert.Len(t, st.Series, 31)
	assert.Equal(t, 1, st.Series[30].Count)
	assert.Equal(t, 1, st.Month)

	out = mustRun(t, "habit", "calendar", "Read")
	lines := strings.Split(out, "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	assert.Equal(t, "Read 2024-06", lines[0])
	assert.Equal(t, "Su  Mo  Tu  We  Th  Fr  Sa", lines[1])
	assert.Equal(t, " 2*  3*  4   5   6   7   8", lines[3])

	out = mustRun(t, "habit", "undo", "Read")
	assert.Contains(t, out, "Cleared Read on 2024-06-03")

	out = mustRun(t, "habit", "list", "--output", "plain")
	assert.Contains(t, out, "Read")

	_, err = run(t, "habit", "delete", "Read")
	assert.Error(t, err)
	out = mustRun(t, "habit", "delete", "Read", "-y")
	assert.Equal(t, "Deleted habit Read\n", out)
	assert.Equal(t, "No habits yet.\n", mustRun(t, "habit", "list", "--output", "plain"))
}

func TestFocusLogAndStats(t *testing.T) {
	setupEnv(t)

	out := mustRun(t, "focus", "log", "30")
	assert.Equal(t, "Logged a 30 minute session on 2024-06-03\n", out)
	mustRun(t, "focus", "log", "--date", "yesterday")
	mustRun(t, "focus", "log", "--date", "2024-05-10")

	_, err := run(t, "focus", "log", "0")
	assert.Error(t, err)

	out = mustRun(t, "focus", "stats")
	assert.Contains(t, out, "Completed today: 1")
	assert.Contains(t, out, "Minutes this month: 55")

	var st focusStats
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, "focus", "stats", "--output", "json")), &st))
	assert.Equal(t, "2024-06", st.Month)
	require.Len(t, st.Series, 30)
	assert.Equal(t, 25, st.Series[1].Minutes)
	assert.Equal(t, 1, st.Series[2].Count)

	var sessions []api.Session
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, "focus", "list", "--month", "2024-05", "--output", "json")), &sessions))
	require.Len(t, sessions, 1)
	assert.Equal(t, "2024-05-10", sessions[0].Date)
	assert.Equal(t, 25, sessions[0].DurationMinutes)
}

func TestFocusUsesConfiguredWorkLength(t *testing.T) {
	setupEnv(t)
	t.Setenv("ZENITH_POMODORO_WORK", "50")
	out := mustRun(t, "focus", "log")
	assert.Equal(t, "Logged a 50 minute session on 2024-06-03\n", out)
}

func TestConfigGenerateAndCheck(t *testing.T) {
	dir := setupEnv(t)

	out := mustRun(t, "config", "check")
	assert.Equal(t, "Config OK (defaults)\n", out)

	path := filepath.Join(dir, "zenith.toml")
	out = mustRun(t, "config", "generate", "-o", path)
	assert.Contains(t, out, "Wrote "+path)
	_, err := run(t, "config", "generate", "-o", path)
	assert.Error(t, err)

	out = mustRun(t, "--config", path, "config", "check")
	assert.Equal(t, "Config OK ("+path+")\n", out)

	t.Setenv("ZENITH_POMODORO_WORK", "0")
	t.Setenv("ZENITH_WEEK_START", "someday")
	_, err = run(t, "config", "check")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pomodoro.work")
	assert.Contains(t, err.Error(), "week_start")
}

func TestLocaleFlag(t *testing.T) {
	setupEnv(t)
	out := mustRun(t, "--locale", "ar", "task", "list", "--output", "plain")
	assert.NotEqual(t, "No tasks.\n", out)
	assert.NotEmpty(t, strings.TrimSpace(out))
}

func TestInvalidToday(t *testing.T) {
	setupEnv(t)
	root := NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"--today", "June 3", "task", "list"})
	assert.Error(t, root.Execute())
}

func TestMatchID(t *testing.T) {
	ids := []string{"abc123", "abd456", "xyz789"}

	id, err := matchID("note", "abc123", ids)
	require.NoError(t, err)
	assert.Equal(t, "abc123", id)

	id, err = matchID("note", "x", ids)
	require.NoError(t, err)
	assert.Equal(t, "xyz789", id)

	_, err = matchID("note", "ab", ids)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ambiguous")

	_, err = matchID("note", "q", ids)
	assert.ErrorIs(t, err, db.ErrNotFound)

	_, err = matchID("note", " ", ids)
	assert.Error(t, err)
}

func TestCompletion(t *testing.T) {
	setupEnv(t)
	out := mustRun(t, "completion", "bash")
	assert.Contains(t, out, "zenith-cli")

	_, err := run(t, "completion", "tcsh")
	assert.Error(t, err)

	mustRun(t, "habit", "add", "Read")
	mustRun(t, "habit", "add", "Run")
	root := NewRootCmd()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"__complete", "habit", "done", "Rea"})
	require.NoError(t, root.Execute())
	assert.Contains(t, buf.String(), "Read\n")
	assert.NotContains(t, buf.String(), "Run\n")
}

func TestConfigUpdateKeepsBackup(t *testing.T) {
	dir := setupEnv(t)
	path := filepath.Join(dir, "zenith.toml")
	require.NoError(t, os.WriteFile(path, []byte("locale = \"ar\"\n"), 0o600))

	out := mustRun(t, "config", "generate", "-o", path, "--update")
	assert.Contains(t, out, "Backup: "+path+".bak")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "locale = \"ar\"")
	assert.Contains(t, string(data), "[pomodoro]")

	out = mustRun(t, "config", "generate", "-o", path, "--update")
	assert.Contains(t, out, "already up to date")

	_, err = run(t, "config", "generate", "-o", path, "--update", "--overwrite")
	assert.Error(t, err)

	out = mustRun(t, "config", "generate", "-o", "-")
	assert.True(t, strings.HasPrefix(out, "# zenith configuration (TOML)"))

	out = mustRun(t, "config", "path")
	assert.Contains(t, out, filepath.Join(dir, "data", "zenith.db"))
}

func TestTaskEdit(t *testing.T) {
	setupEnv(t)
	id := createdID(t, mustRun(t, "task", "add", "Draft", "memo", "--due", "today", "-d", "first pass"))

	out := mustRun(t, "task", "edit", id[:8], "--title", "Final memo", "-p", "high", "--due", "2024-06-10")
	assert.Equal(t, "Updated task "+id+"\n", out)

	var tasks []api.Task
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, "task", "list", "--output", "json")), &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, "Final memo", tasks[0].Title)
	assert.Equal(t, api.PriorityHigh, tasks[0].Priority)
	assert.Equal(t, "2024-06-10", tasks[0].DueDate)
	// untouched flags keep their values
	assert.Equal(t, "first pass", tasks[0].Description)
	assert.Equal(t, api.StatusTodo, tasks[0].Status)

	mustRun(t, "task", "edit", id, "-s", "done", "--due", "", "-d", "")
	tasks = nil
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, "task", "list", "--output", "json")), &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, api.StatusDone, tasks[0].Status)
	assert.Empty(t, tasks[0].DueDate)
	assert.Empty(t, tasks[0].Description)
	assert.Equal(t, "Final memo", tasks[0].Title)

	_, err := run(t, "task", "edit", id, "-p", "urgent")
	assert.Error(t, err)
	_, err = run(t, "task", "edit", id, "--title", " ")
	assert.Error(t, err)
	_, err = run(t, "task", "edit", "zzz", "--title", "x")
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestNoteSearch(t *testing.T) {
	setupEnv(t)
	a := createdID(t, mustRun(t, "note", "add", "Grocery list", "-t", "shop", "-m", "milk"))
	b := createdID(t, mustRun(t, "note", "add", "Standup", "-t", "work", "-m", "demo the GROCERY app"))
	mustRun(t, "note", "add", "Reading", "-m", "a novel")

	var found []api.Note
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, "note", "search", "grocery", "--output", "json")), &found))
	require.Len(t, found, 2)
	assert.ElementsMatch(t, []string{a, b}, []string{found[0].ID, found[1].ID})

	found = nil
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, "note", "search", "grocery", "-t", "work", "--output", "json")), &found))
	require.Len(t, found, 1)
	assert.Equal(t, b, found[0].ID)

	out := mustRun(t, "note", "search", "MILK", "--output", "plain")
	assert.Contains(t, out, "Grocery list")
	assert.NotContains(t, out, "Standup")

	out = mustRun(t, "note", "search", "nothing", "here")
	assert.Equal(t, "No notes match nothing here.\n", out)

	out = mustRun(t, "note", "list", "--search", "novel", "--output", "plain")
	assert.Contains(t, out, "Reading")
	assert.NotContains(t, out, "Grocery list")

	_, err := run(t, "note", "search")
	assert.Error(t, err)
}

func TestNoteDeletePrompt(t *testing.T) {
	for _, locale := range []string{"en", "ar"} {
		t.Run(locale, func(t *testing.T) {
			tr, err := i18n.New(locale, nil)
			require.NoError(t, err)
			one := []api.Note{{ID: "a", Title: "Groceries"}}
			title, desc := deletePrompt(tr, one)
			assert.Contains(t, title, "Groceries")
			assert.NotEqual(t, "note.confirmDeleteDesc", desc)

			title, desc = deletePrompt(tr, append(one, api.Note{ID: "b", Title: "Other"}))
			assert.Contains(t, title, "2")
			assert.NotContains(t, title, "{count}")
			assert.NotEqual(t, "note.confirmDeleteMany", title)
			assert.NotEqual(t, "note.confirmDeleteDesc", desc)
		})
	}

	tr, err := i18n.New("en", nil)
	require.NoError(t, err)
	title, desc := deletePrompt(tr, []api.Note{{ID: "a"}, {ID: "b"}, {ID: "c"}})
	assert.Equal(t, "Delete 3 notes?", title)
	assert.Equal(t, "This will permanently delete the selected notes.", desc)
}

func TestNoteDeleteMany(t *testing.T) {
	setupEnv(t)
	a := createdID(t, mustRun(t, "note", "add", "One"))
	b := createdID(t, mustRun(t, "note", "add", "Two"))

	_, err := run(t, "note", "delete", a, b)
	require.Error(t, err)

	out := mustRun(t, "note", "delete", a, b, "-y")
	assert.Contains(t, out, "Deleted note "+a)
	assert.Contains(t, out, "Deleted note "+b)
}
