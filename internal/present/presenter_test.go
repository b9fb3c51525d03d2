package present

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/zenith/pkg/api"
)

func TestParseMode(t *testing.T) {
	for s, want := range map[string]Mode{"plain": ModePlain, "pretty": ModePretty, "json": ModeJSON, "ndjson": ModeNDJSON, "tui": ModeTUI, "board": ModeBoard} {
		got, ok := ParseMode(s)
		assert.True(t, ok, s)
		assert.Equal(t, want, got, s)
	}
	_, ok := ParseMode("xml")
	assert.False(t, ok)
}

func TestRenderNotesJSON(t *testing.T) {
	var buf bytes.Buffer
	notes := []api.Note{{ID: "a", Title: "x"}}
	require.NoError(t, RenderNotes(context.Background(), &buf, notes, Options{Mode: ModeJSON}))
	var back []api.Note
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, "x", back[0].Title)
}

func TestUnsupportedModes(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, RenderNotes(context.Background(), &buf, nil, Options{Mode: ModeBoard}), errUnsupported)
	assert.ErrorIs(t, RenderNote(&buf, api.Note{}, Options{Mode: ModeTUI}), errUnsupported)
	assert.ErrorIs(t, RenderTasks(&buf, nil, Options{Mode: ModeTUI}), errUnsupported)
	assert.ErrorIs(t, RenderHabits(&buf, nil, Options{Mode: ModeBoard}), errUnsupported)
}

func TestRenderTasksBoard(t *testing.T) {
	var buf bytes.Buffer
	tasks := []api.Task{{ID: "t", Title: "write docs", Status: api.StatusDone, Priority: api.PriorityLow}}
	require.NoError(t, RenderTasks(&buf, tasks, Options{Mode: ModeBoard}))
	assert.Contains(t, buf.String(), "Done (1)")
	assert.Contains(t, buf.String(), "write docs")
}
