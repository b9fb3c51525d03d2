package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/zenith/internal/clock"
	"github.com/mithrel/zenith/internal/i18n"
	"github.com/mithrel/zenith/internal/notify"
	"github.com/mithrel/zenith/internal/pomodoro"
	"github.com/mithrel/zenith/pkg/api"
)

func TestFormatRemaining(t *testing.T) {
	assert.Equal(t, "25:00", FormatRemaining(25*time.Minute))
	assert.Equal(t, "00:01", FormatRemaining(200*time.Millisecond))
	assert.Equal(t, "00:00", FormatRemaining(-time.Second))
	assert.Equal(t, "61:05", FormatRemaining(61*time.Minute+5*time.Second))
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestTimerModelLogsSessionAndNotifies(t *testing.T) {
	tr, err := i18n.New("en", nil)
	require.NoError(t, err)
	rec := &notify.Recorder{}
	var logged []api.Session
	today := time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)

	m := NewTimerModel(TimerOptions{
		Settings:  pomodoro.Settings{Work: 1, ShortBreak: 1, LongBreak: 2, LongBreakEvery: 2},
		Clock:     clock.Fixed(today),
		I18n:      tr,
		Notifier:  rec,
		DoneToday: 2,
		OnSession: func(s api.Session) error { logged = append(logged, s); return nil },
	})
	assert.Contains(t, m.View(), "Work")
	assert.Contains(t, m.View(), "paused")
	assert.Contains(t, m.View(), "01:00")

	var model tea.Model = m
	model, _ = model.Update(key(" "))
	assert.Contains(t, model.View(), "running")

	start := time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)
	model, _ = model.Update(tickMsg(start))
	assert.Contains(t, model.View(), "00:59")
	model, cmd := model.Update(tickMsg(start.Add(time.Minute)))
	assert.NotNil(t, cmd, "ticking continues after a phase ends")

	require.Len(t, logged, 1)
	assert.Equal(t, "2024-06-03", logged[0].Date)
	assert.Equal(t, 1, logged[0].DurationMinutes)
	assert.Equal(t, []string{"Work: Time for a break!"}, rec.Sent)

	view := model.View()
	assert.Contains(t, view, "Short Break")
	assert.Contains(t, view, "paused")
	assert.Contains(t, view, "Completed today: 3")
	assert.Contains(t, view, "Logged a 1 minute session on 2024-06-03")
}

func TestTimerModelKeys(t *testing.T) {
	var model tea.Model = NewTimerModel(TimerOptions{Settings: pomodoro.DefaultSettings()})
	model, _ = model.Update(key("l"))
	assert.Contains(t, model.View(), "15:00")
	model, _ = model.Update(key("s"))
	assert.Contains(t, model.View(), "05:00")
	model, _ = model.Update(key("w"))
	assert.Contains(t, model.View(), "25:00")
	_, cmd := model.Update(key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestNotesModel(t *testing.T) {
	notes := []api.Note{{ID: "0123456789", Title: "Plan", Content: "# Goals\n- **ship**", Tags: []string{"work"}}}
	var model tea.Model = newNotesModel(notes)
	view := model.View()
	assert.Contains(t, view, "01234567")
	assert.Contains(t, view, "Plan")
	assert.NotContains(t, view, "Goals")

	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	view = model.View()
	assert.Contains(t, view, "Goals")
	assert.Contains(t, view, "• ship")

	assert.Equal(t, "(no notes)\n", newNotesModel(nil).View())
}

func TestPreviewText(t *testing.T) {
	assert.Equal(t, "a\nb", previewText("a\nb"))
	assert.True(t, strings.HasPrefix(previewText("# T\nx"), "T\nx"))
	assert.Equal(t, "<tag>", previewText("<tag>"))
}
