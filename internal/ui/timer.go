package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mithrel/zenith/internal/clock"
	"github.com/mithrel/zenith/internal/i18n"
	"github.com/mithrel/zenith/internal/notify"
	"github.com/mithrel/zenith/internal/pomodoro"
	"github.com/mithrel/zenith/pkg/api"
)

// TimerOptions wires the focus timer to storage and notifications.
type TimerOptions struct {
	Settings  pomodoro.Settings
	Start     pomodoro.Mode
	AutoStart bool
	// DoneToday seeds the completed counter with sessions already logged.
	DoneToday int
	Clock     clock.Clock
	I18n      *i18n.Translator
	Notifier  notify.Notifier
	// OnSession persists a finished work phase.
	OnSession func(api.Session) error
}

// RunTimer runs the interactive focus timer until the user quits.
func RunTimer(ctx context.Context, opts TimerOptions) error {
	p := tea.NewProgram(NewTimerModel(opts), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(TimerModel); ok && m.err != nil {
		return m.err
	}
	return nil
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// TimerModel is the Bubble Tea model around pomodoro.Timer.
type TimerModel struct {
	opts   TimerOptions
	timer  *pomodoro.Timer
	bar    progress.Model
	last   time.Time
	status string
	err    error
}

func NewTimerModel(opts TimerOptions) TimerModel {
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.Nop{}
	}
	t := pomodoro.New(opts.Settings)
	if opts.Start != "" && opts.Start != pomodoro.ModeWork {
		t.Switch(opts.Start)
	}
	if opts.AutoStart {
		t.Toggle()
	}
	return TimerModel{
		opts:  opts,
		timer: t,
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}
}

func (m TimerModel) Init() tea.Cmd { return tick() }

func (m TimerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case " ", "p":
			m.timer.Toggle()
			m.last = time.Time{}
		case "r":
			m.timer.Reset()
		case "w":
			m.timer.Switch(pomodoro.ModeWork)
		case "s":
			m.timer.Switch(pomodoro.ModeShortBreak)
		case "l":
			m.timer.Switch(pomodoro.ModeLongBreak)
		}
		return m, nil
	case tickMsg:
		now := time.Time(msg)
		delta := time.Second
		if !m.last.IsZero() {
			delta = now.Sub(m.last)
		}
		m.last = now
		if ev, done := m.timer.Tick(delta, m.opts.Clock.Now()); done {
			m.finish(ev)
		}
		return m, tick()
	case tea.WindowSizeMsg:
		m.bar.Width = max(10, min(60, msg.Width-4))
		return m, nil
	}
	return m, nil
}

func (m *TimerModel) finish(ev pomodoro.Event) {
	body := m.t("pomodoro.notificationWork", nil)
	if ev.Session != nil {
		body = m.t("pomodoro.notificationBreak", nil)
		if m.opts.OnSession != nil {
			if err := m.opts.OnSession(*ev.Session); err != nil {
				m.err = err
			}
		}
		m.status = m.t("pomodoro.logged", map[string]any{"minutes": ev.Session.DurationMinutes, "date": ev.Session.Date})
	}
	_ = m.opts.Notifier.Notify(m.t("pomodoro."+string(ev.Finished), nil), body)
}

func (m TimerModel) t(key string, repl map[string]any) string {
	if m.opts.I18n == nil {
		return key
	}
	return m.opts.I18n.T(key, repl)
}

var (
	modeStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	clockStyle = lipgloss.NewStyle().Bold(true)
	helpStyle  = lipgloss.NewStyle().Faint(true)
)

func (m TimerModel) View() string {
	state := m.t("pomodoro.paused", nil)
	if m.timer.Running() {
		state = m.t("pomodoro.running", nil)
	}
	var b strings.Builder
	b.WriteString(modeStyle.Render(m.t("pomodoro."+string(m.timer.Mode()), nil)) + "  " + state + "\n\n")
	b.WriteString(clockStyle.Render(FormatRemaining(m.timer.Remaining())) + "\n")
	b.WriteString(m.bar.ViewAs(m.timer.Progress()) + "\n\n")
	b.WriteString(m.t("pomodoro.completedToday", map[string]any{"count": m.opts.DoneToday + m.timer.Completed()}) + "\n")
	if m.status != "" {
		b.WriteString(m.status + "\n")
	}
	if m.err != nil {
		b.WriteString("error: " + m.err.Error() + "\n")
	}
	b.WriteString(helpStyle.Render(m.t("pomodoro.help", nil)) + "\n")
	return b.String()
}

// FormatRemaining renders d as MM:SS, rounding partial seconds up.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int((d + time.Second - 1) / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
