// Package pomodoro implements the focus timer state machine: work phases
// alternate with short breaks, and every few completed work phases earn a
// long break. The timer is driven by Tick so it can be tested without a clock.
package pomodoro

import (
	"fmt"
	"time"

	"github.com/mithrel/zenith/internal/stats"
	"github.com/mithrel/zenith/pkg/api"
)

type Mode string

const (
	ModeWork       Mode = "work"
	ModeShortBreak Mode = "shortBreak"
	ModeLongBreak  Mode = "longBreak"
)

// ParseMode accepts the mode names and a few shorthands.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "work", "focus":
		return ModeWork, nil
	case "shortBreak", "short", "short-break", "break":
		return ModeShortBreak, nil
	case "longBreak", "long", "long-break":
		return ModeLongBreak, nil
	}
	return "", fmt.Errorf("unknown timer mode %q", s)
}

// Settings are phase lengths in minutes.
type Settings struct {
	Work           int
	ShortBreak     int
	LongBreak      int
	LongBreakEvery int
}

// DefaultSettings matches the classic 25/5/15 cycle.
func DefaultSettings() Settings {
	return Settings{Work: 25, ShortBreak: 5, LongBreak: 15, LongBreakEvery: 4}
}

// Validate reports the first setting that cannot drive a timer.
func (s Settings) Validate() error {
	switch {
	case s.Work <= 0:
		return fmt.Errorf("work length must be greater than 0")
	case s.ShortBreak <= 0:
		return fmt.Errorf("short break length must be greater than 0")
	case s.LongBreak <= 0:
		return fmt.Errorf("long break length must be greater than 0")
	case s.LongBreakEvery <= 0:
		return fmt.Errorf("long break interval must be greater than 0")
	}
	return nil
}

// Length returns the configured duration of mode.
func (s Settings) Length(m Mode) time.Duration {
	switch m {
	case ModeShortBreak:
		return time.Duration(s.ShortBreak) * time.Minute
	case ModeLongBreak:
		return time.Duration(s.LongBreak) * time.Minute
	default:
		return time.Duration(s.Work) * time.Minute
	}
}

// Event describes a phase that just ran out.
type Event struct {
	Finished Mode
	Next     Mode
	// Session is set when a work phase finished.
	Session *api.Session
}

// Timer is a single pomodoro timer. It is not safe for concurrent use.
type Timer struct {
	settings  Settings
	mode      Mode
	remaining time.Duration
	running   bool
	completed int
}

// New returns a stopped timer at the start of a work phase.
func New(s Settings) *Timer {
	t := &Timer{settings: s}
	t.Switch(ModeWork)
	return t
}

func (t *Timer) Mode() Mode               { return t.mode }
func (t *Timer) Running() bool            { return t.running }
func (t *Timer) Remaining() time.Duration { return t.remaining }
func (t *Timer) Completed() int           { return t.completed }

// Toggle starts or pauses the countdown.
func (t *Timer) Toggle() { t.running = !t.running }

// Reset stops the timer and refills the current phase.
func (t *Timer) Reset() {
	t.running = false
	t.remaining = t.settings.Length(t.mode)
}

// Switch stops the timer and moves to the start of mode.
func (t *Timer) Switch(m Mode) {
	t.mode = m
	t.Reset()
}

// Progress is the elapsed fraction of the current phase in [0,1].
func (t *Timer) Progress() float64 {
	total := t.settings.Length(t.mode)
	if total <= 0 {
		return 0
	}
	p := float64(total-t.remaining) / float64(total)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Tick advances a running timer by d. When the phase runs out the timer
// stops, switches to the next phase and reports what finished. A finished
// work phase produces a session dated on today.
func (t *Timer) Tick(d time.Duration, today time.Time) (Event, bool) {
	if !t.running || d <= 0 {
		return Event{}, false
	}
	if d < t.remaining {
		t.remaining -= d
		return Event{}, false
	}

	ev := Event{Finished: t.mode}
	if t.mode == ModeWork {
		t.completed++
		ev.Session = &api.Session{
			ID:              api.NewID(),
			Date:            stats.Key(today),
			DurationMinutes: t.settings.Work,
		}
		ev.Next = ModeShortBreak
		if every := t.settings.LongBreakEvery; every > 0 && t.completed%every == 0 {
			ev.Next = ModeLongBreak
		}
	} else {
		ev.Next = ModeWork
	}
	t.Switch(ev.Next)
	return ev, true
}
