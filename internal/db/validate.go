package db

import (
	"fmt"
	"strings"

	"github.com/mithrel/zenith/internal/stats"
	"github.com/mithrel/zenith/pkg/api"
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...)
}

func validateNote(n api.Note) error {
	if strings.TrimSpace(n.ID) == "" {
		return invalid("note id is required")
	}
	if strings.TrimSpace(n.Title) == "" {
		return invalid("note title is required")
	}
	return nil
}

func validateTask(t api.Task) error {
	if strings.TrimSpace(t.ID) == "" {
		return invalid("task id is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return invalid("task title is required")
	}
	if _, ok := api.ParseStatus(string(t.Status)); !ok {
		return invalid("task status %q", t.Status)
	}
	if _, ok := api.ParsePriority(string(t.Priority)); !ok {
		return invalid("task priority %q", t.Priority)
	}
	if t.DueDate != "" {
		if _, ok := stats.ParseKey(t.DueDate); !ok {
			return invalid("task due date %q", t.DueDate)
		}
	}
	return nil
}

func validateHabit(h api.Habit) error {
	if strings.TrimSpace(h.ID) == "" {
		return invalid("habit id is required")
	}
	if strings.TrimSpace(h.Name) == "" {
		return invalid("habit name is required")
	}
	if h.Goal < 0 {
		return invalid("habit goal must not be negative")
	}
	return nil
}

func validateDay(day string) error {
	if _, ok := stats.ParseKey(day); !ok {
		return invalid("date %q is not YYYY-MM-DD", day)
	}
	return nil
}

func validateSession(s api.Session) error {
	if strings.TrimSpace(s.ID) == "" {
		return invalid("session id is required")
	}
	if err := validateDay(s.Date); err != nil {
		return err
	}
	if s.DurationMinutes <= 0 {
		return invalid("session duration must be positive")
	}
	return nil
}
