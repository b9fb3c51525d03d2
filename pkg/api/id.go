package api

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns a random UUIDv4 string.
func NewID() string {
	return uuid.NewString()
}

// ParsePriority maps user input such as "high" or "H" to a TaskPriority.
func ParsePriority(s string) (TaskPriority, bool) {
	switch lower(s) {
	case "low", "l":
		return PriorityLow, true
	case "", "medium", "med", "m":
		return PriorityMedium, true
	case "high", "h":
		return PriorityHigh, true
	}
	return "", false
}

// ParseStatus maps user input such as "todo", "doing" or "in-progress" to a TaskStatus.
func ParseStatus(s string) (TaskStatus, bool) {
	switch lower(s) {
	case "todo", "to do", "to-do":
		return StatusTodo, true
	case "doing", "in progress", "in-progress", "progress", "wip":
		return StatusInProgress, true
	case "done", "finished":
		return StatusDone, true
	}
	return "", false
}

func lower(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
