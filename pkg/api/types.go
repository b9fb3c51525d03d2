package api

import "time"

// Note is a markdown notebook page.
type Note struct {
	ID        string    `json:"id"`
	Version   int64     `json:"version"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "Low"
	PriorityMedium TaskPriority = "Medium"
	PriorityHigh   TaskPriority = "High"
)

type TaskStatus string

const (
	StatusTodo       TaskStatus = "To Do"
	StatusInProgress TaskStatus = "In Progress"
	StatusDone       TaskStatus = "Done"
)

// Statuses lists board columns in display order.
var Statuses = []TaskStatus{StatusTodo, StatusInProgress, StatusDone}

// Task is a card on the kanban board.
type Task struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Priority    TaskPriority `json:"priority"`
	Status      TaskStatus   `json:"status"`
	DueDate     string       `json:"due_date,omitempty"` // YYYY-MM-DD
	CreatedAt   time.Time    `json:"created_at"`
}

// CompletionSet maps a YYYY-MM-DD key to whether the habit was done that day.
type CompletionSet map[string]bool

// Habit is a recurring goal tracked per calendar day.
type Habit struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Goal        int           `json:"goal"` // days per month
	Completions CompletionSet `json:"completions"`
	CreatedAt   time.Time     `json:"created_at"`
}

// Session is one finished focus period.
type Session struct {
	ID              string `json:"id"`
	Date            string `json:"date"` // YYYY-MM-DD
	DurationMinutes int    `json:"duration_minutes"`
}

// NoteQuery filters notes for listing.
type NoteQuery struct {
	TagsAny []string // match if note has ANY of these tags
	// Text matches a case-insensitive substring of the title or content.
	Text  string
	Limit int
}

// TagStat is a tag with the number of notes carrying it.
type TagStat struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}
