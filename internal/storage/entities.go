package storage

import "time"

// Setting keys.
const (
	KeyLastCalendarSync    = "lastCalendarSync"
	KeyOnboardingCompleted = "onboardingCompleted"
	KeyXP                  = "xp"
)

// Task is the persisted row of a task. DateOn is a YYYY-MM-DD civil date.
type Task struct {
	ID              string
	Title           string
	Kind            string
	Completed       bool
	TimeAt          *time.Time
	DateOn          string
	RepeatDays      []string
	LastCompletedAt string
	IsAllDay        bool
	Position        int
	UpdatedAt       time.Time
}

type Setting struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

type TaskListFilter struct {
	Kind   string
	Limit  int
	Offset int
}
