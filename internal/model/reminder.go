package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidReminderKind = fmt.Errorf("%w: reminder kind must be medication or hydration", ErrValidation)
	ErrNoReminderTimes     = errors.New("model: reminder batch needs at least one time")
)

// ReminderBatch describes medication or hydration reminders entered at once.
type ReminderBatch struct {
	Kind       Kind
	Title      string
	Times      []time.Time
	RepeatDays []Weekday
}

func (b ReminderBatch) Validate() error {
	if strings.TrimSpace(b.Title) == "" {
		return ErrEmptyTitle
	}
	if b.Kind != KindMedication && b.Kind != KindHydration {
		return fmt.Errorf("%w: %q", ErrInvalidReminderKind, b.Kind)
	}
	if len(b.Times) == 0 {
		return fmt.Errorf("%w: %w", ErrValidation, ErrNoReminderTimes)
	}
	for _, d := range b.RepeatDays {
		if !d.IsValid() {
			return fmt.Errorf("%w: %q", ErrInvalidWeekday, d)
		}
	}
	return nil
}

// Tasks expands the batch into one task per distinct clock time.
func (b ReminderBatch) Tasks() ([]Task, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	seen := make(map[int]bool, len(b.Times))
	out := make([]Task, 0, len(b.Times))
	for _, at := range b.Times {
		clock := at.Hour()*60 + at.Minute()
		if seen[clock] {
			continue
		}
		seen[clock] = true
		tm := at
		out = append(out, Task{
			ID:         NewTaskID(),
			Title:      strings.TrimSpace(b.Title),
			Time:       &tm,
			RepeatDays: append([]Weekday(nil), b.RepeatDays...),
			Kind:       b.Kind,
		})
	}
	return out, nil
}

// NewTaskID returns a random id for a user-origin task.
func NewTaskID() string {
	return uuid.NewString()
}
