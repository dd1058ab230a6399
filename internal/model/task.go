package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrValidation     = errors.New("model: validation failed")
	ErrEmptyTitle     = fmt.Errorf("%w: task title is required", ErrValidation)
	ErrInvalidKind    = fmt.Errorf("%w: invalid task kind", ErrValidation)
	ErrInvalidWeekday = fmt.Errorf("%w: invalid weekday", ErrValidation)
)

// XP rules.
const (
	XPReward = 10
	XPMax    = 100
)

const calendarIDPrefix = "calendar-"

type Kind string

const (
	KindCustom     Kind = "custom"
	KindMedication Kind = "medication"
	KindHydration  Kind = "hydration"
	KindCalendar   Kind = "calendar"
)

func (k Kind) IsValid() bool {
	switch k {
	case KindCustom, KindMedication, KindHydration, KindCalendar:
		return true
	default:
		return false
	}
}

// Normalize maps the empty kind to custom.
func (k Kind) Normalize() Kind {
	if k == "" {
		return KindCustom
	}
	return k
}

type Task struct {
	ID              string
	Title           string
	Completed       bool
	Time            *time.Time
	Date            *time.Time
	RepeatDays      []Weekday
	LastCompletedAt string
	Kind            Kind
	IsAllDay        bool
}

func (t Task) IsCalendar() bool {
	return t.Kind == KindCalendar
}

func (t Task) IsRecurring() bool {
	return len(t.RepeatDays) > 0
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}
	if !t.Kind.Normalize().IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidKind, t.Kind)
	}
	for _, d := range t.RepeatDays {
		if !d.IsValid() {
			return fmt.Errorf("%w: %q", ErrInvalidWeekday, d)
		}
	}
	if t.IsCalendar() && t.Time != nil && t.Date != nil {
		return fmt.Errorf("%w: calendar task %s carries both time and date", ErrValidation, t.ID)
	}
	return nil
}

// Clone returns a copy that shares no pointers with t.
func (t Task) Clone() Task {
	out := t
	if t.Time != nil {
		v := *t.Time
		out.Time = &v
	}
	if t.Date != nil {
		v := *t.Date
		out.Date = &v
	}
	if t.RepeatDays != nil {
		out.RepeatDays = append([]Weekday(nil), t.RepeatDays...)
	}
	return out
}

// CalendarTaskID derives the stable id of the task imported from eventID.
func CalendarTaskID(eventID string) string {
	return calendarIDPrefix + eventID
}

func IsCalendarTaskID(id string) bool {
	return strings.HasPrefix(id, calendarIDPrefix)
}

// DateKey formats t as YYYY-MM-DD in t's own location.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// CivilDate returns midnight UTC of the calendar date y-m-d.
func CivilDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// StartOfDay returns midnight of t's date in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// AddXP applies one completion reward, capped at XPMax.
func AddXP(xp int) int {
	xp += XPReward
	if xp > XPMax {
		return XPMax
	}
	if xp < 0 {
		return 0
	}
	return xp
}
