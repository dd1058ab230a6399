package model

import (
	"errors"
	"testing"
	"time"
)

func TestTaskValidateSuccess(t *testing.T) {
	at := time.Date(2026, 2, 9, 8, 0, 0, 0, time.UTC)
	task := Task{
		ID:         "task-1",
		Title:      "Read",
		Time:       &at,
		RepeatDays: []Weekday{Mon, Wed},
		Kind:       KindCustom,
	}
	if err := task.Validate(); err != nil {
		t.Fatalf("expected valid task, got error: %v", err)
	}
}

func TestTaskValidateEmptyTitle(t *testing.T) {
	err := Task{ID: "task-1", Title: "   ", Kind: KindCustom}.Validate()
	if !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got: %v", err)
	}
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got: %v", err)
	}
}

func TestTaskValidateInvalidEnums(t *testing.T) {
	task := Task{ID: "task-1", Title: "Bad kind", Kind: Kind("chore")}
	if err := task.Validate(); !errors.Is(err, ErrInvalidKind) {
		t.Fatalf("expected ErrInvalidKind, got: %v", err)
	}

	task.Kind = ""
	if err := task.Validate(); err != nil {
		t.Fatalf("empty kind should default to custom, got: %v", err)
	}

	task.RepeatDays = []Weekday{"Someday"}
	if err := task.Validate(); !errors.Is(err, ErrInvalidWeekday) {
		t.Fatalf("expected ErrInvalidWeekday, got: %v", err)
	}
}

func TestTaskValidateCalendarAnchors(t *testing.T) {
	at := time.Date(2026, 2, 9, 8, 0, 0, 0, time.UTC)
	day := CivilDate(2026, 2, 9)
	task := Task{ID: CalendarTaskID("1"), Title: "Standup", Kind: KindCalendar, Time: &at, Date: &day}
	if err := task.Validate(); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for double anchor, got: %v", err)
	}
}

func TestCloneDoesNotShareState(t *testing.T) {
	at := time.Date(2026, 2, 9, 8, 0, 0, 0, time.UTC)
	task := Task{ID: "a", Title: "Read", Time: &at, RepeatDays: []Weekday{Mon}}
	clone := task.Clone()
	*clone.Time = clone.Time.Add(time.Hour)
	clone.RepeatDays[0] = Tue
	if !task.Time.Equal(at) || task.RepeatDays[0] != Mon {
		t.Fatalf("clone mutated original: %+v", task)
	}
}

func TestCalendarTaskID(t *testing.T) {
	if got := CalendarTaskID("abc"); got != "calendar-abc" {
		t.Fatalf("unexpected calendar id: %q", got)
	}
	if !IsCalendarTaskID("calendar-abc") || IsCalendarTaskID("abc") {
		t.Fatal("calendar id prefix detection failed")
	}
}

func TestAddXPCaps(t *testing.T) {
	xp := 0
	for i := 0; i < 20; i++ {
		xp = AddXP(xp)
	}
	if xp != XPMax {
		t.Fatalf("expected xp capped at %d, got %d", XPMax, xp)
	}
}
