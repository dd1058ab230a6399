package model

import (
	"errors"
	"testing"
	"time"
)

func TestRecurrenceWeeklyNextAfter(t *testing.T) {
	rule := RecurrenceRule{
		Type:    RecurrenceWeekly,
		Anchor:  time.Date(2026, 2, 9, 9, 0, 0, 0, time.UTC), // Monday
		Weekday: Mon,
	}
	from := time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC) // Friday

	next, err := rule.NextAfter(from)
	if err != nil {
		t.Fatalf("next weekly failed: %v", err)
	}
	if next.Weekday() != time.Monday || next.Format("2006-01-02 15:04") != "2026-02-16 09:00" {
		t.Fatalf("unexpected next weekly: %s", next.Format(time.RFC3339))
	}
}

func TestRecurrenceWeeklySameDayLaterClock(t *testing.T) {
	rule := RecurrenceRule{
		Type:    RecurrenceWeekly,
		Anchor:  time.Date(2026, 1, 1, 18, 30, 0, 0, time.UTC),
		Weekday: Wed,
	}
	from := time.Date(2026, 2, 11, 7, 0, 0, 0, time.UTC) // Wednesday morning
	next, err := rule.NextAfter(from)
	if err != nil {
		t.Fatalf("next weekly failed: %v", err)
	}
	if next.Format("2006-01-02 15:04") != "2026-02-11 18:30" {
		t.Fatalf("unexpected next occurrence: %s", next.Format(time.RFC3339))
	}
}

func TestRecurrenceOnce(t *testing.T) {
	at := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	rule := RecurrenceRule{Type: RecurrenceOnce, Anchor: at}
	next, err := rule.NextAfter(at.Add(-time.Hour))
	if err != nil || !next.Equal(at) {
		t.Fatalf("expected one-shot at anchor, got %v err=%v", next, err)
	}
	next, err = rule.NextAfter(at)
	if err != nil || !next.IsZero() {
		t.Fatalf("expected zero after anchor passed, got %v err=%v", next, err)
	}
}

func TestRecurrencePreview(t *testing.T) {
	rule := RecurrenceRule{
		Type:    RecurrenceWeekly,
		Anchor:  time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
		Weekday: Thu,
	}
	list, err := rule.Preview(time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC), 3)
	if err != nil {
		t.Fatalf("preview failed: %v", err)
	}
	want := []string{"2026-02-05 09:00", "2026-02-12 09:00", "2026-02-19 09:00"}
	if len(list) != len(want) {
		t.Fatalf("expected %d preview items, got %d", len(want), len(list))
	}
	for i := range list {
		if got := list[i].Format("2006-01-02 15:04"); got != want[i] {
			t.Fatalf("preview[%d] got %s want %s", i, got, want[i])
		}
	}
}

func TestRulesFor(t *testing.T) {
	at := time.Date(2026, 2, 9, 7, 45, 0, 0, time.UTC)
	rules := RulesFor(at, []Weekday{Mon, Thu})
	if len(rules) != 2 || rules[0].Key() != "Mon@07:45" || rules[1].Key() != "Thu@07:45" {
		t.Fatalf("unexpected weekly rules: %+v", rules)
	}
	once := RulesFor(at, nil)
	if len(once) != 1 || once[0].Type != RecurrenceOnce {
		t.Fatalf("expected one-shot rule, got %+v", once)
	}
}

func TestRecurrenceValidate(t *testing.T) {
	_, err := RecurrenceRule{Type: "daily", Anchor: time.Now()}.NextAfter(time.Now())
	if !errors.Is(err, ErrInvalidRecurrenceType) {
		t.Fatalf("expected ErrInvalidRecurrenceType, got %v", err)
	}
	_, err = RecurrenceRule{Type: RecurrenceWeekly, Weekday: Mon}.NextAfter(time.Now())
	if !errors.Is(err, ErrAnchorRequired) {
		t.Fatalf("expected ErrAnchorRequired, got %v", err)
	}
}
