package scheduler

import (
	"testing"
	"time"

	"github.com/sandeepkv93/questd/internal/model"
)

func fixedReminders(engine *Engine, now time.Time) *Reminders {
	r := NewReminders(engine, nil)
	r.now = func() time.Time { return now }
	return r
}

func TestScheduleReminderWeeklyPerRepeatDay(t *testing.T) {
	engine := NewEngine(8)
	// Wednesday 2024-05-01 10:00 UTC.
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	r := fixedReminders(engine, now)

	at := time.Date(2024, 4, 1, 7, 45, 0, 0, time.UTC)
	if err := r.ScheduleReminder("med-1", "Vitamins", at, []model.Weekday{model.Mon, model.Wed}); err != nil {
		t.Fatalf("schedule reminder: %v", err)
	}
	if engine.Pending() != 2 {
		t.Fatalf("expected 2 weekly triggers, got %d", engine.Pending())
	}

	got := map[string]ReminderEvent{}
	for _, item := range engine.queue {
		got[item.event.Key] = item.event
	}
	mon, ok := got["med-1/Mon@07:45"]
	if !ok || !mon.Weekly || !mon.TriggerAt.Equal(time.Date(2024, 5, 6, 7, 45, 0, 0, time.UTC)) {
		t.Fatalf("unexpected Monday trigger: %#v", mon)
	}
	wed, ok := got["med-1/Wed@07:45"]
	if !ok || !wed.TriggerAt.Equal(time.Date(2024, 5, 8, 7, 45, 0, 0, time.UTC)) {
		t.Fatalf("unexpected Wednesday trigger: %#v", wed)
	}
	if wed.Title != "Vitamins" {
		t.Fatalf("expected title carried, got %q", wed.Title)
	}
}

func TestScheduleReminderOneShot(t *testing.T) {
	engine := NewEngine(8)
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	r := fixedReminders(engine, now)

	if err := r.ScheduleReminder("t1", "Call", now.Add(time.Hour), nil); err != nil {
		t.Fatalf("schedule reminder: %v", err)
	}
	if err := r.ScheduleReminder("t2", "Past", now.Add(-time.Hour), nil); err != nil {
		t.Fatalf("schedule past reminder: %v", err)
	}
	if engine.Pending() != 1 {
		t.Fatalf("expected only the future one-shot to be pending, got %d", engine.Pending())
	}
	if engine.queue[0].event.Weekly {
		t.Fatalf("one-shot trigger must not re-arm")
	}

	r.CancelReminders("t1")
	if engine.Pending() != 0 {
		t.Fatalf("expected cancel to clear triggers, got %d", engine.Pending())
	}
}
