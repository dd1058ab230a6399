package model

import (
	"errors"
	"testing"
	"time"
)

func TestReminderBatchExpandsDistinctTimes(t *testing.T) {
	batch := ReminderBatch{
		Kind:  KindMedication,
		Title: " Vitamin D ",
		Times: []time.Time{
			time.Date(2026, 2, 9, 8, 0, 0, 0, time.UTC),
			time.Date(2026, 2, 10, 8, 0, 30, 0, time.UTC),
			time.Date(2026, 2, 9, 20, 0, 0, 0, time.UTC),
		},
		RepeatDays: []Weekday{Mon, Fri},
	}
	tasks, err := batch.Tasks()
	if err != nil {
		t.Fatalf("expand batch: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks after clock dedup, got %d", len(tasks))
	}
	if tasks[0].ID == tasks[1].ID || tasks[0].ID == "" {
		t.Fatalf("expected distinct random ids: %q %q", tasks[0].ID, tasks[1].ID)
	}
	for _, task := range tasks {
		if task.Kind != KindMedication || task.Title != "Vitamin D" || len(task.RepeatDays) != 2 {
			t.Fatalf("unexpected task: %+v", task)
		}
	}
}

func TestReminderBatchValidate(t *testing.T) {
	at := time.Date(2026, 2, 9, 8, 0, 0, 0, time.UTC)
	cases := []struct {
		name  string
		batch ReminderBatch
		want  error
	}{
		{"empty title", ReminderBatch{Kind: KindHydration, Times: []time.Time{at}}, ErrEmptyTitle},
		{"bad kind", ReminderBatch{Kind: KindCustom, Title: "Water", Times: []time.Time{at}}, ErrInvalidReminderKind},
		{"no times", ReminderBatch{Kind: KindHydration, Title: "Water"}, ErrNoReminderTimes},
		{"bad day", ReminderBatch{Kind: KindHydration, Title: "Water", Times: []time.Time{at}, RepeatDays: []Weekday{"Xyz"}}, ErrInvalidWeekday},
	}
	for _, tc := range cases {
		err := tc.batch.Validate()
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("%s: expected ErrValidation, got %v", tc.name, err)
		}
	}
}
