package store

import (
	"fmt"
	"time"

	"github.com/sandeepkv93/questd/internal/model"
	"github.com/sandeepkv93/questd/internal/storage"
)

func toRow(t model.Task) storage.Task {
	row := storage.Task{
		ID:              t.ID,
		Title:           t.Title,
		Kind:            string(t.Kind.Normalize()),
		Completed:       t.Completed,
		LastCompletedAt: t.LastCompletedAt,
		IsAllDay:        t.IsAllDay,
	}
	if t.Time != nil {
		at := *t.Time
		row.TimeAt = &at
	}
	if t.Date != nil {
		row.DateOn = t.Date.UTC().Format("2006-01-02")
	}
	for _, d := range t.RepeatDays {
		row.RepeatDays = append(row.RepeatDays, string(d))
	}
	return row
}

func fromRow(row storage.Task, loc *time.Location) (model.Task, error) {
	t := model.Task{
		ID:              row.ID,
		Title:           row.Title,
		Kind:            model.Kind(row.Kind).Normalize(),
		Completed:       row.Completed,
		LastCompletedAt: row.LastCompletedAt,
		IsAllDay:        row.IsAllDay,
	}
	if row.TimeAt != nil {
		at := row.TimeAt.In(loc)
		t.Time = &at
	}
	if row.DateOn != "" {
		d, err := time.Parse("2006-01-02", row.DateOn)
		if err != nil {
			return model.Task{}, fmt.Errorf("task %s: parse date %q: %w", row.ID, row.DateOn, err)
		}
		date := model.CivilDate(d.Date())
		t.Date = &date
	}
	for _, raw := range row.RepeatDays {
		d, err := model.ParseWeekday(raw)
		if err != nil {
			return model.Task{}, fmt.Errorf("task %s: %w", row.ID, err)
		}
		t.RepeatDays = append(t.RepeatDays, d)
	}
	return t, nil
}
