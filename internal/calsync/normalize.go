// Package calsync imports external calendar events as tasks: normalization,
// dedup, merge against the stored collection and the throttled sync loop.
package calsync

import (
	"strings"
	"time"

	"github.com/sandeepkv93/questd/internal/calendar"
	"github.com/sandeepkv93/questd/internal/model"
)

// Normalize converts raw events into calendar tasks. Events without a title
// or start instant are dropped, as are holidays and birthdays. All-day events
// land on the start's UTC date plus shiftDays. The result is deduplicated.
func Normalize(events []calendar.Event, shiftDays int) []model.Task {
	out := make([]model.Task, 0, len(events))
	for _, ev := range events {
		task, ok := normalizeEvent(ev, shiftDays)
		if !ok {
			continue
		}
		out = append(out, task)
	}
	return Dedup(out)
}

func normalizeEvent(ev calendar.Event, shiftDays int) (model.Task, bool) {
	title := strings.TrimSpace(ev.Title)
	if title == "" || ev.Start.IsZero() || ev.ID == "" {
		return model.Task{}, false
	}
	if model.IsHolidayTitle(title) || isBirthdayTitle(title) {
		return model.Task{}, false
	}
	task := model.Task{
		ID:       model.CalendarTaskID(ev.ID),
		Title:    title,
		Kind:     model.KindCalendar,
		IsAllDay: ev.AllDay,
	}
	if ev.AllDay {
		y, m, d := ev.Start.UTC().Date()
		date := model.CivilDate(y, m, d+shiftDays)
		task.Date = &date
	} else {
		start := ev.Start
		task.Time = &start
	}
	return task, true
}

func isBirthdayTitle(title string) bool {
	lower := strings.ToLower(title)
	for _, token := range []string{"birthday", "narozeniny", "geburtstag"} {
		if strings.Contains(lower, token) {
			return true
		}
	}
	return false
}

// DedupKey identifies a calendar task by lowercased title and UTC date.
func DedupKey(t model.Task) string {
	var anchor time.Time
	switch {
	case t.Date != nil:
		anchor = *t.Date
	case t.Time != nil:
		anchor = *t.Time
	}
	day := ""
	if !anchor.IsZero() {
		day = anchor.UTC().Format("2006-01-02")
	}
	return strings.ToLower(t.Title) + "-" + day
}

// Dedup keeps the first task per DedupKey, preserving order.
func Dedup(tasks []model.Task) []model.Task {
	seen := make(map[string]bool, len(tasks))
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		key := DedupKey(t)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	return out
}
