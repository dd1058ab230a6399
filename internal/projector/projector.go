// Package projector lays tasks out over days: the seven-day week view and
// the dashboard's today list.
package projector

import (
	"sort"
	"time"

	"github.com/sandeepkv93/questd/internal/model"
)

const DaysPerWeek = 7

// DayTask is a task as seen on one day.
type DayTask struct {
	Task model.Task
	Done bool
}

type Day struct {
	Date    time.Time
	Key     string
	Label   string
	Weekday model.Weekday
	Tasks   []DayTask
}

// Week projects tasks over seven consecutive days starting at midnight of
// now shifted by weekOffset weeks. Any offset is valid.
func Week(tasks []model.Task, now time.Time, weekOffset int) []Day {
	start := model.StartOfDay(now).AddDate(0, 0, weekOffset*DaysPerWeek)
	out := make([]Day, 0, DaysPerWeek)
	for i := 0; i < DaysPerWeek; i++ {
		date := start.AddDate(0, 0, i)
		out = append(out, Day{
			Date:    date,
			Key:     model.DateKey(date),
			Label:   date.Format("Mon, Jan 2"),
			Weekday: model.WeekdayOf(date),
			Tasks:   activeOn(tasks, date),
		})
	}
	return out
}

// Today lists the tasks active on now's day: open before done, then by
// clock time with untimed tasks last.
func Today(tasks []model.Task, now time.Time) []DayTask {
	out := activeOn(tasks, now)
	sort.SliceStable(out, func(i, j int) bool {
		return !out[i].Done && out[j].Done
	})
	return out
}

// Progress counts done and active tasks of a day.
func Progress(day []DayTask) (done, total int) {
	for _, t := range day {
		if t.Done {
			done++
		}
	}
	return done, len(day)
}

func activeOn(tasks []model.Task, day time.Time) []DayTask {
	out := make([]DayTask, 0)
	for _, t := range tasks {
		if !model.IsActiveOn(t, day) {
			continue
		}
		out = append(out, DayTask{Task: t.Clone(), Done: model.DoneOn(t, day)})
	}
	loc := day.Location()
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Task.Time, out[j].Task.Time
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		}
		return model.ClockMinutes(*a, loc) < model.ClockMinutes(*b, loc)
	})
	return out
}
