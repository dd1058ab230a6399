package model

import (
	"regexp"
	"time"
)

// Localized "holiday" tokens. Imported holidays are never quests.
var holidayTitle = regexp.MustCompile(`(?i)holiday|svát(ek|ky)|feiertag|férié|festivo`)

// IsHolidayTitle reports whether title looks like an imported public holiday.
func IsHolidayTitle(title string) bool {
	return holidayTitle.MatchString(title)
}

// IsActiveOn reports whether task applies on the calendar date of day.
// Only day's date in day's location is used.
func IsActiveOn(task Task, day time.Time) bool {
	if IsHolidayTitle(task.Title) {
		return false
	}
	if task.IsRecurring() {
		return containsWeekday(task.RepeatDays, WeekdayOf(day))
	}
	if task.IsCalendar() {
		return calendarActiveOn(task, day)
	}
	return true
}

func calendarActiveOn(task Task, day time.Time) bool {
	y, m, d := day.Date()
	if task.Time != nil {
		ty, tm, td := task.Time.In(day.Location()).Date()
		return ty == y && tm == m && td == d
	}
	if task.Date != nil {
		ty, tm, td := task.Date.UTC().Date()
		return ty == y && tm == m && td == d
	}
	return false
}

// DoneOn reports whether task was completed on day.
func DoneOn(task Task, day time.Time) bool {
	return task.Completed && task.LastCompletedAt == DateKey(day)
}

// Toggle flips the completion of task for the day of now. The returned flag
// is true when the toggle earns XP: the first completion of a calendar day.
// Undoing keeps LastCompletedAt so a later redo on the same day earns nothing.
func Toggle(task Task, now time.Time) (Task, bool) {
	today := DateKey(now)
	out := task.Clone()
	if DoneOn(task, now) {
		out.Completed = false
		return out, false
	}
	award := task.LastCompletedAt != today
	out.Completed = true
	out.LastCompletedAt = today
	return out, award
}

// ClockMinutes returns the minutes past midnight of t in loc.
func ClockMinutes(t time.Time, loc *time.Location) int {
	local := t.In(loc)
	return local.Hour()*60 + local.Minute()
}
