package model

import (
	"testing"
	"time"
)

func TestIsActiveOnRepeatDaysWindow(t *testing.T) {
	patterns := [][]Weekday{
		{Mon},
		{Sun},
		{Mon, Wed, Fri},
		{Sat, Sun},
		Weekdays,
	}
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for _, days := range patterns {
		task := Task{ID: "r", Title: "Stretch", Kind: KindCustom, RepeatDays: days}
		for i := -200; i < 200; i++ {
			day := start.AddDate(0, 0, i)
			want := containsWeekday(days, WeekdayOf(day))
			if got := IsActiveOn(task, day); got != want {
				t.Fatalf("days=%v on %s: got %v want %v", days, DateKey(day), got, want)
			}
		}
	}
}

func TestWeekdayOfMondayFirst(t *testing.T) {
	sunday := time.Date(2026, 2, 15, 10, 0, 0, 0, time.UTC)
	if WeekdayOf(sunday) != Sun || Sun.Index() != 6 {
		t.Fatalf("expected Sunday at index 6, got %s/%d", WeekdayOf(sunday), Sun.Index())
	}
	monday := sunday.AddDate(0, 0, 1)
	if WeekdayOf(monday) != Mon || Mon.Index() != 0 {
		t.Fatalf("expected Monday at index 0, got %s", WeekdayOf(monday))
	}
	if Sun.Time() != time.Sunday || Mon.Time() != time.Monday {
		t.Fatal("weekday to time.Weekday mapping failed")
	}
}

func TestIsActiveOnRepeatIgnoresTimeDate(t *testing.T) {
	at := time.Date(2020, 1, 1, 7, 0, 0, 0, time.UTC) // a Wednesday long ago
	task := Task{ID: "r", Title: "Pills", Kind: KindMedication, Time: &at, RepeatDays: []Weekday{Tue}}
	tuesday := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	if !IsActiveOn(task, tuesday) {
		t.Fatal("expected recurring task active on Tuesday")
	}
	if IsActiveOn(task, tuesday.AddDate(0, 0, 1)) {
		t.Fatal("expected recurring task inactive on Wednesday")
	}
}

func TestIsActiveOnCalendarTimed(t *testing.T) {
	at := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	task := Task{ID: CalendarTaskID("1"), Title: "Standup", Kind: KindCalendar, Time: &at}
	if !IsActiveOn(task, time.Date(2024, 6, 3, 23, 0, 0, 0, time.UTC)) {
		t.Fatal("expected active on the event day")
	}
	if IsActiveOn(task, time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("expected inactive the day after")
	}

	tokyo := time.FixedZone("JST", 9*3600)
	late := time.Date(2024, 6, 3, 20, 0, 0, 0, time.UTC) // 05:00 on June 4 in Tokyo
	task.Time = &late
	if !IsActiveOn(task, time.Date(2024, 6, 4, 8, 0, 0, 0, tokyo)) {
		t.Fatal("expected comparison by the local date of the viewer")
	}
}

func TestIsActiveOnCalendarAllDay(t *testing.T) {
	date := CivilDate(2024, 5, 2)
	task := Task{ID: CalendarTaskID("2"), Title: "Conference", Kind: KindCalendar, Date: &date, IsAllDay: true}
	for _, loc := range []*time.Location{time.UTC, time.FixedZone("PDT", -7*3600), time.FixedZone("CEST", 2*3600)} {
		if !IsActiveOn(task, time.Date(2024, 5, 2, 12, 0, 0, 0, loc)) {
			t.Fatalf("expected all-day event active on 2024-05-02 in %s", loc)
		}
		if IsActiveOn(task, time.Date(2024, 5, 1, 12, 0, 0, 0, loc)) {
			t.Fatalf("expected all-day event inactive on 2024-05-01 in %s", loc)
		}
	}
}

func TestIsActiveOnCalendarWithoutAnchor(t *testing.T) {
	task := Task{ID: CalendarTaskID("3"), Title: "Ghost", Kind: KindCalendar}
	if IsActiveOn(task, time.Now()) {
		t.Fatal("calendar task without time or date must not be active")
	}
}

func TestIsActiveOnDefaultEveryDay(t *testing.T) {
	for _, kind := range []Kind{KindCustom, KindMedication, KindHydration, ""} {
		task := Task{ID: "d", Title: "Water", Kind: kind}
		for i := 0; i < 14; i++ {
			if !IsActiveOn(task, time.Date(2026, 2, 1+i, 0, 0, 0, 0, time.UTC)) {
				t.Fatalf("expected %q task active every day", kind)
			}
		}
	}
}

func TestIsActiveOnExcludesHolidays(t *testing.T) {
	at := time.Date(2026, 12, 24, 0, 0, 0, 0, time.UTC)
	titles := []string{"Bank Holiday", "Štědrý den (svátek)", "Feiertag", "Jour férié", "Festivo nazionale"}
	for _, title := range titles {
		calendarTask := Task{ID: CalendarTaskID("h"), Title: title, Kind: KindCalendar, Time: &at}
		if IsActiveOn(calendarTask, at) {
			t.Fatalf("expected %q excluded", title)
		}
		repeating := Task{ID: "h", Title: title, Kind: KindCustom, RepeatDays: Weekdays}
		if IsActiveOn(repeating, at) {
			t.Fatalf("expected recurring %q excluded", title)
		}
	}
}

func TestToggleAwardsXPOncePerDay(t *testing.T) {
	now := time.Date(2026, 2, 9, 10, 0, 0, 0, time.UTC)
	task := Task{ID: "a", Title: "Read", Kind: KindCustom}

	xp := 0
	awards := 0
	for i := 0; i < 5; i++ {
		var award bool
		task, award = Toggle(task, now.Add(time.Duration(i)*time.Minute))
		if award {
			awards++
			xp = AddXP(xp)
		}
	}
	if awards != 1 || xp != XPReward {
		t.Fatalf("expected one award, got awards=%d xp=%d", awards, xp)
	}
	if !DoneOn(task, now) {
		t.Fatal("expected task done after odd number of toggles")
	}

	task, _ = Toggle(task, now)
	if DoneOn(task, now) || task.LastCompletedAt != DateKey(now) {
		t.Fatalf("undo should clear completion but keep marker: %+v", task)
	}
}

func TestToggleResetsNextDay(t *testing.T) {
	monday := time.Date(2026, 2, 9, 10, 0, 0, 0, time.UTC)
	task := Task{ID: "a", Title: "Read", Kind: KindCustom}
	task, award := Toggle(task, monday)
	if !award {
		t.Fatal("expected award on first completion")
	}
	tuesday := monday.AddDate(0, 0, 1)
	if DoneOn(task, tuesday) {
		t.Fatal("completion must not carry into the next day")
	}
	task, award = Toggle(task, tuesday)
	if !award || !DoneOn(task, tuesday) {
		t.Fatalf("expected fresh completion and award on Tuesday: %+v award=%v", task, award)
	}
	if DoneOn(task, monday) {
		t.Fatal("only the last completed day is tracked")
	}
}
