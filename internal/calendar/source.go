// Package calendar defines the external calendar collaborator consumed by the
// sync engine.
package calendar

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
)

// ErrPermissionDenied reports that calendar access was refused. It is not a
// sync failure: callers abort the attempt and retry on the next activation.
var ErrPermissionDenied = errors.New("calendar: permission denied")

// Category is an explicit calendar classification reported by the source.
type Category string

const (
	CategoryUnknown  Category = ""
	CategoryEvents   Category = "events"
	CategoryHolidays Category = "holidays"
	CategoryBirthday Category = "birthdays"
)

type Calendar struct {
	ID         string
	Title      string
	Writable   bool
	SourceName string
	Category   Category
}

// Event is a raw calendar event. All-day events keep the source's own start
// convention; normalization decides how to shift it.
type Event struct {
	ID         string
	CalendarID string
	Title      string
	Start      time.Time
	AllDay     bool
}

type Source interface {
	ListCalendars(ctx context.Context) ([]Calendar, error)
	ListEvents(ctx context.Context, calendarIDs []string, start, end time.Time) ([]Event, error)
}

var noiseCalendar = regexp.MustCompile(`(?i)holiday|svát(ek|ky)|feiertag|férié|festivo|birthday|geburtstag|narozeniny`)

// IsNoise reports whether a calendar only carries holidays or birthdays. An
// explicit category wins; the title/source-name pattern is the fallback.
func IsNoise(c Calendar) bool {
	switch c.Category {
	case CategoryHolidays, CategoryBirthday:
		return true
	case CategoryEvents:
		return false
	}
	if noiseCalendar.MatchString(c.Title) {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(c.SourceName), "holidays")
}

// FilterNoise drops holiday and birthday calendars, keeping input order.
func FilterNoise(in []Calendar) []Calendar {
	out := make([]Calendar, 0, len(in))
	for _, c := range in {
		if IsNoise(c) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// DefaultAllDayShiftDays compensates sources that store an all-day event as
// midnight UTC of the day before the intended date.
const DefaultAllDayShiftDays = 1

// AllDayShifter is implemented by sources with a different all-day convention.
type AllDayShifter interface {
	AllDayShiftDays() int
}

// AllDayShiftDays returns the day shift normalization applies to src.
func AllDayShiftDays(src Source) int {
	if s, ok := src.(AllDayShifter); ok {
		return s.AllDayShiftDays()
	}
	return DefaultAllDayShiftDays
}
