package model

import (
	"fmt"
	"strings"
	"time"
)

type Weekday string

const (
	Mon Weekday = "Mon"
	Tue Weekday = "Tue"
	Wed Weekday = "Wed"
	Thu Weekday = "Thu"
	Fri Weekday = "Fri"
	Sat Weekday = "Sat"
	Sun Weekday = "Sun"
)

// Weekdays lists the tokens in Monday-first order.
var Weekdays = []Weekday{Mon, Tue, Wed, Thu, Fri, Sat, Sun}

func (w Weekday) IsValid() bool {
	return w.Index() >= 0
}

// Index returns the Monday-first position of w, or -1.
func (w Weekday) Index() int {
	for i, d := range Weekdays {
		if d == w {
			return i
		}
	}
	return -1
}

func (w Weekday) Time() time.Weekday {
	if i := w.Index(); i >= 0 {
		return time.Weekday((i + 1) % 7)
	}
	return time.Sunday
}

// WeekdayOf returns the token of t's weekday; Sunday maps to index 6.
func WeekdayOf(t time.Time) Weekday {
	d := int(t.Weekday())
	if d == 0 {
		return Sun
	}
	return Weekdays[d-1]
}

// ParseWeekday accepts a three-letter token or a full English day name,
// case-insensitively.
func ParseWeekday(s string) (Weekday, error) {
	raw := strings.ToLower(strings.TrimSpace(s))
	for _, d := range Weekdays {
		if raw == strings.ToLower(string(d)) || raw == strings.ToLower(d.Time().String()) {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidWeekday, s)
}

func ParseWeekdays(items []string) ([]Weekday, error) {
	out := make([]Weekday, 0, len(items))
	seen := make(map[Weekday]bool, len(items))
	for _, item := range items {
		d, err := ParseWeekday(item)
		if err != nil {
			return nil, err
		}
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	return out, nil
}

func containsWeekday(days []Weekday, d Weekday) bool {
	for _, item := range days {
		if item == d {
			return true
		}
	}
	return false
}
