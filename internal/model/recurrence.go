package model

import (
	"errors"
	"fmt"
	"time"
)

type RecurrenceType string

const (
	RecurrenceOnce   RecurrenceType = "once"
	RecurrenceWeekly RecurrenceType = "weekly"
)

var (
	ErrInvalidRecurrenceType = errors.New("model: invalid recurrence type")
	ErrAnchorRequired        = errors.New("model: recurrence anchor is required")
)

// RecurrenceRule is a reminder trigger: a one-shot instant, or the anchor's
// clock time on one weekday every week.
type RecurrenceRule struct {
	Type    RecurrenceType
	Anchor  time.Time
	Weekday Weekday
}

// RulesFor returns the triggers for a reminder at the clock time of at:
// one weekly rule per repeat day, or a single one-shot rule.
func RulesFor(at time.Time, repeatDays []Weekday) []RecurrenceRule {
	if len(repeatDays) == 0 {
		return []RecurrenceRule{{Type: RecurrenceOnce, Anchor: at}}
	}
	out := make([]RecurrenceRule, 0, len(repeatDays))
	for _, d := range repeatDays {
		out = append(out, RecurrenceRule{Type: RecurrenceWeekly, Anchor: at, Weekday: d})
	}
	return out
}

func (r RecurrenceRule) Validate() error {
	switch r.Type {
	case RecurrenceOnce, RecurrenceWeekly:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidRecurrenceType, r.Type)
	}
	if r.Anchor.IsZero() {
		return ErrAnchorRequired
	}
	if r.Type == RecurrenceWeekly && !r.Weekday.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidWeekday, r.Weekday)
	}
	return nil
}

// Key identifies the trigger: weekday+clock for weekly rules, the absolute
// instant otherwise.
func (r RecurrenceRule) Key() string {
	if r.Type == RecurrenceWeekly {
		return fmt.Sprintf("%s@%s", r.Weekday, r.Anchor.Format("15:04"))
	}
	return r.Anchor.UTC().Format(time.RFC3339)
}

// NextAfter returns the first trigger strictly after from. A one-shot rule
// whose instant has passed returns the zero time.
func (r RecurrenceRule) NextAfter(from time.Time) (time.Time, error) {
	if err := r.Validate(); err != nil {
		return time.Time{}, err
	}
	if r.Type == RecurrenceOnce {
		if r.Anchor.After(from) {
			return r.Anchor, nil
		}
		return time.Time{}, nil
	}
	probe := withAnchorClock(from.In(r.Anchor.Location()), r.Anchor)
	for i := 0; i < 8; i++ {
		if WeekdayOf(probe) == r.Weekday && probe.After(from) {
			return probe, nil
		}
		probe = withAnchorClock(probe.AddDate(0, 0, 1), r.Anchor)
	}
	return time.Time{}, fmt.Errorf("model: no weekly trigger found for %s", r.Key())
}

func (r RecurrenceRule) Preview(from time.Time, count int) ([]time.Time, error) {
	if count <= 0 {
		return []time.Time{}, nil
	}
	out := make([]time.Time, 0, count)
	cursor := from
	for i := 0; i < count; i++ {
		next, err := r.NextAfter(cursor)
		if err != nil {
			return nil, err
		}
		if next.IsZero() {
			break
		}
		out = append(out, next)
		cursor = next
	}
	return out, nil
}

func withAnchorClock(date time.Time, anchor time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, anchor.Hour(), anchor.Minute(), 0, 0, anchor.Location())
}
