package calendar

import (
	"context"
	"sync"
	"time"
)

// StaticSource serves a fixed set of calendars and events. It backs offline
// runs and tests.
type StaticSource struct {
	mu        sync.Mutex
	Calendars []Calendar
	Events    map[string][]Event
	// Failures makes ListEvents fail for the given calendar ids.
	Failures map[string]error
	// Denied makes every call return ErrPermissionDenied.
	Denied bool
	calls  int
}

func (s *StaticSource) ListCalendars(ctx context.Context) ([]Calendar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Denied {
		return nil, ErrPermissionDenied
	}
	return append([]Calendar(nil), s.Calendars...), nil
}

func (s *StaticSource) ListEvents(ctx context.Context, calendarIDs []string, start, end time.Time) ([]Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.Denied {
		return nil, ErrPermissionDenied
	}
	out := make([]Event, 0)
	for _, id := range calendarIDs {
		if err := s.Failures[id]; err != nil {
			return nil, err
		}
		for _, ev := range s.Events[id] {
			if ev.Start.IsZero() || (!ev.Start.Before(start) && !ev.Start.After(end)) {
				out = append(out, ev)
			}
		}
	}
	return out, nil
}

// Calls returns how many ListEvents calls were served.
func (s *StaticSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
