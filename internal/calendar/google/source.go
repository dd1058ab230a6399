// Package google reads calendars and events from Google Calendar.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"

	calsrc "github.com/sandeepkv93/questd/internal/calendar"
)

const (
	holidayCalendarSuffix  = "#holiday@group.v.calendar.google.com"
	birthdayCalendarSuffix = "#contacts@group.v.calendar.google.com"
	defaultMaxRetries      = 4
)

// Source implements calendar.Source on top of the Calendar v3 API.
type Source struct {
	srv        *calendar.Service
	logger     *slog.Logger
	maxRetries uint64
	newBackoff func() backoff.BackOff
}

type Option func(*Source)

func WithLogger(l *slog.Logger) Option {
	return func(s *Source) { s.logger = l }
}

func WithMaxRetries(n uint64) Option {
	return func(s *Source) { s.maxRetries = n }
}

// WithBackoff overrides the retry policy used for rate-limited calls.
func WithBackoff(fn func() backoff.BackOff) Option {
	return func(s *Source) { s.newBackoff = fn }
}

func NewSource(srv *calendar.Service, opts ...Option) *Source {
	s := &Source{
		srv:        srv,
		logger:     slog.Default(),
		maxRetries: defaultMaxRetries,
		newBackoff: func() backoff.BackOff {
			bo := backoff.NewExponentialBackOff()
			bo.InitialInterval = 500 * time.Millisecond
			bo.MaxElapsedTime = 30 * time.Second
			return bo
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AllDayShiftDays is zero: the API reports all-day events on their own date.
func (s *Source) AllDayShiftDays() int {
	return 0
}

func (s *Source) ListCalendars(ctx context.Context) ([]calsrc.Calendar, error) {
	out := make([]calsrc.Calendar, 0)
	err := s.retry(ctx, func() error {
		out = out[:0]
		return s.srv.CalendarList.List().Context(ctx).Pages(ctx, func(page *calendar.CalendarList) error {
			for _, item := range page.Items {
				out = append(out, convertCalendar(item))
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list calendars: %w", err)
	}
	return out, nil
}

func (s *Source) ListEvents(ctx context.Context, calendarIDs []string, start, end time.Time) ([]calsrc.Event, error) {
	out := make([]calsrc.Event, 0)
	for _, id := range calendarIDs {
		var events []calsrc.Event
		err := s.retry(ctx, func() error {
			events = events[:0]
			call := s.srv.Events.List(id).
				Context(ctx).
				TimeMin(start.Format(time.RFC3339)).
				TimeMax(end.Format(time.RFC3339)).
				SingleEvents(true).
				OrderBy("startTime")
			return call.Pages(ctx, func(page *calendar.Events) error {
				for _, item := range page.Items {
					ev, ok := convertEvent(id, item)
					if !ok {
						s.logger.Debug("skipping event without start", "calendar", id, "event", item.Id)
						continue
					}
					events = append(events, ev)
				}
				return nil
			})
		})
		if err != nil {
			return nil, fmt.Errorf("list events of %s: %w", id, err)
		}
		out = append(out, events...)
	}
	return out, nil
}

func (s *Source) retry(ctx context.Context, op func() error) error {
	bo := backoff.WithContext(backoff.WithMaxRetries(s.newBackoff(), s.maxRetries), ctx)
	return backoff.Retry(func() error {
		err := classify(op())
		if err == nil {
			return nil
		}
		if isRetryable(err) {
			s.logger.Warn("calendar api call throttled, retrying", "error", err)
			return err
		}
		return backoff.Permanent(err)
	}, bo)
}

func classify(err error) error {
	if err == nil {
		return nil
	}
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return err
	}
	switch {
	case gerr.Code == http.StatusUnauthorized:
		return fmt.Errorf("%w: %w", calsrc.ErrPermissionDenied, err)
	case gerr.Code == http.StatusForbidden && !hasRateLimitReason(gerr):
		return fmt.Errorf("%w: %w", calsrc.ErrPermissionDenied, err)
	}
	return err
}

func isRetryable(err error) bool {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return false
	}
	if gerr.Code == http.StatusTooManyRequests || gerr.Code >= 500 {
		return true
	}
	return gerr.Code == http.StatusForbidden && hasRateLimitReason(gerr)
}

func hasRateLimitReason(gerr *googleapi.Error) bool {
	for _, item := range gerr.Errors {
		if strings.Contains(strings.ToLower(item.Reason), "ratelimitexceeded") {
			return true
		}
	}
	return false
}

func convertCalendar(item *calendar.CalendarListEntry) calsrc.Calendar {
	title := item.Summary
	if item.SummaryOverride != "" {
		title = item.SummaryOverride
	}
	out := calsrc.Calendar{
		ID:         item.Id,
		Title:      title,
		Writable:   item.AccessRole == "owner" || item.AccessRole == "writer",
		SourceName: "google",
	}
	switch {
	case strings.HasSuffix(item.Id, holidayCalendarSuffix):
		out.Category = calsrc.CategoryHolidays
		out.SourceName = "holidays"
	case strings.HasSuffix(item.Id, birthdayCalendarSuffix):
		out.Category = calsrc.CategoryBirthday
	}
	return out
}

func convertEvent(calendarID string, item *calendar.Event) (calsrc.Event, bool) {
	if item == nil || item.Start == nil {
		return calsrc.Event{}, false
	}
	ev := calsrc.Event{ID: item.Id, CalendarID: calendarID, Title: item.Summary}
	switch {
	case item.Start.DateTime != "":
		start, err := time.Parse(time.RFC3339, item.Start.DateTime)
		if err != nil {
			return calsrc.Event{}, false
		}
		ev.Start = start
	case item.Start.Date != "":
		start, err := time.Parse("2006-01-02", item.Start.Date)
		if err != nil {
			return calsrc.Event{}, false
		}
		ev.Start = start
		ev.AllDay = true
	default:
		return calsrc.Event{}, false
	}
	return ev, true
}
