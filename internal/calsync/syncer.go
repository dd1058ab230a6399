package calsync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/sandeepkv93/questd/internal/calendar"
	"github.com/sandeepkv93/questd/internal/model"
	"github.com/sandeepkv93/questd/internal/storage"
)

const defaultFetchLimit = 4

type Status string

const (
	StatusSynced           Status = "synced"
	StatusThrottled        Status = "throttled"
	StatusPermissionDenied Status = "permission_denied"
	// StatusFailed means every calendar fetch failed; nothing was merged.
	StatusFailed Status = "failed"
)

// CalendarFailure is one calendar whose events could not be fetched.
type CalendarFailure struct {
	CalendarID string
	Err        error
}

func (f CalendarFailure) Error() string {
	return fmt.Sprintf("calendar %s: %v", f.CalendarID, f.Err)
}

func (f CalendarFailure) Unwrap() error {
	return f.Err
}

type Result struct {
	Status    Status
	Imported  int
	Calendars int
	Warnings  []CalendarFailure
	At        time.Time
}

// Settings is the persistent key-value store holding the last sync time.
type Settings interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}

// Target receives the merged calendar batch. The swap must be atomic
// relative to readers.
type Target interface {
	MergeCalendar(ctx context.Context, batch []model.Task) error
}

type Options struct {
	Interval   time.Duration
	ShiftDays  *int
	FetchLimit int
	Logger     *slog.Logger
}

// Syncer runs throttled, coalesced calendar imports.
type Syncer struct {
	source     calendar.Source
	settings   Settings
	target     Target
	throttle   Throttle
	shiftDays  int
	fetchLimit int
	logger     *slog.Logger
	group      singleflight.Group
}

func NewSyncer(source calendar.Source, settings Settings, target Target, opts Options) *Syncer {
	s := &Syncer{
		source:     source,
		settings:   settings,
		target:     target,
		throttle:   Throttle{Interval: opts.Interval},
		shiftDays:  calendar.AllDayShiftDays(source),
		fetchLimit: opts.FetchLimit,
		logger:     opts.Logger,
	}
	if opts.ShiftDays != nil {
		s.shiftDays = *opts.ShiftDays
	}
	if s.fetchLimit <= 0 {
		s.fetchLimit = defaultFetchLimit
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Sync imports events unless a sync ran within the throttle interval.
// Concurrent calls share one run. Permission denial and per-calendar
// failures are reported in the result; a returned error means the store and
// the sync timestamp were left untouched.
func (s *Syncer) Sync(ctx context.Context, now time.Time) (Result, error) {
	v, err, shared := s.group.Do("sync", func() (any, error) {
		return s.sync(ctx, now)
	})
	if shared {
		s.logger.Debug("calendar sync coalesced")
	}
	res, _ := v.(Result)
	return res, err
}

func (s *Syncer) sync(ctx context.Context, now time.Time) (Result, error) {
	last, err := s.lastSync(ctx)
	if err != nil {
		return Result{}, err
	}
	if !s.throttle.ShouldSync(last, now) {
		return Result{Status: StatusThrottled, At: last}, nil
	}

	cals, err := s.source.ListCalendars(ctx)
	if err != nil {
		if errors.Is(err, calendar.ErrPermissionDenied) {
			s.logger.Info("calendar access denied, skipping sync")
			return Result{Status: StatusPermissionDenied}, nil
		}
		return Result{}, fmt.Errorf("list calendars: %w", err)
	}
	cals = calendar.FilterNoise(cals)

	start, end := Window(now)
	events, failures, err := s.fetch(ctx, cals, start, end)
	if err != nil {
		if errors.Is(err, calendar.ErrPermissionDenied) {
			s.logger.Info("calendar access denied while fetching events")
			return Result{Status: StatusPermissionDenied}, nil
		}
		return Result{}, err
	}
	for _, f := range failures {
		s.logger.Warn("calendar fetch failed", "calendar", f.CalendarID, "error", f.Err)
	}
	if len(cals) > 0 && len(failures) == len(cals) {
		return Result{Status: StatusFailed, Calendars: len(cals), Warnings: failures}, nil
	}

	batch := Normalize(events, s.shiftDays)
	if err := s.target.MergeCalendar(ctx, batch); err != nil {
		return Result{}, fmt.Errorf("merge calendar tasks: %w", err)
	}
	if err := s.settings.SetSetting(ctx, storage.KeyLastCalendarSync, now.UTC().Format(time.RFC3339)); err != nil {
		return Result{}, fmt.Errorf("record sync time: %w", err)
	}
	s.logger.Info("calendar sync finished", "calendars", len(cals), "imported", len(batch), "failed", len(failures))
	return Result{
		Status:    StatusSynced,
		Imported:  len(batch),
		Calendars: len(cals),
		Warnings:  failures,
		At:        now,
	}, nil
}

// fetch collects events of every calendar. Each calendar is fetched on its
// own so one failure only excludes that calendar. Results are combined in
// calendar order after all fetches settle.
func (s *Syncer) fetch(ctx context.Context, cals []calendar.Calendar, start, end time.Time) ([]calendar.Event, []CalendarFailure, error) {
	slots := make([][]calendar.Event, len(cals))
	errs := make([]error, len(cals))

	var g errgroup.Group
	g.SetLimit(s.fetchLimit)
	for i, c := range cals {
		g.Go(func() error {
			events, err := s.source.ListEvents(ctx, []string{c.ID}, start, end)
			if err != nil {
				errs[i] = err
				return nil
			}
			slots[i] = events
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	var (
		events   []calendar.Event
		failures []CalendarFailure
	)
	for i, c := range cals {
		if errs[i] != nil {
			if errors.Is(errs[i], calendar.ErrPermissionDenied) {
				return nil, nil, errs[i]
			}
			failures = append(failures, CalendarFailure{CalendarID: c.ID, Err: errs[i]})
			continue
		}
		events = append(events, slots[i]...)
	}
	return events, failures, nil
}

func (s *Syncer) lastSync(ctx context.Context) (time.Time, error) {
	raw, err := s.settings.GetSetting(ctx, storage.KeyLastCalendarSync)
	if errors.Is(err, storage.ErrNotFound) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("read last sync time: %w", err)
	}
	last, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		s.logger.Warn("ignoring malformed last sync time", "value", raw, "error", err)
		return time.Time{}, nil
	}
	return last, nil
}

// Run syncs on every tick until ctx is done. Each attempt is throttled like
// a manual one. onResult, when set, observes every attempt.
func (s *Syncer) Run(ctx context.Context, every time.Duration, clock func() time.Time, onResult func(Result, error)) {
	if clock == nil {
		clock = time.Now
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	attempt := func() {
		res, err := s.Sync(ctx, clock())
		if err != nil && ctx.Err() == nil {
			s.logger.Error("calendar sync failed", "error", err)
		}
		if onResult != nil {
			onResult(res, err)
		}
	}
	attempt()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			attempt()
		}
	}
}
