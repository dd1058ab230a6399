package calsync

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandeepkv93/questd/internal/calendar"
	"github.com/sandeepkv93/questd/internal/model"
	"github.com/sandeepkv93/questd/internal/storage"
)

type memSettings struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemSettings() *memSettings {
	return &memSettings{values: map[string]string{}}
}

func (m *memSettings) GetSetting(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return "", storage.ErrNotFound
	}
	return v, nil
}

func (m *memSettings) SetSetting(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

type memTarget struct {
	mu     sync.Mutex
	tasks  []model.Task
	merges int
	gate   chan struct{}
}

func (m *memTarget) MergeCalendar(_ context.Context, batch []model.Task) error {
	if m.gate != nil {
		<-m.gate
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = Merge(m.tasks, batch)
	m.merges++
	return nil
}

func (m *memTarget) snapshot() []model.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Task(nil), m.tasks...)
}

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestNormalizeDropsMalformedAndNoise(t *testing.T) {
	events := []calendar.Event{
		{ID: "1", Title: "Standup", Start: at("2024-05-02T09:00:00Z")},
		{ID: "2", Title: "", Start: at("2024-05-02T09:00:00Z")},
		{ID: "3", Title: "No start"},
		{ID: "4", Title: "Státní svátek", Start: at("2024-05-01T00:00:00Z"), AllDay: true},
		{ID: "5", Title: "Jana's Birthday", Start: at("2024-05-03T00:00:00Z"), AllDay: true},
	}
	tasks := Normalize(events, 1)
	require.Len(t, tasks, 1)
	assert.Equal(t, "calendar-1", tasks[0].ID)
	assert.Equal(t, model.KindCalendar, tasks[0].Kind)
	require.NotNil(t, tasks[0].Time)
	assert.Nil(t, tasks[0].Date)
}

func TestNormalizeAllDayShift(t *testing.T) {
	events := []calendar.Event{{ID: "d", Title: "Trip", Start: at("2024-05-01T00:00:00Z"), AllDay: true}}

	tasks := Normalize(events, 1)
	require.Len(t, tasks, 1)
	require.NotNil(t, tasks[0].Date)
	assert.Nil(t, tasks[0].Time)
	assert.True(t, tasks[0].IsAllDay)

	for _, loc := range []*time.Location{time.UTC, time.FixedZone("PDT", -7*3600), time.FixedZone("JST", 9*3600)} {
		day := time.Date(2024, 5, 2, 12, 0, 0, 0, loc)
		assert.True(t, model.IsActiveOn(tasks[0], day), "active on 2024-05-02 in %s", loc)
		assert.False(t, model.IsActiveOn(tasks[0], day.AddDate(0, 0, -1)), "inactive on 2024-05-01 in %s", loc)
	}

	unshifted := Normalize(events, 0)
	assert.True(t, model.IsActiveOn(unshifted[0], time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)))
}

func TestNormalizeDedupFirstWins(t *testing.T) {
	events := []calendar.Event{
		{ID: "e1", Title: "Standup", Start: at("2024-05-02T09:00:00Z")},
		{ID: "e2", Title: "standup", Start: at("2024-05-02T15:00:00Z")},
		{ID: "e3", Title: "Standup", Start: at("2024-05-03T09:00:00Z")},
	}
	tasks := Normalize(events, 1)
	require.Len(t, tasks, 2)
	assert.Equal(t, "calendar-e1", tasks[0].ID)
	assert.Equal(t, "calendar-e3", tasks[1].ID)
}

func TestMergeReplacesCalendarTasksAndIsIdempotent(t *testing.T) {
	existing := []model.Task{
		{ID: "a", Title: "a", Kind: model.KindCustom},
		{ID: "calendar-stale", Title: "Old", Kind: model.KindCalendar},
	}
	batch := Normalize([]calendar.Event{
		{ID: "e1", Title: "Standup", Start: at("2024-05-02T09:00:00Z")},
		{ID: "e2", Title: "Standup", Start: at("2024-05-02T11:00:00Z")},
	}, 1)

	once := Merge(existing, batch)
	require.Len(t, once, 2)
	assert.Equal(t, "a", once[0].ID)
	assert.Equal(t, "calendar-e1", once[1].ID)

	twice := Merge(once, batch)
	assert.Equal(t, once, twice)
}

func TestMergeDedupsUnnormalizedBatch(t *testing.T) {
	day := model.CivilDate(2024, 5, 2)
	batch := []model.Task{
		{ID: "calendar-1", Title: "Gym", Date: &day},
		{ID: "calendar-2", Title: "GYM", Date: &day},
	}
	out := Merge(nil, batch)
	require.Len(t, out, 1)
	assert.Equal(t, model.KindCalendar, out[0].Kind)
}

func TestMergeKeepsIDsUnique(t *testing.T) {
	existing := []model.Task{{ID: "calendar-1", Title: "Mine", Kind: model.KindCustom}}
	fresh := []model.Task{
		{ID: "calendar-1", Title: "Imported", Kind: model.KindCalendar},
		{ID: "calendar-2", Title: "Other", Kind: model.KindCalendar},
	}
	out := Merge(existing, fresh)
	require.Len(t, out, 2)
	assert.Equal(t, "Mine", out[0].Title)
	assert.Equal(t, model.KindCustom, out[0].Kind)
	assert.Equal(t, "calendar-2", out[1].ID)
}

func TestMergeCarriesCompletionMarkers(t *testing.T) {
	existing := []model.Task{{ID: "calendar-e1", Title: "Standup", Kind: model.KindCalendar, Completed: true, LastCompletedAt: "2024-05-02"}}
	fresh := []model.Task{{ID: "calendar-e1", Title: "Standup", Kind: model.KindCalendar}}
	out := Merge(existing, fresh)
	require.Len(t, out, 1)
	assert.True(t, out[0].Completed)
	assert.Equal(t, "2024-05-02", out[0].LastCompletedAt)
}

func TestThrottle(t *testing.T) {
	th := Throttle{Interval: 60 * time.Second}
	last := at("2024-05-01T10:00:00Z")
	assert.True(t, th.ShouldSync(time.Time{}, last))
	assert.False(t, th.ShouldSync(last, last.Add(30*time.Second)))
	assert.False(t, th.ShouldSync(last, last.Add(60*time.Second)))
	assert.True(t, th.ShouldSync(last, last.Add(90*time.Second)))
}

func TestWindow(t *testing.T) {
	now := time.Date(2024, 5, 15, 13, 30, 0, 0, time.UTC)
	start, end := Window(now)
	assert.Equal(t, time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, 2024, end.Year())
	assert.Equal(t, time.July, end.Month())
	assert.Equal(t, 15, end.Day())
	assert.Equal(t, 23, end.Hour())
}

func newFixture() (*calendar.StaticSource, *memSettings, *memTarget) {
	src := &calendar.StaticSource{
		Calendars: []calendar.Calendar{
			{ID: "work", Title: "Work", Category: calendar.CategoryEvents},
			{ID: "home", Title: "Home"},
			{ID: "cz", Title: "Státní svátky"},
		},
		Events: map[string][]calendar.Event{
			"work": {{ID: "w1", CalendarID: "work", Title: "Standup", Start: at("2024-05-02T09:00:00Z")}},
			"home": {{ID: "h1", CalendarID: "home", Title: "Trip", Start: at("2024-05-01T00:00:00Z"), AllDay: true}},
			"cz":   {{ID: "c1", CalendarID: "cz", Title: "Svátek práce", Start: at("2024-04-30T00:00:00Z"), AllDay: true}},
		},
	}
	return src, newMemSettings(), &memTarget{}
}

func TestSyncImportsAndRecordsTimestamp(t *testing.T) {
	src, settings, target := newFixture()
	s := NewSyncer(src, settings, target, Options{})
	now := at("2024-05-01T10:00:00Z")

	res, err := s.Sync(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, StatusSynced, res.Status)
	assert.Equal(t, 2, res.Calendars)
	assert.Equal(t, 2, res.Imported)
	assert.Len(t, target.snapshot(), 2)
	assert.Equal(t, 2, src.Calls(), "holiday calendar must not be fetched")

	stamp, err := settings.GetSetting(context.Background(), storage.KeyLastCalendarSync)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01T10:00:00Z", stamp)

	res, err = s.Sync(context.Background(), now.Add(30*time.Second))
	require.NoError(t, err)
	assert.Equal(t, StatusThrottled, res.Status)
	assert.Equal(t, 1, target.merges)

	res, err = s.Sync(context.Background(), now.Add(90*time.Second))
	require.NoError(t, err)
	assert.Equal(t, StatusSynced, res.Status)
	assert.Equal(t, 2, target.merges)
	assert.Len(t, target.snapshot(), 2)
}

func TestSyncPermissionDeniedLeavesStateUntouched(t *testing.T) {
	src, settings, target := newFixture()
	src.Denied = true
	s := NewSyncer(src, settings, target, Options{})

	res, err := s.Sync(context.Background(), at("2024-05-01T10:00:00Z"))
	require.NoError(t, err)
	assert.Equal(t, StatusPermissionDenied, res.Status)
	assert.Zero(t, target.merges)
	_, err = settings.GetSetting(context.Background(), storage.KeyLastCalendarSync)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSyncIsolatesCalendarFailures(t *testing.T) {
	src, settings, target := newFixture()
	boom := errors.New("boom")
	src.Failures = map[string]error{"home": boom}
	s := NewSyncer(src, settings, target, Options{})

	res, err := s.Sync(context.Background(), at("2024-05-01T10:00:00Z"))
	require.NoError(t, err)
	assert.Equal(t, StatusSynced, res.Status)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "home", res.Warnings[0].CalendarID)
	assert.ErrorIs(t, res.Warnings[0], boom)

	tasks := target.snapshot()
	require.Len(t, tasks, 1)
	assert.Equal(t, "calendar-w1", tasks[0].ID)
}

func TestSyncAllCalendarsFailedKeepsPreviousTasks(t *testing.T) {
	src, settings, target := newFixture()
	prev := []model.Task{{ID: "calendar-old", Title: "Old", Kind: model.KindCalendar}}
	target.tasks = prev
	src.Failures = map[string]error{"work": errors.New("a"), "home": errors.New("b")}
	s := NewSyncer(src, settings, target, Options{})

	res, err := s.Sync(context.Background(), at("2024-05-01T10:00:00Z"))
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, res.Status)
	assert.Equal(t, prev, target.snapshot())
	_, err = settings.GetSetting(context.Background(), storage.KeyLastCalendarSync)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSyncCoalescesConcurrentCalls(t *testing.T) {
	src, settings, target := newFixture()
	target.gate = make(chan struct{})
	s := NewSyncer(src, settings, target, Options{})
	now := at("2024-05-01T10:00:00Z")

	var wg sync.WaitGroup
	results := make([]Result, 5)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := s.Sync(context.Background(), now)
			assert.NoError(t, err)
			results[i] = res
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(target.gate)
	wg.Wait()

	assert.Equal(t, 1, target.merges)
	for _, res := range results {
		assert.Contains(t, []Status{StatusSynced, StatusThrottled}, res.Status)
	}
}

func TestSyncShiftFollowsSource(t *testing.T) {
	src, settings, target := newFixture()
	zero := 0
	s := NewSyncer(src, settings, target, Options{ShiftDays: &zero})
	_, err := s.Sync(context.Background(), at("2024-05-01T10:00:00Z"))
	require.NoError(t, err)

	var trip model.Task
	for _, task := range target.snapshot() {
		if task.ID == "calendar-h1" {
			trip = task
		}
	}
	require.NotNil(t, trip.Date)
	assert.Equal(t, model.CivilDate(2024, 5, 1), *trip.Date)
}
