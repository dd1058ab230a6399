// Package store holds the process-wide task collection and XP counter. It is
// the only mutation surface; every write replaces the whole collection so
// readers always see a complete snapshot.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sandeepkv93/questd/internal/calsync"
	"github.com/sandeepkv93/questd/internal/model"
	"github.com/sandeepkv93/questd/internal/storage"
)

var (
	ErrTaskNotFound     = errors.New("store: task not found")
	ErrCalendarReadOnly = errors.New("store: calendar tasks are managed by sync")
	ErrDuplicateTaskID  = fmt.Errorf("%w: duplicate task id", model.ErrValidation)
	ErrReservedTaskID   = fmt.Errorf("%w: task id is reserved for calendar imports", model.ErrValidation)
)

// ReminderScheduler arms and cancels task reminders.
type ReminderScheduler interface {
	ScheduleReminder(taskID, title string, at time.Time, repeatDays []model.Weekday) error
	CancelReminders(taskID string)
}

type Option func(*Store)

// WithRepository persists every mutation through repo.
func WithRepository(repo storage.Repository) Option {
	return func(s *Store) { s.repo = repo }
}

func WithReminders(r ReminderScheduler) Option {
	return func(s *Store) { s.reminders = r }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithLocation sets the zone restored times are shown in.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) { s.loc = loc }
}

type Store struct {
	// wmu serializes writers; mu only guards the snapshot swap.
	wmu sync.Mutex
	mu  sync.RWMutex

	tasks []model.Task
	xp    int

	repo      storage.Repository
	reminders ReminderScheduler
	logger    *slog.Logger
	loc       *time.Location
}

func New(opts ...Option) *Store {
	s := &Store{tasks: []model.Task{}, logger: slog.Default(), loc: time.Local}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Tasks returns a copy of the current collection.
func (s *Store) Tasks() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.Clone()
	}
	return out
}

func (s *Store) XP() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.xp
}

func (s *Store) Get(id string) (model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := indexOf(s.tasks, id); i >= 0 {
		return s.tasks[i].Clone(), nil
	}
	return model.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
}

// Add validates and stores a user task, assigning an id when missing.
func (s *Store) Add(ctx context.Context, task model.Task) (model.Task, error) {
	out, err := s.AddAll(ctx, []model.Task{task})
	if err != nil {
		return model.Task{}, err
	}
	return out[0], nil
}

// AddBatch stores one task per distinct reminder time of batch.
func (s *Store) AddBatch(ctx context.Context, batch model.ReminderBatch) ([]model.Task, error) {
	tasks, err := batch.Tasks()
	if err != nil {
		return nil, err
	}
	return s.AddAll(ctx, tasks)
}

// AddAll stores user tasks; nothing is stored when any of them is invalid.
func (s *Store) AddAll(ctx context.Context, tasks []model.Task) ([]model.Task, error) {
	prepared := make([]model.Task, 0, len(tasks))
	for _, task := range tasks {
		t := task.Clone()
		t.Title = strings.TrimSpace(t.Title)
		t.Kind = t.Kind.Normalize()
		if t.IsCalendar() {
			return nil, ErrCalendarReadOnly
		}
		if err := t.Validate(); err != nil {
			return nil, err
		}
		if t.ID == "" {
			t.ID = model.NewTaskID()
		}
		if model.IsCalendarTaskID(t.ID) {
			return nil, fmt.Errorf("%w: %s", ErrReservedTaskID, t.ID)
		}
		prepared = append(prepared, t)
	}

	s.wmu.Lock()
	defer s.wmu.Unlock()

	current := s.snapshot()
	seen := make(map[string]bool, len(current)+len(prepared))
	for _, t := range current {
		seen[t.ID] = true
	}
	for _, t := range prepared {
		if seen[t.ID] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTaskID, t.ID)
		}
		seen[t.ID] = true
	}

	if s.repo != nil {
		for _, t := range prepared {
			if err := s.repo.CreateTask(ctx, toRow(t)); err != nil {
				return nil, fmt.Errorf("persist task %s: %w", t.ID, err)
			}
		}
	}
	next := append(current, prepared...)
	s.swap(next, s.XP())

	for _, t := range prepared {
		s.schedule(t)
	}
	out := make([]model.Task, len(prepared))
	for i, t := range prepared {
		out[i] = t.Clone()
	}
	return out, nil
}

// Update replaces a user task. Calendar tasks cannot be edited.
func (s *Store) Update(ctx context.Context, task model.Task) error {
	t := task.Clone()
	t.Kind = t.Kind.Normalize()
	if err := t.Validate(); err != nil {
		return err
	}

	s.wmu.Lock()
	defer s.wmu.Unlock()

	next := s.snapshot()
	i := indexOf(next, t.ID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, t.ID)
	}
	if next[i].IsCalendar() || t.IsCalendar() {
		return ErrCalendarReadOnly
	}
	if s.repo != nil {
		if err := s.repo.UpdateTask(ctx, toRow(t)); err != nil {
			return fmt.Errorf("persist task %s: %w", t.ID, err)
		}
	}
	next[i] = t
	s.swap(next, s.XP())
	if s.reminders != nil {
		s.reminders.CancelReminders(t.ID)
	}
	s.schedule(t)
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	next := s.snapshot()
	i := indexOf(next, id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	if s.repo != nil {
		if err := s.repo.DeleteTask(ctx, id); err != nil && !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("delete task %s: %w", id, err)
		}
	}
	next = append(next[:i], next[i+1:]...)
	s.swap(next, s.XP())
	if s.reminders != nil {
		s.reminders.CancelReminders(id)
	}
	return nil
}

// Toggle flips completion of a task for now's day and awards XP on the
// first completion of that day. It returns the updated task and whether XP
// was awarded.
func (s *Store) Toggle(ctx context.Context, id string, now time.Time) (model.Task, bool, error) {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	next := s.snapshot()
	i := indexOf(next, id)
	if i < 0 {
		return model.Task{}, false, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	updated, award := model.Toggle(next[i], now)
	xp := s.XP()
	if award {
		xp = model.AddXP(xp)
	}
	if s.repo != nil {
		if err := s.repo.UpdateTask(ctx, toRow(updated)); err != nil {
			return model.Task{}, false, fmt.Errorf("persist task %s: %w", id, err)
		}
		if award {
			if err := s.repo.SetSetting(ctx, storage.KeyXP, strconv.Itoa(xp)); err != nil {
				return model.Task{}, false, fmt.Errorf("persist xp: %w", err)
			}
		}
	}
	next[i] = updated
	s.swap(next, xp)
	return updated.Clone(), award, nil
}

// MergeCalendar replaces every calendar task with batch in one swap.
func (s *Store) MergeCalendar(ctx context.Context, batch []model.Task) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	next := calsync.Merge(s.snapshot(), batch)
	if s.repo != nil {
		rows := make([]storage.Task, 0, len(batch))
		for _, t := range next {
			if t.IsCalendar() {
				rows = append(rows, toRow(t))
			}
		}
		if err := s.repo.ReplaceKind(ctx, string(model.KindCalendar), rows); err != nil {
			return fmt.Errorf("persist calendar tasks: %w", err)
		}
	}
	s.swap(next, s.XP())
	return nil
}

// Load replaces the in-memory state without touching the repository.
func (s *Store) Load(tasks []model.Task, xp int) {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	next := make([]model.Task, len(tasks))
	for i, t := range tasks {
		next[i] = t.Clone()
	}
	s.swap(next, clampXP(xp))
}

// Restore loads tasks and XP from the repository and re-arms reminders.
func (s *Store) Restore(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	rows, err := s.repo.ListTasks(ctx, storage.TaskListFilter{})
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}
	tasks := make([]model.Task, 0, len(rows))
	for _, row := range rows {
		t, err := fromRow(row, s.loc)
		if err != nil {
			s.logger.Warn("skipping unreadable task", "id", row.ID, "error", err)
			continue
		}
		tasks = append(tasks, t)
	}
	xp := 0
	raw, err := s.repo.GetSetting(ctx, storage.KeyXP)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		return fmt.Errorf("read xp: %w", err)
	default:
		if xp, err = strconv.Atoi(raw); err != nil {
			s.logger.Warn("ignoring malformed xp", "value", raw)
			xp = 0
		}
	}
	s.Load(tasks, xp)
	for _, t := range tasks {
		s.schedule(t)
	}
	s.logger.Info("store restored", "tasks", len(tasks), "xp", xp)
	return nil
}

// snapshot returns a private copy of the collection; callers hold wmu.
func (s *Store) snapshot() []model.Task {
	return s.Tasks()
}

func (s *Store) swap(tasks []model.Task, xp int) {
	s.mu.Lock()
	s.tasks = tasks
	s.xp = xp
	s.mu.Unlock()
}

func (s *Store) schedule(t model.Task) {
	if s.reminders == nil || t.Time == nil || t.IsAllDay || t.IsCalendar() {
		return
	}
	if err := s.reminders.ScheduleReminder(t.ID, t.Title, *t.Time, t.RepeatDays); err != nil {
		s.logger.Warn("schedule reminder failed", "task", t.ID, "error", err)
	}
}

func indexOf(tasks []model.Task, id string) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func clampXP(xp int) int {
	switch {
	case xp < 0:
		return 0
	case xp > model.XPMax:
		return model.XPMax
	}
	return xp
}
