package scheduler

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/sandeepkv93/questd/internal/model"
)

// Reminders turns task reminder requests into engine triggers: one weekly
// trigger per repeat day keyed by weekday and clock time, or a single
// one-shot trigger.
type Reminders struct {
	engine *Engine
	now    func() time.Time
	logger *slog.Logger
}

func NewReminders(engine *Engine, logger *slog.Logger) *Reminders {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reminders{engine: engine, now: time.Now, logger: logger}
}

// ScheduleReminder arms the triggers for a task. A one-shot time already in
// the past schedules nothing.
func (r *Reminders) ScheduleReminder(taskID, title string, at time.Time, repeatDays []model.Weekday) error {
	now := r.now()
	for _, rule := range model.RulesFor(at, repeatDays) {
		next, err := rule.NextAfter(now)
		if err != nil {
			return fmt.Errorf("schedule reminder for %s: %w", taskID, err)
		}
		if next.IsZero() {
			r.logger.Debug("reminder time already passed", "task", taskID, "at", at)
			continue
		}
		ev := ReminderEvent{
			Key:       taskID + "/" + rule.Key(),
			TaskID:    taskID,
			Title:     title,
			TriggerAt: next,
			Weekly:    rule.Type == model.RecurrenceWeekly,
		}
		if err := r.engine.Schedule(ev); err != nil {
			return fmt.Errorf("schedule reminder for %s: %w", taskID, err)
		}
	}
	return nil
}

// CancelReminders drops every pending trigger of taskID.
func (r *Reminders) CancelReminders(taskID string) {
	if n := r.engine.Cancel(taskID); n > 0 {
		r.logger.Debug("reminders cancelled", "task", taskID, "count", n)
	}
}
