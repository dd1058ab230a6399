package update

import (
	"sort"
	"time"

	"github.com/sandeepkv93/questd/internal/model"
	"github.com/sandeepkv93/questd/internal/views"
)

const reminderPreviewCount = 3

// upcomingReminders lists the next triggers of a timed user task, merged
// across its weekly rules.
func upcomingReminders(task model.Task, from time.Time, count int) []time.Time {
	if task.Time == nil || task.IsAllDay || task.IsCalendar() {
		return nil
	}
	out := make([]time.Time, 0, count)
	for _, rule := range model.RulesFor(*task.Time, task.RepeatDays) {
		next, err := rule.Preview(from, count)
		if err != nil {
			continue
		}
		out = append(out, next...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	if len(out) > count {
		out = out[:count]
	}
	return out
}

func (m Model) renderReminderPreview() string {
	item, ok := m.cursorItem(m.todayItems())
	if !ok {
		return ""
	}
	now := m.now()
	data := views.ReminderPreviewData{Title: item.Task.Title}
	if item.Task.Kind == model.KindMedication || item.Task.Kind == model.KindHydration {
		data.Kind = string(item.Task.Kind)
	}
	for _, at := range upcomingReminders(item.Task, now, reminderPreviewCount) {
		data.Next = append(data.Next, at.In(now.Location()).Format("Mon Jan 2 15:04"))
	}
	return views.RenderReminderPreview(data)
}
