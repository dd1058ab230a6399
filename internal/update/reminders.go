package update

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/questd/internal/model"
	"github.com/sandeepkv93/questd/internal/scheduler"
	"github.com/sandeepkv93/questd/internal/views"
)

func waitForReminderCmd(ch <-chan scheduler.ReminderEvent) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return ReminderDueMsg{Event: ev}
	}
}

// applyReminder surfaces a fired reminder unless its task was already done
// today or has been deleted.
func (m *Model) applyReminder(ev scheduler.ReminderEvent) {
	now := m.now()
	task, err := m.store.Get(ev.TaskID)
	if err != nil {
		m.logger.Debug("reminder for missing task", "task", ev.TaskID, "key", ev.Key)
		return
	}
	if model.DoneOn(task, now) {
		m.Status = StatusBar{Text: fmt.Sprintf("reminder skipped, already done: %s", task.Title)}
		return
	}
	text := fmt.Sprintf("reminder: %s @ %s", task.Title, ev.TriggerAt.In(now.Location()).Format("15:04"))
	m.Status = StatusBar{Text: text}
	m.notify(reminderTitle(task.Kind), text, "info")
}

func reminderTitle(kind model.Kind) string {
	switch kind {
	case model.KindMedication:
		return "Medication"
	case model.KindHydration:
		return "Hydration"
	default:
		return "Reminder"
	}
}

func (m *Model) notify(title, body, level string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	n := Notification{
		Title: title,
		Body:  body,
		Level: level,
		At:    time.Now().UTC(),
	}
	m.Notifications = append(m.Notifications, n)
	if len(m.Notifications) > 40 {
		m.Notifications = m.Notifications[len(m.Notifications)-40:]
	}
	if m.DesktopEnabled && m.notifier != nil {
		if err := m.notifier.Send(n); err != nil {
			m.logger.Debug("desktop notification failed", "error", err)
		}
	}
}

func (m Model) renderNotificationsView() string {
	if len(m.Notifications) == 0 {
		return ""
	}
	last := m.Notifications[len(m.Notifications)-1]
	return views.RenderNotification(last.Level, last.Body)
}
