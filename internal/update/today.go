package update

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/questd/internal/model"
	"github.com/sandeepkv93/questd/internal/projector"
	"github.com/sandeepkv93/questd/internal/views"
)

func (m Model) todayItems() []projector.DayTask {
	return projector.Today(m.store.Tasks(), m.now())
}

func (m Model) handleTodayKey(msg tea.KeyMsg) Model {
	items := m.todayItems()
	switch msg.String() {
	case "j", "down":
		if m.Today.Cursor < len(items)-1 {
			m.Today.Cursor++
		}
	case "k", "up":
		if m.Today.Cursor > 0 {
			m.Today.Cursor--
		}
	case " ", "enter", "x":
		if item, ok := m.cursorItem(items); ok {
			m = m.toggleTask(item.Task.ID)
		}
	case "d":
		if item, ok := m.cursorItem(items); ok {
			m = m.deleteTask(item.Task)
		}
	}
	m.clampTodayCursor()
	return m
}

func (m Model) cursorItem(items []projector.DayTask) (projector.DayTask, bool) {
	if m.Today.Cursor < 0 || m.Today.Cursor >= len(items) {
		return projector.DayTask{}, false
	}
	return items[m.Today.Cursor], true
}

func (m Model) toggleTask(id string) Model {
	task, awarded, err := m.store.Toggle(context.Background(), id, m.now())
	if err != nil {
		m.LastError = err
		m.Status = StatusBar{Text: fmt.Sprintf("toggle failed: %v", err), IsError: true}
		return m
	}
	m.SelectedTaskID = task.ID
	switch {
	case !task.Completed:
		m.Status = StatusBar{Text: fmt.Sprintf("reopened: %s", task.Title)}
	case awarded:
		m.Status = StatusBar{Text: fmt.Sprintf("completed: %s (+%d XP)", task.Title, model.XPReward)}
	default:
		m.Status = StatusBar{Text: fmt.Sprintf("completed: %s", task.Title)}
	}
	return m
}

func (m Model) deleteTask(task model.Task) Model {
	if err := m.store.Delete(context.Background(), task.ID); err != nil {
		m.LastError = err
		m.Status = StatusBar{Text: fmt.Sprintf("delete failed: %v", err), IsError: true}
		return m
	}
	if m.SelectedTaskID == task.ID {
		m.SelectedTaskID = ""
	}
	m.Status = StatusBar{Text: fmt.Sprintf("deleted: %s", task.Title)}
	if task.IsCalendar() {
		m.Status.Text += " (returns on next calendar sync)"
	}
	return m
}

func (m *Model) clampTodayCursor() {
	n := len(m.todayItems())
	if m.Today.Cursor >= n {
		m.Today.Cursor = n - 1
	}
	if m.Today.Cursor < 0 {
		m.Today.Cursor = 0
	}
}

func (m Model) renderTodayView() string {
	now := m.now()
	items := m.todayItems()
	rows := make([]views.TaskRowData, 0, len(items))
	for i, item := range items {
		rows = append(rows, taskRow(item, i+1, now.Location()))
	}
	done, total := projector.Progress(items)
	return views.RenderTodayPanel(views.TodayPanelData{
		Date:   now.Format("Mon, Jan 2"),
		Rows:   rows,
		Cursor: m.Today.Cursor,
		Done:   done,
		Total:  total,
	})
}

func taskRow(item projector.DayTask, number int, loc *time.Location) views.TaskRowData {
	t := item.Task
	row := views.TaskRowData{
		Number: number,
		Title:  t.Title,
		Kind:   string(t.Kind.Normalize()),
		Repeat: repeatLabel(t.RepeatDays),
		Done:   item.Done,
	}
	switch {
	case t.IsAllDay:
		row.Clock = "all-day"
	case t.Time != nil:
		row.Clock = t.Time.In(loc).Format("15:04")
	}
	return row
}

func repeatLabel(days []model.Weekday) string {
	switch len(days) {
	case 0:
		return ""
	case len(model.Weekdays):
		return "daily"
	}
	out := make([]string, 0, len(days))
	for _, d := range days {
		out = append(out, string(d))
	}
	return strings.Join(out, ",")
}
