package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/questd/internal/model"
	"github.com/sandeepkv93/questd/internal/projector"
	"github.com/sandeepkv93/questd/internal/views"
)

func (m Model) handleWeekKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "h", "left":
		m.Week.Offset--
	case "l", "right":
		m.Week.Offset++
	case "0":
		m.Week.Offset = 0
	default:
		return m
	}
	m.Status = StatusBar{Text: fmt.Sprintf("week offset: %d", m.Week.Offset)}
	return m
}

func (m Model) renderWeekView() string {
	now := m.now()
	today := model.DateKey(now)
	days := projector.Week(m.store.Tasks(), now, m.Week.Offset)
	data := views.WeekPanelData{Offset: m.Week.Offset, Days: make([]views.WeekDayData, 0, len(days))}
	if len(days) > 0 {
		data.Range = fmt.Sprintf("%s - %s", days[0].Date.Format("Jan 2"), days[len(days)-1].Date.Format("Jan 2"))
	}
	for _, day := range days {
		done, total := projector.Progress(day.Tasks)
		entry := views.WeekDayData{
			Label:   day.Label,
			IsToday: day.Key == today,
			Rows:    make([]views.TaskRowData, 0, len(day.Tasks)),
		}
		if total > 0 {
			entry.Label = fmt.Sprintf("%s %s %d/%d", day.Label, progressBar(float64(done)/float64(total), 7), done, total)
		}
		for _, item := range day.Tasks {
			entry.Rows = append(entry.Rows, taskRow(item, 0, now.Location()))
		}
		data.Days = append(data.Days, entry)
	}
	return views.RenderWeekPanel(data)
}
