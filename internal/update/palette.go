package update

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/questd/internal/commands"
	"github.com/sandeepkv93/questd/internal/model"
	"github.com/sandeepkv93/questd/internal/views"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closePalette()
		m.Status = StatusBar{Text: "command palette closed", IsError: false}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			m.Palette.Input = m.commandInput.Value()
			return m, nil
		}
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		_ = cmd
		m.Palette.Input = m.commandInput.Value()
	}
	return m, nil
}

func (m *Model) closePalette() {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
}

func (m Model) executePaletteCommand() (Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.closePalette()
		return m, nil
	}

	ctx := context.Background()
	now := m.now()
	wantSync := false
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			task := model.Task{Title: a.Title, Kind: model.KindCustom, RepeatDays: a.Days}
			if a.At != nil {
				at := clockOn(now, *a.At)
				task.Time = &at
			}
			added, err := m.store.Add(ctx, task)
			if err != nil {
				return commands.Result{}, err
			}
			m.SelectedTaskID = added.ID
			m.CurrentView = ViewToday
			return commands.Result{Message: fmt.Sprintf("added quest: %s", added.Title)}, nil
		},
		Remind: func(r commands.RemindArgs) (commands.Result, error) {
			times := make([]time.Time, 0, len(r.Times))
			for _, c := range r.Times {
				times = append(times, clockOn(now, c))
			}
			added, err := m.store.AddBatch(ctx, model.ReminderBatch{
				Kind:       r.Kind,
				Title:      r.Title,
				Times:      times,
				RepeatDays: r.Days,
			})
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("added %d %s reminder(s): %s", len(added), r.Kind, r.Title)}, nil
		},
		Delete: func(d commands.DeleteArgs) (commands.Result, error) {
			items := m.todayItems()
			if d.Index < 1 || d.Index > len(items) {
				return commands.Result{}, &commands.CommandError{
					Code:    commands.ErrCodeInvalidArgument,
					Message: fmt.Sprintf("no quest #%d today", d.Index),
				}
			}
			task := items[d.Index-1].Task
			if err := m.store.Delete(ctx, task.ID); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("deleted: %s", task.Title)}, nil
		},
		Week: func(w commands.WeekArgs) (commands.Result, error) {
			m.CurrentView = ViewWeek
			m.Week.Offset = w.Offset
			return commands.Result{Message: fmt.Sprintf("week offset: %d", w.Offset)}, nil
		},
		Sync: func() (commands.Result, error) {
			wantSync = true
			return commands.Result{Message: "calendar sync requested"}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.notify("Command Failed", err.Error(), "error")
	} else {
		m.Status = StatusBar{Text: res.Message, IsError: false}
		m.notify("Command", res.Message, "info")
	}

	m.closePalette()
	m.clampTodayCursor()
	if wantSync && err == nil {
		return m.startSync()
	}
	return m, nil
}

// clockOn places a wall-clock time on now's date in now's location.
func clockOn(now time.Time, c commands.Clock) time.Time {
	y, mo, d := now.Date()
	return time.Date(y, mo, d, c.Hour, c.Minute, 0, 0, now.Location())
}

func (m Model) renderCommandPalette() string {
	return views.RenderCommandPalette(m.Palette.Active, m.commandInput.View())
}
