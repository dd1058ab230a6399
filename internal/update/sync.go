package update

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/questd/internal/calsync"
)

func (m Model) startSync() (Model, tea.Cmd) {
	if m.syncer == nil {
		m.Status = StatusBar{Text: "calendar sync not configured", IsError: true}
		return m, nil
	}
	if m.Syncing {
		return m, nil
	}
	m.Syncing = true
	m.Status = StatusBar{Text: "sync started", IsError: false}
	return m, tea.Batch(m.syncSpinner.Tick, syncCmd(m.syncer, m.now()))
}

func syncCmd(s Syncer, now time.Time) tea.Cmd {
	return func() tea.Msg {
		res, err := s.Sync(context.Background(), now)
		return SyncDoneMsg{Result: res, Err: err}
	}
}

func (m Model) applySyncResult(msg SyncDoneMsg) Model {
	m.Syncing = false
	if msg.Err != nil {
		m.LastError = msg.Err
		m.Status = StatusBar{Text: fmt.Sprintf("calendar sync failed: %v", msg.Err), IsError: true}
		m.logger.Warn("calendar sync failed", "error", msg.Err)
		return m
	}
	m.LastSync = msg.Result
	switch msg.Result.Status {
	case calsync.StatusSynced:
		text := fmt.Sprintf("calendar synced: %d event(s) from %d calendar(s)", msg.Result.Imported, msg.Result.Calendars)
		if n := len(msg.Result.Warnings); n > 0 {
			text += fmt.Sprintf(", %d calendar(s) failed", n)
		}
		m.Status = StatusBar{Text: text, IsError: false}
		m.clampTodayCursor()
	case calsync.StatusThrottled:
		m.Status = StatusBar{Text: "calendar recently synced", IsError: false}
	case calsync.StatusPermissionDenied:
		m.Status = StatusBar{Text: "calendar access denied: run `questd auth`", IsError: true}
		m.notify("Calendar", m.Status.Text, "error")
	case calsync.StatusFailed:
		m.Status = StatusBar{Text: "calendar sync failed: no calendar could be read", IsError: true}
	}
	return m
}
