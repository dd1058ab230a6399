package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/questd/internal/update"
)

func runTUI(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	var notifier update.DesktopNotifier = update.NoopDesktopNotifier{}
	if a.cfg.DesktopNotifications {
		notifier = update.ExecDesktopNotifier{}
	}
	m := update.NewModel(update.Deps{
		Store:                a.store,
		Syncer:               a.syncer,
		Scheduler:            a.engine,
		Notifier:             notifier,
		DesktopNotifications: a.cfg.DesktopNotifications,
		SyncInterval:         a.cfg.SyncInterval,
		Logger:               a.logger,
	})
	program := tea.NewProgram(m, tea.WithContext(cmd.Context()))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("questd failed: %w", err)
	}
	return nil
}
