package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/questd/internal/calsync"
)

func syncCmd() *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Import calendar events into the task list",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if watch {
				a.syncer.Run(ctx, a.cfg.SyncInterval, time.Now, func(res calsync.Result, err error) {
					printSyncResult(cmd, res, err)
				})
				return nil
			}
			res, err := a.syncer.Sync(ctx, time.Now())
			printSyncResult(cmd, res, err)
			if err != nil {
				return err
			}
			if res.Status == calsync.StatusPermissionDenied {
				return fmt.Errorf("calendar access denied: run `questd auth`")
			}
			if res.Status == calsync.StatusFailed {
				return fmt.Errorf("calendar sync failed")
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep syncing every sync interval until interrupted")
	return cmd
}

func printSyncResult(cmd *cobra.Command, res calsync.Result, err error) {
	out := cmd.OutOrStdout()
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintf(out, "sync error: %v\n", err)
		}
		return
	}
	switch res.Status {
	case calsync.StatusSynced:
		fmt.Fprintf(out, "%s synced %d event(s) from %d calendar(s)\n", res.At.Format(time.Kitchen), res.Imported, res.Calendars)
		for _, w := range res.Warnings {
			fmt.Fprintf(out, "  warning: %v\n", w)
		}
	case calsync.StatusThrottled:
		fmt.Fprintln(out, "skipped: synced less than an interval ago")
	case calsync.StatusPermissionDenied:
		fmt.Fprintln(out, "calendar access denied: run `questd auth`")
	case calsync.StatusFailed:
		for _, w := range res.Warnings {
			fmt.Fprintf(out, "  failed: %v\n", w)
		}
	}
}
