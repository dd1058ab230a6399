package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/questd/internal/model"
	"github.com/sandeepkv93/questd/internal/projector"
)

func weekCmd() *cobra.Command {
	var offset int
	cmd := &cobra.Command{
		Use:   "week",
		Short: "Print the quests of a seven-day window",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			now := time.Now()
			out := cmd.OutOrStdout()
			for _, day := range projector.Week(a.store.Tasks(), now, offset) {
				done, total := projector.Progress(day.Tasks)
				fmt.Fprintf(out, "%s  %d/%d\n", day.Label, done, total)
				for _, item := range day.Tasks {
					box := "[ ]"
					if item.Done {
						box = "[x]"
					}
					fmt.Fprintf(out, "  %s %s %s\n", box, clockLabel(item.Task, now.Location()), item.Task.Title)
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&offset, "offset", "o", 0, "Weeks from today; negative values look back")
	return cmd
}

func clockLabel(t model.Task, loc *time.Location) string {
	switch {
	case t.IsAllDay:
		return "all-day"
	case t.Time != nil:
		return t.Time.In(loc).Format("15:04")
	default:
		return "     "
	}
}
