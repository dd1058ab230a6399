package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	var envFile string
	rootCmd := &cobra.Command{
		Use:     "questd",
		Short:   "questd - daily quests, reminders and calendar in the terminal",
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if envFile != "" {
				return loadEnv(envFile)
			}
			return loadEnv()
		},
		RunE: runTUI,
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Load variables from this file instead of .env")

	rootCmd.AddCommand(syncCmd())
	rootCmd.AddCommand(weekCmd())
	rootCmd.AddCommand(authCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
