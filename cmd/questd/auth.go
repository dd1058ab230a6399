package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/questd/internal/calendar/google"
	"github.com/sandeepkv93/questd/internal/config"
)

func authCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Grant read access to Google Calendar",
		Long: fmt.Sprintf(`Runs the OAuth consent flow and caches the token.

Place the OAuth client file as %s in the credentials directory
(QUESTD_CREDENTIALS_DIR) first.`, google.CredentialsFile),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg := config.FromEnv(config.Default())
			logger, logFile, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer logFile.Close()

			auth := google.Auth{Dir: cfg.CredentialsDir, Port: cfg.AuthPort, Logger: logger}
			out := cmd.OutOrStdout()
			err = auth.Authorize(ctx, func(url string) {
				fmt.Fprintf(out, "Open this URL in your browser to grant calendar access:\n\n  %s\n\n", url)
			})
			if err != nil {
				return fmt.Errorf("authorize: %w", err)
			}
			fmt.Fprintln(out, "calendar access granted")
			return nil
		},
	}
}
