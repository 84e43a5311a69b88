/*
Copyright © 2026 ReUp contributors
*/
package cmd

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/reupapp/reup/internal/telemetry"
)

var watchEvery time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep a live session open and reprint tasks as they refresh",
	Long: `Watch activates a session for the configured user and leaves the
auto-refresh running, reprinting today's tasks whenever the list changes.
Stop it with Ctrl-C.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := activeUser()
		if err != nil {
			return err
		}

		log := newLogger()
		coord, err := newCoordinator(log)
		if err != nil {
			return err
		}
		defer coord.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		tel := newTelemetry()
		defer func() { _ = tel.Close() }()
		tel.Track(telemetry.EventSessionActivated, map[string]any{"command": "watch"})

		if err := coord.Activate(ctx, userID); err != nil {
			return err
		}
		printTasks(cmd, coord.Tasks())

		// Poll the coordinator's view; the session's own refresh loop does
		// the actual fetching on its configured interval.
		ticker := time.NewTicker(watchEvery)
		defer ticker.Stop()

		lastDone := len(coord.CompletedTasks())
		for {
			select {
			case <-ctx.Done():
				fmt.Fprintln(cmd.OutOrStdout(), "\nSession closed.")
				return nil
			case <-ticker.C:
				if msg := coord.Err(); msg != "" {
					log.Warn("session error", "error", msg)
				}
				if done := len(coord.CompletedTasks()); done != lastDone {
					lastDone = done
					printTasks(cmd, coord.Tasks())
				}
			}
		}
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchEvery, "redraw", 10*time.Second, "how often to re-check the local view")
	rootCmd.AddCommand(watchCmd)
}
