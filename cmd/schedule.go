/*
Copyright © 2026 ReUp contributors
*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/reupapp/reup/internal/telemetry"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule [date]",
	Short: "Generate the daily schedule (defaults to today)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := activeUser()
		if err != nil {
			return err
		}
		date := ""
		if len(args) == 1 {
			date = args[0]
		}

		log := newLogger()
		coord, err := newCoordinator(log)
		if err != nil {
			return err
		}
		defer coord.Close()

		sched, err := coord.GenerateSchedule(cmd.Context(), userID, date)
		if err != nil {
			return err
		}

		tel := newTelemetry()
		defer func() { _ = tel.Close() }()
		tel.Track(telemetry.EventScheduleGenerated, map[string]any{"blocks": len(sched.Blocks)})

		printSchedule(cmd, sched)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
}
