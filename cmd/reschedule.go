/*
Copyright © 2026 ReUp contributors
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reupapp/reup/internal/telemetry"
)

var rescheduleCmd = &cobra.Command{
	Use:   "reschedule <task-id> <date> [time-slot]",
	Short: "Move a task to another day (date format: 2006-01-02)",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := activeUser()
		if err != nil {
			return err
		}
		taskID, newDate := args[0], args[1]
		newSlot := ""
		if len(args) == 3 {
			newSlot = args[2]
		}

		log := newLogger()
		coord, err := newCoordinator(log)
		if err != nil {
			return err
		}
		defer coord.Close()

		if err := coord.RescheduleTask(cmd.Context(), taskID, userID, newDate, newSlot); err != nil {
			return err
		}

		tel := newTelemetry()
		defer func() { _ = tel.Close() }()
		tel.Track(telemetry.EventTaskRescheduled, nil)

		fmt.Fprintf(cmd.OutOrStdout(), "Task %s moved to %s\n", taskID, newDate)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rescheduleCmd)
}
