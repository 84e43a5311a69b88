/*
Copyright © 2026 ReUp contributors
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reupapp/reup/internal/task"
	"github.com/reupapp/reup/internal/telemetry"
)

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's tasks and schedule",
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

		tel := newTelemetry()
		defer func() { _ = tel.Close() }()
		tel.Track(telemetry.EventSessionActivated, map[string]any{"command": "today"})

		if err := coord.Activate(cmd.Context(), userID); err != nil {
			return err
		}
		if msg := coord.Err(); msg != "" {
			fmt.Fprintln(cmd.ErrOrStderr(), "warning:", msg)
		}

		printTasks(cmd, coord.Tasks())
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d done, %d pending\n",
			len(coord.CompletedTasks()), len(coord.PendingTasks()))

		if sched := coord.Schedule(); sched != nil {
			printSchedule(cmd, sched)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(todayCmd)
}

func printTasks(cmd *cobra.Command, tasks []task.Task) {
	out := cmd.OutOrStdout()
	if len(tasks) == 0 {
		fmt.Fprintln(out, "No tasks scheduled for today.")
		return
	}
	for _, t := range tasks {
		marker := " "
		if t.Status == task.StatusCompleted {
			marker = "x"
		}
		fmt.Fprintf(out, "[%s] %-40s %-12s %s\n", marker, t.Title, t.Status, t.ID)
	}
}

func printSchedule(cmd *cobra.Command, sched *task.Schedule) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nSchedule for %s:\n", sched.Date)
	for _, b := range sched.Blocks {
		fmt.Fprintf(out, "  %s-%s  %s\n", b.StartTime, b.EndTime, b.TaskID)
	}
}
