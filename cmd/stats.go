/*
Copyright © 2026 ReUp contributors
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reupapp/reup/internal/task"
)

var statsCmd = &cobra.Command{
	Use:   "stats [day|week|month]",
	Short: "Show task completion stats (defaults to day)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := activeUser()
		if err != nil {
			return err
		}

		timeframe := task.TimeframeDay
		if len(args) == 1 {
			timeframe, err = task.ParseTimeframe(args[0])
			if err != nil {
				return err
			}
		}

		log := newLogger()
		coord, err := newCoordinator(log)
		if err != nil {
			return err
		}
		defer coord.Close()

		stats := coord.TaskStats(cmd.Context(), userID, timeframe)
		if stats == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Stats are unavailable right now.")
			return nil
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Timeframe:   %s\n", stats.Timeframe)
		fmt.Fprintf(out, "Total:       %d\n", stats.Total)
		fmt.Fprintf(out, "Completed:   %d\n", stats.Completed)
		fmt.Fprintf(out, "Pending:     %d\n", stats.Pending)
		fmt.Fprintf(out, "In progress: %d\n", stats.InProgress)
		fmt.Fprintf(out, "Completion:  %.0f%%\n", stats.CompletionRate()*100)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
