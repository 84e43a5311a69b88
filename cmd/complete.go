/*
Copyright © 2026 ReUp contributors
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reupapp/reup/internal/telemetry"
)

var (
	completeNote string
	completeMood string
)

var completeCmd = &cobra.Command{
	Use:   "complete <task-id>",
	Short: "Complete a task through the full workflow (XP, achievements)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := activeUser()
		if err != nil {
			return err
		}
		taskID := args[0]

		log := newLogger()
		coord, err := newCoordinator(log)
		if err != nil {
			return err
		}
		defer coord.Close()

		data := map[string]any{}
		if completeNote != "" {
			data["note"] = completeNote
		}
		if completeMood != "" {
			data["mood"] = completeMood
		}

		res, err := coord.CompleteTask(cmd.Context(), userID, taskID, data)
		if err != nil {
			return err
		}

		tel := newTelemetry()
		defer func() { _ = tel.Close() }()
		tel.Track(telemetry.EventTaskCompleted, map[string]any{"workflow_success": res.Success})

		out := cmd.OutOrStdout()
		if !res.Success {
			fmt.Fprintln(out, "The completion workflow reported a problem; your task list was refreshed.")
			if msg := coord.Err(); msg != "" {
				fmt.Fprintln(out, msg)
			}
			return nil
		}

		if res.Celebration != "" {
			fmt.Fprintln(out, res.Celebration)
		}
		fmt.Fprintf(out, "+%d XP\n", res.XPAwarded)
		for _, a := range res.Achievements {
			fmt.Fprintf(out, "Achievement unlocked: %s\n", a)
		}
		return nil
	},
}

func init() {
	completeCmd.Flags().StringVar(&completeNote, "note", "", "completion note")
	completeCmd.Flags().StringVar(&completeMood, "mood", "", "how it felt (free text)")
	rootCmd.AddCommand(completeCmd)
}
