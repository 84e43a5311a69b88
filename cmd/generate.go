/*
Copyright © 2026 ReUp contributors
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/reupapp/reup/internal/session"
	"github.com/reupapp/reup/internal/task"
	"github.com/reupapp/reup/internal/telemetry"
)

var generateGoalsFile string

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate daily tasks from goal breakdowns",
	Long: `Generate reads goals (with their AI breakdowns) from a JSON file and
asks the task generation service to expand each breakdown into concrete
daily tasks. Goals without a breakdown are skipped. Generation stops at
the first failure.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := activeUser()
		if err != nil {
			return err
		}

		data, err := os.ReadFile(generateGoalsFile)
		if err != nil {
			return fmt.Errorf("read goals file: %w", err)
		}
		var goals []task.Goal
		if err := json.Unmarshal(data, &goals); err != nil {
			return fmt.Errorf("parse goals file: %w", err)
		}

		log := newLogger()
		client, err := newBackendClient(log)
		if err != nil {
			return err
		}
		ctrl := session.NewListController(client, client, log)

		if err := ctrl.GenerateTasksFromGoals(cmd.Context(), userID, goals); err != nil {
			return err
		}

		tel := newTelemetry()
		defer func() { _ = tel.Close() }()
		tel.Track(telemetry.EventTasksGenerated, map[string]any{"goals": len(goals)})

		printTasks(cmd, ctrl.Tasks())
		if stats := ctrl.Stats(); stats != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "\nToday: %d/%d done (%.0f%%)\n",
				stats.Completed, stats.Total, stats.CompletionRate()*100)
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVarP(&generateGoalsFile, "goals", "g", "goals.json", "path to the goals JSON file")
	rootCmd.AddCommand(generateCmd)
}
