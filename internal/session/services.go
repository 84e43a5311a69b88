// Package session implements the client-side task session coordinator: it
// owns a user's in-memory view of tasks and schedule, drives initialization
// and periodic refresh, and exposes the mutation operations the UI layers
// call. The authoritative state lives in the remote services; the local
// state is a cache that is always fully refreshed, never patched.
package session

import (
	"context"
	"encoding/json"

	"github.com/reupapp/reup/internal/task"
)

// Gateway provides direct access to a user's persisted tasks.
type Gateway interface {
	// TodaysTasks returns the authoritative set of tasks scheduled for
	// today, in the gateway's stable ordering.
	TodaysTasks(ctx context.Context, userID string) ([]task.Task, error)

	// CompleteTask marks a task completed without running the full
	// completion workflow (no XP, no achievements).
	CompleteTask(ctx context.Context, taskID, userID string) error

	// RescheduleTask moves a task to a new calendar date and optional
	// time slot.
	RescheduleTask(ctx context.Context, taskID, userID, newDate, newTimeSlot string) error

	// TaskStats returns aggregate counters for the given timeframe.
	TaskStats(ctx context.Context, userID string, timeframe task.Timeframe) (*task.Stats, error)
}

// Orchestrator composes gateway and generator calls into higher-level
// workflows.
type Orchestrator interface {
	// InitializeTaskSystem runs the full initialization workflow for a
	// user: ensure today's tasks exist and produce today's schedule.
	InitializeTaskSystem(ctx context.Context, userID string) (*InitResult, error)

	// HandleTaskCompletion runs the completion workflow: persist the
	// completion, award XP, and evaluate achievements.
	HandleTaskCompletion(ctx context.Context, userID, taskID string, payload map[string]any) (*CompletionResult, error)
}

// ScheduleGenerator produces a daily schedule for a user.
type ScheduleGenerator interface {
	// GenerateDailySchedule builds the schedule for the given date.
	// An empty date means the generator's own notion of "today".
	GenerateDailySchedule(ctx context.Context, userID, date string) (*task.Schedule, error)
}

// TaskGenerator expands goal breakdowns into concrete daily tasks.
type TaskGenerator interface {
	GenerateDailyTasks(ctx context.Context, userID string, breakdown json.RawMessage, preferences map[string]any) error
}

// Services bundles the four external collaborators a session depends on.
type Services struct {
	Gateway      Gateway
	Orchestrator Orchestrator
	Scheduler    ScheduleGenerator
	Generator    TaskGenerator
}

// InitData carries the payload of a successful initialization workflow.
type InitData struct {
	TodaySchedule *task.Schedule `json:"today_schedule,omitempty"`
}

// InitResult is the structured result of the initialization workflow.
// Success=false signals a failure the workflow handled itself; the transport
// error path is a separate Go error.
type InitResult struct {
	Success bool      `json:"success"`
	Message string    `json:"message,omitempty"`
	Data    *InitData `json:"data,omitempty"`
}

// CompletionResult is the structured result of the completion workflow.
type CompletionResult struct {
	Success      bool       `json:"success"`
	Task         *task.Task `json:"task,omitempty"`
	XPAwarded    int        `json:"xp_awarded"`
	Celebration  string     `json:"celebration,omitempty"`
	Achievements []string   `json:"achievements,omitempty"`
}
