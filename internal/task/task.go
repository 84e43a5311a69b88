// Package task defines the ReUp task data model shared by the session
// coordinator, the remote API clients, and the CLI.
package task

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the calendar-date format used for scheduled dates.
// Scheduled dates carry no time component.
const DateLayout = "2006-01-02"

// Status represents the lifecycle state of a task.
type Status string

const (
	StatusPending     Status = "pending"
	StatusInProgress  Status = "in_progress"
	StatusCompleted   Status = "completed"
	StatusSkipped     Status = "skipped"
	StatusRescheduled Status = "rescheduled"
)

// Type classifies how a task recurs (or doesn't).
type Type string

const (
	TypeDailyHabit Type = "daily_habit"
	TypeWeeklyTask Type = "weekly_task"
	TypeMilestone  Type = "milestone"
	TypeOneTime    Type = "one_time"
	TypeRecurring  Type = "recurring"
)

// Priority represents the priority levels of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Task represents a unit of work scheduled for a user.
type Task struct {
	ID               string     `json:"id" validate:"required,uuid4"`
	UserID           string     `json:"user_id" validate:"required"`
	Title            string     `json:"title" validate:"required,min=1,max=255"`
	Description      string     `json:"description,omitempty"`
	Type             Type       `json:"task_type" validate:"required,oneof=daily_habit weekly_task milestone one_time recurring"`
	Priority         Priority   `json:"priority" validate:"required,oneof=low medium high"`
	Status           Status     `json:"status" validate:"required,oneof=pending in_progress completed skipped rescheduled"`
	EstimatedMinutes int        `json:"estimated_duration,omitempty" validate:"omitempty,min=1"`
	SuggestedSlot    string     `json:"suggested_time_slot,omitempty"`
	GoalID           string     `json:"goal_id,omitempty" validate:"omitempty,uuid4"`
	EnergyLevel      string     `json:"energy_level_required,omitempty" validate:"omitempty,oneof=low medium high"`
	Difficulty       int        `json:"difficulty_score,omitempty" validate:"omitempty,min=1,max=10"`
	Context          string     `json:"context,omitempty"`
	SuccessCriteria  string     `json:"success_criteria,omitempty"`
	ScheduledDate    string     `json:"scheduled_date" validate:"required,datetime=2006-01-02"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// global validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate checks struct tags plus the cross-field invariants that tags
// cannot express: completed_at is set if and only if the status is completed.
func (t *Task) Validate() error {
	if err := validate.Struct(t); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var msgs []string
		for _, e := range validationErrors {
			msgs = append(msgs, fmt.Sprintf("field '%s' failed rule '%s'", e.StructNamespace(), e.Tag()))
		}
		return fmt.Errorf("%s", strings.Join(msgs, "; "))
	}
	if t.Status == StatusCompleted && t.CompletedAt == nil {
		return fmt.Errorf("completed task %s has no completed_at", t.ID)
	}
	if t.Status != StatusCompleted && t.CompletedAt != nil {
		return fmt.Errorf("task %s has completed_at but status %q", t.ID, t.Status)
	}
	return nil
}

// ValidDate reports whether s is a valid calendar date in DateLayout.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// Today returns the current calendar date in DateLayout.
func Today() string {
	return time.Now().Format(DateLayout)
}
