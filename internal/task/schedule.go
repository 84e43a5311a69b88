package task

import "time"

// ScheduleBlock is one planned slot within a daily schedule.
type ScheduleBlock struct {
	TaskID    string `json:"task_id"`
	StartTime string `json:"start_time"` // "HH:MM", user-local
	EndTime   string `json:"end_time"`
	Reason    string `json:"reason,omitempty"` // generator's placement rationale
}

// Schedule is the per-day arrangement of tasks produced by the scheduling
// engine. The session coordinator stores whatever it receives verbatim and
// never merges schedules.
type Schedule struct {
	UserID      string          `json:"user_id"`
	Date        string          `json:"date"`
	Blocks      []ScheduleBlock `json:"blocks,omitempty"`
	GeneratedAt time.Time       `json:"generated_at"`
}
