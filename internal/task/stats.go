package task

import "fmt"

// Timeframe selects the aggregation window for task statistics.
type Timeframe string

const (
	TimeframeDay   Timeframe = "day"
	TimeframeWeek  Timeframe = "week"
	TimeframeMonth Timeframe = "month"
)

// ParseTimeframe validates a timeframe string.
func ParseTimeframe(s string) (Timeframe, error) {
	switch Timeframe(s) {
	case TimeframeDay, TimeframeWeek, TimeframeMonth:
		return Timeframe(s), nil
	default:
		return "", fmt.Errorf("unsupported timeframe: %s (supported: day, week, month)", s)
	}
}

// Stats holds aggregate counters over a user's tasks for one timeframe.
type Stats struct {
	Timeframe  Timeframe `json:"timeframe"`
	Total      int       `json:"total"`
	Completed  int       `json:"completed"`
	Pending    int       `json:"pending"`
	InProgress int       `json:"in_progress"`
}

// CompletionRate returns Completed/Total, or 0 when there are no tasks.
func (s Stats) CompletionRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Completed) / float64(s.Total)
}
