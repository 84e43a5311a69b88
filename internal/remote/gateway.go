package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/reupapp/reup/internal/session"
	"github.com/reupapp/reup/internal/task"
)

var _ session.Gateway = (*Client)(nil)

// TodaysTasks returns the tasks scheduled for today, in backend order.
func (c *Client) TodaysTasks(ctx context.Context, userID string) ([]task.Task, error) {
	q := url.Values{"user_id": {userID}}
	var tasks []task.Task
	if err := c.do(ctx, http.MethodGet, "/v1/tasks/today", q, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CompleteTask marks a task completed without the full workflow.
func (c *Client) CompleteTask(ctx context.Context, taskID, userID string) error {
	body := map[string]string{"user_id": userID}
	return c.do(ctx, http.MethodPost, "/v1/tasks/"+url.PathEscape(taskID)+"/complete", nil, body, nil)
}

// RescheduleTask moves a task to a new date and optional time slot.
func (c *Client) RescheduleTask(ctx context.Context, taskID, userID, newDate, newTimeSlot string) error {
	body := map[string]string{
		"user_id":  userID,
		"new_date": newDate,
	}
	if newTimeSlot != "" {
		body["new_time_slot"] = newTimeSlot
	}
	return c.do(ctx, http.MethodPost, "/v1/tasks/"+url.PathEscape(taskID)+"/reschedule", nil, body, nil)
}

// TaskStats returns aggregate task counters for the timeframe.
func (c *Client) TaskStats(ctx context.Context, userID string, timeframe task.Timeframe) (*task.Stats, error) {
	q := url.Values{
		"user_id":   {userID},
		"timeframe": {string(timeframe)},
	}
	var stats task.Stats
	if err := c.do(ctx, http.MethodGet, "/v1/tasks/stats", q, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
