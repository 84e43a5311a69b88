package remote

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/reupapp/reup/internal/session"
	"github.com/reupapp/reup/internal/task"
)

var (
	_ session.ScheduleGenerator = (*Client)(nil)
	_ session.TaskGenerator     = (*Client)(nil)
)

// GenerateDailySchedule asks the scheduling engine for the given date's
// schedule. An empty date means the backend's notion of today.
func (c *Client) GenerateDailySchedule(ctx context.Context, userID, date string) (*task.Schedule, error) {
	body := map[string]string{"user_id": userID}
	if date != "" {
		body["date"] = date
	}
	var sched task.Schedule
	if err := c.do(ctx, http.MethodPost, "/v1/schedule/generate", nil, body, &sched); err != nil {
		return nil, err
	}
	return &sched, nil
}

// GenerateDailyTasks expands one goal breakdown into concrete tasks on the
// backend. The breakdown is passed through untouched.
func (c *Client) GenerateDailyTasks(ctx context.Context, userID string, breakdown json.RawMessage, preferences map[string]any) error {
	body := map[string]any{
		"user_id":     userID,
		"breakdown":   breakdown,
		"preferences": preferences,
	}
	return c.do(ctx, http.MethodPost, "/v1/tasks/generate", nil, body, nil)
}
