package remote

import (
	"context"
	"net/http"

	"github.com/reupapp/reup/internal/session"
)

var _ session.Orchestrator = (*Client)(nil)

// InitializeTaskSystem runs the backend initialization workflow for a user.
// A workflow-level failure comes back as Success=false, not as an error.
func (c *Client) InitializeTaskSystem(ctx context.Context, userID string) (*session.InitResult, error) {
	body := map[string]string{"user_id": userID}
	var res session.InitResult
	if err := c.do(ctx, http.MethodPost, "/v1/workflows/initialize", nil, body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// HandleTaskCompletion runs the completion workflow: the backend persists
// the completion payload, awards XP, and evaluates achievements.
func (c *Client) HandleTaskCompletion(ctx context.Context, userID, taskID string, payload map[string]any) (*session.CompletionResult, error) {
	body := map[string]any{
		"user_id":    userID,
		"task_id":    taskID,
		"completion": payload,
	}
	var res session.CompletionResult
	if err := c.do(ctx, http.MethodPost, "/v1/workflows/complete-task", nil, body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
