package task

import (
	"bytes"
	"encoding/json"
)

// Goal is a user goal that may carry an AI-produced breakdown. The breakdown
// is opaque to this client; it is handed to the task generation service as-is.
type Goal struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	AIBreakdown     json.RawMessage `json:"ai_breakdown,omitempty"`
	UserPreferences map[string]any  `json:"user_preferences,omitempty"`
}

// HasBreakdown reports whether the goal carries a usable breakdown.
// Goals without one are skipped during task generation.
func (g Goal) HasBreakdown() bool {
	return len(g.AIBreakdown) > 0 && !bytes.Equal(g.AIBreakdown, []byte("null"))
}

// Preferences returns the goal's user preferences, defaulting to an empty map.
func (g Goal) Preferences() map[string]any {
	if g.UserPreferences == nil {
		return map[string]any{}
	}
	return g.UserPreferences
}
