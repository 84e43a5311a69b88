package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/reupapp/reup/internal/task"
)

// ListController is the lighter-weight sibling of Coordinator: it owns only
// the task list and its stats, with no schedule and no initialization
// lifecycle. It is the controller behind plain task-list surfaces.
type ListController struct {
	gw  Gateway
	gen TaskGenerator
	log *slog.Logger

	mu      sync.Mutex
	userID  string
	tasks   []task.Task
	stats   *task.Stats
	loading bool
	errMsg  string
}

// NewListController creates a ListController over the gateway and generator.
func NewListController(gw Gateway, gen TaskGenerator, log *slog.Logger) *ListController {
	if log == nil {
		log = slog.Default()
	}
	return &ListController{gw: gw, gen: gen, log: log}
}

// Load fetches today's tasks and the daily stats concurrently and replaces
// both wholesale. A user change discards the previous list first. On a task
// fetch failure the stale list is kept and the error recorded and returned;
// a stats failure alone is recorded but tasks still land.
func (l *ListController) Load(ctx context.Context, userID string) error {
	if userID == "" {
		return nil
	}

	l.mu.Lock()
	if l.userID != userID {
		l.userID = userID
		l.tasks = nil
		l.stats = nil
		l.errMsg = ""
	}
	l.loading = true
	l.mu.Unlock()
	defer l.setLoading(false)

	var (
		wg       sync.WaitGroup
		tasks    []task.Task
		stats    *task.Stats
		taskErr  error
		statsErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		tasks, taskErr = l.gw.TodaysTasks(ctx, userID)
	}()
	go func() {
		defer wg.Done()
		stats, statsErr = l.gw.TaskStats(ctx, userID, task.TimeframeDay)
	}()
	wg.Wait()

	l.mu.Lock()
	if taskErr == nil {
		l.tasks = tasks
		l.errMsg = ""
	}
	if statsErr == nil {
		l.stats = stats
	}
	switch {
	case taskErr != nil:
		l.errMsg = errMessage(taskErr, "failed to load tasks")
	case statsErr != nil:
		l.errMsg = errMessage(statsErr, "failed to load task stats")
	}
	l.mu.Unlock()

	if taskErr != nil {
		return fmt.Errorf("load today's tasks: %w", taskErr)
	}
	if statsErr != nil {
		return fmt.Errorf("load task stats: %w", statsErr)
	}
	return nil
}

// CompleteTask marks a task completed directly through the gateway (no
// workflow, no XP) and reloads the list.
func (l *ListController) CompleteTask(ctx context.Context, userID, taskID string) error {
	if userID == "" {
		return nil
	}
	if err := l.gw.CompleteTask(ctx, taskID, userID); err != nil {
		l.setError(errMessage(err, "failed to complete task"))
		return fmt.Errorf("complete task %s: %w", taskID, err)
	}
	return l.Load(ctx, userID)
}

// GenerateTasksFromGoals runs the task generator sequentially over every
// goal that carries a breakdown, then reloads once after the loop. Goals
// without a breakdown are skipped silently. The first generator failure
// aborts the remaining goals and surfaces as the recorded error; nothing is
// reloaded in that case.
func (l *ListController) GenerateTasksFromGoals(ctx context.Context, userID string, goals []task.Goal) error {
	if userID == "" {
		return nil
	}
	l.setLoading(true)
	defer l.setLoading(false)

	for _, g := range goals {
		if !g.HasBreakdown() {
			continue
		}
		if err := l.gen.GenerateDailyTasks(ctx, userID, g.AIBreakdown, g.Preferences()); err != nil {
			l.setError(errMessage(err, "failed to generate tasks"))
			return fmt.Errorf("generate tasks for goal %s: %w", g.ID, err)
		}
	}

	return l.Load(ctx, userID)
}

// Tasks returns a copy of the current task list.
func (l *ListController) Tasks() []task.Task {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]task.Task, len(l.tasks))
	copy(out, l.tasks)
	return out
}

// Stats returns the last loaded stats, or nil.
func (l *ListController) Stats() *task.Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stats
}

// Loading reports whether an operation is in flight.
func (l *ListController) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}

// Err returns the last recorded error message, or "" when none.
func (l *ListController) Err() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.errMsg
}

func (l *ListController) setLoading(v bool) {
	l.mu.Lock()
	l.loading = v
	l.mu.Unlock()
}

func (l *ListController) setError(msg string) {
	l.mu.Lock()
	l.errMsg = msg
	l.mu.Unlock()
}
