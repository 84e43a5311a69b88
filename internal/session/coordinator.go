package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/reupapp/reup/internal/task"
)

// ErrInvalidDate is returned when a reschedule or schedule-generation call
// receives a string that is not a calendar date.
var ErrInvalidDate = errors.New("invalid calendar date")

// Lifecycle is the initialization state of a session. Concurrent activation
// attempts for the same user join the in-flight initialization instead of
// issuing duplicate workflow calls.
type Lifecycle int

const (
	Uninitialized Lifecycle = iota
	Initializing
	Ready
)

func (l Lifecycle) String() string {
	switch l {
	case Initializing:
		return "initializing"
	case Ready:
		return "ready"
	default:
		return "uninitialized"
	}
}

// Snapshotter persists the last-known session view so a client can render
// instantly while the real refresh runs. Implementations must tolerate a
// missing snapshot.
type Snapshotter interface {
	Load(userID string) ([]task.Task, *task.Schedule, error)
	Save(userID string, tasks []task.Task, schedule *task.Schedule) error
}

// tickerFunc produces a tick channel and a stop function. Injectable so
// tests can drive the refresh loop with simulated time.
type tickerFunc func(d time.Duration) (<-chan time.Time, func())

func stdTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// DefaultRefreshInterval is how often an active session reloads tasks.
const DefaultRefreshInterval = 5 * time.Minute

// Coordinator owns a single user's session state and drives the external
// task services in a defined order. All operations are no-ops when the user
// identifier is empty. State is guarded by a mutex; concurrently triggered
// operations for the same user converge by full overwrite of the task list
// (last write wins, both read the same authoritative source). The epoch
// counter increments on every user rebind; operations capture it at entry
// and drop their writes once it has moved, so a slow call started for a
// previous user can never write into the next user's session.
type Coordinator struct {
	svc          Services
	log          *slog.Logger
	snap         Snapshotter
	refreshEvery time.Duration
	newTicker    tickerFunc
	now          func() time.Time

	mu            sync.Mutex
	userID        string
	epoch         int
	tasks         []task.Task
	schedule      *task.Schedule
	loading       bool
	errMsg        string
	state         Lifecycle
	initDone      chan struct{}
	cancelRefresh context.CancelFunc
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger used for non-fatal diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(c *Coordinator) { c.log = log }
}

// WithRefreshInterval overrides the auto-refresh period.
func WithRefreshInterval(d time.Duration) Option {
	return func(c *Coordinator) { c.refreshEvery = d }
}

// WithSnapshots enables local snapshot persistence of the session view.
func WithSnapshots(s Snapshotter) Option {
	return func(c *Coordinator) { c.snap = s }
}

// withTicker swaps the tick source; used by tests to simulate time.
func withTicker(fn tickerFunc) Option {
	return func(c *Coordinator) { c.newTicker = fn }
}

// withClock swaps the wall clock; used by tests.
func withClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// New creates a Coordinator over the given services.
func New(svc Services, opts ...Option) *Coordinator {
	c := &Coordinator{
		svc:          svc,
		log:          slog.Default(),
		refreshEvery: DefaultRefreshInterval,
		newTicker:    stdTicker,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Initialize runs the full initialization workflow for userID. On success it
// stores the returned schedule, marks the session ready, and reloads today's
// tasks before returning; the session is not usable until both have happened.
// A failure the workflow signals itself (Success=false) is recorded into the
// error state without returning a Go error; a transport failure is recorded
// and returned. Calling Initialize repeatedly repeats the full workflow.
func (c *Coordinator) Initialize(ctx context.Context, userID string) error {
	if userID == "" {
		return nil
	}
	epoch := c.begin()
	defer c.setLoading(epoch, false)

	res, err := c.svc.Orchestrator.InitializeTaskSystem(ctx, userID)
	if err != nil {
		c.setError(epoch, errMessage(err, "failed to initialize task system"))
		return fmt.Errorf("initialize task system: %w", err)
	}
	if !res.Success {
		c.setError(epoch, orMessage(res.Message, "failed to initialize task system"))
		return nil
	}

	c.mu.Lock()
	if c.epoch != epoch {
		// Session was rebound while the workflow ran; this result belongs
		// to the previous user.
		c.mu.Unlock()
		return nil
	}
	if res.Data != nil {
		c.schedule = res.Data.TodaySchedule
	}
	c.state = Ready
	c.mu.Unlock()

	return c.LoadTasks(ctx, userID)
}

// LoadTasks fetches the authoritative set of today's tasks and replaces the
// local list wholesale. On failure the previous list is kept (stale but
// present beats empty) and the error is recorded and returned.
func (c *Coordinator) LoadTasks(ctx context.Context, userID string) error {
	if userID == "" {
		return nil
	}
	epoch := c.currentEpoch()
	c.setLoading(epoch, true)
	defer c.setLoading(epoch, false)

	tasks, err := c.svc.Gateway.TodaysTasks(ctx, userID)
	if err != nil {
		c.setError(epoch, errMessage(err, "failed to load tasks"))
		return fmt.Errorf("load today's tasks: %w", err)
	}

	c.mu.Lock()
	if c.epoch != epoch {
		c.mu.Unlock()
		return nil
	}
	c.tasks = tasks
	c.errMsg = ""
	c.mu.Unlock()

	c.saveSnapshot(userID)
	return nil
}

// CompleteTask runs the completion workflow for taskID. The payload always
// carries a completion timestamp captured here, but caller-supplied fields
// win on conflict (including completed_at). Tasks are reloaded after the
// workflow resolves regardless of its own verdict, because the workflow may
// have partially mutated server state.
func (c *Coordinator) CompleteTask(ctx context.Context, userID, taskID string, data map[string]any) (*CompletionResult, error) {
	if userID == "" {
		return nil, nil
	}
	epoch := c.currentEpoch()

	payload := map[string]any{
		"completed_at": c.now().UTC().Format(time.RFC3339),
	}
	for k, v := range data {
		payload[k] = v
	}

	res, err := c.svc.Orchestrator.HandleTaskCompletion(ctx, userID, taskID, payload)
	if err != nil {
		c.setError(epoch, errMessage(err, "failed to complete task"))
		return nil, fmt.Errorf("complete task %s: %w", taskID, err)
	}

	if err := c.LoadTasks(ctx, userID); err != nil {
		return res, err
	}
	return res, nil
}

// RescheduleTask moves a task to a new date (and optional time slot) through
// the gateway, then reloads tasks. It does not run the orchestrator's
// workflow; rescheduling has no XP or achievement side effects.
func (c *Coordinator) RescheduleTask(ctx context.Context, taskID, userID, newDate, newTimeSlot string) error {
	if userID == "" {
		return nil
	}
	epoch := c.currentEpoch()
	if !task.ValidDate(newDate) {
		err := fmt.Errorf("%w: %q", ErrInvalidDate, newDate)
		c.setError(epoch, err.Error())
		return err
	}

	if err := c.svc.Gateway.RescheduleTask(ctx, taskID, userID, newDate, newTimeSlot); err != nil {
		c.setError(epoch, errMessage(err, "failed to reschedule task"))
		return fmt.Errorf("reschedule task %s: %w", taskID, err)
	}

	return c.LoadTasks(ctx, userID)
}

// GenerateSchedule asks the scheduling engine for a daily schedule and
// stores the result verbatim. An empty date means today.
func (c *Coordinator) GenerateSchedule(ctx context.Context, userID, date string) (*task.Schedule, error) {
	if userID == "" {
		return nil, nil
	}
	if date != "" && !task.ValidDate(date) {
		err := fmt.Errorf("%w: %q", ErrInvalidDate, date)
		c.setError(c.currentEpoch(), err.Error())
		return nil, err
	}
	epoch := c.begin()
	defer c.setLoading(epoch, false)

	sched, err := c.svc.Scheduler.GenerateDailySchedule(ctx, userID, date)
	if err != nil {
		c.setError(epoch, errMessage(err, "failed to generate schedule"))
		return nil, fmt.Errorf("generate daily schedule: %w", err)
	}

	c.mu.Lock()
	if c.epoch == epoch {
		c.schedule = sched
	}
	c.mu.Unlock()

	c.saveSnapshot(userID)
	return sched, nil
}

// TaskStats reads aggregate counters for the user. Stats are supplementary,
// so failures are logged and swallowed: the caller gets nil and the session
// error state is left alone.
func (c *Coordinator) TaskStats(ctx context.Context, userID string, timeframe task.Timeframe) *task.Stats {
	if userID == "" {
		return nil
	}
	stats, err := c.svc.Gateway.TaskStats(ctx, userID, timeframe)
	if err != nil {
		c.log.Warn("task stats unavailable", "user", userID, "timeframe", timeframe, "error", err)
		return nil
	}
	return stats
}

// Activate binds the session to userID. A user transition discards all
// prior state and cancels the running refresh loop, then initializes once
// for the new user and starts a fresh loop. Concurrent activations for the
// same user join the in-flight initialization. An empty userID deactivates
// the session.
func (c *Coordinator) Activate(ctx context.Context, userID string) error {
	c.mu.Lock()
	if userID == c.userID && c.state != Uninitialized {
		done := c.initDone
		c.mu.Unlock()
		if done != nil {
			select {
			case <-done:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	}

	cancel := c.cancelRefresh
	c.cancelRefresh = nil
	c.userID = userID
	c.epoch++
	c.tasks = nil
	c.schedule = nil
	c.errMsg = ""
	c.loading = false
	c.state = Uninitialized
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if userID == "" {
		return nil
	}

	c.loadSnapshot(userID)
	return c.ensureInitialized(ctx, userID)
}

// Close tears the session down, cancelling the refresh loop. Safe to call
// multiple times.
func (c *Coordinator) Close() {
	c.mu.Lock()
	cancel := c.cancelRefresh
	c.cancelRefresh = nil
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (c *Coordinator) ensureInitialized(ctx context.Context, userID string) error {
	c.mu.Lock()
	switch c.state {
	case Ready:
		c.mu.Unlock()
		return nil
	case Initializing:
		done := c.initDone
		c.mu.Unlock()
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	c.state = Initializing
	epoch := c.epoch
	done := make(chan struct{})
	c.initDone = done
	c.mu.Unlock()

	err := c.Initialize(ctx, userID)

	c.mu.Lock()
	ready := false
	if c.epoch == epoch {
		if c.state == Initializing {
			// Initialize marks the session Ready on success; anything else
			// means the attempt failed and a later activation may retry.
			c.state = Uninitialized
		}
		ready = c.state == Ready && c.userID == userID
		c.initDone = nil
	}
	close(done)
	c.mu.Unlock()

	if ready {
		c.startRefresh(userID)
	}
	return err
}

// startRefresh runs the periodic task reload until the session is closed or
// rebound to another user. The ticker is always stopped on exit.
func (c *Coordinator) startRefresh(userID string) {
	ctx, cancel := context.WithCancel(context.Background())

	c.mu.Lock()
	if c.cancelRefresh != nil || c.userID != userID {
		c.mu.Unlock()
		cancel()
		return
	}
	c.cancelRefresh = cancel
	c.mu.Unlock()

	tick, stop := c.newTicker(c.refreshEvery)
	go func() {
		defer stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-tick:
				if ctx.Err() != nil {
					return
				}
				if err := c.LoadTasks(ctx, userID); err != nil {
					c.log.Warn("auto refresh failed", "user", userID, "error", err)
				}
			}
		}
	}()
}

// --- Derived views (always recomputed from current state) ---

// Tasks returns a copy of the current task list.
func (c *Coordinator) Tasks() []task.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]task.Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

// Schedule returns the current schedule, or nil when none has been produced.
func (c *Coordinator) Schedule() *task.Schedule {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.schedule
}

// Loading reports whether an operation is in flight.
func (c *Coordinator) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Err returns the last recorded error message, or "" when none.
func (c *Coordinator) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// State returns the session lifecycle state.
func (c *Coordinator) State() Lifecycle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Initialized reports whether the session is ready.
func (c *Coordinator) Initialized() bool {
	return c.State() == Ready
}

// HasTasks reports whether the session holds any tasks.
func (c *Coordinator) HasTasks() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tasks) > 0
}

// HasSchedule reports whether a schedule is present.
func (c *Coordinator) HasSchedule() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.schedule != nil
}

// CompletedTasks returns the tasks whose status is completed.
func (c *Coordinator) CompletedTasks() []task.Task {
	return c.filterTasks(task.StatusCompleted)
}

// PendingTasks returns the tasks whose status is pending.
func (c *Coordinator) PendingTasks() []task.Task {
	return c.filterTasks(task.StatusPending)
}

// OrchestratorRef exposes the underlying orchestrator for callers that need
// workflows this coordinator does not wrap.
func (c *Coordinator) OrchestratorRef() Orchestrator {
	return c.svc.Orchestrator
}

func (c *Coordinator) filterTasks(status task.Status) []task.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []task.Task
	for _, t := range c.tasks {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out
}

// --- internal state helpers ---

// begin marks an operation started and returns the epoch it runs under.
func (c *Coordinator) begin() int {
	c.mu.Lock()
	c.loading = true
	c.errMsg = ""
	epoch := c.epoch
	c.mu.Unlock()
	return epoch
}

func (c *Coordinator) currentEpoch() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch
}

// setLoading and setError only land while the session is still in the epoch
// the operation started under.
func (c *Coordinator) setLoading(epoch int, v bool) {
	c.mu.Lock()
	if c.epoch == epoch {
		c.loading = v
	}
	c.mu.Unlock()
}

func (c *Coordinator) setError(epoch int, msg string) {
	c.mu.Lock()
	if c.epoch == epoch {
		c.errMsg = msg
	}
	c.mu.Unlock()
}

func (c *Coordinator) loadSnapshot(userID string) {
	if c.snap == nil {
		return
	}
	tasks, sched, err := c.snap.Load(userID)
	if err != nil {
		c.log.Debug("no session snapshot", "user", userID, "error", err)
		return
	}
	c.mu.Lock()
	if c.userID == userID && len(c.tasks) == 0 {
		c.tasks = tasks
		if c.schedule == nil {
			c.schedule = sched
		}
	}
	c.mu.Unlock()
}

func (c *Coordinator) saveSnapshot(userID string) {
	if c.snap == nil {
		return
	}
	c.mu.Lock()
	if c.userID != userID {
		c.mu.Unlock()
		return
	}
	tasks := make([]task.Task, len(c.tasks))
	copy(tasks, c.tasks)
	sched := c.schedule
	c.mu.Unlock()

	if err := c.snap.Save(userID, tasks, sched); err != nil {
		c.log.Warn("failed to save session snapshot", "user", userID, "error", err)
	}
}

func errMessage(err error, fallback string) string {
	if err == nil || err.Error() == "" {
		return fallback
	}
	return err.Error()
}

func orMessage(msg, fallback string) string {
	if msg == "" {
		return fallback
	}
	return msg
}
