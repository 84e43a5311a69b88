package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/reupapp/reup/internal/task"
)

// fakeGateway records every call and serves canned responses.
type fakeGateway struct {
	mu sync.Mutex

	tasks    []task.Task
	tasksErr error
	stats    *task.Stats
	statsErr error

	todayCalls      []string // user ids, in call order
	completeCalls   int
	rescheduleCalls []rescheduleCall
	rescheduleErr   error
	statsCalls      int

	// todayNotify, when non-nil, receives the user id of every
	// TodaysTasks call; used to synchronize with the refresh goroutine.
	todayNotify chan string

	// todayFn, when set, overrides the canned tasks/tasksErr pair.
	todayFn func(userID string) ([]task.Task, error)
}

type rescheduleCall struct {
	taskID, userID, newDate, newSlot string
}

func (g *fakeGateway) TodaysTasks(_ context.Context, userID string) ([]task.Task, error) {
	g.mu.Lock()
	g.todayCalls = append(g.todayCalls, userID)
	tasks, err := g.tasks, g.tasksErr
	notify := g.todayNotify
	fn := g.todayFn
	g.mu.Unlock()

	if notify != nil {
		notify <- userID
	}
	if fn != nil {
		return fn(userID)
	}
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (g *fakeGateway) CompleteTask(_ context.Context, _, _ string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.completeCalls++
	return nil
}

func (g *fakeGateway) RescheduleTask(_ context.Context, taskID, userID, newDate, newSlot string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rescheduleCalls = append(g.rescheduleCalls, rescheduleCall{taskID, userID, newDate, newSlot})
	return g.rescheduleErr
}

func (g *fakeGateway) TaskStats(_ context.Context, _ string, tf task.Timeframe) (*task.Stats, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.statsCalls++
	if g.statsErr != nil {
		return nil, g.statsErr
	}
	if g.stats != nil {
		return g.stats, nil
	}
	return &task.Stats{Timeframe: tf}, nil
}

func (g *fakeGateway) todayCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.todayCalls)
}

func (g *fakeGateway) setTasks(tasks []task.Task) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.tasks = tasks
}

// fakeOrchestrator serves canned workflow results and captures payloads.
type fakeOrchestrator struct {
	mu sync.Mutex

	initResult *InitResult
	initErr    error
	initCalls  int

	completionResult *CompletionResult
	completionErr    error
	completionCalls  int
	lastPayload      map[string]any

	// initFn, when set, overrides the canned initResult/initErr pair. It
	// runs outside the lock so it may block.
	initFn func(userID string) (*InitResult, error)
}

func (o *fakeOrchestrator) InitializeTaskSystem(_ context.Context, userID string) (*InitResult, error) {
	o.mu.Lock()
	o.initCalls++
	fn := o.initFn
	res, err := o.initResult, o.initErr
	o.mu.Unlock()

	if fn != nil {
		return fn(userID)
	}
	if err != nil {
		return nil, err
	}
	if res != nil {
		return res, nil
	}
	return &InitResult{Success: true}, nil
}

func (o *fakeOrchestrator) initCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.initCalls
}

func (o *fakeOrchestrator) HandleTaskCompletion(_ context.Context, _, _ string, payload map[string]any) (*CompletionResult, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.completionCalls++
	o.lastPayload = payload
	if o.completionErr != nil {
		return nil, o.completionErr
	}
	if o.completionResult != nil {
		return o.completionResult, nil
	}
	return &CompletionResult{Success: true}, nil
}

// fakeScheduler returns a canned schedule.
type fakeScheduler struct {
	mu       sync.Mutex
	schedule *task.Schedule
	err      error
	calls    int
	lastDate string
}

func (s *fakeScheduler) GenerateDailySchedule(_ context.Context, userID, date string) (*task.Schedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.lastDate = date
	if s.err != nil {
		return nil, s.err
	}
	if s.schedule != nil {
		return s.schedule, nil
	}
	return &task.Schedule{UserID: userID, Date: date}, nil
}

// fakeGenerator records generation requests and can fail on demand.
type fakeGenerator struct {
	mu    sync.Mutex
	calls []generateCall
	// failOn makes the nth call (1-based) fail; 0 never fails.
	failOn int
	err    error
}

type generateCall struct {
	userID    string
	breakdown json.RawMessage
	prefs     map[string]any
}

func (g *fakeGenerator) GenerateDailyTasks(_ context.Context, userID string, breakdown json.RawMessage, prefs map[string]any) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, generateCall{userID, breakdown, prefs})
	if g.failOn != 0 && len(g.calls) == g.failOn {
		return g.err
	}
	return nil
}

// fakeTicker hands out manual tick channels and records stops.
type fakeTicker struct {
	mu    sync.Mutex
	chans []chan time.Time
	stops []bool
}

func (f *fakeTicker) New(time.Duration) (<-chan time.Time, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan time.Time)
	idx := len(f.chans)
	f.chans = append(f.chans, ch)
	f.stops = append(f.stops, false)
	return ch, func() {
		f.mu.Lock()
		f.stops[idx] = true
		f.mu.Unlock()
	}
}

func (f *fakeTicker) channel(i int) chan time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.chans[i]
}

func (f *fakeTicker) stopped(i int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return i < len(f.stops) && f.stops[i]
}

// newTestServices builds a full fake service set.
func newTestServices() (Services, *fakeGateway, *fakeOrchestrator, *fakeScheduler, *fakeGenerator) {
	gw := &fakeGateway{}
	orch := &fakeOrchestrator{}
	sched := &fakeScheduler{}
	gen := &fakeGenerator{}
	return Services{Gateway: gw, Orchestrator: orch, Scheduler: sched, Generator: gen}, gw, orch, sched, gen
}

func sampleTasks(userID string, n int) []task.Task {
	now := time.Now()
	out := make([]task.Task, 0, n)
	for i := 0; i < n; i++ {
		status := task.StatusPending
		var completed *time.Time
		if i%2 == 1 {
			status = task.StatusCompleted
			completed = &now
		}
		out = append(out, task.Task{
			ID:            "00000000-0000-4000-8000-00000000000" + string(rune('0'+i)),
			UserID:        userID,
			Title:         "Task",
			Type:          task.TypeOneTime,
			Priority:      task.PriorityMedium,
			Status:        status,
			ScheduledDate: task.Today(),
			CompletedAt:   completed,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}
	return out
}
