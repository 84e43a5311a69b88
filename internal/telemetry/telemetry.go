// Package telemetry provides anonymous usage analytics for the ReUp CLI.
// Events are opt-in, carry no task content, and are dispatched asynchronously
// so they never block a command.
package telemetry

import (
	"runtime"
	"sync"

	"github.com/google/uuid"
	"github.com/posthog/posthog-go"
)

// Common event names.
const (
	EventCommandExecuted   = "command_executed"
	EventSessionActivated  = "session_activated"
	EventTaskCompleted     = "task_completed"
	EventTaskRescheduled   = "task_rescheduled"
	EventScheduleGenerated = "schedule_generated"
	EventTasksGenerated    = "tasks_generated"
)

// Client is the interface for telemetry clients. The abstraction allows
// mocking in tests and a no-op implementation when telemetry is disabled.
type Client interface {
	// Track sends an event asynchronously; a no-op when disabled.
	Track(event string, properties map[string]any)

	// Close flushes pending events.
	Close() error
}

// enqueuer is the subset of the PostHog client this package uses; it exists
// so tests can capture enqueued events.
type enqueuer interface {
	Enqueue(msg posthog.Message) error
	Close() error
}

// Options configures a telemetry client.
type Options struct {
	// APIKey is the PostHog project API key; empty disables telemetry.
	APIKey string

	// Version is the CLI version attached to every event.
	Version string

	// DistinctID is the anonymous install identifier. A random one is
	// generated when empty.
	DistinctID string

	// Endpoint overrides the PostHog endpoint (self-hosted setups).
	Endpoint string
}

// PostHogClient dispatches events through the PostHog SDK.
type PostHogClient struct {
	mu       sync.RWMutex
	client   enqueuer
	version  string
	distinct string
}

// New creates a telemetry client. Without an API key it returns a NoopClient.
func New(opts Options) (Client, error) {
	if opts.APIKey == "" {
		return NoopClient{}, nil
	}

	cfg := posthog.Config{
		// CLI processes exit quickly; keep batches small and flushes fast.
		BatchSize: 10,
		Logger:    quietLogger{},
	}
	if opts.Endpoint != "" {
		cfg.Endpoint = opts.Endpoint
	}

	ph, err := posthog.NewWithConfig(opts.APIKey, cfg)
	if err != nil {
		return nil, err
	}

	distinct := opts.DistinctID
	if distinct == "" {
		distinct = uuid.New().String()
	}
	return &PostHogClient{client: ph, version: opts.Version, distinct: distinct}, nil
}

// newWithEnqueuer creates a client with a custom enqueuer (for testing).
func newWithEnqueuer(enq enqueuer, version, distinct string) *PostHogClient {
	return &PostHogClient{client: enq, version: version, distinct: distinct}
}

// Track enqueues one event with the standard platform properties attached.
func (c *PostHogClient) Track(event string, properties map[string]any) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.client == nil {
		return
	}

	props := posthog.NewProperties()
	for k, v := range properties {
		props.Set(k, v)
	}
	props.Set("os", runtime.GOOS)
	props.Set("arch", runtime.GOARCH)
	props.Set("cli_version", c.version)
	// Anonymous analytics only: never create person profiles.
	props.Set("$process_person_profile", false)

	_ = c.client.Enqueue(posthog.Capture{
		DistinctId: c.distinct,
		Event:      event,
		Properties: props,
	})
}

// Close flushes the queue.
func (c *PostHogClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

// NoopClient ignores all events.
type NoopClient struct{}

func (NoopClient) Track(string, map[string]any) {}
func (NoopClient) Close() error                 { return nil }

// quietLogger keeps PostHog transport noise out of CLI output.
type quietLogger struct{}

func (quietLogger) Debugf(string, ...interface{}) {}
func (quietLogger) Logf(string, ...interface{})   {}
func (quietLogger) Warnf(string, ...interface{})  {}
func (quietLogger) Errorf(string, ...interface{}) {}
