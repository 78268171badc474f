package domain

import (
	"context"
	"time"
)

// Dispatcher is the capability to enqueue an event for the single
// consumer. Implementations must never block the caller; once the
// consumer is gone events are silently dropped.
type Dispatcher interface {
	Dispatch(Event)
}

// Client is the remote CI API surface the orchestrator depends on.
type Client interface {
	Projects(ctx context.Context) ([]ProjectDTO, error)
	Pipelines(ctx context.Context, project ProjectID, updatedAfter *time.Time) ([]PipelineDTO, error)
	Jobs(ctx context.Context, project ProjectID, pipeline PipelineID) ([]JobDTO, error)
	JobLog(ctx context.Context, project ProjectID, job JobID) (string, error)
	Statistics(ctx context.Context, project ProjectID) (StatisticsDTO, error)

	// Configured reports whether the current settings pass validation;
	// unconfigured clients are never called.
	Configured() bool
	// UpdateSettings swaps in a new validated settings snapshot.
	UpdateSettings(Settings) error
}

// URLOpener opens a URL in the user's browser.
type URLOpener interface {
	Open(ctx context.Context, url string) error
}
