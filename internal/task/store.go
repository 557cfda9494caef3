// Package task persists analysis task state and per-task logs. The store is
// the single write path for status transitions; both the HTTP handlers and
// the orchestrator's progress callbacks go through it, so every update must
// be atomic from a concurrent reader's perspective.
package task

import (
	"context"
	"time"

	"github.com/brandlens/brandlens/internal/model"
)

// Store defines the persistence interface for analysis tasks.
type Store interface {
	// Create registers a new pending task for an uploaded file and returns
	// it with a freshly assigned opaque id.
	Create(ctx context.Context, filename string) (*model.AnalysisTask, error)

	// Get returns a consistent snapshot of one task.
	Get(ctx context.Context, taskID string) (*model.AnalysisTask, error)

	// UpdateProgress moves the task to the given status with a progress
	// message. Only non-terminal transitions belong here.
	UpdateProgress(ctx context.Context, taskID string, status model.TaskStatus, message string) error

	// Complete marks the task completed and attaches the run summary.
	Complete(ctx context.Context, taskID string, summary *model.AnalysisSummary) error

	// Fail marks the task errored with a human-readable message.
	Fail(ctx context.Context, taskID string, message string) error

	// AppendLog appends one line to the task's ordered log.
	AppendLog(ctx context.Context, taskID string, line string) error

	// Logs returns the task's log lines in append order.
	Logs(ctx context.Context, taskID string) ([]string, error)

	// List returns up to limit tasks, newest first.
	List(ctx context.Context, limit int) ([]model.AnalysisTask, error)

	// DeleteExpired removes tasks (and their logs) older than maxAge,
	// returning how many were evicted.
	DeleteExpired(ctx context.Context, maxAge time.Duration) (int, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
