// Package task defines the executable-unit abstraction shared by leaf and
// composite evaluation tasks, the worker units that run them concurrently,
// and the monitor collaborator through which progress and partial results
// are published.
package task

import "context"

//go:generate mockgen -destination=mocks/mock_monitor.go -package=mocks github.com/streamml/aleval/internal/task Monitor

// Preview is a partial-result snapshot publishable to a monitor while a
// task is still running. Both per-run learning curves and the composite
// result collection satisfy it.
type Preview interface {
	// NumEntries returns the number of populated entries in the snapshot.
	NumEntries() int
}

// Monitor is the external monitor collaborator: it receives activity and
// progress updates plus intermediate result previews, and exposes the
// cooperative abort and preview-wanted queries.
//
// Implementations must be safe for concurrent use: tasks publish from their
// own goroutines while the owner reads.
type Monitor interface {
	// SetActivity publishes a human-readable activity description together
	// with a completion fraction in [0, 1], or format.IndeterminateFraction.
	SetActivity(description string, fraction float64)
	// SetFraction updates the completion fraction of the current activity.
	SetFraction(fraction float64)
	// SetLatestPreview publishes an intermediate result snapshot.
	SetLatestPreview(preview Preview)
	// ShouldAbort reports whether the run should stop cooperatively.
	ShouldAbort() bool
	// PreviewRequested reports whether a consumer currently wants
	// intermediate previews.
	PreviewRequested() bool
}

// Task is an executable evaluation unit. Composite tasks contain nested
// subtasks, each wrapped in its own worker unit.
type Task interface {
	// Name returns a short descriptive name (e.g., "prequential[budget=0.5]").
	Name() string
	// Prepare validates configuration and builds internal structure,
	// recursively preparing nested subtasks. A Prepare failure is fatal for
	// the whole run; nothing has started executing yet.
	Prepare(ctx context.Context, mon Monitor) error
	// Run executes the task to completion or cancellation and returns the
	// final result. Partial progress is observable through the worker unit
	// executing this task.
	Run(ctx context.Context, mon Monitor) (Preview, error)
	// NestedUnits returns worker units created by this task's own subtasks,
	// for flattened monitoring. Leaf tasks return nil.
	NestedUnits() []*WorkerUnit
	// IsSubtask reports whether this task runs nested inside another task.
	IsSubtask() bool
}

// NullMonitor is a no-op Monitor: it discards updates, never aborts and
// never requests previews.
type NullMonitor struct{}

// SetActivity discards the update.
func (NullMonitor) SetActivity(string, float64) {}

// SetFraction discards the update.
func (NullMonitor) SetFraction(float64) {}

// SetLatestPreview discards the snapshot.
func (NullMonitor) SetLatestPreview(Preview) {}

// ShouldAbort always reports false.
func (NullMonitor) ShouldAbort() bool { return false }

// PreviewRequested always reports false.
func (NullMonitor) PreviewRequested() bool { return false }
