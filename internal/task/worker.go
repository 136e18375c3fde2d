package task

import (
	"context"
	"math"
	"sync/atomic"

	"github.com/streamml/aleval/internal/format"
)

// Unit status values. A unit moves Idle → Running → Completed and never
// goes back.
const (
	StatusIdle int32 = iota
	StatusRunning
	StatusCompleted
)

// WorkerUnit wraps exactly one Task and owns its execution lifecycle. The
// wrapped task runs on its own goroutine; the unit exposes a thread-safe
// snapshot of the task's completion fraction and latest partial result for
// lock-free polling by the orchestrator.
type WorkerUnit struct {
	task Task

	status   atomic.Int32
	fraction atomic.Uint64 // float64 bits
	latest   atomic.Value  // Preview
	result   atomic.Value  // Preview (final)
	err      atomic.Value  // error
	done     chan struct{}
}

// NewWorkerUnit creates an idle unit for the given task.
func NewWorkerUnit(t Task) *WorkerUnit {
	u := &WorkerUnit{task: t, done: make(chan struct{})}
	u.fraction.Store(math.Float64bits(format.IndeterminateFraction))
	return u
}

// Task returns the wrapped task.
func (u *WorkerUnit) Task() Task { return u.task }

// Start launches the task on its own goroutine. It returns false if the
// unit was already started: a unit is never restarted, even after
// completing.
func (u *WorkerUnit) Start(ctx context.Context) bool {
	if !u.status.CompareAndSwap(StatusIdle, StatusRunning) {
		return false
	}
	go func() {
		defer close(u.done)
		res, err := u.task.Run(ctx, unitMonitor{ctx: ctx, unit: u})
		if err != nil {
			u.err.Store(err)
		}
		if res != nil {
			u.result.Store(res)
			u.latest.Store(res)
		}
		if err == nil {
			u.setFraction(1.0)
		}
		u.status.Store(StatusCompleted)
	}()
	return true
}

// IsComplete reports whether the task has finished (or aborted). Once true
// it never reverts.
func (u *WorkerUnit) IsComplete() bool {
	return u.status.Load() == StatusCompleted
}

// Progress returns the latest completion fraction in [0, 1], or
// format.IndeterminateFraction when the task cannot express one.
func (u *WorkerUnit) Progress() float64 {
	return math.Float64frombits(u.fraction.Load())
}

// LatestResult returns the most recent partial-result snapshot, or nil if
// the task has not yet produced one.
func (u *WorkerUnit) LatestResult() Preview {
	if v := u.latest.Load(); v != nil {
		return v.(Preview)
	}
	return nil
}

// FinalResult returns the task's terminal result and error. Only meaningful
// once IsComplete reports true; a failed task may have a nil result.
func (u *WorkerUnit) FinalResult() (Preview, error) {
	var res Preview
	if v := u.result.Load(); v != nil {
		res = v.(Preview)
	}
	var err error
	if v := u.err.Load(); v != nil {
		err = v.(error)
	}
	return res, err
}

// Done returns a channel closed when the task's goroutine exits.
func (u *WorkerUnit) Done() <-chan struct{} { return u.done }

func (u *WorkerUnit) setFraction(f float64) {
	u.fraction.Store(math.Float64bits(f))
}

// unitMonitor is the Monitor handed to a unit's task: progress and preview
// publications land in the unit's atomic fields, and the abort query is
// backed by the run context so cancellation propagates to every worker.
type unitMonitor struct {
	ctx  context.Context
	unit *WorkerUnit
}

func (m unitMonitor) SetActivity(_ string, fraction float64) { m.unit.setFraction(fraction) }

func (m unitMonitor) SetFraction(fraction float64) { m.unit.setFraction(fraction) }

func (m unitMonitor) SetLatestPreview(preview Preview) {
	if preview != nil {
		m.unit.latest.Store(preview)
	}
}

func (m unitMonitor) ShouldAbort() bool { return m.ctx.Err() != nil }

// PreviewRequested always reports true: the unit is the orchestrator's only
// window into the task's partial results, so snapshots are always wanted.
func (m unitMonitor) PreviewRequested() bool { return true }
