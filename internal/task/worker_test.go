package task

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/streamml/aleval/internal/format"
)

// fakeTask is a controllable Task implementation for worker-unit tests.
type fakeTask struct {
	name    string
	runFunc func(ctx context.Context, mon Monitor) (Preview, error)
}

func (f *fakeTask) Name() string { return f.name }

func (f *fakeTask) Prepare(context.Context, Monitor) error { return nil }

func (f *fakeTask) Run(ctx context.Context, mon Monitor) (Preview, error) {
	if f.runFunc != nil {
		return f.runFunc(ctx, mon)
	}
	return nil, nil
}

func (f *fakeTask) NestedUnits() []*WorkerUnit { return nil }

func (f *fakeTask) IsSubtask() bool { return false }

// fakePreview is a trivial Preview with a fixed entry count.
type fakePreview struct{ entries int }

func (p fakePreview) NumEntries() int { return p.entries }

func waitComplete(t *testing.T, u *WorkerUnit) {
	t.Helper()
	select {
	case <-u.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("worker unit did not complete in time")
	}
	// Done closes before the status store in rare interleavings is visible;
	// poll briefly for the terminal status.
	deadline := time.Now().Add(time.Second)
	for !u.IsComplete() {
		if time.Now().After(deadline) {
			t.Fatal("unit never reported Completed")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestWorkerUnitLifecycle(t *testing.T) {
	t.Parallel()
	unit := NewWorkerUnit(&fakeTask{
		name: "ok",
		runFunc: func(_ context.Context, mon Monitor) (Preview, error) {
			mon.SetFraction(0.5)
			mon.SetLatestPreview(fakePreview{entries: 1})
			return fakePreview{entries: 2}, nil
		},
	})

	if unit.IsComplete() {
		t.Error("new unit must not report Completed")
	}
	if got := unit.Progress(); got != format.IndeterminateFraction {
		t.Errorf("idle unit Progress() = %v, want indeterminate", got)
	}
	if unit.LatestResult() != nil {
		t.Error("idle unit must have no partial result")
	}

	if !unit.Start(context.Background()) {
		t.Fatal("first Start should succeed")
	}
	waitComplete(t, unit)

	if got := unit.Progress(); got != 1.0 {
		t.Errorf("completed unit Progress() = %v, want 1.0", got)
	}
	res, err := unit.FinalResult()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res == nil || res.NumEntries() != 2 {
		t.Errorf("FinalResult() = %v, want preview with 2 entries", res)
	}
}

func TestWorkerUnitNeverRestarts(t *testing.T) {
	t.Parallel()
	unit := NewWorkerUnit(&fakeTask{name: "once"})

	if !unit.Start(context.Background()) {
		t.Fatal("first Start should succeed")
	}
	if unit.Start(context.Background()) {
		t.Error("second Start while running should be refused")
	}
	waitComplete(t, unit)
	if unit.Start(context.Background()) {
		t.Error("Start after completion should be refused")
	}
	if !unit.IsComplete() {
		t.Error("IsComplete must never revert")
	}
}

func TestWorkerUnitTaskFailure(t *testing.T) {
	t.Parallel()
	wantErr := errors.New("boom")
	unit := NewWorkerUnit(&fakeTask{
		name: "fails",
		runFunc: func(context.Context, Monitor) (Preview, error) {
			return nil, wantErr
		},
	})

	unit.Start(context.Background())
	waitComplete(t, unit)

	// A failed unit is observed as Completed with its terminal error.
	res, err := unit.FinalResult()
	if !errors.Is(err, wantErr) {
		t.Errorf("FinalResult error = %v, want %v", err, wantErr)
	}
	if res != nil {
		t.Errorf("FinalResult preview = %v, want nil", res)
	}
}

func TestWorkerUnitProgressVisibleWhileRunning(t *testing.T) {
	t.Parallel()
	release := make(chan struct{})
	started := make(chan struct{})
	unit := NewWorkerUnit(&fakeTask{
		name: "slow",
		runFunc: func(_ context.Context, mon Monitor) (Preview, error) {
			mon.SetFraction(0.25)
			mon.SetLatestPreview(fakePreview{entries: 1})
			close(started)
			<-release
			return fakePreview{entries: 3}, nil
		},
	})

	unit.Start(context.Background())
	<-started

	if got := unit.Progress(); got != 0.25 {
		t.Errorf("Progress() while running = %v, want 0.25", got)
	}
	if lr := unit.LatestResult(); lr == nil || lr.NumEntries() != 1 {
		t.Errorf("LatestResult() while running = %v, want preview with 1 entry", lr)
	}
	if unit.IsComplete() {
		t.Error("unit must not report Completed while running")
	}

	close(release)
	waitComplete(t, unit)
}

func TestWorkerUnitCancellationPropagates(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())

	var observedAbort bool
	var mu sync.Mutex
	unit := NewWorkerUnit(&fakeTask{
		name: "cancellable",
		runFunc: func(ctx context.Context, mon Monitor) (Preview, error) {
			<-ctx.Done()
			mu.Lock()
			observedAbort = mon.ShouldAbort()
			mu.Unlock()
			return nil, ctx.Err()
		},
	})

	unit.Start(ctx)
	cancel()
	waitComplete(t, unit)

	mu.Lock()
	defer mu.Unlock()
	if !observedAbort {
		t.Error("unit monitor should report abort once the run context is canceled")
	}
	if _, err := unit.FinalResult(); !errors.Is(err, context.Canceled) {
		t.Errorf("FinalResult error = %v, want context.Canceled", err)
	}
}
