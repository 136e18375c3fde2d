package cli

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/streamml/aleval/internal/format"
	"github.com/streamml/aleval/internal/task"
)

// ConsoleMonitor is the Monitor implementation for non-interactive runs: it
// renders the combined completion fraction as a spinner with a progress bar
// and relays an externally requested abort to the orchestrator.
//
// In quiet mode nothing is rendered; abort handling still works.
type ConsoleMonitor struct {
	spinner Spinner
	abort   atomic.Bool

	mu       sync.Mutex
	activity string
	started  bool
}

// NewConsoleMonitor creates a monitor rendering to out. A nil spinner
// factory result or quiet=true disables rendering.
func NewConsoleMonitor(out io.Writer, quiet bool) *ConsoleMonitor {
	m := &ConsoleMonitor{}
	if !quiet {
		m.spinner = newSpinner(out)
	}
	return m
}

// Start begins the spinner animation, if rendering is enabled.
func (m *ConsoleMonitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.spinner != nil && !m.started {
		m.spinner.Start()
		m.started = true
	}
}

// Stop halts the spinner animation.
func (m *ConsoleMonitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.spinner != nil && m.started {
		m.spinner.Stop()
		m.started = false
	}
}

// RequestAbort asks the monitored run to stop cooperatively.
func (m *ConsoleMonitor) RequestAbort() { m.abort.Store(true) }

// SetActivity records the activity description and renders it with the
// given fraction.
func (m *ConsoleMonitor) SetActivity(description string, fraction float64) {
	m.mu.Lock()
	m.activity = description
	m.mu.Unlock()
	m.SetFraction(fraction)
}

// SetFraction renders the current activity with an updated progress bar.
func (m *ConsoleMonitor) SetFraction(fraction float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.spinner == nil {
		return
	}
	m.spinner.UpdateSuffix(fmt.Sprintf(" %s %s", m.activity, format.ProgressBar(fraction, ProgressBarWidth)))
}

// SetLatestPreview discards the snapshot; the console renders results only
// once the run finishes.
func (m *ConsoleMonitor) SetLatestPreview(task.Preview) {}

// ShouldAbort reports whether an abort was requested.
func (m *ConsoleMonitor) ShouldAbort() bool { return m.abort.Load() }

// PreviewRequested reports false: the console does not consume previews.
func (m *ConsoleMonitor) PreviewRequested() bool { return false }
