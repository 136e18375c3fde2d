package tui

import (
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/streamml/aleval/internal/evaluation"
	"github.com/streamml/aleval/internal/task"
)

// Messages exchanged between the run goroutine and the bubbletea model.
type (
	// TickMsg drives periodic progress and resource sampling.
	TickMsg time.Time

	// ActivityMsg carries the orchestrator's activity description.
	ActivityMsg struct {
		Description string
		Fraction    float64
	}

	// FractionMsg carries the combined completion fraction.
	FractionMsg float64

	// PreviewMsg carries a defensive copy of the composite result store.
	PreviewMsg struct {
		Store *evaluation.ResultCollection
	}

	// RunCompleteMsg reports the finished run.
	RunCompleteMsg struct {
		Store   *evaluation.ResultCollection
		Err     error
		Elapsed time.Duration
	}

	// ContextCancelledMsg reports outside cancellation (e.g., SIGINT).
	ContextCancelledMsg struct{ Err error }
)

// programRef is a shared reference to the tea.Program.
// Because bubbletea copies the model on every Update, we need a pointer
// that survives copies so the run goroutine can send messages.
type programRef struct {
	mu      sync.RWMutex
	program *tea.Program
}

// SetProgram sets the tea.Program reference (thread-safe).
func (r *programRef) SetProgram(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Send sends a message to the bubbletea program (thread-safe).
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// MonitorBridge implements task.Monitor on top of bubbletea messages: every
// publication from the orchestrator becomes a message to the dashboard, and
// an abort requested from the dashboard is visible to the orchestrator.
type MonitorBridge struct {
	ref   *programRef
	abort atomic.Bool
}

// NewMonitorBridge creates a bridge sending through the given reference.
func NewMonitorBridge(ref *programRef) *MonitorBridge {
	return &MonitorBridge{ref: ref}
}

// RequestAbort asks the monitored run to stop cooperatively.
func (b *MonitorBridge) RequestAbort() { b.abort.Store(true) }

// SetActivity forwards the activity description to the dashboard.
func (b *MonitorBridge) SetActivity(description string, fraction float64) {
	b.ref.Send(ActivityMsg{Description: description, Fraction: fraction})
}

// SetFraction forwards the combined fraction to the dashboard.
func (b *MonitorBridge) SetFraction(fraction float64) {
	b.ref.Send(FractionMsg(fraction))
}

// SetLatestPreview forwards composite-store snapshots to the dashboard.
// Other preview types are dropped; the dashboard only renders collections.
func (b *MonitorBridge) SetLatestPreview(preview task.Preview) {
	if store, ok := preview.(*evaluation.ResultCollection); ok {
		b.ref.Send(PreviewMsg{Store: store})
	}
}

// ShouldAbort reports whether the dashboard requested an abort.
func (b *MonitorBridge) ShouldAbort() bool { return b.abort.Load() }

// PreviewRequested reports true: the dashboard renders live previews.
func (b *MonitorBridge) PreviewRequested() bool { return true }
