// Package tui implements the interactive dashboard: live per-variant
// progress bars, composite-result previews and resource gauges for a
// multi-budget evaluation run.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/streamml/aleval/internal/config"
	apperrors "github.com/streamml/aleval/internal/errors"
	"github.com/streamml/aleval/internal/evaluation"
	"github.com/streamml/aleval/internal/format"
	"github.com/streamml/aleval/internal/orchestration"
	"github.com/streamml/aleval/internal/sysmon"
)

const (
	tickInterval = 500 * time.Millisecond
	barWidth     = 40
)

// Model is the root bubbletea model for the dashboard.
type Model struct {
	run     *orchestration.MultiBudgetTask
	cfg     config.AppConfig
	version string

	ref    *programRef
	bridge *MonitorBridge
	ctx    context.Context
	cancel context.CancelFunc

	keymap  KeyMap
	bar     progress.Model
	sampler *sysmon.Sampler

	names     []string
	fractions []float64
	combined  float64
	activity  string
	store     *evaluation.ResultCollection
	sys       sysmon.Stats
	startTime time.Time

	width    int
	done     bool
	aborting bool
	exitCode int
	runErr   error
}

// NewModel creates a dashboard model for a prepared multi-budget task.
func NewModel(parentCtx context.Context, run *orchestration.MultiBudgetTask, cfg config.AppConfig, version string) Model {
	ctx, cancel := context.WithCancel(parentCtx)
	names := run.EntryNames()
	ref := &programRef{}
	return Model{
		run:       run,
		cfg:       cfg,
		version:   version,
		ref:       ref,
		bridge:    NewMonitorBridge(ref),
		ctx:       ctx,
		cancel:    cancel,
		keymap:    DefaultKeyMap(),
		bar:       progress.New(progress.WithDefaultGradient(), progress.WithWidth(barWidth)),
		sampler:   sysmon.NewSampler(tickInterval),
		names:     names,
		fractions: make([]float64, len(names)),
		combined:  format.IndeterminateFraction,
		startTime: time.Now(),
		exitCode:  apperrors.ExitSuccess,
	}
}

// ExitCode returns the exit code of the finished run.
func (m Model) ExitCode() int { return m.exitCode }

// Store returns the final composite collection, if the run produced one.
func (m Model) Store() *evaluation.ResultCollection { return m.store }

// Init starts the run goroutine, the tick loop and the cancellation watcher.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		startRunCmd(m.run, m.bridge, m.ctx),
		runSamplerCmd(m.sampler, m.ctx),
		watchContextCmd(m.ctx),
	)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case TickMsg:
		if m.done {
			return m, nil
		}
		for i, u := range m.run.Units() {
			m.fractions[i] = u.Progress()
		}
		m.sys = m.sampler.Latest()
		return m, tickCmd()

	case ActivityMsg:
		m.activity = msg.Description
		m.combined = msg.Fraction
		return m, nil

	case FractionMsg:
		m.combined = float64(msg)
		return m, nil

	case PreviewMsg:
		m.store = msg.Store
		return m, nil

	case RunCompleteMsg:
		m.done = true
		m.runErr = msg.Err
		if msg.Store != nil {
			m.store = msg.Store
		}
		m.exitCode = exitCodeFor(msg.Err)
		return m, tea.Quit

	case ContextCancelledMsg:
		if m.done {
			return m, nil
		}
		m.done = true
		m.exitCode = apperrors.ExitErrorAborted
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.cancel()
		if !m.done {
			m.exitCode = apperrors.ExitErrorAborted
		}
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Abort):
		m.bridge.RequestAbort()
		m.aborting = true
		return m, nil
	}
	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(headerStyle.Render(fmt.Sprintf("aleval %s — run %s", m.version, m.run.RunID())))
	sb.WriteByte('\n')
	if m.activity != "" {
		sb.WriteString(dimStyle.Render(m.activity))
		sb.WriteByte('\n')
	}
	sb.WriteByte('\n')

	nameWidth := 0
	for _, n := range m.names {
		if len(n) > nameWidth {
			nameWidth = len(n)
		}
	}
	for i, name := range m.names {
		sb.WriteString(variantStyle.Render(fmt.Sprintf("%-*s", nameWidth, name)))
		sb.WriteString("  ")
		sb.WriteString(m.renderFraction(m.fractions[i]))
		sb.WriteString(m.renderSlotSummary(i))
		sb.WriteByte('\n')
	}

	sb.WriteByte('\n')
	sb.WriteString(valueStyle.Render(fmt.Sprintf("%-*s", nameWidth, "combined")))
	sb.WriteString("  ")
	sb.WriteString(m.renderFraction(m.combined))
	sb.WriteByte('\n')

	sb.WriteByte('\n')
	sb.WriteString(dimStyle.Render(fmt.Sprintf("CPU %5.1f%%   MEM %5.1f%%   elapsed %s",
		m.sys.CPUPercent, m.sys.MemPercent, format.FormatExecutionDuration(time.Since(m.startTime).Round(time.Second)))))
	sb.WriteByte('\n')

	switch {
	case m.done && m.runErr != nil:
		sb.WriteString(errorStyle.Render(fmt.Sprintf("run failed: %v", m.runErr)))
	case m.done:
		sb.WriteString(doneStyle.Render("run complete"))
	case m.aborting:
		sb.WriteString(errorStyle.Render("aborting..."))
	default:
		sb.WriteString(footerStyle.Render("q quit · a abort"))
	}
	sb.WriteByte('\n')

	return lipgloss.NewStyle().Padding(1, 2).Render(sb.String())
}

// renderFraction renders a progress bar, or a waiting marker while the
// fraction is indeterminate.
func (m Model) renderFraction(f float64) string {
	if f < 0 {
		return dimStyle.Render(strings.Repeat("·", barWidth) + "   ...")
	}
	return m.bar.ViewAs(f)
}

// renderSlotSummary renders the latest previewed measurements of slot i.
func (m Model) renderSlotSummary(i int) string {
	if m.store == nil || i >= m.store.NumSlots() {
		return ""
	}
	curve := m.store.Curve(i)
	if curve == nil || curve.NumEntries() == 0 {
		return ""
	}
	row := curve.LastRow()
	return dimStyle.Render(fmt.Sprintf("  acc %.4f  spend %.4f", row[1], row[2]))
}

// Run is the public entry point for the TUI mode. It runs the dashboard to
// completion and returns the exit code; the final collection (if any) is
// returned for printing after the terminal is restored.
func Run(ctx context.Context, run *orchestration.MultiBudgetTask, cfg config.AppConfig, version string) (*evaluation.ResultCollection, int) {
	model := NewModel(ctx, run, cfg, version)
	defer model.cancel()

	p := tea.NewProgram(model, tea.WithAltScreen())
	// Inject the program reference before running so the run goroutine can Send.
	model.ref.SetProgram(p)

	finalModel, err := p.Run()
	if err != nil {
		return nil, apperrors.ExitErrorGeneric
	}
	if m, ok := finalModel.(Model); ok {
		m.cancel()
		return m.Store(), m.ExitCode()
	}
	return nil, apperrors.ExitSuccess
}

// exitCodeFor maps a run error to the process exit code.
func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return apperrors.ExitSuccess
	case errors.Is(err, orchestration.ErrAborted), apperrors.IsContextError(err):
		return apperrors.ExitErrorAborted
	default:
		return apperrors.ExitErrorTask
	}
}

// startRunCmd returns a tea.Cmd that executes the prepared task.
func startRunCmd(run *orchestration.MultiBudgetTask, bridge *MonitorBridge, ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		store, err := run.Execute(ctx, bridge)
		return RunCompleteMsg{Store: store, Err: err, Elapsed: time.Since(start)}
	}
}

// tickCmd returns a command that sends a TickMsg after the tick interval.
func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// runSamplerCmd runs the resource sampler until the run context ends.
func runSamplerCmd(s *sysmon.Sampler, ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		s.Run(ctx)
		return nil
	}
}

// watchContextCmd waits for context cancellation and sends a message.
func watchContextCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err()}
	}
}
