package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/streamml/aleval/internal/cli"
	apperrors "github.com/streamml/aleval/internal/errors"
	"github.com/streamml/aleval/internal/logging"
	"github.com/streamml/aleval/internal/metrics"
	"github.com/streamml/aleval/internal/orchestration"
	"github.com/streamml/aleval/internal/server"
	"github.com/streamml/aleval/internal/stream"
	"github.com/streamml/aleval/internal/sysmon"
	"github.com/streamml/aleval/internal/task"
	"github.com/streamml/aleval/internal/tui"
)

// runEvaluation builds the multi-budget task from the resolved configuration,
// starts the optional metrics endpoint, runs the evaluation in console or
// dashboard mode and maps the outcome to a process exit code.
func (a *Application) runEvaluation(ctx context.Context, out io.Writer) int {
	cfg := a.Config

	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	logger := logging.NewDefaultLogger()

	l, err := a.Learners.Get(cfg.Learner)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorConfig
	}

	var m *metrics.Metrics
	if cfg.MetricsAddr != "" {
		m = metrics.New()
	}

	run := orchestration.NewMultiBudgetTask(orchestration.Config{
		Learner: l,
		NewStream: func() stream.Stream {
			// The stream name was validated during configuration parsing.
			s, _ := a.Streams.Get(cfg.Stream, cfg.Seed)
			return s
		},
		BudgetParamName:  cfg.BudgetParam,
		Budgets:          cfg.Budgets,
		InstanceLimit:    cfg.InstanceLimit,
		TimeLimitSeconds: cfg.TimeLimitSeconds,
		SampleFrequency:  cfg.SampleFrequency,
		PollInterval:     cfg.PollInterval,
		Logger:           logger,
		Metrics:          m,
	})

	serverCtx, stopServer := context.WithCancel(ctx)
	defer stopServer()

	var g *errgroup.Group
	if m != nil {
		g = new(errgroup.Group)
		srv := server.New(cfg.MetricsAddr, m.Registry(), logger)
		g.Go(func() error { return srv.Run(serverCtx) })
	}

	code := a.runTask(ctx, run, logger, out)

	stopServer()
	if g != nil {
		if err := g.Wait(); err != nil {
			logger.Error("metrics server shutdown", err)
		}
	}
	return code
}

// runTask prepares and executes the task in the selected display mode.
func (a *Application) runTask(ctx context.Context, run *orchestration.MultiBudgetTask, logger logging.Logger, out io.Writer) int {
	cfg := a.Config

	if err := run.Prepare(ctx, task.NullMonitor{}); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return prepareExitCode(err)
	}

	if cfg.TUI {
		return a.runDashboard(ctx, run, out)
	}

	mon := cli.NewConsoleMonitor(a.ErrWriter, cfg.Quiet)
	mon.Start()
	start := time.Now()
	store, err := run.Execute(ctx, mon)
	elapsed := time.Since(start)
	mon.Stop()

	stats := sysmon.Sample()
	logger.Debug("resource usage after run",
		logging.Float64("cpu_percent", stats.CPUPercent),
		logging.Float64("mem_percent", stats.MemPercent))

	switch {
	case err == nil:
	case errors.Is(err, orchestration.ErrAborted), apperrors.IsContextError(err):
		fmt.Fprintln(a.ErrWriter, "Run aborted.")
		return apperrors.ExitErrorAborted
	default:
		logger.Error("evaluation failed", err, logging.String("run_id", run.RunID()))
	}

	if store != nil {
		cli.PresentSummaryTable(store, elapsed, out)
		if cfg.Verbose {
			cli.PresentCurves(store, out)
		}
	}
	if err != nil {
		return apperrors.ExitErrorTask
	}
	return apperrors.ExitSuccess
}

// runDashboard runs the interactive dashboard and prints the summary after
// the terminal is restored.
func (a *Application) runDashboard(ctx context.Context, run *orchestration.MultiBudgetTask, out io.Writer) int {
	start := time.Now()
	store, code := tui.Run(ctx, run, a.Config, Version)
	if store != nil && !a.Config.Quiet {
		cli.PresentSummaryTable(store, time.Since(start), out)
		if a.Config.Verbose {
			cli.PresentCurves(store, out)
		}
	}
	return code
}

// prepareExitCode maps a preparation failure to a process exit code.
// Binding and configuration problems are the operator's to fix.
func prepareExitCode(err error) int {
	var configErr apperrors.ConfigError
	var bindingErr apperrors.BindingError
	if errors.As(err, &configErr) || errors.As(err, &bindingErr) {
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitErrorTask
}
