package orchestration

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/streamml/aleval/internal/errors"
	"github.com/streamml/aleval/internal/evaluation"
	"github.com/streamml/aleval/internal/format"
	"github.com/streamml/aleval/internal/learner"
	"github.com/streamml/aleval/internal/logging"
	"github.com/streamml/aleval/internal/metrics"
	"github.com/streamml/aleval/internal/stream"
	"github.com/streamml/aleval/internal/task"
)

// ErrAborted is returned when the monitor requests a cooperative abort.
// Abort is a normal way to end a run, distinct from task failure.
var ErrAborted = errors.New("evaluation aborted by monitor")

// DefaultPollInterval is the aggregation loop's wait between rounds when the
// configuration does not set one.
const DefaultPollInterval = 50 * time.Millisecond

// Config configures a multi-budget evaluation. The learner and limits are
// shared by every variant; each variant gets an independent learner copy and
// its own stream so runs never contend on model state.
type Config struct {
	// Learner is the template classifier. Each budget evaluates a Copy.
	Learner learner.Learner
	// NewStream constructs a fresh instance stream per variant.
	NewStream func() stream.Stream
	// BudgetParamName names the learner parameter varied across runs.
	BudgetParamName string
	// Budgets holds one value per variant, in result order.
	Budgets []float64
	// InstanceLimit bounds each run's instance count (−1 = no limit).
	InstanceLimit int
	// TimeLimitSeconds bounds each run's wall time (−1 = no limit).
	TimeLimitSeconds int
	// SampleFrequency is the per-run learning-curve sampling interval.
	SampleFrequency int
	// PollInterval is the wait between aggregation rounds.
	PollInterval time.Duration
	// Logger receives run lifecycle events. Defaults to stderr console output.
	Logger logging.Logger
	// Metrics, when set, receives per-round aggregation gauges.
	Metrics *metrics.Metrics
}

// MultiBudgetTask evaluates one learner under several labeling budgets in
// parallel. Each budget value becomes an independent prequential run in its
// own worker unit; a single aggregation loop polls the units, merges their
// partial curves into a composite result collection in budget order, and
// publishes combined progress.
type MultiBudgetTask struct {
	cfg      Config
	runID    string
	resolver *BindingResolver

	units      []*task.WorkerUnit
	flattened  []*task.WorkerUnit
	entryNames []string

	lastOnLevel []bool
	subtask     bool
	prepared    bool
}

// NewMultiBudgetTask creates an unprepared multi-budget task with a fresh
// run identifier.
func NewMultiBudgetTask(cfg Config) *MultiBudgetTask {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewDefaultLogger()
	}
	return &MultiBudgetTask{
		cfg:      cfg,
		runID:    uuid.NewString(),
		resolver: NewBindingResolver(),
	}
}

// Name returns the task name.
func (m *MultiBudgetTask) Name() string { return "multi-budget" }

// RunID returns the unique identifier of this run.
func (m *MultiBudgetTask) RunID() string { return m.runID }

// Resolver returns the task's binding resolver, for configuration surfaces
// that present variation candidates.
func (m *MultiBudgetTask) Resolver() *BindingResolver { return m.resolver }

// Prepare resolves the varied parameter, builds one prepared prequential
// subtask per budget and wraps each in a worker unit. Nothing starts
// executing; a failure leaves no goroutines behind.
func (m *MultiBudgetTask) Prepare(ctx context.Context, mon task.Monitor) error {
	switch {
	case m.cfg.Learner == nil:
		return apperrors.ConfigError{Message: "learner must not be nil"}
	case m.cfg.NewStream == nil:
		return apperrors.ConfigError{Message: "stream constructor must not be nil"}
	case len(m.cfg.Budgets) == 0:
		return apperrors.ConfigError{Message: "at least one budget value is required"}
	}

	binding, err := m.resolver.Resolve(m.cfg.Learner, m.cfg.BudgetParamName)
	if err != nil {
		return err
	}

	m.units = m.units[:0]
	m.flattened = m.flattened[:0]
	m.entryNames = m.entryNames[:0]
	for i, budget := range m.cfg.Budgets {
		valueText := strconv.FormatFloat(budget, 'f', -1, 64)
		entryName := binding.Name() + "=" + valueText

		run := m.cfg.Learner.Copy()
		p, ok := run.Params().Named(binding.Name())
		if !ok {
			return apperrors.BindingError{Param: binding.Name(), Message: "parameter missing on learner copy"}
		}
		if err := p.SetCLIString(valueText); err != nil {
			return apperrors.TaskError{Task: entryName, Cause: err}
		}

		sub := task.NewPrequentialTask(fmt.Sprintf("prequential[%s]", entryName), task.PrequentialConfig{
			Learner:          run,
			Stream:           m.cfg.NewStream(),
			InstanceLimit:    m.cfg.InstanceLimit,
			TimeLimitSeconds: m.cfg.TimeLimitSeconds,
			SampleFrequency:  m.cfg.SampleFrequency,
		})
		sub.MarkSubtask()
		sub.SetLastSubtaskOnLevel(m.lastOnLevel, i == len(m.cfg.Budgets)-1)
		if err := sub.Prepare(ctx, mon); err != nil {
			return apperrors.TaskError{Task: sub.Name(), Cause: err}
		}

		unit := task.NewWorkerUnit(sub)
		m.units = append(m.units, unit)
		m.flattened = append(m.flattened, unit)
		m.flattened = append(m.flattened, sub.NestedUnits()...)
		m.entryNames = append(m.entryNames, entryName)
	}

	m.prepared = true
	return nil
}

// Execute runs every variant concurrently and aggregates their partial
// results until all units complete, the monitor aborts, or the context is
// canceled. On success it returns the composite collection; slots of failed
// variants stay pending and the first variant failure is reported alongside
// the collection. On abort it returns (nil, ErrAborted).
func (m *MultiBudgetTask) Execute(ctx context.Context, mon task.Monitor) (*evaluation.ResultCollection, error) {
	if !m.prepared {
		return nil, apperrors.TaskError{Task: m.Name(), Cause: apperrors.ValidationError{
			Field: "prepared", Message: "Execute called before Prepare"}}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ctx, span := otel.Tracer("aleval/orchestration").Start(ctx, "multibudget.run",
		trace.WithAttributes(
			attribute.String("run_id", m.runID),
			attribute.Int("variants", len(m.units)),
		))
	defer span.End()

	store := evaluation.NewResultCollection(m.Name(), m.runID, m.entryNames)
	mon.SetActivity("Evaluating learners for budgets...", format.IndeterminateFraction)

	for _, u := range m.units {
		u.Start(ctx)
	}
	m.cfg.Logger.Info("workers started",
		logging.String("run_id", m.runID),
		logging.Int("variants", len(m.units)))

	ticker := time.NewTicker(m.cfg.PollInterval)
	defer ticker.Stop()

	for {
		allCompleted, aborted := m.round(store, mon)
		if aborted {
			m.cfg.Logger.Info("run aborted", logging.String("run_id", m.runID))
			return nil, ErrAborted
		}
		if allCompleted {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}

	mon.SetFraction(1.0)
	m.cfg.Logger.Info("run complete",
		logging.String("run_id", m.runID),
		logging.Int("entries", store.NumEntries()))
	return store, m.unitFailure()
}

// round executes one aggregation round: snapshot every unit, merge curve
// snapshots into the store in variant order stopping at the first variant
// that has not reported yet, then publish combined progress and (when wanted)
// a defensive preview of the store. It reports whether every unit completed
// and whether the monitor requested an abort. An aborting round publishes no
// preview.
func (m *MultiBudgetTask) round(store *evaluation.ResultCollection, mon task.Monitor) (allCompleted, aborted bool) {
	before := store.NumEntries()
	allCompleted = true
	completed := 0
	sum := 0.0
	snaps := make([]*evaluation.LearningCurve, len(m.units))
	for i, u := range m.units {
		if u.IsComplete() {
			completed++
		} else {
			allCompleted = false
		}
		// Indeterminate progress contributes zero to the combined fraction.
		if f := u.Progress(); f >= 0 {
			sum += f
		}
		if p := u.LatestResult(); p != nil {
			if c, ok := p.(*evaluation.LearningCurve); ok {
				snaps[i] = c
			}
		}
	}

	mergeSnapshots(store, snaps)

	fraction := sum / float64(len(m.units))
	mon.SetFraction(fraction)
	m.observe(fraction, completed, store)

	if mon.ShouldAbort() {
		return allCompleted, true
	}
	if store.NumEntries() > before && (mon.PreviewRequested() || m.subtask) {
		mon.SetLatestPreview(store.Copy())
		mon.SetFraction(format.IndeterminateFraction)
	}
	return allCompleted, false
}

// mergeSnapshots applies one round's curve snapshots to the store in variant
// order, stopping at the first variant that has not reported a non-empty
// curve yet. Populated slots therefore always form a prefix of the variant
// order, and a populated slot is only ever replaced, never cleared.
func mergeSnapshots(store *evaluation.ResultCollection, snaps []*evaluation.LearningCurve) {
	for i, c := range snaps {
		if c == nil || c.NumEntries() == 0 {
			break
		}
		// The index is in range and the curve non-nil, so Set cannot fail.
		_ = store.Set(i, c)
	}
}

// observe pushes the round's aggregates to the metrics collectors, if any.
func (m *MultiBudgetTask) observe(fraction float64, completed int, store *evaluation.ResultCollection) {
	if m.cfg.Metrics == nil {
		return
	}
	m.cfg.Metrics.RoundsTotal.Inc()
	m.cfg.Metrics.CombinedProgress.Set(fraction)
	m.cfg.Metrics.StoreEntries.Set(float64(store.NumEntries()))
	m.cfg.Metrics.WorkersCompleted.Set(float64(completed))
	for i, u := range m.units {
		if f := u.Progress(); f >= 0 {
			m.cfg.Metrics.VariantProgress.WithLabelValues(m.entryNames[i]).Set(f)
		}
	}
}

// unitFailure returns the first variant failure, if any, wrapped with the
// failing variant's entry name. Cancellation errors of individual units are
// surfaced the same way, since a completed run should not have any.
func (m *MultiBudgetTask) unitFailure() error {
	for i, u := range m.units {
		if _, err := u.FinalResult(); err != nil {
			m.cfg.Logger.Error("variant failed", err,
				logging.String("run_id", m.runID),
				logging.String("variant", m.entryNames[i]))
			return apperrors.TaskError{Task: m.entryNames[i], Cause: err}
		}
	}
	return nil
}

// Run executes the task through the uniform Task interface, returning the
// composite collection as a Preview.
func (m *MultiBudgetTask) Run(ctx context.Context, mon task.Monitor) (task.Preview, error) {
	store, err := m.Execute(ctx, mon)
	if store == nil {
		return nil, err
	}
	return store, err
}

// NestedUnits returns the task's worker units plus, recursively, the units
// of their subtasks, for flattened monitoring.
func (m *MultiBudgetTask) NestedUnits() []*task.WorkerUnit { return m.flattened }

// Units returns the direct worker units, one per budget, in variant order.
func (m *MultiBudgetTask) Units() []*task.WorkerUnit { return m.units }

// EntryNames returns the composite slot names in variant order (e.g.,
// "budget=0.5"). Valid after Prepare.
func (m *MultiBudgetTask) EntryNames() []string {
	return append([]string(nil), m.entryNames...)
}

// IsSubtask reports whether this task runs nested inside another task.
func (m *MultiBudgetTask) IsSubtask() bool { return m.subtask }

// MarkSubtask flags the task as running nested inside a composite task.
func (m *MultiBudgetTask) MarkSubtask() { m.subtask = true }

// SetLastSubtaskOnLevel records this task's position in the composite
// nesting, propagated to subtasks created by Prepare.
func (m *MultiBudgetTask) SetLastSubtaskOnLevel(parent []bool, isLast bool) {
	m.lastOnLevel = append(append([]bool(nil), parent...), isLast)
}

// LastSubtaskOnLevel returns the recorded level path.
func (m *MultiBudgetTask) LastSubtaskOnLevel() []bool { return m.lastOnLevel }
