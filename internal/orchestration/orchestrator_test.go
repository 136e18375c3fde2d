package orchestration

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/prometheus/client_golang/prometheus/testutil"

	apperrors "github.com/streamml/aleval/internal/errors"
	"github.com/streamml/aleval/internal/evaluation"
	"github.com/streamml/aleval/internal/format"
	"github.com/streamml/aleval/internal/learner"
	"github.com/streamml/aleval/internal/logging"
	"github.com/streamml/aleval/internal/metrics"
	"github.com/streamml/aleval/internal/stream"
	"github.com/streamml/aleval/internal/task"
	"github.com/streamml/aleval/internal/task/mocks"
)

// recordingMonitor captures published fractions and previews.
type recordingMonitor struct {
	mu        sync.Mutex
	fractions []float64
	previews  []task.Preview
	abortFunc func() bool
}

func (m *recordingMonitor) SetActivity(_ string, fraction float64) { m.SetFraction(fraction) }

func (m *recordingMonitor) SetFraction(fraction float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fractions = append(m.fractions, fraction)
}

func (m *recordingMonitor) SetLatestPreview(preview task.Preview) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.previews = append(m.previews, preview)
}

func (m *recordingMonitor) ShouldAbort() bool {
	if m.abortFunc != nil {
		return m.abortFunc()
	}
	return false
}

func (m *recordingMonitor) PreviewRequested() bool { return true }

func quietLogger() logging.Logger {
	return logging.NewStdLoggerAdapter(log.New(io.Discard, "", 0))
}

func defaultOrchestratorConfig() Config {
	return Config{
		Learner:          learner.NewVariableUncertainty(),
		NewStream:        func() stream.Stream { return stream.NewHyperplane(stream.DefaultHyperplaneConfig(), 7) },
		BudgetParamName:  "budget",
		Budgets:          []float64{0.1, 0.5, 0.9},
		InstanceLimit:    300,
		TimeLimitSeconds: -1,
		SampleFrequency:  100,
		PollInterval:     time.Millisecond,
		Logger:           quietLogger(),
	}
}

func TestMultiBudgetPrepareValidation(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		mutate  func(*Config)
		target  any
		message string
	}{
		{"nil learner", func(c *Config) { c.Learner = nil }, &apperrors.ConfigError{}, "learner"},
		{"nil stream constructor", func(c *Config) { c.NewStream = nil }, &apperrors.ConfigError{}, "stream"},
		{"no budgets", func(c *Config) { c.Budgets = nil }, &apperrors.ConfigError{}, "budget"},
		{"unknown binding", func(c *Config) { c.BudgetParamName = "nope" }, &apperrors.BindingError{}, "not found"},
		{"non-numeric binding", func(c *Config) { c.BudgetParamName = "strategy" }, &apperrors.BindingError{}, "numerical"},
		{"out-of-range budget", func(c *Config) { c.Budgets = []float64{1.5} }, &apperrors.TaskError{}, "out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := defaultOrchestratorConfig()
			tt.mutate(&cfg)
			err := NewMultiBudgetTask(cfg).Prepare(context.Background(), task.NullMonitor{})
			if err == nil {
				t.Fatal("expected an error")
			}
			switch target := tt.target.(type) {
			case *apperrors.ConfigError:
				if !errors.As(err, target) {
					t.Fatalf("expected ConfigError, got %T: %v", err, err)
				}
			case *apperrors.BindingError:
				if !errors.As(err, target) {
					t.Fatalf("expected BindingError, got %T: %v", err, err)
				}
			case *apperrors.TaskError:
				if !errors.As(err, target) {
					t.Fatalf("expected TaskError, got %T: %v", err, err)
				}
			}
		})
	}
}

func TestMultiBudgetPrepareBuildsUnits(t *testing.T) {
	t.Parallel()
	m := NewMultiBudgetTask(defaultOrchestratorConfig())
	if err := m.Prepare(context.Background(), task.NullMonitor{}); err != nil {
		t.Fatal(err)
	}

	if got := len(m.Units()); got != 3 {
		t.Fatalf("direct units = %d, want 3", got)
	}
	for _, u := range m.Units() {
		if u.IsComplete() {
			t.Error("prepared units must not have started")
		}
	}
	want := []string{"budget=0.1", "budget=0.5", "budget=0.9"}
	got := m.EntryNames()
	if len(got) != len(want) {
		t.Fatalf("entry names = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry name[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if m.RunID() == "" {
		t.Error("run identifier must be set")
	}
}

func TestMultiBudgetExecuteBeforePrepare(t *testing.T) {
	t.Parallel()
	_, err := NewMultiBudgetTask(defaultOrchestratorConfig()).Execute(context.Background(), task.NullMonitor{})
	var terr apperrors.TaskError
	if !errors.As(err, &terr) {
		t.Fatalf("expected TaskError, got %v", err)
	}
}

func TestMultiBudgetExecuteCompletesAllVariants(t *testing.T) {
	t.Parallel()
	cfg := defaultOrchestratorConfig()
	m := NewMultiBudgetTask(cfg)
	if err := m.Prepare(context.Background(), task.NullMonitor{}); err != nil {
		t.Fatal(err)
	}

	mon := &recordingMonitor{}
	store, err := m.Execute(context.Background(), mon)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if store.NumEntries() != store.NumSlots() || store.NumSlots() != 3 {
		t.Fatalf("store entries = %d/%d, want 3/3", store.NumEntries(), store.NumSlots())
	}
	for i, budget := range cfg.Budgets {
		curve := store.Curve(i)
		if curve == nil {
			t.Fatalf("slot %d unpopulated", i)
		}
		row := curve.LastRow()
		if row[0] != float64(cfg.InstanceLimit) {
			t.Errorf("slot %d final instances = %v, want %v", i, row[0], cfg.InstanceLimit)
		}
		// The budget gate allows at most one acquisition beyond budget*seen.
		maxSpend := budget + 1.0/float64(cfg.InstanceLimit) + 1e-9
		if spend := row[2]; spend > maxSpend {
			t.Errorf("slot %d label spend = %v, exceeds budget %v", i, spend, budget)
		}
	}

	// Every published fraction is either indeterminate or a valid mean in
	// [0, 1], and the run ends at exactly 1.0.
	mon.mu.Lock()
	defer mon.mu.Unlock()
	if len(mon.fractions) == 0 {
		t.Fatal("expected published fractions")
	}
	for _, f := range mon.fractions {
		if f != format.IndeterminateFraction && (f < 0 || f > 1) {
			t.Errorf("combined fraction %v outside [0, 1]", f)
		}
	}
	if last := mon.fractions[len(mon.fractions)-1]; last != 1.0 {
		t.Errorf("final fraction = %v, want 1.0", last)
	}

	// Previews are defensive copies of the store as the entry count grows.
	for _, p := range mon.previews {
		rc, ok := p.(*evaluation.ResultCollection)
		if !ok {
			t.Fatalf("preview type = %T, want *evaluation.ResultCollection", p)
		}
		if rc.NumEntries() > 3 {
			t.Errorf("preview entries = %d, want at most 3", rc.NumEntries())
		}
	}
}

func TestMultiBudgetExecuteAbort(t *testing.T) {
	t.Parallel()
	cfg := defaultOrchestratorConfig()
	cfg.InstanceLimit = 10_000_000
	m := NewMultiBudgetTask(cfg)
	if err := m.Prepare(context.Background(), task.NullMonitor{}); err != nil {
		t.Fatal(err)
	}

	mon := &recordingMonitor{abortFunc: func() bool { return true }}
	store, err := m.Execute(context.Background(), mon)
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	if store != nil {
		t.Error("aborted run must not return a collection")
	}
}

func TestMultiBudgetExecuteCancellation(t *testing.T) {
	t.Parallel()
	cfg := defaultOrchestratorConfig()
	cfg.InstanceLimit = 10_000_000
	m := NewMultiBudgetTask(cfg)
	if err := m.Prepare(context.Background(), task.NullMonitor{}); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := m.Execute(ctx, task.NullMonitor{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestMultiBudgetExecuteWithMockMonitor(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mon := mocks.NewMockMonitor(ctrl)
	mon.EXPECT().SetActivity("Evaluating learners for budgets...", format.IndeterminateFraction).Times(1)
	mon.EXPECT().SetFraction(gomock.Any()).AnyTimes()
	mon.EXPECT().ShouldAbort().Return(false).AnyTimes()
	mon.EXPECT().PreviewRequested().Return(true).AnyTimes()

	var previews int
	mon.EXPECT().SetLatestPreview(gomock.Any()).Do(func(p task.Preview) {
		if _, ok := p.(*evaluation.ResultCollection); !ok {
			t.Errorf("preview type = %T, want *evaluation.ResultCollection", p)
		}
		previews++
	}).AnyTimes()

	m := NewMultiBudgetTask(defaultOrchestratorConfig())
	if err := m.Prepare(context.Background(), mon); err != nil {
		t.Fatal(err)
	}
	store, err := m.Execute(context.Background(), mon)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.NumEntries() != 3 {
		t.Errorf("store entries = %d, want 3", store.NumEntries())
	}
	if previews == 0 {
		t.Error("expected at least one published preview")
	}
}

func TestMultiBudgetExecuteUpdatesMetrics(t *testing.T) {
	t.Parallel()
	cfg := defaultOrchestratorConfig()
	cfg.Metrics = metrics.New()
	m := NewMultiBudgetTask(cfg)
	if err := m.Prepare(context.Background(), task.NullMonitor{}); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Execute(context.Background(), task.NullMonitor{}); err != nil {
		t.Fatal(err)
	}

	if got := testutil.ToFloat64(cfg.Metrics.StoreEntries); got != 3 {
		t.Errorf("store-entries gauge = %v, want 3", got)
	}
	if got := testutil.ToFloat64(cfg.Metrics.WorkersCompleted); got != 3 {
		t.Errorf("workers-completed gauge = %v, want 3", got)
	}
	if got := testutil.ToFloat64(cfg.Metrics.RoundsTotal); got < 1 {
		t.Errorf("rounds counter = %v, want at least 1", got)
	}
}

func curveWithRows(name string, rows int) *evaluation.LearningCurve {
	c := evaluation.NewLearningCurve(name, evaluation.CurveColumns...)
	for i := 1; i <= rows; i++ {
		_ = c.Append(float64(i*10), 0.5, 0.1)
	}
	return c
}

func TestMergeSnapshotsGapStopping(t *testing.T) {
	t.Parallel()
	names := []string{"budget=0.5", "budget=0.9"}
	store := evaluation.NewResultCollection("multi-budget", "run", names)

	fast := curveWithRows("budget=0.9", 3)

	// The slow first variant has not reported: the fast second variant's
	// snapshot must not be stored yet.
	mergeSnapshots(store, []*evaluation.LearningCurve{nil, fast})
	if store.NumEntries() != 0 {
		t.Fatalf("entries after gap round = %d, want 0", store.NumEntries())
	}

	// An empty curve counts as not reported.
	mergeSnapshots(store, []*evaluation.LearningCurve{curveWithRows("budget=0.5", 0), fast})
	if store.NumEntries() != 0 {
		t.Fatalf("entries after empty-curve round = %d, want 0", store.NumEntries())
	}

	// Once the first variant reports, both snapshots land in one round.
	slow := curveWithRows("budget=0.5", 1)
	mergeSnapshots(store, []*evaluation.LearningCurve{slow, fast})
	if store.NumEntries() != 2 {
		t.Fatalf("entries after full round = %d, want 2", store.NumEntries())
	}
	if store.Curve(0) != slow || store.Curve(1) != fast {
		t.Error("slots must hold the latest snapshots in variant order")
	}

	// A later gap round must not clear populated slots.
	mergeSnapshots(store, []*evaluation.LearningCurve{nil, nil})
	if store.NumEntries() != 2 || store.Curve(0) != slow {
		t.Error("populated slots must never be cleared")
	}

	// A newer snapshot replaces the old one.
	slower := curveWithRows("budget=0.5", 2)
	mergeSnapshots(store, []*evaluation.LearningCurve{slower, nil})
	if store.Curve(0) != slower {
		t.Error("newer snapshot must replace the stored one")
	}
}

func TestMergeSnapshotsPrefixProperty(t *testing.T) {
	t.Parallel()
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("populated slots form a prefix of the variant order", prop.ForAll(
		func(reported []bool) bool {
			names := make([]string, len(reported))
			snaps := make([]*evaluation.LearningCurve, len(reported))
			prefix := 0
			counting := true
			for i, r := range reported {
				names[i] = "variant"
				if r {
					snaps[i] = curveWithRows("variant", 1)
					if counting {
						prefix++
					}
				} else {
					counting = false
				}
			}

			store := evaluation.NewResultCollection("multi-budget", "run", names)
			mergeSnapshots(store, snaps)

			if store.NumEntries() != prefix {
				return false
			}
			for i := 0; i < len(reported); i++ {
				if (store.Curve(i) != nil) != (i < prefix) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Bool()),
	))

	properties.TestingRun(t)
}

func TestMultiBudgetImplementsTask(t *testing.T) {
	t.Parallel()
	var _ task.Task = (*MultiBudgetTask)(nil)

	m := NewMultiBudgetTask(defaultOrchestratorConfig())
	if m.IsSubtask() {
		t.Error("task should not be a subtask until marked")
	}
	m.MarkSubtask()
	if !m.IsSubtask() {
		t.Error("MarkSubtask should flag the task")
	}
	m.SetLastSubtaskOnLevel([]bool{false}, true)
	if got := m.LastSubtaskOnLevel(); len(got) != 2 || got[0] != false || got[1] != true {
		t.Errorf("level path = %v, want [false true]", got)
	}

	if err := m.Prepare(context.Background(), task.NullMonitor{}); err != nil {
		t.Fatal(err)
	}
	if got := len(m.NestedUnits()); got != 3 {
		t.Errorf("flattened units = %d, want 3 (leaf subtasks add none)", got)
	}
	res, err := m.Run(context.Background(), task.NullMonitor{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.NumEntries() != 3 {
		t.Errorf("result entries = %d, want 3", res.NumEntries())
	}
}
