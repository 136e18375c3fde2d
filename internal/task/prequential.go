package task

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/streamml/aleval/internal/errors"
	"github.com/streamml/aleval/internal/evaluation"
	"github.com/streamml/aleval/internal/format"
	"github.com/streamml/aleval/internal/learner"
	"github.com/streamml/aleval/internal/stream"
)

// PrequentialConfig is the explicit, typed configuration shared between the
// orchestrator and its subtasks. Every field is copied by identity when a
// subtask is created, not matched by name.
type PrequentialConfig struct {
	// Learner is the classifier under evaluation. The task owns it
	// exclusively.
	Learner learner.Learner
	// Stream supplies the instances. The task owns it exclusively.
	Stream stream.Stream
	// InstanceLimit is the maximum number of instances to test/train on
	// (−1 = no limit).
	InstanceLimit int
	// TimeLimitSeconds is the maximum number of seconds to test/train for
	// (−1 = no limit).
	TimeLimitSeconds int
	// SampleFrequency is the number of instances between learning-curve
	// samples.
	SampleFrequency int
}

// PrequentialTask evaluates one learner on one stream by prequential
// evaluation: each instance is first used to test the learner, then offered
// for (budget-gated) training. The task samples its learning curve every
// SampleFrequency instances and publishes snapshots through the monitor.
type PrequentialTask struct {
	name string
	cfg  PrequentialConfig

	curve *evaluation.LearningCurve
	eval  *evaluation.Evaluator

	lastOnLevel []bool
	subtask     bool
	prepared    bool
}

// NewPrequentialTask creates an unprepared task.
func NewPrequentialTask(name string, cfg PrequentialConfig) *PrequentialTask {
	return &PrequentialTask{name: name, cfg: cfg}
}

// Name returns the task name.
func (t *PrequentialTask) Name() string { return t.name }

// Prepare validates the configuration and resets the learner, stream and
// evaluation state. It must be called before Run.
func (t *PrequentialTask) Prepare(_ context.Context, _ Monitor) error {
	switch {
	case t.cfg.Learner == nil:
		return apperrors.ValidationError{Field: "learner", Message: "must not be nil"}
	case t.cfg.Stream == nil:
		return apperrors.ValidationError{Field: "stream", Message: "must not be nil"}
	case t.cfg.InstanceLimit == 0 || t.cfg.InstanceLimit < -1:
		return apperrors.ValidationError{Field: "instanceLimit", Message: "must be positive or -1 (unlimited)"}
	case t.cfg.TimeLimitSeconds == 0 || t.cfg.TimeLimitSeconds < -1:
		return apperrors.ValidationError{Field: "timeLimit", Message: "must be positive or -1 (unlimited)"}
	case t.cfg.SampleFrequency < 1:
		return apperrors.ValidationError{Field: "sampleFrequency", Message: "must be at least 1"}
	}

	t.cfg.Learner.Reset()
	t.cfg.Stream.Restart()
	t.eval = evaluation.NewEvaluator()
	t.curve = evaluation.NewLearningCurve(t.name, evaluation.CurveColumns...)
	t.prepared = true
	return nil
}

// Run executes the prequential evaluation until the instance limit, time
// limit, stream end, cancellation or monitor abort. The returned curve
// holds every sampled measurement row; on cancellation the partial curve is
// returned together with the context error.
func (t *PrequentialTask) Run(ctx context.Context, mon Monitor) (Preview, error) {
	if !t.prepared {
		return nil, apperrors.TaskError{Task: t.name, Cause: apperrors.ValidationError{
			Field: "prepared", Message: "Run called before Prepare"}}
	}

	ctx, span := otel.Tracer("aleval/task").Start(ctx, "prequential.run",
		trace.WithAttributes(attribute.String("task", t.name)))
	defer span.End()

	var deadline time.Time
	if t.cfg.TimeLimitSeconds > 0 {
		deadline = time.Now().Add(time.Duration(t.cfg.TimeLimitSeconds) * time.Second)
	}

	processed := 0
	for t.cfg.Stream.HasMore() {
		if t.cfg.InstanceLimit > 0 && processed >= t.cfg.InstanceLimit {
			break
		}
		if !deadline.IsZero() && !time.Now().Before(deadline) {
			break
		}
		if err := ctx.Err(); err != nil {
			return t.curve, err
		}
		if mon.ShouldAbort() {
			break
		}

		inst := t.cfg.Stream.Next()
		correct := t.cfg.Learner.Predict(inst) == inst.Class
		acquired := t.cfg.Learner.Train(inst)
		t.eval.Add(correct, acquired)
		processed++

		if processed%t.cfg.SampleFrequency == 0 {
			t.sample(mon, processed)
		}
	}

	if processed%t.cfg.SampleFrequency != 0 {
		t.sample(mon, processed)
	}
	mon.SetFraction(1.0)
	return t.curve, nil
}

// sample appends the current measurements to the curve and publishes a
// snapshot plus the updated fraction through the monitor.
func (t *PrequentialTask) sample(mon Monitor, processed int) {
	// Measurements always match CurveColumns, so Append cannot fail here.
	_ = t.curve.Append(t.eval.Measurements()...)
	if mon.PreviewRequested() {
		mon.SetLatestPreview(t.curve.Copy())
	}
	mon.SetFraction(t.progress(processed))
}

// progress returns the completion fraction against the instance limit, or
// the indeterminate sentinel when the run is unlimited.
func (t *PrequentialTask) progress(processed int) float64 {
	if t.cfg.InstanceLimit <= 0 {
		return format.IndeterminateFraction
	}
	f := float64(processed) / float64(t.cfg.InstanceLimit)
	if f > 1 {
		return 1
	}
	return f
}

// NestedUnits returns nil: the prequential task is a leaf.
func (t *PrequentialTask) NestedUnits() []*WorkerUnit { return nil }

// IsSubtask reports whether the task runs nested inside a composite task.
func (t *PrequentialTask) IsSubtask() bool { return t.subtask }

// MarkSubtask flags the task as running nested inside a composite task.
func (t *PrequentialTask) MarkSubtask() { t.subtask = true }

// SetLastSubtaskOnLevel records this task's position in the composite
// nesting: the parent's level path extended with whether this task is the
// last of its sibling group. Result-layout conventions of composite tasks
// consume this.
func (t *PrequentialTask) SetLastSubtaskOnLevel(parent []bool, isLast bool) {
	t.lastOnLevel = append(append([]bool(nil), parent...), isLast)
}

// LastSubtaskOnLevel returns the recorded level path.
func (t *PrequentialTask) LastSubtaskOnLevel() []bool { return t.lastOnLevel }

// Curve returns the task's learning curve (nil before Prepare).
func (t *PrequentialTask) Curve() *evaluation.LearningCurve { return t.curve }
