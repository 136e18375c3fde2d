package learner

import "github.com/streamml/aleval/internal/stream"

// VariableUncertainty is an uncertainty-sampling active learner with a
// self-adjusting confidence threshold. Labels are acquired for instances
// whose prediction margin falls below the threshold; the threshold contracts
// after each acquisition and expands otherwise, so label spending tracks the
// configured budget over time. With the "fixed" strategy the threshold never
// adapts.
type VariableUncertainty struct {
	budget   *FloatParam
	step     *FloatParam
	strategy *ChoiceParam
	params   *ParamSet

	model     *centroidModel
	tracker   budgetTracker
	threshold float64
}

// NewVariableUncertainty creates the learner with default parameters:
// budget 0.9, adjustment step 0.01, variable strategy.
func NewVariableUncertainty() *VariableUncertainty {
	l := &VariableUncertainty{
		budget:   NewFloatParam("budget", "Fraction of instances whose label may be acquired.", 0.9, 0, 1),
		step:     NewFloatParam("budgetAdjustStep", "Multiplicative threshold adjustment step.", 0.01, 0, 1),
		strategy: NewChoiceParam("strategy", "Threshold adaptation strategy.", "variable", []string{"variable", "fixed"}),
	}
	l.params = NewParamSet(l.budget, l.step, l.strategy)
	l.Reset()
	return l
}

// Name returns the learner's concrete type name.
func (l *VariableUncertainty) Name() string { return "VariableUncertainty" }

// Params returns the learner's parameter set.
func (l *VariableUncertainty) Params() *ParamSet { return l.params }

// Reset clears learned state and restores the initial threshold.
func (l *VariableUncertainty) Reset() {
	l.model = newCentroidModel()
	l.tracker.reset()
	l.threshold = 1.0
}

// Predict returns the predicted class for the instance.
func (l *VariableUncertainty) Predict(inst stream.Instance) int {
	return l.model.predict(inst.Features)
}

// Train offers a labeled instance and returns whether the label was acquired.
func (l *VariableUncertainty) Train(inst stream.Instance) bool {
	margin := l.model.margin(inst.Features)
	acquire := margin < l.threshold && l.tracker.withinBudget(l.budget.Value())

	if l.strategy.Value() == "variable" {
		if acquire {
			l.threshold *= 1 - l.step.Value()
		} else {
			l.threshold *= 1 + l.step.Value()
		}
	}

	l.tracker.record(acquire)
	if acquire {
		l.model.train(inst)
	}
	return acquire
}

// Copy returns a fresh learner with the same parameter values.
func (l *VariableUncertainty) Copy() Learner {
	cp := NewVariableUncertainty()
	if err := l.params.CopyValuesTo(cp.params); err != nil {
		// Values originate from a validated ParamSet of the same shape.
		panic(err)
	}
	return cp
}
