package learner

import (
	"github.com/streamml/aleval/internal/estimator"
	"github.com/streamml/aleval/internal/stream"
)

// DensityUncertainty combines uncertainty sampling with a Gaussian-kernel
// frequency estimate over a sliding window of acquired instances. Instances
// in densely explored regions are discounted, steering label spending toward
// unexplored parts of the feature space.
type DensityUncertainty struct {
	budget     *FloatParam
	bandwidth  *FloatParam
	windowSize *IntParam
	params     *ParamSet

	model     *centroidModel
	tracker   budgetTracker
	density   *estimator.Multivariate
	threshold float64
}

// NewDensityUncertainty creates the learner with default parameters:
// budget 0.9, bandwidth 0.1, window of 100 acquired instances.
func NewDensityUncertainty() *DensityUncertainty {
	l := &DensityUncertainty{
		budget:     NewFloatParam("budget", "Fraction of instances whose label may be acquired.", 0.9, 0, 1),
		bandwidth:  NewFloatParam("bandwidth", "Gaussian kernel bandwidth for the frequency estimate.", 0.1, 1e-9, 1e9),
		windowSize: NewIntParam("windowSize", "Number of acquired instances kept for the frequency estimate.", 100, 1, 1<<20),
	}
	l.params = NewParamSet(l.budget, l.bandwidth, l.windowSize)
	l.Reset()
	return l
}

// Name returns the learner's concrete type name.
func (l *DensityUncertainty) Name() string { return "DensityUncertainty" }

// Params returns the learner's parameter set.
func (l *DensityUncertainty) Params() *ParamSet { return l.params }

// Reset clears learned state, rebuilding the estimator from the current
// bandwidth and window-size parameter values.
func (l *DensityUncertainty) Reset() {
	l.model = newCentroidModel()
	l.tracker.reset()
	l.density = estimator.NewMultivariate(l.bandwidth.Value(), l.windowSize.Value())
	l.threshold = 1.0
}

// Predict returns the predicted class for the instance.
func (l *DensityUncertainty) Predict(inst stream.Instance) int {
	return l.model.predict(inst.Features)
}

// Train offers a labeled instance and returns whether the label was acquired.
func (l *DensityUncertainty) Train(inst stream.Instance) bool {
	margin := l.model.margin(inst.Features)

	// Inflate the effective margin in well-explored regions so dense areas
	// compete for budget at a disadvantage.
	if n := l.density.NumPoints(); n > 0 {
		freq := l.density.FrequencyEstimate(inst.Features)
		margin *= 1 + freq/float64(n)
	}

	acquire := margin < l.threshold && l.tracker.withinBudget(l.budget.Value())
	if acquire {
		l.threshold *= 0.99
	} else {
		l.threshold *= 1.01
	}

	l.tracker.record(acquire)
	if acquire {
		l.model.train(inst)
		l.density.AddValue(inst.Features)
	}
	return acquire
}

// Copy returns a fresh learner with the same parameter values.
func (l *DensityUncertainty) Copy() Learner {
	cp := NewDensityUncertainty()
	if err := l.params.CopyValuesTo(cp.params); err != nil {
		panic(err)
	}
	cp.Reset()
	return cp
}
