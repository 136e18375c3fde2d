// Package learner provides budget-constrained active-learning classifiers
// and the parameter surface the orchestrator varies across evaluation runs.
package learner

import (
	"math"
	"sort"

	"github.com/streamml/aleval/internal/stream"
)

// Learner is an incremental, budget-constrained active-learning classifier.
// Implementations are not safe for concurrent use; each evaluation run owns
// an independent copy.
type Learner interface {
	// Name returns the learner's concrete type name. Used to detect whether
	// the learner selection actually changed between configuration refreshes.
	Name() string
	// Params returns the learner's ordered parameter set.
	Params() *ParamSet
	// Reset clears all learned state, keeping parameter values.
	Reset()
	// Predict returns the predicted class index for the instance.
	Predict(inst stream.Instance) int
	// Train offers a labeled instance. The learner decides whether to spend
	// budget on the label; it returns true if the label was acquired and
	// used for training.
	Train(inst stream.Instance) bool
	// Copy returns an independent learner of the same type with the same
	// parameter values and fresh (untrained) state.
	Copy() Learner
}

// centroidModel is a minimal incremental classifier shared by the built-in
// learners: one running mean vector per class, nearest-centroid prediction.
type centroidModel struct {
	counts  map[int]int
	means   map[int][]float64
	trained int
}

func newCentroidModel() *centroidModel {
	return &centroidModel{counts: make(map[int]int), means: make(map[int][]float64)}
}

func (m *centroidModel) reset() {
	m.counts = make(map[int]int)
	m.means = make(map[int][]float64)
	m.trained = 0
}

func (m *centroidModel) train(inst stream.Instance) {
	mean, ok := m.means[inst.Class]
	if !ok {
		mean = make([]float64, len(inst.Features))
		m.means[inst.Class] = mean
	}
	m.counts[inst.Class]++
	n := float64(m.counts[inst.Class])
	for i, x := range inst.Features {
		mean[i] += (x - mean[i]) / n
	}
	m.trained++
}

func distance(a, b []float64) float64 {
	var d float64
	for i := range a {
		diff := a[i] - b[i]
		d += diff * diff
	}
	return math.Sqrt(d)
}

// predict returns the nearest-centroid class, or 0 before any training.
func (m *centroidModel) predict(features []float64) int {
	best, bestDist := 0, math.Inf(1)
	// Iterate classes in sorted order for deterministic tie-breaking.
	classes := make([]int, 0, len(m.means))
	for c := range m.means {
		classes = append(classes, c)
	}
	sort.Ints(classes)
	for _, c := range classes {
		if d := distance(features, m.means[c]); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// margin returns a confidence measure in [0, 1]: the relative gap between
// the nearest and second-nearest class centroids. Low margin means an
// uncertain prediction. Returns 0 (maximally uncertain) before two classes
// have been observed.
func (m *centroidModel) margin(features []float64) float64 {
	if len(m.means) < 2 {
		return 0
	}
	first, second := math.Inf(1), math.Inf(1)
	for _, mean := range m.means {
		d := distance(features, mean)
		if d < first {
			first, second = d, first
		} else if d < second {
			second = d
		}
	}
	if first+second == 0 {
		return 0
	}
	return (second - first) / (second + first)
}

// budgetTracker tracks the fraction of seen instances whose label was
// acquired, enforcing the labeling budget.
type budgetTracker struct {
	seen     int
	acquired int
}

func (b *budgetTracker) reset() { b.seen, b.acquired = 0, 0 }

// spentFraction returns acquired/seen, or 0 before any instance.
func (b *budgetTracker) spentFraction() float64 {
	if b.seen == 0 {
		return 0
	}
	return float64(b.acquired) / float64(b.seen)
}

// withinBudget reports whether acquiring one more label keeps the spend
// fraction at or below the budget.
func (b *budgetTracker) withinBudget(budget float64) bool {
	return float64(b.acquired+1) <= budget*float64(b.seen+1)
}

func (b *budgetTracker) record(acquiredLabel bool) {
	b.seen++
	if acquiredLabel {
		b.acquired++
	}
}
