package evaluation

// CurveColumns are the measurement columns produced by the prequential
// Evaluator, in order: instances seen, prequential accuracy, and the
// fraction of instances whose label the learner acquired.
var CurveColumns = []string{"instances", "accuracy", "labelSpend"}

// Evaluator accumulates prequential (test-then-train) statistics for one
// evaluation run.
type Evaluator struct {
	seen     int
	correct  int
	acquired int
}

// NewEvaluator creates an empty evaluator.
func NewEvaluator() *Evaluator { return &Evaluator{} }

// Add records one prequential observation: whether the prediction made
// before training was correct, and whether the learner acquired the label.
func (e *Evaluator) Add(correct, labelAcquired bool) {
	e.seen++
	if correct {
		e.correct++
	}
	if labelAcquired {
		e.acquired++
	}
}

// Seen returns the number of observed instances.
func (e *Evaluator) Seen() int { return e.seen }

// Accuracy returns the fraction of correct predictions, or 0 before any
// observation.
func (e *Evaluator) Accuracy() float64 {
	if e.seen == 0 {
		return 0
	}
	return float64(e.correct) / float64(e.seen)
}

// LabelSpend returns the fraction of instances whose label was acquired.
func (e *Evaluator) LabelSpend() float64 {
	if e.seen == 0 {
		return 0
	}
	return float64(e.acquired) / float64(e.seen)
}

// Measurements returns the current values in CurveColumns order.
func (e *Evaluator) Measurements() []float64 {
	return []float64{float64(e.seen), e.Accuracy(), e.LabelSpend()}
}

// Reset clears all accumulated statistics.
func (e *Evaluator) Reset() { *e = Evaluator{} }
