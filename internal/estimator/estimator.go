// Package estimator implements a multivariate Gaussian kernel frequency
// estimator over a fixed-size sliding window of observation vectors. It is
// used by density-aware active learners to judge how well-explored the
// region around an incoming instance already is.
package estimator

import "math"

// Window is a fixed-capacity ring buffer of observation vectors. Once full,
// adding a new vector overwrites the oldest one.
type Window struct {
	buf  [][]float64
	next int
	size int
}

// NewWindow creates a ring buffer holding at most capacity vectors.
// A non-positive capacity is treated as 1.
func NewWindow(capacity int) *Window {
	if capacity < 1 {
		capacity = 1
	}
	return &Window{buf: make([][]float64, capacity)}
}

// Add stores a copy of x, evicting the oldest entry when full.
func (w *Window) Add(x []float64) {
	cp := make([]float64, len(x))
	copy(cp, x)
	w.buf[w.next] = cp
	w.next = (w.next + 1) % len(w.buf)
	if w.size < len(w.buf) {
		w.size++
	}
}

// Len returns the number of stored vectors.
func (w *Window) Len() int { return w.size }

// At returns the i-th stored vector, oldest first. The returned slice must
// not be modified by the caller.
func (w *Window) At(i int) []float64 {
	if w.size < len(w.buf) {
		return w.buf[i]
	}
	return w.buf[(w.next+i)%len(w.buf)]
}

// Multivariate estimates the local observation frequency at a point using a
// Gaussian kernel with a single shared bandwidth across dimensions. The
// result is a frequency (a sum of kernel weights), not a normalized density.
type Multivariate struct {
	bandwidth float64
	points    *Window
}

// NewMultivariate creates an estimator with the given kernel bandwidth and
// sliding window size.
func NewMultivariate(bandwidth float64, windowSize int) *Multivariate {
	return &Multivariate{
		bandwidth: bandwidth,
		points:    NewWindow(windowSize),
	}
}

// AddValue records an observation vector into the sliding window.
func (m *Multivariate) AddValue(x []float64) {
	m.points.Add(x)
}

// FrequencyEstimate returns the summed kernel weight of all windowed points
// at position x. Returns 0 when the window is empty.
func (m *Multivariate) FrequencyEstimate(x []float64) float64 {
	if m.points.Len() == 0 {
		return 0
	}
	var freq float64
	for i := 0; i < m.points.Len(); i++ {
		freq += m.Normal(x, m.points.At(i))
	}
	return freq
}

// Normal evaluates the unnormalized Gaussian kernel between x and mu:
// exp(-0.5 * sum((x_i - mu_i)^2 / bandwidth)).
func (m *Multivariate) Normal(x, mu []float64) float64 {
	var v float64
	for i := range x {
		d := x[i] - mu[i]
		v += d * d / m.bandwidth
	}
	return math.Exp(-0.5 * v)
}

// NumPoints returns the number of observations currently in the window.
func (m *Multivariate) NumPoints() int {
	return m.points.Len()
}
