package stream

import "math/rand"

// HyperplaneConfig configures the drifting hyperplane generator.
type HyperplaneConfig struct {
	// NumFeatures is the dimensionality of generated instances.
	NumFeatures int
	// DriftMagnitude is the per-instance weight perturbation scale.
	// Zero disables concept drift.
	DriftMagnitude float64
	// NoiseFraction is the probability of flipping the generated label.
	NoiseFraction float64
}

// DefaultHyperplaneConfig returns the generator defaults: 10 features,
// mild drift, 5% label noise.
func DefaultHyperplaneConfig() HyperplaneConfig {
	return HyperplaneConfig{NumFeatures: 10, DriftMagnitude: 0.001, NoiseFraction: 0.05}
}

// Hyperplane generates a binary classification stream where the label is
// determined by which side of a (slowly rotating) hyperplane the instance
// falls on.
type Hyperplane struct {
	cfg     HyperplaneConfig
	seed    int64
	rng     *rand.Rand
	weights []float64
}

// NewHyperplane creates a seeded hyperplane stream.
func NewHyperplane(cfg HyperplaneConfig, seed int64) *Hyperplane {
	if cfg.NumFeatures < 1 {
		cfg.NumFeatures = 1
	}
	h := &Hyperplane{cfg: cfg, seed: seed}
	h.Restart()
	return h
}

// Next generates the next instance.
func (h *Hyperplane) Next() Instance {
	features := make([]float64, h.cfg.NumFeatures)
	var dot, wsum float64
	for i := range features {
		features[i] = h.rng.Float64()
		dot += h.weights[i] * features[i]
		wsum += h.weights[i]
	}
	class := 0
	if dot >= wsum*0.5 {
		class = 1
	}
	if h.cfg.NoiseFraction > 0 && h.rng.Float64() < h.cfg.NoiseFraction {
		class = 1 - class
	}
	if h.cfg.DriftMagnitude > 0 {
		for i := range h.weights {
			h.weights[i] += h.cfg.DriftMagnitude * (h.rng.Float64() - 0.5)
		}
	}
	return Instance{Features: features, Class: class}
}

// HasMore always reports true: the generator is unbounded.
func (h *Hyperplane) HasMore() bool { return true }

// Restart resets the generator to its seeded initial state.
func (h *Hyperplane) Restart() {
	h.rng = rand.New(rand.NewSource(h.seed))
	h.weights = make([]float64, h.cfg.NumFeatures)
	for i := range h.weights {
		h.weights[i] = h.rng.Float64()
	}
}

// NumClasses returns 2: the hyperplane stream is binary.
func (h *Hyperplane) NumClasses() int { return 2 }

// RBFConfig configures the random radial-basis-function generator.
type RBFConfig struct {
	// NumFeatures is the dimensionality of generated instances.
	NumFeatures int
	// NumCentroids is the number of Gaussian clusters.
	NumCentroids int
	// NumClasses is the number of class labels assigned to centroids.
	NumClasses int
}

// DefaultRBFConfig returns the generator defaults: 10 features, 50
// centroids, 2 classes.
func DefaultRBFConfig() RBFConfig {
	return RBFConfig{NumFeatures: 10, NumCentroids: 50, NumClasses: 2}
}

type centroid struct {
	center []float64
	class  int
	stddev float64
	weight float64
}

// RandomRBF generates instances by sampling a weighted random centroid and
// offsetting it with Gaussian noise; the label is the centroid's class.
type RandomRBF struct {
	cfg         RBFConfig
	seed        int64
	rng         *rand.Rand
	centroids   []centroid
	totalWeight float64
}

// NewRandomRBF creates a seeded RBF stream.
func NewRandomRBF(cfg RBFConfig, seed int64) *RandomRBF {
	if cfg.NumFeatures < 1 {
		cfg.NumFeatures = 1
	}
	if cfg.NumCentroids < 1 {
		cfg.NumCentroids = 1
	}
	if cfg.NumClasses < 2 {
		cfg.NumClasses = 2
	}
	r := &RandomRBF{cfg: cfg, seed: seed}
	r.Restart()
	return r
}

// Next generates the next instance.
func (r *RandomRBF) Next() Instance {
	pick := r.rng.Float64() * r.totalWeight
	var chosen centroid
	for _, c := range r.centroids {
		pick -= c.weight
		chosen = c
		if pick <= 0 {
			break
		}
	}

	features := make([]float64, r.cfg.NumFeatures)
	for i := range features {
		features[i] = chosen.center[i] + r.rng.NormFloat64()*chosen.stddev
	}
	return Instance{Features: features, Class: chosen.class}
}

// HasMore always reports true: the generator is unbounded.
func (r *RandomRBF) HasMore() bool { return true }

// Restart resets the generator, rebuilding the same centroid model for a
// deterministic seed.
func (r *RandomRBF) Restart() {
	r.rng = rand.New(rand.NewSource(r.seed))
	r.centroids = make([]centroid, r.cfg.NumCentroids)
	r.totalWeight = 0
	for i := range r.centroids {
		center := make([]float64, r.cfg.NumFeatures)
		for j := range center {
			center[j] = r.rng.Float64()
		}
		w := r.rng.Float64()
		r.centroids[i] = centroid{
			center: center,
			class:  r.rng.Intn(r.cfg.NumClasses),
			stddev: 0.05 + 0.05*r.rng.Float64(),
			weight: w,
		}
		r.totalWeight += w
	}
}

// NumClasses returns the configured class count.
func (r *RandomRBF) NumClasses() int { return r.cfg.NumClasses }
