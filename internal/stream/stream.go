// Package stream provides the data-stream abstraction consumed by
// evaluation tasks, along with synthetic, seedable instance generators.
package stream

import (
	"fmt"
	"sort"
)

// Instance is a single labeled example drawn from a stream.
type Instance struct {
	// Features is the numeric feature vector.
	Features []float64
	// Class is the true class label index.
	Class int
}

// Stream produces a sequence of labeled instances. Implementations are not
// safe for concurrent use; each evaluation task owns its own stream.
type Stream interface {
	// Next returns the next instance. Must only be called while HasMore
	// reports true.
	Next() Instance
	// HasMore reports whether another instance is available. Synthetic
	// generators are unbounded and always report true.
	HasMore() bool
	// Restart resets the stream to its initial state, replaying the same
	// sequence for a deterministic seed.
	Restart()
	// NumClasses returns the number of distinct class labels.
	NumClasses() int
}

// Builder constructs a Stream from a seed.
type Builder func(seed int64) Stream

// Factory resolves stream generators by name.
type Factory struct {
	builders map[string]Builder
}

// NewDefaultFactory creates a factory with all built-in generators registered.
func NewDefaultFactory() *Factory {
	f := &Factory{builders: make(map[string]Builder)}
	f.Register("hyperplane", func(seed int64) Stream { return NewHyperplane(DefaultHyperplaneConfig(), seed) })
	f.Register("rbf", func(seed int64) Stream { return NewRandomRBF(DefaultRBFConfig(), seed) })
	return f
}

// Register adds a named generator builder, overwriting any previous entry.
func (f *Factory) Register(name string, b Builder) {
	f.builders[name] = b
}

// List returns the registered generator names in sorted order.
func (f *Factory) List() []string {
	names := make([]string, 0, len(f.builders))
	for name := range f.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get builds the named stream with the given seed.
//
// Returns:
//   - Stream: The constructed stream.
//   - error: Non-nil if no generator with that name is registered.
func (f *Factory) Get(name string, seed int64) (Stream, error) {
	b, ok := f.builders[name]
	if !ok {
		return nil, fmt.Errorf("unknown stream generator %q (available: %v)", name, f.List())
	}
	return b(seed), nil
}
