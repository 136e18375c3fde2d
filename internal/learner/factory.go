package learner

import (
	"fmt"
	"sort"
)

// Factory resolves learner implementations by name.
type Factory struct {
	builders map[string]func() Learner
}

// NewDefaultFactory creates a factory with all built-in learners registered.
func NewDefaultFactory() *Factory {
	f := &Factory{builders: make(map[string]func() Learner)}
	f.Register("uncertainty", func() Learner { return NewVariableUncertainty() })
	f.Register("density", func() Learner { return NewDensityUncertainty() })
	return f
}

// Register adds a named learner builder, overwriting any previous entry.
func (f *Factory) Register(name string, b func() Learner) {
	f.builders[name] = b
}

// List returns the registered learner names in sorted order.
func (f *Factory) List() []string {
	names := make([]string, 0, len(f.builders))
	for name := range f.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get builds a fresh instance of the named learner.
//
// Returns:
//   - Learner: The constructed learner.
//   - error: Non-nil if no learner with that name is registered.
func (f *Factory) Get(name string) (Learner, error) {
	b, ok := f.builders[name]
	if !ok {
		return nil, fmt.Errorf("unknown learner %q (available: %v)", name, f.List())
	}
	return b(), nil
}
