package orchestration

import (
	"strings"

	apperrors "github.com/streamml/aleval/internal/errors"
	"github.com/streamml/aleval/internal/learner"
)

// Candidate describes one parameter eligible for variation, as presented to
// configuration surfaces.
type Candidate struct {
	Name        string
	Description string
}

// BindingResolver resolves the name of the parameter to vary against a
// learner's parameter set, and maintains the candidate list shown to
// configuration surfaces. The candidate list is recomputed only when the
// learner's concrete type changes between refreshes; re-selecting the same
// learner type keeps the list (and any selection made from it) intact.
//
// A resolver belongs to one orchestrator instance. Creating a new
// orchestrator starts from a clean last-seen state.
type BindingResolver struct {
	lastLearnerType string
	candidates      []Candidate
	defaultIndex    int
}

// NewBindingResolver creates a resolver with no last-seen learner type.
func NewBindingResolver() *BindingResolver {
	return &BindingResolver{defaultIndex: -1}
}

// Resolve returns the named parameter of the learner, rejecting names that
// do not exist and parameters that are not numeric.
func (r *BindingResolver) Resolve(l learner.Learner, name string) (learner.Param, error) {
	p, ok := l.Params().Named(name)
	if !ok {
		return nil, apperrors.BindingError{Param: name, Message: "binding not found"}
	}
	if !learner.IsNumeric(p) {
		return nil, apperrors.BindingError{Param: name, Message: "only numerical parameters may be varied"}
	}
	return p, nil
}

// RefreshCandidates rebuilds the candidate list for the given learner if its
// concrete type differs from the last refresh, and returns the list, the
// index of the suggested default, and whether a recomputation happened.
//
// The default prefers a parameter named exactly "budget", then the first
// parameter whose name contains "budget", then the first candidate.
func (r *BindingResolver) RefreshCandidates(l learner.Learner) ([]Candidate, int, bool) {
	if r.lastLearnerType != "" && r.lastLearnerType == l.Name() {
		return r.candidates, r.defaultIndex, false
	}
	r.lastLearnerType = l.Name()

	r.candidates = nil
	exact, substr := -1, -1
	for _, p := range l.Params().All() {
		if !learner.IsNumeric(p) {
			continue
		}
		idx := len(r.candidates)
		r.candidates = append(r.candidates, Candidate{Name: p.Name(), Description: p.Description()})
		if p.Name() == "budget" && exact < 0 {
			exact = idx
		} else if strings.Contains(p.Name(), "budget") && substr < 0 {
			substr = idx
		}
	}

	switch {
	case exact >= 0:
		r.defaultIndex = exact
	case substr >= 0:
		r.defaultIndex = substr
	case len(r.candidates) > 0:
		r.defaultIndex = 0
	default:
		r.defaultIndex = -1
	}
	return r.candidates, r.defaultIndex, true
}
