package evaluation

import (
	"fmt"
	"strings"
)

// ResultCollection is the composite result of a multi-variant run: one
// ordered slot per variant, each holding the latest learning-curve snapshot
// received from that variant's run. Slots start empty; once populated they
// are only ever replaced with newer snapshots, never cleared.
//
// The collection has a single writer (the orchestrator's aggregation loop)
// and is handed to other goroutines only as a deep Copy.
type ResultCollection struct {
	name  string
	runID string
	names []string
	slots []*LearningCurve
}

// NewResultCollection creates a collection with one empty slot per entry
// name. Entry order is the variant order and is fixed for the collection's
// lifetime.
func NewResultCollection(name, runID string, entryNames []string) *ResultCollection {
	return &ResultCollection{
		name:  name,
		runID: runID,
		names: append([]string(nil), entryNames...),
		slots: make([]*LearningCurve, len(entryNames)),
	}
}

// Name returns the collection's name.
func (rc *ResultCollection) Name() string { return rc.name }

// RunID returns the identifier of the run that produced this collection.
func (rc *ResultCollection) RunID() string { return rc.runID }

// NumSlots returns the total number of variant slots.
func (rc *ResultCollection) NumSlots() int { return len(rc.slots) }

// NumEntries returns the number of slots populated so far.
func (rc *ResultCollection) NumEntries() int {
	n := 0
	for _, s := range rc.slots {
		if s != nil {
			n++
		}
	}
	return n
}

// EntryName returns the name of slot i (e.g., "budget=0.5").
func (rc *ResultCollection) EntryName(i int) string { return rc.names[i] }

// Set stores the latest curve snapshot for slot i, replacing any previous
// snapshot. A nil curve is rejected: a populated slot never becomes empty.
func (rc *ResultCollection) Set(i int, curve *LearningCurve) error {
	if i < 0 || i >= len(rc.slots) {
		return fmt.Errorf("result collection: slot %d out of range [0, %d)", i, len(rc.slots))
	}
	if curve == nil {
		return fmt.Errorf("result collection: nil curve for slot %d", i)
	}
	rc.slots[i] = curve
	return nil
}

// Curve returns the curve in slot i, or nil if the slot is unpopulated.
func (rc *ResultCollection) Curve(i int) *LearningCurve { return rc.slots[i] }

// Copy returns a deep copy. Subsequent Set calls on the original cannot
// alter the copy or any curve it holds.
func (rc *ResultCollection) Copy() *ResultCollection {
	cp := NewResultCollection(rc.name, rc.runID, rc.names)
	for i, s := range rc.slots {
		if s != nil {
			cp.slots[i] = s.Copy()
		}
	}
	return cp
}

// String renders every populated slot's curve, prefixed by its entry name.
func (rc *ResultCollection) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%d/%d entries)", rc.name, rc.NumEntries(), rc.NumSlots())
	for i, s := range rc.slots {
		fmt.Fprintf(&sb, "\n== %s ==\n", rc.names[i])
		if s == nil {
			sb.WriteString("(pending)")
			continue
		}
		sb.WriteString(s.String())
	}
	return sb.String()
}
