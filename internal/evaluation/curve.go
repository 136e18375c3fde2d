// Package evaluation provides the measurement types produced by evaluation
// runs: per-run learning curves, the prequential evaluator computing them,
// and the ordered collection merging curves across variant runs.
package evaluation

import (
	"fmt"
	"strings"
)

// LearningCurve is an ordered series of measurement rows sampled over one
// evaluation run. Columns are fixed at construction; rows only grow.
type LearningCurve struct {
	name    string
	columns []string
	rows    [][]float64
}

// NewLearningCurve creates an empty curve with the given name and columns.
func NewLearningCurve(name string, columns ...string) *LearningCurve {
	return &LearningCurve{name: name, columns: columns}
}

// Name returns the curve's name (e.g., "budget=0.5").
func (c *LearningCurve) Name() string { return c.name }

// Columns returns the measurement column names.
func (c *LearningCurve) Columns() []string { return c.columns }

// NumEntries returns the number of sampled rows.
func (c *LearningCurve) NumEntries() int { return len(c.rows) }

// Append adds one measurement row. The value count must match the columns.
func (c *LearningCurve) Append(values ...float64) error {
	if len(values) != len(c.columns) {
		return fmt.Errorf("curve %q: got %d values for %d columns", c.name, len(values), len(c.columns))
	}
	row := make([]float64, len(values))
	copy(row, values)
	c.rows = append(c.rows, row)
	return nil
}

// Row returns a copy of the i-th measurement row.
func (c *LearningCurve) Row(i int) []float64 {
	row := make([]float64, len(c.rows[i]))
	copy(row, c.rows[i])
	return row
}

// LastRow returns a copy of the most recent row, or nil for an empty curve.
func (c *LearningCurve) LastRow() []float64 {
	if len(c.rows) == 0 {
		return nil
	}
	return c.Row(len(c.rows) - 1)
}

// Copy returns a deep copy of the curve. Later mutation of the original
// cannot alter the copy.
func (c *LearningCurve) Copy() *LearningCurve {
	cp := &LearningCurve{
		name:    c.name,
		columns: append([]string(nil), c.columns...),
		rows:    make([][]float64, len(c.rows)),
	}
	for i, row := range c.rows {
		cp.rows[i] = append([]float64(nil), row...)
	}
	return cp
}

// String renders the curve as a tab-separated table with a header line.
func (c *LearningCurve) String() string {
	var sb strings.Builder
	sb.WriteString(strings.Join(c.columns, "\t"))
	for _, row := range c.rows {
		sb.WriteByte('\n')
		for j, v := range row {
			if j > 0 {
				sb.WriteByte('\t')
			}
			fmt.Fprintf(&sb, "%.6g", v)
		}
	}
	return sb.String()
}
