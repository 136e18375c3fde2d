package format

import (
	"fmt"
	"strings"
)

// IndeterminateFraction is the sentinel completion value meaning "progress
// cannot currently be expressed as a fraction" (e.g., right after a
// structural change to the composite result, or when a task has no
// instance limit to measure against).
const IndeterminateFraction = -1.0

// ProgressBar renders a textual progress bar of the given width for a
// fraction in [0, 1]. An indeterminate fraction renders as a bar of dashes.
//
// Parameters:
//   - fraction: The completion fraction, or IndeterminateFraction.
//   - width: The bar width in characters (minimum 1).
//
// Returns:
//   - string: The rendered bar, e.g. "[=====>    ] 50.0%".
func ProgressBar(fraction float64, width int) string {
	if width < 1 {
		width = 1
	}
	if fraction == IndeterminateFraction {
		return fmt.Sprintf("[%s]  ?%%", strings.Repeat("-", width))
	}
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	filled := int(fraction * float64(width))
	var bar string
	switch {
	case filled >= width:
		bar = strings.Repeat("=", width)
	case filled > 0:
		bar = strings.Repeat("=", filled-1) + ">" + strings.Repeat(" ", width-filled)
		if filled == 1 {
			bar = ">" + strings.Repeat(" ", width-1)
		}
	default:
		bar = strings.Repeat(" ", width)
	}
	return fmt.Sprintf("[%s] %5.1f%%", bar, fraction*100)
}

// FormatFraction renders a completion fraction as a percentage string, with
// the indeterminate sentinel rendered as a question mark.
func FormatFraction(fraction float64) string {
	if fraction == IndeterminateFraction {
		return "?"
	}
	return fmt.Sprintf("%.1f%%", fraction*100)
}
