package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/streamml/aleval/internal/evaluation"
	"github.com/streamml/aleval/internal/format"
	"github.com/streamml/aleval/internal/orchestration"
)

var (
	headerStyle  = lipgloss.NewStyle().Underline(true)
	variantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	defaultMark  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
)

// PresentSummaryTable displays one row per variant: sample count, final
// accuracy and final label spend. Unpopulated slots render as pending.
// Cells are padded before styling so ANSI codes do not break alignment.
func PresentSummaryTable(store *evaluation.ResultCollection, elapsed time.Duration, out io.Writer) {
	fmt.Fprintf(out, "\n--- Evaluation Summary (run %s) ---\n", store.RunID())

	nameWidth := len("Variant")
	for i := 0; i < store.NumSlots(); i++ {
		if n := len(store.EntryName(i)); n > nameWidth {
			nameWidth = n
		}
	}

	fmt.Fprintf(out, "%s   %s   %s   %s\n",
		headerStyle.Render(pad("Variant", nameWidth)),
		headerStyle.Render("Samples"),
		headerStyle.Render("Accuracy"),
		headerStyle.Render("Label spend"))

	for i := 0; i < store.NumSlots(); i++ {
		name := variantStyle.Render(pad(store.EntryName(i), nameWidth))
		curve := store.Curve(i)
		if curve == nil || curve.NumEntries() == 0 {
			fmt.Fprintf(out, "%s   %s\n", name, pendingStyle.Render("(pending)"))
			continue
		}
		row := curve.LastRow()
		fmt.Fprintf(out, "%s   %s   %s   %s\n",
			name,
			pad(fmt.Sprintf("%d", curve.NumEntries()), len("Samples")),
			valueStyle.Render(pad(fmt.Sprintf("%.4f", row[1]), len("Accuracy"))),
			valueStyle.Render(fmt.Sprintf("%.4f", row[2])))
	}

	fmt.Fprintf(out, "\nTotal time: %s\n", format.FormatExecutionDuration(elapsed))
}

// PresentCurves writes every populated variant's full learning curve as a
// tab-separated table.
func PresentCurves(store *evaluation.ResultCollection, out io.Writer) {
	for i := 0; i < store.NumSlots(); i++ {
		curve := store.Curve(i)
		if curve == nil {
			continue
		}
		fmt.Fprintf(out, "\n== %s ==\n%s\n", store.EntryName(i), curve)
	}
}

// PresentCandidates lists the parameters of the selected learner that are
// eligible for variation, marking the suggested default.
func PresentCandidates(learnerName string, candidates []orchestration.Candidate, defaultIndex int, out io.Writer) {
	fmt.Fprintf(out, "Variable parameters of learner %q:\n", learnerName)
	if len(candidates) == 0 {
		fmt.Fprintln(out, "  (none: the learner has no numeric parameters)")
		return
	}
	for i, c := range candidates {
		marker := "   "
		if i == defaultIndex {
			marker = defaultMark.Render(" * ")
		}
		fmt.Fprintf(out, "%s%s\t%s\n", marker, c.Name, c.Description)
	}
}

// pad right-pads s with spaces to the given width.
func pad(s string, width int) string {
	for len(s) < width {
		s += " "
	}
	return s
}
