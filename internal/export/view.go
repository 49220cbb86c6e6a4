package export

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"connectvision/internal/aggregate"
	"connectvision/internal/domain"
)

// RenderSummary renders the live activity view: categories ascending with a
// trailing Total row. Pure function of the summary, so re-rendering an
// unchanged summary yields byte-identical output.
func RenderSummary(s aggregate.Summary) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "Activity\tHC\tHighest Duration\tAgent")
	for _, name := range s.Categories() {
		e := s.PerCategory[name]
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", name, e.Count, e.MaxDurationText, e.HolderIdentity)
	}
	fmt.Fprintf(w, "Total\t%d\t-\t-\n", s.TotalCount)
	w.Flush()
	return b.String()
}

// RenderViolations renders the out-of-schedule view in first-seen order.
func RenderViolations(violations []domain.Violation) string {
	if len(violations) == 0 {
		return "No out-of-slot breaks detected\n"
	}
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "Login\tManager\tActivity\tDuration\tBreak (10 Mins)\tBreak (20 Mins)\tBreak (30 Mins)")
	for _, v := range violations {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			strings.ToUpper(v.Identity), v.Manager, capitalize(v.Category), v.DurationText,
			v.RawLabels[0], v.RawLabels[1], v.RawLabels[2])
	}
	fmt.Fprintf(w, "Total: %d agents\n", len(violations))
	w.Flush()
	return b.String()
}
