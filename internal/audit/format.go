package audit

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// WriteTable writes findings as a human-readable table followed by a
// one-line summary.
func WriteTable(w io.Writer, result *Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintln(tw, "SEVERITY\tRULE\tCREATURE\tMESSAGE")
	_, _ = fmt.Fprintln(tw, "--------\t----\t--------\t-------")

	for _, f := range result.Findings {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t#%d %s\t%s\n",
			strings.ToUpper(f.Severity.String()),
			f.RuleID,
			f.CreatureID, f.Name,
			f.Message,
		)
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "Findings: %d total", len(result.Findings))

	parts := []string{}
	for _, sev := range []Severity{SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo} {
		if count, ok := result.Summary[sev.String()]; ok && count > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", count, sev.String()))
		}
	}

	if len(parts) > 0 {
		_, _ = fmt.Fprintf(w, " (%s)", strings.Join(parts, ", "))
	}

	_, _ = fmt.Fprintln(w)

	return nil
}
