package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// TextReporter implements Reporter for plain text output.
type TextReporter struct {
	Verbose   bool
	UseColour bool
}

const (
	colReset     = "\033[0m"
	colRed       = "\033[31m"
	colGreen     = "\033[32m"
	colYellow    = "\033[33m"
	colGrey      = "\033[90m"
	colWhite     = "\033[37m"
	colBoldRed   = "\033[1;31m"
	colBoldGreen = "\033[1;32m"
	colBoldWhite = "\033[1;37m"
)

// cs returns a string which will render with the given colour
// if colourisation is enabled.
func (tr *TextReporter) cs(c, s string) string {
	if !tr.UseColour {
		return s
	}
	return c + s + colReset
}

func (tr *TextReporter) Write(w io.Writer, s *Summary) error {
	divider := strings.Repeat("-", 40)

	fmt.Fprintf(w, "%s\n", divider)
	fmt.Fprint(w, tr.cs(colBoldWhite, "VSG VIOLATION REPORT\n"))
	fmt.Fprintf(w, "%s\n", divider)

	for _, f := range s.Files {
		status := tr.cs(colGreen, "[CLEAN]")
		if f.Total > 0 {
			status = tr.cs(colRed, "[VIOLATIONS]")
		}
		fmt.Fprintf(w, "%s %s %s\n", status, tr.cs(colWhite, f.Path), tr.cs(colGrey, tr.severityCounts(f)))

		if !tr.Verbose {
			continue
		}
		for _, v := range f.Violations {
			col := colRed
			if v.Severity != SeverityError {
				col = colYellow
			}
			fmt.Fprintf(w, "  %s %s %s\n",
				tr.cs(col, fmt.Sprintf("%5d", v.Line)),
				tr.cs(colGrey, v.Rule),
				v.Solution)
		}
	}

	fmt.Fprintf(w, "%s\n", divider)
	summaryLabel := tr.cs(colBoldWhite, "Violation summary: ")
	summaryStats := fmt.Sprintf("%d in %d file(s)", s.Total, len(s.Files))
	statsColor := colBoldGreen
	if s.Total > 0 {
		statsColor = colBoldRed
	}
	fmt.Fprintf(w, "%s%s\n", summaryLabel, tr.cs(statsColor, summaryStats))
	fmt.Fprintf(w, "%s\n", divider)

	return nil
}

func (tr *TextReporter) severityCounts(f FileSummary) string {
	names := make([]string, 0, len(f.BySeverity))
	for name := range f.BySeverity {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names)+1)
	parts = append(parts, fmt.Sprintf("total: %d", f.Total))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %d", strings.ToLower(name), f.BySeverity[name]))
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
