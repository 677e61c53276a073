package report

import (
	"encoding/json"
	"io"
)

// JSONReporter implements Reporter for JSON output.
type JSONReporter struct{}

type jsonOutput struct {
	Stats struct {
		Total    int `json:"total"`
		Errors   int `json:"errors"`
		Warnings int `json:"warnings"`
		Files    int `json:"files"`
	} `json:"stats"`
	Files []FileSummary `json:"files"`
}

func (jr *JSONReporter) Write(w io.Writer, s *Summary) error {
	out := jsonOutput{Files: s.Files}
	if out.Files == nil {
		out.Files = []FileSummary{}
	}
	out.Stats.Total = s.Total
	out.Stats.Errors = s.Count(SeverityError)
	out.Stats.Warnings = s.Count(SeverityWarning)
	out.Stats.Files = len(s.Files)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
