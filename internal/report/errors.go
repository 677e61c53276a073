package report

import "fmt"

// InvalidReportError is returned when a vsg report is not valid JSON.
type InvalidReportError struct {
	Path string
}

func (e *InvalidReportError) Error() string {
	if e.Path == "" {
		return "vsg report is not valid JSON"
	}
	return fmt.Sprintf("vsg report %s is not valid JSON", e.Path)
}
