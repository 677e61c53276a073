// Package report summarises the violations vsg writes with -js.
package report

import (
	"io"
	"os"
	"sort"

	"github.com/tidwall/gjson"
)

// Severity names used by vsg.
const (
	SeverityError   = "Error"
	SeverityWarning = "Warning"
)

// Violation is a single rule violation reported by vsg.
type Violation struct {
	Rule     string `json:"rule"`
	Severity string `json:"severity"`
	Line     int    `json:"line"`
	Solution string `json:"solution,omitempty"`
}

// FileSummary holds the violations found in one file.
type FileSummary struct {
	Path       string         `json:"path"`
	Total      int            `json:"total"`
	BySeverity map[string]int `json:"bySeverity"`
	Violations []Violation    `json:"violations"`
}

// Summary is the parsed content of a vsg JSON report.
type Summary struct {
	Files []FileSummary `json:"files"`
	Total int           `json:"total"`
}

// Reporter writes a Summary in some output format.
type Reporter interface {
	Write(w io.Writer, s *Summary) error
}

// Load reads and parses the vsg JSON report at path. Errors from reading the
// file are returned unwrapped, so callers can test for fs.ErrNotExist.
func Load(path string) (*Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data)
	if err != nil {
		return nil, &InvalidReportError{Path: path}
	}
	return s, nil
}

// Parse converts vsg JSON report bytes into a Summary. Both the older report
// layout, where severity is a plain string, and the newer one, where it is an
// object with a name, are accepted.
func Parse(data []byte) (*Summary, error) {
	if !gjson.ValidBytes(data) {
		return nil, &InvalidReportError{}
	}

	s := &Summary{Files: []FileSummary{}}
	gjson.GetBytes(data, "files").ForEach(func(_, file gjson.Result) bool {
		sum := FileSummary{
			Path:       file.Get("file_path").String(),
			BySeverity: map[string]int{},
			Violations: []Violation{},
		}
		file.Get("violations").ForEach(func(_, v gjson.Result) bool {
			violation := Violation{
				Rule:     v.Get("rule").String(),
				Severity: severityOf(v.Get("severity")),
				Line:     int(v.Get("linenumber").Int()),
				Solution: v.Get("solution").String(),
			}
			sum.Violations = append(sum.Violations, violation)
			sum.BySeverity[violation.Severity]++
			sum.Total++
			return true
		})
		sort.SliceStable(sum.Violations, func(i, j int) bool {
			return sum.Violations[i].Line < sum.Violations[j].Line
		})
		s.Files = append(s.Files, sum)
		s.Total += sum.Total
		return true
	})

	return s, nil
}

func severityOf(r gjson.Result) string {
	name := r.String()
	if r.IsObject() {
		name = r.Get("name").String()
	}
	if name == "" {
		return SeverityError
	}
	return name
}

// Count returns the number of violations of the given severity across all files.
func (s *Summary) Count(severity string) int {
	n := 0
	for _, f := range s.Files {
		n += f.BySeverity[severity]
	}
	return n
}
