package cssconf

import (
	"io"
)

// OutputFormat represents the check report format
type OutputFormat string

const (
	// OutputText prints diagnostics one per line (default)
	OutputText OutputFormat = "text"
	// OutputSummary prints the config overview and diagnostics
	OutputSummary OutputFormat = "summary"
	// OutputJSON exports structured data for tooling
	OutputJSON OutputFormat = "json"
)

// DetermineOutputFormat selects the output format from the flag value.
// Unknown values fall back to text.
func DetermineOutputFormat(formatFlag string) OutputFormat {
	switch formatFlag {
	case "summary", "full":
		return OutputSummary
	case "json":
		return OutputJSON
	}
	return OutputText
}

// Report is the outcome of checking one config file.
type Report struct {
	File        string
	Result      *LoadResult // nil when loading failed
	Diagnostics []Diagnostic
}

// Failed reports whether the config should fail a build. In strict mode
// warnings fail too.
func (r *Report) Failed(strict bool) bool {
	if r.Result == nil || CountSeverity(r.Diagnostics, SeverityError) > 0 {
		return true
	}
	return strict && CountSeverity(r.Diagnostics, SeverityWarning) > 0
}

// WriteReport writes the report in the specified format
func WriteReport(w io.Writer, report *Report, format OutputFormat, useColors bool) error {
	switch format {
	case OutputJSON:
		return WriteJSON(w, report)

	case OutputSummary:
		reporter := NewReporter(w, useColors, true)
		if report.Result != nil {
			reporter.PrintConfigSummary(report.Result)
		}
		reporter.PrintDiagnostics(report.Diagnostics)
		reporter.PrintSummary(report.Diagnostics)

	default:
		reporter := NewReporter(w, useColors, true)
		reporter.PrintDiagnostics(report.Diagnostics)
		reporter.PrintSummary(report.Diagnostics)
	}
	return nil
}
