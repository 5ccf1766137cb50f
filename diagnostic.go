package cssconf

import (
	"bytes"
	"errors"
	"sort"
)

// Diagnostic is a single finding about a config file, in a shape shared by
// load errors, load warnings and lint results.
type Diagnostic struct {
	Source   string   `json:"source"`   // "load", "schema", "lint"
	Severity Severity `json:"severity"` // error, warning, info
	File     string   `json:"file"`
	Line     int      `json:"line,omitempty"`
	Column   int      `json:"column,omitempty"`
	Path     string   `json:"path,omitempty"` // "safelist[2]"
	Message  string   `json:"message"`
	Text     string   `json:"text,omitempty"` // source line at Line
}

// Severity orders diagnostics by how much they matter to a build.
type Severity string

// Diagnostic severities
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Diagnostic sources
const (
	SourceLoad   = "load"
	SourceSchema = "schema"
	SourceLint   = "lint"
)

// DiagnosticFromError converts a load failure into a Diagnostic.
func DiagnosticFromError(file string, err error) Diagnostic {
	var le *LoadError
	if errors.As(err, &le) {
		return Diagnostic{
			Source: SourceLoad, Severity: SeverityError,
			File: le.File, Line: le.Line, Column: le.Column, Path: le.Path,
			Message: cause(le.Err),
		}
	}
	var se *SchemaError
	if errors.As(err, &se) {
		d := Diagnostic{Source: SourceSchema, Severity: SeverityError, File: se.File, Path: se.Path}
		if se.Msg != "" {
			d.Message = se.Msg
		} else {
			d.Message = "expected " + se.Expected + ", got " + se.Got
		}
		if d.File == "" {
			d.File = file
		}
		return d
	}
	return Diagnostic{Source: SourceLoad, Severity: SeverityError, File: file, Message: err.Error()}
}

// DiagnosticFromWarning converts a load warning into a Diagnostic.
func DiagnosticFromWarning(w Warning) Diagnostic {
	return Diagnostic{
		Source:   SourceSchema,
		Severity: SeverityWarning,
		File:     w.File,
		Path:     w.Path,
		Message:  w.Message,
	}
}

// SortDiagnostics orders by file, line, column, then path.
func SortDiagnostics(ds []Diagnostic) {
	sort.SliceStable(ds, func(i, j int) bool {
		a, b := ds[i], ds[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return a.Path < b.Path
	})
}

// CountSeverity returns how many diagnostics have the given severity.
func CountSeverity(ds []Diagnostic, s Severity) int {
	n := 0
	for _, d := range ds {
		if d.Severity == s {
			n++
		}
	}
	return n
}

// AttachSourceLines fills Text for diagnostics that carry a line number,
// using data as the content of their file.
func AttachSourceLines(ds []Diagnostic, data []byte) {
	lines := bytes.Split(data, []byte("\n"))
	for i := range ds {
		if n := ds[i].Line; n > 0 && n <= len(lines) {
			ds[i].Text = string(bytes.TrimRight(lines[n-1], "\r"))
		}
	}
}
