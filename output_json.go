package cssconf

import (
	"encoding/json"
	"io"
	"sort"
	"time"
)

// JSONOutput represents the structured JSON export schema
type JSONOutput struct {
	Version     string       `json:"version"`
	Timestamp   string       `json:"timestamp"`
	File        string       `json:"file"`
	Valid       bool         `json:"valid"`
	Summary     JSONSummary  `json:"summary"`
	Config      *JSONConfig  `json:"config,omitempty"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// JSONSummary contains diagnostic counts
type JSONSummary struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Infos    int `json:"infos"`
}

// JSONConfig is an overview of the loaded descriptor
type JSONConfig struct {
	Format       string       `json:"format"`
	Content      []string     `json:"content"`
	Degenerate   bool         `json:"degenerate"`
	ThemeExtends []string     `json:"theme_extends"`
	Safelist     []string     `json:"safelist"`
	Plugins      []JSONPlugin `json:"plugins"`
}

// JSONPlugin is one plugin descriptor
type JSONPlugin struct {
	Name    string         `json:"name"`
	Options map[string]any `json:"options,omitempty"`
}

// WriteJSON writes the report as JSON
func WriteJSON(w io.Writer, report *Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildJSONOutput(report))
}

// buildJSONOutput converts a Report to JSONOutput
func buildJSONOutput(report *Report) JSONOutput {
	diagnostics := report.Diagnostics
	if diagnostics == nil {
		diagnostics = []Diagnostic{}
	}

	out := JSONOutput{
		Version:   "1.0",
		Timestamp: time.Now().Format(time.RFC3339),
		File:      report.File,
		Valid:     report.Result != nil,
		Summary: JSONSummary{
			Errors:   CountSeverity(diagnostics, SeverityError),
			Warnings: CountSeverity(diagnostics, SeverityWarning),
			Infos:    CountSeverity(diagnostics, SeverityInfo),
		},
		Diagnostics: diagnostics,
	}

	if report.Result != nil {
		c := report.Result.Config
		extends := make([]string, 0, len(c.themeExtend))
		for k := range c.themeExtend {
			extends = append(extends, k)
		}
		sort.Strings(extends)

		plugins := make([]JSONPlugin, len(c.plugins))
		for i, p := range c.plugins {
			plugins[i] = JSONPlugin{Name: p.Name, Options: p.Options}
		}

		out.Config = &JSONConfig{
			Format:       string(report.Result.Format),
			Content:      c.ContentGlobs(),
			Degenerate:   c.Degenerate(),
			ThemeExtends: extends,
			Safelist:     c.safelist.Sorted(),
			Plugins:      plugins,
		}
	}
	return out
}
