package cssconf

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// Reporter prints diagnostics and previews for humans.
type Reporter struct {
	w          io.Writer
	useColors  bool
	printLines bool
}

// NewReporter creates a reporter writing to w.
func NewReporter(w io.Writer, useColors, printLines bool) *Reporter {
	return &Reporter{w: w, useColors: useColors, printLines: printLines}
}

// ShouldUseColors determines if colors should be enabled
func ShouldUseColors(force bool) bool {
	// Explicit flag wins
	if force {
		return true
	}

	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	// Check for FORCE_COLOR environment variable (GitHub Actions, etc.)
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}

	if os.Getenv("GITHUB_ACTIONS") == "true" {
		return true
	}

	// Auto-detect TTY
	if fileInfo, err := os.Stdout.Stat(); err == nil && (fileInfo.Mode()&os.ModeCharDevice) != 0 {
		return true
	}

	return false
}

// UseColors returns whether colors are enabled
func (r *Reporter) UseColors() bool {
	return r.useColors
}

// PrintDiagnostics outputs diagnostics sorted by position.
func (r *Reporter) PrintDiagnostics(ds []Diagnostic) {
	sorted := append([]Diagnostic(nil), ds...)
	SortDiagnostics(sorted)
	for _, d := range sorted {
		r.printDiagnostic(d)
	}
}

// printDiagnostic formats one diagnostic:
//
//	file:line:col: severity: path: message (source)
func (r *Reporter) printDiagnostic(d Diagnostic) {
	location := d.File + ":"
	if d.Line > 0 {
		location += fmt.Sprintf("%d:", d.Line)
		if d.Column > 0 {
			location += fmt.Sprintf("%d:", d.Column)
		}
	}

	msg := d.Message
	if d.Path != "" {
		msg = d.Path + ": " + msg
	}

	fmt.Fprintf(r.w, "%s %s %s%s\n",
		render(styleLocation, location, r.useColors),
		r.severityLabel(d.Severity),
		msg,
		render(styleMuted, " ("+d.Source+")", r.useColors))

	if r.printLines && d.Text != "" {
		fmt.Fprintf(r.w, "\t%s\n", d.Text)
		caret := r.buildCaretIndicator(d.Text, d.Column)
		fmt.Fprintf(r.w, "\t%s\n", render(styleFor(SeverityWarning), caret, r.useColors))
	}
}

func (r *Reporter) severityLabel(s Severity) string {
	return render(styleFor(s), string(s)+":", r.useColors)
}

// buildCaretIndicator creates the "^" indicator aligned with the column,
// copying tabs from the source line so alignment survives tab expansion.
func (r *Reporter) buildCaretIndicator(sourceLine string, column int) string {
	if column <= 0 {
		return "^"
	}

	prefixLen := column - 1
	if prefixLen > len(sourceLine) {
		prefixLen = len(sourceLine)
	}

	var padding strings.Builder
	for _, ch := range sourceLine[:prefixLen] {
		if ch == '\t' {
			padding.WriteRune('\t')
		} else {
			padding.WriteRune(' ')
		}
	}

	return padding.String() + "^"
}

// PrintSummary outputs the diagnostic count summary
func (r *Reporter) PrintSummary(ds []Diagnostic) {
	errors := CountSeverity(ds, SeverityError)
	warnings := CountSeverity(ds, SeverityWarning)
	infos := CountSeverity(ds, SeverityInfo)

	if len(ds) == 0 {
		fmt.Fprintln(r.w, render(styleOK, "0 issues.", r.useColors))
		return
	}

	fmt.Fprintln(r.w, "")
	fmt.Fprintf(r.w, "%s (%s, %s, %s):\n",
		pluralizeCount(len(ds), "issue", "issues"),
		pluralizeCount(errors, "error", "errors"),
		pluralizeCount(warnings, "warning", "warnings"),
		pluralizeCount(infos, "note", "notes"))

	bySource := make(map[string]int)
	for _, d := range ds {
		bySource[d.Source]++
	}
	sources := make([]string, 0, len(bySource))
	for s := range bySource {
		sources = append(sources, s)
	}
	sort.Strings(sources)
	for _, s := range sources {
		fmt.Fprintf(r.w, "* %s: %d\n", s, bySource[s])
	}
}

// PrintConfigSummary outputs a one-screen overview of a loaded config.
func (r *Reporter) PrintConfigSummary(res *LoadResult) {
	c := res.Config
	fmt.Fprintln(r.w, render(styleLocation, res.File, r.useColors)+" "+render(styleMuted, "("+string(res.Format)+")", r.useColors))
	fmt.Fprintf(r.w, "  Content globs:    %d\n", len(c.content))
	fmt.Fprintf(r.w, "  Theme extensions: %d\n", len(c.themeExtend))
	if len(c.themeOverrides) > 0 {
		fmt.Fprintf(r.w, "  Theme overrides:  %d\n", len(c.themeOverrides))
	}
	fmt.Fprintf(r.w, "  Safelist:         %d\n", c.safelist.Len())
	if c.blocklist.Len() > 0 {
		fmt.Fprintf(r.w, "  Blocklist:        %d\n", c.blocklist.Len())
	}
	names := make([]string, 0, len(c.plugins))
	for _, p := range c.plugins {
		names = append(names, p.Name)
	}
	if len(names) == 0 {
		fmt.Fprintln(r.w, "  Plugins:          none")
	} else {
		fmt.Fprintf(r.w, "  Plugins:          %s\n", strings.Join(names, ", "))
	}
}

// PrintContent outputs the files selected by content globs.
func (r *Reporter) PrintContent(res *ContentResult) {
	for _, f := range res.Files {
		fmt.Fprintln(r.w, f)
	}

	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, render(styleLocation, "Content Patterns", r.useColors))
	fmt.Fprintln(r.w, "----------------")
	for _, p := range res.Patterns {
		line := fmt.Sprintf("  %-40s %s", p.Pattern, pluralizeCount(p.Matches, "file", "files"))
		if p.Matches == 0 && !p.Negated {
			line = render(styleFor(SeverityWarning), line+" (matches nothing)", r.useColors)
		}
		fmt.Fprintln(r.w, line)
	}
	fmt.Fprintf(r.w, "\nFiles discovered: %d, matched: %d, skipped: %d\n",
		res.Stats.FilesDiscovered, res.Stats.FilesMatched, res.Stats.FilesSkipped)
}

// pluralizeCount returns a formatted string with count and singular/plural form
func pluralizeCount(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}
