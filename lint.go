package cssconf

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Lint inspects a loaded config for problems the engine would not reject
// but that usually indicate a mistake. file is used only for labelling.
func Lint(file string, c *Config) []Diagnostic {
	var ds []Diagnostic
	add := func(sev Severity, path, msg string, args ...any) {
		ds = append(ds, Diagnostic{
			Source:   SourceLint,
			Severity: sev,
			File:     file,
			Path:     path,
			Message:  fmt.Sprintf(msg, args...),
		})
	}

	if c.Degenerate() {
		add(SeverityWarning, "content", "no content globs: only base styles and safelisted classes will be generated")
	}

	seen := make(map[string]int, len(c.content))
	for i, glob := range c.content {
		path := fmt.Sprintf("content[%d]", i)
		pattern := strings.TrimPrefix(glob, "!")
		if strings.TrimSpace(pattern) == "" {
			add(SeverityError, path, "empty glob pattern")
			continue
		}
		if !doublestar.ValidatePattern(pattern) {
			add(SeverityError, path, "invalid glob pattern %q", glob)
		}
		if first, dup := seen[glob]; dup {
			add(SeverityInfo, path, "duplicate of content[%d]", first)
		} else {
			seen[glob] = i
		}
	}

	for _, name := range c.safelist.Sorted() {
		if msg := classNameProblem(name); msg != "" {
			add(SeverityWarning, "safelist", "%q %s", name, msg)
		}
		if c.blocklist.Has(name) {
			add(SeverityWarning, "safelist", "%q is also blocklisted", name)
		}
	}
	for _, name := range c.blocklist.Sorted() {
		if msg := classNameProblem(name); msg != "" {
			add(SeverityWarning, "blocklist", "%q %s", name, msg)
		}
	}

	SortDiagnostics(ds)
	return ds
}

// classNameProblem catches strings that can never be a utility class. The
// engine owns the real naming grammar; this only flags obvious typos such
// as a space-separated list pasted into a single entry.
func classNameProblem(name string) string {
	switch {
	case name == "":
		return "is empty"
	case strings.ContainsAny(name, " \t\n\r"):
		return "contains whitespace (list each class separately)"
	case strings.ContainsAny(name, `"'{};`):
		return "contains quote, brace or semicolon characters"
	case strings.HasPrefix(name, "."):
		return "starts with '.'; safelist entries are class names, not selectors"
	}
	return ""
}
