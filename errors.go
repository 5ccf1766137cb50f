package cssconf

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yacobolo/cssconf/internal/format"
)

// ErrUnsupportedFormat is returned for config files whose extension maps to
// no known syntax.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// LoadError reports a file that could not be parsed as structured data.
// The build cannot proceed.
type LoadError struct {
	File   string
	Format format.Format
	Line   int    // 1-based, 0 if unknown
	Column int    // 1-based, 0 if unknown
	Path   string // key path when a value is not statically evaluable
	Err    error
}

func (e *LoadError) Error() string {
	var b strings.Builder
	b.WriteString(e.File)
	switch {
	case e.Line > 0 && e.Column > 0:
		fmt.Fprintf(&b, ":%d:%d", e.Line, e.Column)
	case e.Line > 0:
		fmt.Fprintf(&b, ":%d", e.Line)
	}
	b.WriteString(": ")
	if e.Path != "" {
		b.WriteString(e.Path)
		b.WriteString(": ")
	}
	b.WriteString(cause(e.Err))
	return b.String()
}

func (e *LoadError) Unwrap() error { return e.Err }

// cause strips the position prefix a format.SyntaxError would repeat.
func cause(err error) string {
	var se *format.SyntaxError
	if errors.As(err, &se) {
		return se.Msg
	}
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}

// SchemaError reports a recognised field holding a value of the wrong shape.
// Path identifies the field: "safelist[2]", "plugins[0].options.strategy".
type SchemaError struct {
	File     string
	Path     string
	Expected string // "array of strings"
	Got      string // "number"
	Msg      string // used instead of Expected/Got when set
}

func (e *SchemaError) Error() string {
	prefix := e.Path
	if e.File != "" {
		prefix = e.File + ": " + e.Path
	}
	if e.Msg != "" {
		return fmt.Sprintf("%s: %s", prefix, e.Msg)
	}
	return fmt.Sprintf("%s: expected %s, got %s", prefix, e.Expected, e.Got)
}

// WarningKind classifies a non-fatal load finding.
type WarningKind string

const (
	// WarnUnknownKey is an unrecognised key. The engine ignores it.
	WarnUnknownKey WarningKind = "unknown-key"
	// WarnDegenerate is a config that can only produce safelisted output.
	WarnDegenerate WarningKind = "degenerate"
	// WarnDuplicatePlugin is a plugin listed more than once.
	WarnDuplicatePlugin WarningKind = "duplicate-plugin"
	// WarnUnknownOption is a plugin option the registry does not know.
	WarnUnknownOption WarningKind = "unknown-option"
)

// Warning is a non-fatal finding attached to a successful load.
type Warning struct {
	File    string
	Path    string
	Kind    WarningKind
	Message string
}

func (w Warning) String() string {
	if w.File == "" {
		return fmt.Sprintf("%s: %s", w.Path, w.Message)
	}
	return fmt.Sprintf("%s: %s: %s", w.File, w.Path, w.Message)
}

// typeName describes a decoded value the way config authors think of it.
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case float64, int:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	case format.Require:
		return "require() call"
	}
	return fmt.Sprintf("%T", v)
}
