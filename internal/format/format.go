// Package format decodes and encodes build configuration files.
//
// Every decoder produces the same generic tree: map[string]any for objects,
// []any for arrays, string, float64, bool and nil for scalars. JavaScript
// require() calls decode to Require. Encoders take an ordered Document so
// that top-level keys come out in a stable, human-friendly order.
package format

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies a configuration file syntax.
type Format string

const (
	JS   Format = "js"
	JSON Format = "json"
	YAML Format = "yaml"
	HCL  Format = "hcl"
)

// All lists the supported formats in lookup order.
var All = []Format{JS, JSON, YAML, HCL}

// FromPath picks a format from the file extension.
func FromPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".js", ".cjs", ".mjs":
		return JS, true
	case ".json", ".jsonc":
		return JSON, true
	case ".yaml", ".yml":
		return YAML, true
	case ".hcl":
		return HCL, true
	}
	return "", false
}

// Parse converts a user-supplied name ("yml", "javascript") to a Format.
func Parse(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "js", "javascript", "cjs", "mjs":
		return JS, nil
	case "json", "jsonc":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	case "hcl":
		return HCL, nil
	}
	return "", fmt.Errorf("unknown format %q (want js|json|yaml|hcl)", name)
}

// Extension returns the canonical file extension, including the dot.
func (f Format) Extension() string {
	switch f {
	case YAML:
		return ".yaml"
	case JSON:
		return ".json"
	case HCL:
		return ".hcl"
	default:
		return ".js"
	}
}

// Require is a JavaScript require("module") call, optionally invoked with
// an options object: require("module")({...}).
type Require struct {
	Module     string
	Options    map[string]any
	HasOptions bool
}

// Field is one top-level key of a Document.
type Field struct {
	Key   string
	Value any
}

// Document is an ordered set of top-level keys.
type Document []Field

// SyntaxError reports a file that is not valid structured data.
// Line and Column are 1-based; zero means unknown.
type SyntaxError struct {
	Line   int
	Column int
	Path   string // set when the syntax is fine but a value is not static
	Msg    string
}

func (e *SyntaxError) Error() string {
	switch {
	case e.Path != "":
		return fmt.Sprintf("%s: %s", e.Path, e.Msg)
	case e.Line > 0 && e.Column > 0:
		return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Msg)
	case e.Line > 0:
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return e.Msg
}

// Decode parses data in the given format into a generic tree.
func Decode(f Format, filename string, data []byte) (map[string]any, error) {
	switch f {
	case JS:
		return DecodeJS(data)
	case JSON:
		return DecodeJSON(data)
	case YAML:
		return DecodeYAML(data)
	case HCL:
		return DecodeHCL(filename, data)
	}
	return nil, fmt.Errorf("unsupported format %q", f)
}

// Encode writes doc in the given format.
func Encode(f Format, doc Document) ([]byte, error) {
	switch f {
	case JS:
		return EncodeJS(doc)
	case JSON:
		return EncodeJSON(doc)
	case YAML:
		return EncodeYAML(doc)
	case HCL:
		return EncodeHCL(doc)
	}
	return nil, fmt.Errorf("unsupported format %q", f)
}

// Normalize rewrites a decoded value into the canonical generic shapes:
// every number becomes float64, every map map[string]any, every slice []any.
func Normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = Normalize(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = Normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = Normalize(val)
		}
		return out
	case []string:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = val
		}
		return out
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case int32:
		return float64(t)
	case uint64:
		return float64(t)
	case float32:
		return float64(t)
	case Require:
		if t.Options != nil {
			t.Options = Normalize(t.Options).(map[string]any)
		}
		return t
	}
	return v
}

// lineCol converts a byte offset into a 1-based line and column.
func lineCol(data []byte, offset int) (int, int) {
	if offset > len(data) {
		offset = len(data)
	}
	line, col := 1, 1
	for _, b := range data[:offset] {
		if b == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}
