package format

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/jsonc"
)

// DecodeJSON parses JSON extended with // and /* */ comments and trailing
// commas. The top-level value must be an object.
func DecodeJSON(data []byte) (map[string]any, error) {
	stripped := jsonc.ToJSON(data)

	var out any
	if err := json.Unmarshal(stripped, &out); err != nil {
		// jsonc.ToJSON preserves byte offsets, so they map back to data.
		var syn *json.SyntaxError
		if errors.As(err, &syn) {
			line, col := lineCol(data, int(syn.Offset))
			return nil, &SyntaxError{Line: line, Column: col, Msg: syn.Error()}
		}
		return nil, &SyntaxError{Msg: err.Error()}
	}

	obj, ok := out.(map[string]any)
	if !ok {
		return nil, &SyntaxError{Line: 1, Msg: "top-level value must be an object"}
	}
	return Normalize(obj).(map[string]any), nil
}

// EncodeJSON writes doc as indented JSON with keys in document order.
func EncodeJSON(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, f := range doc {
		key, _ := json.Marshal(f.Key)
		val, err := json.MarshalIndent(jsonValue(f.Value), "  ", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", f.Key, err)
		}
		buf.WriteString("  ")
		buf.Write(key)
		buf.WriteString(": ")
		buf.Write(val)
		if i < len(doc)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

// jsonValue replaces nil slices and maps with empty ones so they encode as
// [] and {} rather than null.
func jsonValue(v any) any {
	switch t := v.(type) {
	case []any:
		if t == nil {
			return []any{}
		}
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = jsonValue(e)
		}
		return out
	case []string:
		if t == nil {
			return []string{}
		}
	case map[string]any:
		if t == nil {
			return map[string]any{}
		}
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = jsonValue(e)
		}
		return out
	}
	return v
}
