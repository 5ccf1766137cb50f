package format

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/js"
)

// jsScope holds the top-level bindings a config file may refer to:
// const x = require("m"), import x from "m", const config = {...}.
type jsScope map[string]js.IExpr

// DecodeJS evaluates the static part of a CommonJS or ES module config file.
// The exported value is taken from `module.exports = ...` or
// `export default ...`. Only literals, object/array literals, references to
// top-level constants and require() calls are accepted; anything else is a
// SyntaxError naming the offending key path.
func DecodeJS(data []byte) (map[string]any, error) {
	ast, err := js.Parse(parse.NewInputBytes(data), js.Options{})
	if err != nil {
		var perr *parse.Error
		if errors.As(err, &perr) {
			return nil, &SyntaxError{Line: perr.Line, Column: perr.Column, Msg: perr.Message}
		}
		return nil, &SyntaxError{Msg: err.Error()}
	}

	scope := jsScope{}
	var exported js.IExpr
	for _, stmt := range ast.BlockStmt.List {
		switch s := stmt.(type) {
		case *js.VarDecl:
			for _, el := range s.List {
				if v, ok := el.Binding.(*js.Var); ok && el.Default != nil {
					scope[string(v.Data)] = el.Default
				}
			}
		case *js.ImportStmt:
			if len(s.Default) > 0 {
				scope[string(s.Default)] = &js.CallExpr{
					X:    &js.Var{Data: []byte("require")},
					Args: js.Args{List: []js.Arg{{Value: &js.LiteralExpr{TokenType: js.StringToken, Data: quoteModule(s.Module)}}}},
				}
			}
		case *js.ExprStmt:
			if bin, ok := s.Value.(*js.BinaryExpr); ok && bin.Op == js.EqToken && isModuleExports(bin.X) {
				exported = bin.Y
			}
		case *js.ExportStmt:
			if s.Default && s.Decl != nil {
				exported = s.Decl
			}
		}
	}
	if exported == nil {
		return nil, &SyntaxError{Msg: "no module.exports or export default found"}
	}

	val, err := scope.eval(exported, "", 0)
	if err != nil {
		return nil, err
	}
	obj, ok := val.(map[string]any)
	if !ok {
		return nil, &SyntaxError{Msg: "exported value must be an object"}
	}
	return obj, nil
}

func isModuleExports(e js.IExpr) bool {
	dot, ok := e.(*js.DotExpr)
	if !ok {
		return false
	}
	v, ok := dot.X.(*js.Var)
	if !ok || string(v.Data) != "module" {
		return false
	}
	y, ok := dot.Y.(js.LiteralExpr)
	return ok && string(y.Data) == "exports"
}

// quoteModule makes an import specifier look like a string literal token.
func quoteModule(m []byte) []byte {
	if len(m) > 0 && (m[0] == '"' || m[0] == '\'') {
		return m
	}
	return []byte(strconv.Quote(string(m)))
}

// maxJSDepth bounds reference chasing through top-level constants.
const maxJSDepth = 32

func (s jsScope) eval(e js.IExpr, path string, depth int) (any, error) {
	if depth > maxJSDepth {
		return nil, &SyntaxError{Path: pathOrRoot(path), Msg: "references nest too deeply"}
	}

	switch n := e.(type) {
	case *js.LiteralExpr:
		return literal(n, path)

	case *js.GroupExpr:
		return s.eval(n.X, path, depth)

	case *js.UnaryExpr:
		if n.Op == js.NegToken {
			if lit, ok := n.X.(*js.LiteralExpr); ok {
				v, err := literal(lit, path)
				if f, isNum := v.(float64); err == nil && isNum {
					return -f, nil
				}
			}
		}

	case *js.ObjectExpr:
		out := make(map[string]any, len(n.List))
		for _, prop := range n.List {
			var key string
			switch {
			case prop.Spread || (prop.Name != nil && prop.Name.Computed != nil):
				return nil, &SyntaxError{Path: pathOrRoot(path), Msg: "spread and computed properties are not supported"}
			case prop.Name == nil:
				// shorthand { brand }
				v, ok := prop.Value.(*js.Var)
				if !ok {
					return nil, &SyntaxError{Path: pathOrRoot(path), Msg: "unsupported property"}
				}
				key = string(v.Data)
			default:
				key = propertyKey(prop.Name.Literal)
			}
			val, err := s.eval(prop.Value, joinPath(path, key), depth)
			if err != nil {
				return nil, err
			}
			out[key] = val
		}
		return out, nil

	case *js.ArrayExpr:
		out := make([]any, 0, len(n.List))
		for i, el := range n.List {
			elemPath := fmt.Sprintf("%s[%d]", path, i)
			if el.Spread || el.Value == nil {
				return nil, &SyntaxError{Path: elemPath, Msg: "spread and holes are not supported"}
			}
			val, err := s.eval(el.Value, elemPath, depth)
			if err != nil {
				return nil, err
			}
			out = append(out, val)
		}
		return out, nil

	case *js.Var:
		if ref, ok := s[string(n.Data)]; ok {
			return s.eval(ref, path, depth+1)
		}
		return nil, &SyntaxError{Path: pathOrRoot(path), Msg: fmt.Sprintf("%s is not a static value", n.Data)}

	case *js.CallExpr:
		return s.call(n, path, depth)
	}

	return nil, &SyntaxError{Path: pathOrRoot(path), Msg: fmt.Sprintf("unsupported expression %s", e.String())}
}

// call handles require("m") and require("m")(options).
func (s jsScope) call(n *js.CallExpr, path string, depth int) (any, error) {
	if module, ok := requireModule(n); ok {
		return Require{Module: module}, nil
	}

	inner, ok := n.X.(*js.CallExpr)
	if ok {
		if module, isReq := requireModule(inner); isReq {
			req := Require{Module: module, HasOptions: true}
			if len(n.Args.List) > 1 {
				return nil, &SyntaxError{Path: pathOrRoot(path), Msg: "plugin accepts a single options argument"}
			}
			if len(n.Args.List) == 1 {
				opts, err := s.eval(n.Args.List[0].Value, path, depth)
				if err != nil {
					return nil, err
				}
				m, isMap := opts.(map[string]any)
				if !isMap {
					return nil, &SyntaxError{Path: pathOrRoot(path), Msg: "plugin options must be an object"}
				}
				req.Options = m
			}
			return req, nil
		}
	}

	// A bare reference to an imported plugin, invoked with options.
	if v, isVar := n.X.(*js.Var); isVar {
		if ref, found := s[string(v.Data)]; found {
			if call, isCall := ref.(*js.CallExpr); isCall {
				rewritten := &js.CallExpr{X: call, Args: n.Args}
				return s.call(rewritten, path, depth+1)
			}
		}
	}

	return nil, &SyntaxError{Path: pathOrRoot(path), Msg: fmt.Sprintf("unsupported call %s", n.String())}
}

func requireModule(n *js.CallExpr) (string, bool) {
	v, ok := n.X.(*js.Var)
	if !ok || string(v.Data) != "require" || len(n.Args.List) != 1 {
		return "", false
	}
	lit, ok := n.Args.List[0].Value.(*js.LiteralExpr)
	if !ok || lit.TokenType != js.StringToken {
		return "", false
	}
	module, err := unquoteJS(lit.Data)
	if err != nil {
		return "", false
	}
	return module, true
}

func literal(n *js.LiteralExpr, path string) (any, error) {
	switch n.TokenType {
	case js.StringToken:
		s, err := unquoteJS(n.Data)
		if err != nil {
			return nil, &SyntaxError{Path: pathOrRoot(path), Msg: err.Error()}
		}
		return s, nil
	case js.TrueToken:
		return true, nil
	case js.FalseToken:
		return false, nil
	case js.NullToken:
		return nil, nil
	case js.IntegerToken, js.DecimalToken, js.HexadecimalToken, js.OctalToken, js.BinaryToken:
		f, err := parseJSNumber(string(n.Data))
		if err != nil {
			return nil, &SyntaxError{Path: pathOrRoot(path), Msg: err.Error()}
		}
		return f, nil
	}
	return nil, &SyntaxError{Path: pathOrRoot(path), Msg: fmt.Sprintf("unsupported literal %s", n.Data)}
}

func parseJSNumber(s string) (float64, error) {
	if strings.HasSuffix(s, "n") {
		return 0, fmt.Errorf("bigint literal %s is not supported", s)
	}
	s = strings.ReplaceAll(s, "_", "")
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "0x") || strings.HasPrefix(lower, "0o") || strings.HasPrefix(lower, "0b") {
		i, err := strconv.ParseInt(s, 0, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid number %s", s)
		}
		return float64(i), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %s", s)
	}
	return f, nil
}

func propertyKey(lit js.LiteralExpr) string {
	if lit.TokenType == js.StringToken {
		if s, err := unquoteJS(lit.Data); err == nil {
			return s
		}
	}
	return string(lit.Data)
}

// unquoteJS decodes a single- or double-quoted JavaScript string literal.
func unquoteJS(b []byte) (string, error) {
	if len(b) < 2 || (b[0] != '"' && b[0] != '\'') || b[len(b)-1] != b[0] {
		return "", fmt.Errorf("malformed string literal %s", b)
	}
	body := b[1 : len(b)-1]
	if bytes.IndexByte(body, '\\') < 0 {
		return string(body), nil
	}

	var sb strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			sb.WriteByte(c)
			continue
		}
		if i+1 == len(body) {
			return "", fmt.Errorf("unterminated escape in %s", b)
		}
		i++
		switch body[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'v':
			sb.WriteByte('\v')
		case '0':
			sb.WriteByte(0)
		case '\n':
			// line continuation
		case '\r':
			if i+1 < len(body) && body[i+1] == '\n' {
				i++
			}
		case 'x':
			r, n, err := hexEscape(body[i+1:], 2)
			if err != nil {
				return "", fmt.Errorf("invalid \\x escape in %s: %w", b, err)
			}
			sb.WriteRune(r)
			i += n
		case 'u':
			r, n, err := unicodeEscape(body[i+1:])
			if err != nil {
				return "", fmt.Errorf("invalid \\u escape in %s: %w", b, err)
			}
			i += n
			if utf16.IsSurrogate(r) {
				rest := body[i+1:]
				if len(rest) < 2 || rest[0] != '\\' || rest[1] != 'u' {
					return "", fmt.Errorf("unpaired surrogate \\u%04X in %s", r, b)
				}
				lo, m, err := unicodeEscape(rest[2:])
				if err != nil {
					return "", fmt.Errorf("invalid \\u escape in %s: %w", b, err)
				}
				r = utf16.DecodeRune(r, lo)
				if r == utf8.RuneError {
					return "", fmt.Errorf("unpaired surrogate in %s", b)
				}
				i += 2 + m
			}
			sb.WriteRune(r)
		default:
			sb.WriteByte(body[i])
		}
	}
	return sb.String(), nil
}

// unicodeEscape reads the part of a \u escape after the u: four hex digits
// or a braced code point. It returns the rune and the bytes consumed.
func unicodeEscape(s []byte) (rune, int, error) {
	if len(s) > 0 && s[0] == '{' {
		end := bytes.IndexByte(s, '}')
		if end < 2 || end > 7 {
			return 0, 0, errors.New("expected 1 to 6 hex digits in braces")
		}
		r, _, err := hexEscape(s[1:end], end-1)
		if err != nil {
			return 0, 0, err
		}
		if r > utf8.MaxRune {
			return 0, 0, fmt.Errorf("code point %X out of range", r)
		}
		return r, end + 1, nil
	}
	return hexEscape(s, 4)
}

func hexEscape(s []byte, digits int) (rune, int, error) {
	if len(s) < digits {
		return 0, 0, fmt.Errorf("expected %d hex digits", digits)
	}
	v, err := strconv.ParseUint(string(s[:digits]), 16, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("expected %d hex digits", digits)
	}
	return rune(v), digits, nil
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func pathOrRoot(path string) string {
	if path == "" {
		return "(root)"
	}
	return path
}

var jsIdent = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// EncodeJS writes doc as a CommonJS module. Require values are written as
// require() calls; everything else as object and array literals.
func EncodeJS(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("/** @type {import('tailwindcss').Config} */\n")
	buf.WriteString("module.exports = {\n")
	for _, f := range doc {
		buf.WriteString("  ")
		writeJSKey(&buf, f.Key)
		buf.WriteString(": ")
		if err := writeJSValue(&buf, f.Value, 1); err != nil {
			return nil, fmt.Errorf("encoding %s: %w", f.Key, err)
		}
		buf.WriteString(",\n")
	}
	buf.WriteString("};\n")
	return buf.Bytes(), nil
}

func writeJSKey(buf *bytes.Buffer, key string) {
	if jsIdent.MatchString(key) {
		buf.WriteString(key)
		return
	}
	writeJSString(buf, key)
}

func writeJSString(buf *bytes.Buffer, s string) {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "�")
	}
	b, _ := json.Marshal(s)
	buf.Write(b)
}

func writeJSValue(buf *bytes.Buffer, v any, depth int) error {
	indent := strings.Repeat("  ", depth)
	switch t := v.(type) {
	case nil:
		buf.WriteString("null")
	case string:
		writeJSString(buf, t)
	case bool:
		buf.WriteString(strconv.FormatBool(t))
	case float64:
		buf.WriteString(strconv.FormatFloat(t, 'g', -1, 64))
	case int:
		buf.WriteString(strconv.Itoa(t))
	case Require:
		buf.WriteString("require(")
		writeJSString(buf, t.Module)
		buf.WriteString(")")
		if t.HasOptions {
			buf.WriteString("(")
			opts := t.Options
			if opts == nil {
				opts = map[string]any{}
			}
			if err := writeJSValue(buf, opts, depth); err != nil {
				return err
			}
			buf.WriteString(")")
		}
	case []string:
		items := make([]any, len(t))
		for i, s := range t {
			items[i] = s
		}
		return writeJSValue(buf, items, depth)
	case []any:
		if len(t) == 0 {
			buf.WriteString("[]")
			return nil
		}
		buf.WriteString("[\n")
		for _, e := range t {
			buf.WriteString(indent + "  ")
			if err := writeJSValue(buf, e, depth+1); err != nil {
				return err
			}
			buf.WriteString(",\n")
		}
		buf.WriteString(indent + "]")
	case map[string]any:
		if len(t) == 0 {
			buf.WriteString("{}")
			return nil
		}
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf.WriteString("{\n")
		for _, k := range keys {
			buf.WriteString(indent + "  ")
			writeJSKey(buf, k)
			buf.WriteString(": ")
			if err := writeJSValue(buf, t[k], depth+1); err != nil {
				return err
			}
			buf.WriteString(",\n")
		}
		buf.WriteString(indent + "}")
	default:
		return fmt.Errorf("unsupported value type %T", v)
	}
	return nil
}
