package format

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// DecodeHCL parses an HCL body. Attributes become keys; unlabeled blocks
// become nested objects, so both of these are accepted:
//
//	theme = { extend = {} }
//
//	theme {
//	  extend {}
//	}
//
// Expressions are evaluated without variables or functions.
func DecodeHCL(filename string, data []byte) (map[string]any, error) {
	file, diags := hclsyntax.ParseConfig(data, filename, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, hclError(diags)
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, &SyntaxError{Msg: "unexpected HCL body type"}
	}
	return bodyToMap(body, "")
}

func bodyToMap(body *hclsyntax.Body, prefix string) (map[string]any, error) {
	out := make(map[string]any, len(body.Attributes)+len(body.Blocks))
	for name, attr := range body.Attributes {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, hclError(diags)
		}
		native, err := ctyToNative(val)
		if err != nil {
			r := attr.SrcRange
			return nil, &SyntaxError{Line: r.Start.Line, Column: r.Start.Column, Path: prefix + name, Msg: err.Error()}
		}
		out[name] = native
	}
	for _, block := range body.Blocks {
		if len(block.Labels) > 0 {
			r := block.TypeRange
			return nil, &SyntaxError{Line: r.Start.Line, Column: r.Start.Column,
				Msg: fmt.Sprintf("block %q must not have labels", block.Type)}
		}
		if _, dup := out[block.Type]; dup {
			r := block.TypeRange
			return nil, &SyntaxError{Line: r.Start.Line, Column: r.Start.Column,
				Msg: fmt.Sprintf("%q is defined more than once", block.Type)}
		}
		nested, err := bodyToMap(block.Body, prefix+block.Type+".")
		if err != nil {
			return nil, err
		}
		out[block.Type] = nested
	}
	return out, nil
}

func hclError(diags hcl.Diagnostics) error {
	for _, d := range diags {
		if d.Severity != hcl.DiagError {
			continue
		}
		se := &SyntaxError{Msg: d.Summary}
		if d.Detail != "" {
			se.Msg += ": " + d.Detail
		}
		if d.Subject != nil {
			se.Line = d.Subject.Start.Line
			se.Column = d.Subject.Start.Column
		}
		return se
	}
	return &SyntaxError{Msg: diags.Error()}
}

// ctyToNative converts a cty.Value into the generic tree shapes.
func ctyToNative(v cty.Value) (any, error) {
	if v.IsNull() {
		return nil, nil
	}
	if !v.IsKnown() {
		return nil, fmt.Errorf("value is not known statically")
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil

	case ty == cty.Number:
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, fmt.Errorf("converting number: %w", err)
		}
		return f, nil

	case ty == cty.Bool:
		return v.True(), nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		slice := make([]any, 0, v.LengthInt())
		it := v.ElementIterator()
		for it.Next() {
			_, elem := it.Element()
			native, err := ctyToNative(elem)
			if err != nil {
				return nil, err
			}
			slice = append(slice, native)
		}
		return slice, nil

	case ty.IsObjectType() || ty.IsMapType():
		m := make(map[string]any)
		it := v.ElementIterator()
		for it.Next() {
			key, elem := it.Element()
			native, err := ctyToNative(elem)
			if err != nil {
				return nil, fmt.Errorf("in attribute %q: %w", key.AsString(), err)
			}
			m[key.AsString()] = native
		}
		return m, nil
	}
	return nil, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
}

// nativeToCty is the inverse of ctyToNative. Arrays become tuples and maps
// become objects so mixed element types survive.
func nativeToCty(v any) (cty.Value, error) {
	switch t := v.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType), nil
	case string:
		return cty.StringVal(t), nil
	case bool:
		return cty.BoolVal(t), nil
	case float64:
		return cty.NumberFloatVal(t), nil
	case int:
		return cty.NumberIntVal(int64(t)), nil
	case []string:
		vals := make([]cty.Value, len(t))
		for i, s := range t {
			vals[i] = cty.StringVal(s)
		}
		if len(vals) == 0 {
			return cty.EmptyTupleVal, nil
		}
		return cty.TupleVal(vals), nil
	case []any:
		if len(t) == 0 {
			return cty.EmptyTupleVal, nil
		}
		vals := make([]cty.Value, len(t))
		for i, e := range t {
			cv, err := nativeToCty(e)
			if err != nil {
				return cty.NilVal, fmt.Errorf("[%d]: %w", i, err)
			}
			vals[i] = cv
		}
		return cty.TupleVal(vals), nil
	case map[string]any:
		if len(t) == 0 {
			return cty.EmptyObjectVal, nil
		}
		attrs := make(map[string]cty.Value, len(t))
		for k, e := range t {
			cv, err := nativeToCty(e)
			if err != nil {
				return cty.NilVal, fmt.Errorf("%s: %w", k, err)
			}
			attrs[k] = cv
		}
		return cty.ObjectVal(attrs), nil
	}
	return cty.NilVal, fmt.Errorf("unsupported value type %T", v)
}

// EncodeHCL writes doc as HCL attributes in document order.
func EncodeHCL(doc Document) ([]byte, error) {
	f := hclwrite.NewEmptyFile()
	body := f.Body()
	for _, field := range doc {
		val, err := nativeToCty(field.Value)
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", field.Key, err)
		}
		body.SetAttributeValue(field.Key, val)
	}
	return hclwrite.Format(f.Bytes()), nil
}
