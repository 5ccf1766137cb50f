package cssconf

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/yacobolo/cssconf/internal/format"
)

// Top-level keys the descriptor understands.
var topLevelKeys = map[string]bool{
	"content":   true,
	"theme":     true,
	"safelist":  true,
	"blocklist": true,
	"plugins":   true,
	"prefix":    true,
	"darkMode":  true,
	"important": true,
}

// extract and transform are engine hooks. They are accepted but not kept.
var contentObjectKeys = map[string]bool{
	"files":     true,
	"relative":  true,
	"extract":   true,
	"transform": true,
}

// themeKeys is the engine's theme schema. Keys outside it are ignored by the
// engine, so they only produce warnings here.
var themeKeys = map[string]bool{
	"accentColor": true, "animation": true, "aria": true, "aspectRatio": true,
	"backdropBlur": true, "backdropBrightness": true, "backdropContrast": true,
	"backdropGrayscale": true, "backdropHueRotate": true, "backdropInvert": true,
	"backdropOpacity": true, "backdropSaturate": true, "backdropSepia": true,
	"backgroundColor": true, "backgroundImage": true, "backgroundOpacity": true,
	"backgroundPosition": true, "backgroundSize": true, "blur": true,
	"borderColor": true, "borderOpacity": true, "borderRadius": true,
	"borderSpacing": true, "borderWidth": true, "boxShadow": true,
	"boxShadowColor": true, "brightness": true, "caretColor": true,
	"colors": true, "columns": true, "container": true, "content": true,
	"contrast": true, "cursor": true, "data": true, "divideColor": true,
	"divideOpacity": true, "divideWidth": true, "dropShadow": true,
	"fill": true, "flex": true, "flexBasis": true, "flexGrow": true,
	"flexShrink": true, "fontFamily": true, "fontSize": true,
	"fontWeight": true, "gap": true, "gradientColorStops": true,
	"gradientColorStopPositions": true, "grayscale": true,
	"gridAutoColumns": true, "gridAutoRows": true, "gridColumn": true,
	"gridColumnEnd": true, "gridColumnStart": true, "gridRow": true,
	"gridRowEnd": true, "gridRowStart": true, "gridTemplateColumns": true,
	"gridTemplateRows": true, "height": true, "hueRotate": true, "inset": true,
	"invert": true, "keyframes": true, "letterSpacing": true,
	"lineClamp": true, "lineHeight": true, "listStyleImage": true,
	"listStyleType": true, "margin": true, "maxHeight": true,
	"maxWidth": true, "minHeight": true, "minWidth": true, "objectPosition": true,
	"opacity": true, "order": true, "outlineColor": true, "outlineOffset": true,
	"outlineWidth": true, "padding": true, "placeholderColor": true,
	"placeholderOpacity": true, "ringColor": true, "ringOffsetColor": true,
	"ringOffsetWidth": true, "ringOpacity": true, "ringWidth": true,
	"rotate": true, "saturate": true, "scale": true, "screens": true,
	"scrollMargin": true, "scrollPadding": true, "sepia": true, "size": true,
	"skew": true, "space": true, "spacing": true, "stroke": true,
	"strokeWidth": true, "supports": true, "textColor": true,
	"textDecorationColor": true, "textDecorationThickness": true,
	"textIndent": true, "textOpacity": true, "textUnderlineOffset": true,
	"transformOrigin": true, "transitionDelay": true,
	"transitionDuration": true, "transitionProperty": true,
	"transitionTimingFunction": true, "translate": true, "typography": true,
	"width": true, "willChange": true, "zIndex": true,
}

var darkModes = []string{"media", "class", "selector"}

// decoder turns a generic tree into Options, collecting warnings. The
// first shape error aborts decoding.
type decoder struct {
	registry *PluginRegistry
	warnings []Warning
}

func (d *decoder) warn(path string, kind WarningKind, msg string, args ...any) {
	d.warnings = append(d.warnings, Warning{Path: path, Kind: kind, Message: fmt.Sprintf(msg, args...)})
}

func (d *decoder) decode(tree map[string]any) (Options, error) {
	var o Options

	for _, key := range sortedKeys(tree) {
		if !topLevelKeys[key] {
			d.warn(key, WarnUnknownKey, "unknown key %q is ignored", key)
		}
	}

	raw, ok := tree["content"]
	if !ok {
		return o, &SchemaError{Path: "content", Msg: "required field is missing"}
	}
	if err := d.decodeContent(raw, &o); err != nil {
		return o, err
	}
	if len(o.Content) == 0 {
		d.warn("content", WarnDegenerate, "no content globs: output will contain only base styles and safelisted classes")
	}

	if raw, ok := tree["theme"]; ok {
		if err := d.decodeTheme(raw, &o); err != nil {
			return o, err
		}
	}

	var err error
	if o.Safelist, err = stringList(tree, "safelist"); err != nil {
		return o, err
	}
	if o.Blocklist, err = stringList(tree, "blocklist"); err != nil {
		return o, err
	}

	if raw, ok := tree["plugins"]; ok {
		if o.Plugins, err = d.decodePlugins(raw); err != nil {
			return o, err
		}
	}

	if raw, ok := tree["prefix"]; ok && raw != nil {
		s, isStr := raw.(string)
		if !isStr {
			return o, &SchemaError{Path: "prefix", Expected: "string", Got: typeName(raw)}
		}
		o.Prefix = s
	}
	if raw, ok := tree["darkMode"]; ok && raw != nil {
		s, isStr := raw.(string)
		if !isStr {
			return o, &SchemaError{Path: "darkMode", Expected: "string", Got: typeName(raw)}
		}
		o.DarkMode = s
	}
	if raw, ok := tree["important"]; ok && raw != nil {
		b, isBool := raw.(bool)
		if !isBool {
			return o, &SchemaError{Path: "important", Expected: "boolean", Got: typeName(raw)}
		}
		o.Important = b
	}

	return o, nil
}

func (d *decoder) decodeContent(raw any, o *Options) error {
	switch v := raw.(type) {
	case []any:
		globs, err := toStrings(v, "content")
		if err != nil {
			return err
		}
		o.Content = globs
		return nil

	case map[string]any:
		for _, key := range sortedKeys(v) {
			if !contentObjectKeys[key] {
				d.warn("content."+key, WarnUnknownKey, "unknown key %q is ignored", key)
			}
		}
		files, ok := v["files"]
		if !ok {
			return &SchemaError{Path: "content.files", Msg: "required field is missing"}
		}
		list, ok := files.([]any)
		if !ok {
			return &SchemaError{Path: "content.files", Expected: "array of strings", Got: typeName(files)}
		}
		globs, err := toStrings(list, "content.files")
		if err != nil {
			return err
		}
		o.Content = globs
		if rel, ok := v["relative"]; ok {
			b, isBool := rel.(bool)
			if !isBool {
				return &SchemaError{Path: "content.relative", Expected: "boolean", Got: typeName(rel)}
			}
			o.ContentRelative = b
		}
		return nil
	}
	return &SchemaError{Path: "content", Expected: "array of strings or {files, relative} object", Got: typeName(raw)}
}

func (d *decoder) decodeTheme(raw any, o *Options) error {
	if raw == nil {
		return nil
	}
	theme, ok := raw.(map[string]any)
	if !ok {
		return &SchemaError{Path: "theme", Expected: "object", Got: typeName(raw)}
	}

	for _, key := range sortedKeys(theme) {
		val := theme[key]
		if key == "extend" {
			if val == nil {
				continue
			}
			ext, isMap := val.(map[string]any)
			if !isMap {
				return &SchemaError{Path: "theme.extend", Expected: "object", Got: typeName(val)}
			}
			for _, ek := range sortedKeys(ext) {
				if !themeKeys[ek] {
					d.warn("theme.extend."+ek, WarnUnknownKey, "unknown theme key %q is ignored", ek)
				}
				if err := staticValue(ext[ek], "theme.extend."+ek); err != nil {
					return err
				}
			}
			o.ThemeExtend = ext
			continue
		}
		if !themeKeys[key] {
			d.warn("theme."+key, WarnUnknownKey, "unknown theme key %q is ignored", key)
		}
		if err := staticValue(val, "theme."+key); err != nil {
			return err
		}
		if o.ThemeOverrides == nil {
			o.ThemeOverrides = make(map[string]any)
		}
		o.ThemeOverrides[key] = val
	}
	return nil
}

func (d *decoder) decodePlugins(raw any) ([]PluginDescriptor, error) {
	if raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, &SchemaError{Path: "plugins", Expected: "array", Got: typeName(raw)}
	}

	plugins := make([]PluginDescriptor, 0, len(list))
	seen := make(map[string]int, len(list))
	for i, entry := range list {
		path := pluginPath(i)
		p, err := d.pluginEntry(entry, path)
		if err != nil {
			return nil, err
		}
		warnings, err := d.registry.Validate(p, path)
		if err != nil {
			return nil, err
		}
		d.warnings = append(d.warnings, warnings...)
		if first, dup := seen[p.Name]; dup {
			d.warn(path, WarnDuplicatePlugin, "plugin %s already loaded at plugins[%d]; later registrations may shadow earlier ones", p.Name, first)
		} else {
			seen[p.Name] = i
		}
		plugins = append(plugins, p)
	}
	return plugins, nil
}

// pluginEntry accepts "name", {name, options} and require("name")(options).
func (d *decoder) pluginEntry(entry any, path string) (PluginDescriptor, error) {
	switch v := entry.(type) {
	case string:
		return PluginDescriptor{Name: v}, nil

	case format.Require:
		p := PluginDescriptor{Name: v.Module}
		if v.HasOptions {
			if err := staticValue(v.Options, path+".options"); err != nil {
				return PluginDescriptor{}, err
			}
			p.Options = v.Options
			if p.Options == nil {
				p.Options = map[string]any{}
			}
		}
		return p, nil

	case map[string]any:
		for _, key := range sortedKeys(v) {
			if key != "name" && key != "options" {
				d.warn(path+"."+key, WarnUnknownKey, "unknown key %q is ignored", key)
			}
		}
		name, ok := v["name"].(string)
		if !ok {
			return PluginDescriptor{}, &SchemaError{Path: path + ".name", Expected: "string", Got: typeName(v["name"])}
		}
		p := PluginDescriptor{Name: name}
		if raw, has := v["options"]; has && raw != nil {
			opts, isMap := raw.(map[string]any)
			if !isMap {
				return PluginDescriptor{}, &SchemaError{Path: path + ".options", Expected: "object", Got: typeName(raw)}
			}
			if err := staticValue(opts, path+".options"); err != nil {
				return PluginDescriptor{}, err
			}
			p.Options = opts
		}
		return p, nil
	}
	return PluginDescriptor{}, &SchemaError{Path: path, Expected: "plugin name, {name, options} object or require() call", Got: typeName(entry)}
}

// staticValue rejects values that cannot be written back out: require()
// calls outside the plugins list and non-finite numbers.
func staticValue(v any, path string) error {
	switch t := v.(type) {
	case format.Require:
		return &SchemaError{Path: path, Msg: fmt.Sprintf("require(%q) is only allowed in plugins", t.Module)}
	case float64:
		if math.IsInf(t, 0) || math.IsNaN(t) {
			return &SchemaError{Path: path, Expected: "finite number", Got: strconv.FormatFloat(t, 'g', -1, 64)}
		}
	case map[string]any:
		for _, k := range sortedKeys(t) {
			if err := staticValue(t[k], path+"."+k); err != nil {
				return err
			}
		}
	case []any:
		for i, e := range t {
			if err := staticValue(e, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	}
	return nil
}

func stringList(tree map[string]any, key string) ([]string, error) {
	raw, ok := tree[key]
	if !ok || raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, &SchemaError{Path: key, Expected: "array of strings", Got: typeName(raw)}
	}
	return toStrings(list, key)
}

func toStrings(list []any, path string) ([]string, error) {
	out := make([]string, 0, len(list))
	for i, e := range list {
		s, ok := e.(string)
		if !ok {
			return nil, &SchemaError{Path: fmt.Sprintf("%s[%d]", path, i), Expected: "string", Got: typeName(e)}
		}
		out = append(out, s)
	}
	return out, nil
}

func validateDarkMode(mode string) error {
	if mode == "" || contains(darkModes, mode) {
		return nil
	}
	return &SchemaError{Path: "darkMode", Msg: fmt.Sprintf("must be one of %v, got %q", darkModes, mode)}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
