package cssconf

import (
	"fmt"

	"github.com/yacobolo/cssconf/internal/format"
)

// Format is a config file syntax.
type Format = format.Format

// Supported formats.
const (
	FormatJS   = format.JS
	FormatJSON = format.JSON
	FormatYAML = format.YAML
	FormatHCL  = format.HCL
)

// ParseFormat converts a user-supplied name such as "yml" to a Format.
func ParseFormat(name string) (Format, error) { return format.Parse(name) }

// FormatFromPath picks a format from a file extension.
func FormatFromPath(path string) (Format, bool) { return format.FromPath(path) }

// Marshal serializes c in the given format. Loading the output yields a
// Config equal to c.
func Marshal(c *Config, f Format) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("marshal: nil config")
	}
	data, err := format.Encode(f, document(c, f))
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", f, err)
	}
	return data, nil
}

// document lays c out in the key order people write config files in.
func document(c *Config, f Format) format.Document {
	var content any = stringsToAny(c.content)
	if c.contentRelative {
		content = map[string]any{"files": stringsToAny(c.content), "relative": true}
	}

	theme := make(map[string]any, len(c.themeOverrides)+1)
	for k, v := range c.ThemeOverrides() {
		theme[k] = v
	}
	extend := c.ThemeExtensions()
	if extend == nil {
		extend = map[string]any{}
	}
	theme["extend"] = extend

	doc := format.Document{
		{Key: "content", Value: content},
		{Key: "theme", Value: theme},
		{Key: "safelist", Value: stringsToAny(c.safelist.Sorted())},
	}
	if c.blocklist.Len() > 0 {
		doc = append(doc, format.Field{Key: "blocklist", Value: stringsToAny(c.blocklist.Sorted())})
	}

	plugins := make([]any, 0, len(c.plugins))
	for _, p := range c.plugins {
		plugins = append(plugins, pluginValue(p, f))
	}
	doc = append(doc, format.Field{Key: "plugins", Value: plugins})

	if c.prefix != "" {
		doc = append(doc, format.Field{Key: "prefix", Value: c.prefix})
	}
	if c.darkMode != "" {
		doc = append(doc, format.Field{Key: "darkMode", Value: c.darkMode})
	}
	if c.important {
		doc = append(doc, format.Field{Key: "important", Value: true})
	}
	return doc
}

func pluginValue(p PluginDescriptor, f Format) any {
	if f == FormatJS {
		return format.Require{Module: p.Name, Options: deepCopyMap(p.Options), HasOptions: p.Options != nil}
	}
	if p.Options == nil {
		return p.Name
	}
	return map[string]any{"name": p.Name, "options": deepCopyMap(p.Options)}
}

func stringsToAny(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}
