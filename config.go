package cssconf

import (
	"maps"
	"reflect"
	"slices"
	"sort"

	"github.com/yacobolo/cssconf/internal/format"
)

// ClassSet is an unordered set of utility class names.
type ClassSet map[string]struct{}

// NewClassSet builds a set from names, collapsing duplicates.
func NewClassSet(names ...string) ClassSet {
	s := make(ClassSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Has reports whether name is in the set.
func (s ClassSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Len returns the number of distinct names.
func (s ClassSet) Len() int { return len(s) }

// Sorted returns the names in lexical order.
func (s ClassSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// PluginDescriptor names an engine plugin and the options it is invoked
// with. Options is nil when the plugin is referenced without options.
type PluginDescriptor struct {
	Name    string
	Options map[string]any
}

// Options is the mutable input to New. Everything is copied, so callers
// may reuse an Options value after building a Config from it.
type Options struct {
	Content         []string       // "./templates/**/*.html"
	ContentRelative bool           // resolve Content against the config file directory
	ThemeExtend     map[string]any // theme.extend
	ThemeOverrides  map[string]any // theme keys other than extend
	Safelist        []string
	Blocklist       []string
	Plugins         []PluginDescriptor
	Prefix          string // "tw-"
	DarkMode        string // "media" | "class" | "selector"
	Important       bool
}

// Config is the build configuration handed to the CSS engine. It is
// immutable: every accessor returns a copy.
type Config struct {
	content         []string
	contentRelative bool
	themeExtend     map[string]any
	themeOverrides  map[string]any
	safelist        ClassSet
	blocklist       ClassSet
	plugins         []PluginDescriptor
	prefix          string
	darkMode        string
	important       bool
}

// New validates o against the default plugin registry and returns the
// resulting Config.
func New(o Options) (*Config, error) {
	return NewWithRegistry(o, DefaultRegistry())
}

// NewWithRegistry is New with an explicit plugin registry. A nil registry
// accepts any plugin name.
func NewWithRegistry(o Options, reg *PluginRegistry) (*Config, error) {
	plugins := copyPlugins(o.Plugins)
	for i, p := range plugins {
		if _, err := reg.Validate(p, pluginPath(i)); err != nil {
			return nil, err
		}
	}
	if err := validateDarkMode(o.DarkMode); err != nil {
		return nil, err
	}

	c := &Config{
		content:         slices.Clone(o.Content),
		contentRelative: o.ContentRelative,
		themeExtend:     deepCopyMap(o.ThemeExtend),
		themeOverrides:  deepCopyMap(o.ThemeOverrides),
		safelist:        NewClassSet(o.Safelist...),
		blocklist:       NewClassSet(o.Blocklist...),
		plugins:         plugins,
		prefix:          o.Prefix,
		darkMode:        o.DarkMode,
		important:       o.Important,
	}
	if c.content == nil {
		c.content = []string{}
	}
	if c.themeExtend == nil {
		c.themeExtend = map[string]any{}
	}
	if c.themeOverrides == nil {
		c.themeOverrides = map[string]any{}
	}
	return c, nil
}

// ContentGlobs returns the content patterns exactly as configured, in order
// and with duplicates.
func (c *Config) ContentGlobs() []string { return slices.Clone(c.content) }

// ContentRelative reports whether globs resolve against the config file's
// directory rather than the working directory.
func (c *Config) ContentRelative() bool { return c.contentRelative }

// ThemeExtensions returns theme.extend. An empty map means the engine
// defaults apply unchanged.
func (c *Config) ThemeExtensions() map[string]any { return deepCopyMap(c.themeExtend) }

// ThemeOverrides returns top-level theme keys other than extend. How these
// combine with ThemeExtensions is decided by the engine.
func (c *Config) ThemeOverrides() map[string]any { return deepCopyMap(c.themeOverrides) }

// Safelist returns the classes kept regardless of content scanning.
func (c *Config) Safelist() ClassSet { return maps.Clone(c.safelist) }

// Blocklist returns the classes never generated.
func (c *Config) Blocklist() ClassSet { return maps.Clone(c.blocklist) }

// Plugins returns plugin descriptors in load order.
func (c *Config) Plugins() []PluginDescriptor { return copyPlugins(c.plugins) }

// Prefix returns the class prefix, or "".
func (c *Config) Prefix() string { return c.prefix }

// DarkMode returns the dark mode strategy, or "" for the engine default.
func (c *Config) DarkMode() string { return c.darkMode }

// Important reports whether utilities are marked !important.
func (c *Config) Important() bool { return c.important }

// Degenerate reports a config with no content globs: the engine can only
// emit base styles and safelisted classes.
func (c *Config) Degenerate() bool { return len(c.content) == 0 }

// Options returns a copy of the inputs that would rebuild c.
func (c *Config) Options() Options {
	return Options{
		Content:         c.ContentGlobs(),
		ContentRelative: c.contentRelative,
		ThemeExtend:     c.ThemeExtensions(),
		ThemeOverrides:  c.ThemeOverrides(),
		Safelist:        c.safelist.Sorted(),
		Blocklist:       c.blocklist.Sorted(),
		Plugins:         c.Plugins(),
		Prefix:          c.prefix,
		DarkMode:        c.darkMode,
		Important:       c.important,
	}
}

// Equal reports field-for-field equality.
func (c *Config) Equal(other *Config) bool {
	if c == nil || other == nil {
		return c == other
	}
	return reflect.DeepEqual(c, other)
}

func copyPlugins(in []PluginDescriptor) []PluginDescriptor {
	if in == nil {
		return []PluginDescriptor{}
	}
	out := make([]PluginDescriptor, len(in))
	for i, p := range in {
		out[i] = PluginDescriptor{Name: p.Name, Options: deepCopyMap(p.Options)}
	}
	return out
}

// deepCopyMap copies m and every nested map and slice, normalising numbers
// to float64. A nil input yields nil so "no options" stays distinguishable
// from "empty options".
func deepCopyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	return format.Normalize(m).(map[string]any)
}
