package cssconf

import (
	"fmt"
	"sort"
)

// OptionKind is the value type a plugin option accepts.
type OptionKind string

const (
	OptionString OptionKind = "string"
	OptionNumber OptionKind = "number"
	OptionBool   OptionKind = "boolean"
	OptionArray  OptionKind = "array"
	OptionObject OptionKind = "object"
	OptionAny    OptionKind = "any"
)

// PluginSpec describes a plugin the engine can load.
type PluginSpec struct {
	Name    string
	Options map[string]OptionKind
	// Enum restricts string options to a fixed set of values.
	Enum map[string][]string
}

// PluginRegistry is the set of plugins a config may reference. Plugins are
// matched by name at load time instead of being invoked.
type PluginRegistry struct {
	specs map[string]PluginSpec
}

// NewPluginRegistry builds a registry from specs. Later specs replace
// earlier ones with the same name.
func NewPluginRegistry(specs ...PluginSpec) *PluginRegistry {
	r := &PluginRegistry{specs: make(map[string]PluginSpec, len(specs))}
	for _, s := range specs {
		r.specs[s.Name] = s
	}
	return r
}

// DefaultRegistry returns the first-party plugins of the engine.
func DefaultRegistry() *PluginRegistry {
	return NewPluginRegistry(
		PluginSpec{
			Name:    "@tailwindcss/forms",
			Options: map[string]OptionKind{"strategy": OptionString},
			Enum:    map[string][]string{"strategy": {"base", "class"}},
		},
		PluginSpec{
			Name:    "@tailwindcss/typography",
			Options: map[string]OptionKind{"className": OptionString, "target": OptionString},
			Enum:    map[string][]string{"target": {"modern", "legacy"}},
		},
		PluginSpec{Name: "@tailwindcss/aspect-ratio"},
		PluginSpec{Name: "@tailwindcss/container-queries"},
		PluginSpec{Name: "@tailwindcss/line-clamp"},
	)
}

// With returns a copy of r extended with specs. r is not modified.
func (r *PluginRegistry) With(specs ...PluginSpec) *PluginRegistry {
	out := &PluginRegistry{specs: make(map[string]PluginSpec)}
	if r != nil {
		for name, s := range r.specs {
			out.specs[name] = s
		}
	}
	for _, s := range specs {
		out.specs[s.Name] = s
	}
	return out
}

// Lookup returns the PluginSpec registered under name.
func (r *PluginRegistry) Lookup(name string) (PluginSpec, bool) {
	if r == nil {
		return PluginSpec{}, false
	}
	s, ok := r.specs[name]
	return s, ok
}

// Names returns the registered plugin names in lexical order.
func (r *PluginRegistry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.specs))
	for n := range r.specs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Validate checks p against its spec. Unknown plugins and mistyped options
// are SchemaErrors; unknown options are returned as warnings. A nil
// registry accepts every plugin.
func (r *PluginRegistry) Validate(p PluginDescriptor, path string) ([]Warning, error) {
	if p.Name == "" {
		return nil, &SchemaError{Path: path + ".name", Msg: "plugin name must not be empty"}
	}
	if r == nil {
		return nil, nil
	}
	spec, ok := r.specs[p.Name]
	if !ok {
		return nil, &SchemaError{Path: path, Msg: fmt.Sprintf("unknown plugin %q", p.Name)}
	}

	keys := make([]string, 0, len(p.Options))
	for k := range p.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var warnings []Warning
	for _, key := range keys {
		val := p.Options[key]
		optPath := path + ".options." + key
		kind, known := spec.Options[key]
		if !known {
			warnings = append(warnings, Warning{
				Path:    optPath,
				Kind:    WarnUnknownOption,
				Message: fmt.Sprintf("plugin %s has no option %q", p.Name, key),
			})
			continue
		}
		if !kindMatches(kind, val) {
			return nil, &SchemaError{Path: optPath, Expected: string(kind), Got: typeName(val)}
		}
		if allowed, ok := spec.Enum[key]; ok {
			s, _ := val.(string)
			if !contains(allowed, s) {
				return nil, &SchemaError{Path: optPath, Msg: fmt.Sprintf("must be one of %v, got %q", allowed, s)}
			}
		}
	}
	return warnings, nil
}

func kindMatches(kind OptionKind, v any) bool {
	switch kind {
	case OptionAny:
		return true
	case OptionString:
		_, ok := v.(string)
		return ok
	case OptionNumber:
		_, ok := v.(float64)
		return ok
	case OptionBool:
		_, ok := v.(bool)
		return ok
	case OptionArray:
		_, ok := v.([]any)
		return ok
	case OptionObject:
		_, ok := v.(map[string]any)
		return ok
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func pluginPath(i int) string { return fmt.Sprintf("plugins[%d]", i) }
