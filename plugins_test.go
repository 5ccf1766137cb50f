package cssconf

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry_Names(t *testing.T) {
	assert.Equal(t, []string{
		"@tailwindcss/aspect-ratio",
		"@tailwindcss/container-queries",
		"@tailwindcss/forms",
		"@tailwindcss/line-clamp",
		"@tailwindcss/typography",
	}, DefaultRegistry().Names())
}

func TestPluginRegistry_Validate(t *testing.T) {
	reg := NewPluginRegistry(
		PluginSpec{
			Name: "grid-areas",
			Options: map[string]OptionKind{
				"columns": OptionNumber,
				"dense":   OptionBool,
				"areas":   OptionArray,
				"theme":   OptionObject,
				"extra":   OptionAny,
				"mode":    OptionString,
			},
			Enum: map[string][]string{"mode": {"grid", "subgrid"}},
		},
	)

	tests := []struct {
		name      string
		plugin    PluginDescriptor
		wantErr   string // SchemaError path, "" for success
		wantWarns []string
	}{
		{
			name:   "bare",
			plugin: PluginDescriptor{Name: "grid-areas"},
		},
		{
			name: "all kinds",
			plugin: PluginDescriptor{Name: "grid-areas", Options: map[string]any{
				"columns": float64(12),
				"dense":   true,
				"areas":   []any{"header", "main"},
				"theme":   map[string]any{},
				"extra":   nil,
				"mode":    "subgrid",
			}},
		},
		{
			name:      "unknown option",
			plugin:    PluginDescriptor{Name: "grid-areas", Options: map[string]any{"rows": float64(2)}},
			wantWarns: []string{"plugins[0].options.rows"},
		},
		{
			name:    "wrong kind",
			plugin:  PluginDescriptor{Name: "grid-areas", Options: map[string]any{"dense": "yes"}},
			wantErr: "plugins[0].options.dense",
		},
		{
			name:    "enum",
			plugin:  PluginDescriptor{Name: "grid-areas", Options: map[string]any{"mode": "flex"}},
			wantErr: "plugins[0].options.mode",
		},
		{
			name:    "unknown plugin",
			plugin:  PluginDescriptor{Name: "grid-area"},
			wantErr: "plugins[0]",
		},
		{
			name:    "empty name",
			plugin:  PluginDescriptor{},
			wantErr: "plugins[0].name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings, err := reg.Validate(tt.plugin, "plugins[0]")
			if tt.wantErr != "" {
				var se *SchemaError
				require.True(t, errors.As(err, &se), "want SchemaError, got %v", err)
				assert.Equal(t, tt.wantErr, se.Path)
				return
			}
			require.NoError(t, err)

			var paths []string
			for _, w := range warnings {
				assert.Equal(t, WarnUnknownOption, w.Kind)
				paths = append(paths, w.Path)
			}
			assert.Equal(t, tt.wantWarns, paths)
		})
	}
}

func TestPluginRegistry_With(t *testing.T) {
	base := DefaultRegistry()
	ext := base.With(PluginSpec{Name: "daisyui"})

	_, ok := ext.Lookup("daisyui")
	assert.True(t, ok)
	_, ok = ext.Lookup("@tailwindcss/forms")
	assert.True(t, ok)

	_, ok = base.Lookup("daisyui")
	assert.False(t, ok, "With must not modify the receiver")
}

func TestPluginRegistry_NilAcceptsAll(t *testing.T) {
	var reg *PluginRegistry

	warnings, err := reg.Validate(PluginDescriptor{Name: "anything", Options: map[string]any{"x": 1}}, "plugins[0]")
	require.NoError(t, err)
	assert.Empty(t, warnings)

	_, ok := reg.Lookup("anything")
	assert.False(t, ok)
	assert.Nil(t, reg.Names())
}
