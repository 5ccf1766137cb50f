package format

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJS = `/** @type {import('tailwindcss').Config} */
module.exports = {
    content: [
        "./templates/**/*.html",
        "./static/**/*.js",
    ],
    theme: {
        extend: {},
    },
    safelist: [
        "bg-blue-500",
        "bg-blue-800",
        "bg-blue-700",
    ],
    plugins: [],
};
`

func TestFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
		ok   bool
	}{
		{"tailwind.config.js", JS, true},
		{"tailwind.config.cjs", JS, true},
		{"tailwind.config.mjs", JS, true},
		{"conf/tailwind.config.JSON", JSON, true},
		{"tailwind.config.jsonc", JSON, true},
		{"tailwind.yml", YAML, true},
		{"tailwind.yaml", YAML, true},
		{"tailwind.hcl", HCL, true},
		{"tailwind.config.ts", "", false},
		{"Makefile", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := FromPath(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse(t *testing.T) {
	f, err := Parse("YML")
	require.NoError(t, err)
	assert.Equal(t, YAML, f)

	f, err = Parse("javascript")
	require.NoError(t, err)
	assert.Equal(t, JS, f)

	_, err = Parse("toml")
	require.Error(t, err)
}

func TestDecodeJS_CommonJS(t *testing.T) {
	got, err := DecodeJS([]byte(sampleJS))
	require.NoError(t, err)

	assert.Equal(t, []any{"./templates/**/*.html", "./static/**/*.js"}, got["content"])
	assert.Equal(t, map[string]any{"extend": map[string]any{}}, got["theme"])
	assert.Equal(t, []any{"bg-blue-500", "bg-blue-800", "bg-blue-700"}, got["safelist"])
	assert.Equal(t, []any{}, got["plugins"])
}

func TestDecodeJS_ESModuleWithImports(t *testing.T) {
	src := `import forms from '@tailwindcss/forms'

const brand = { 500: '#123456', 'dark-900': "#000" }

export default {
  content: ['./src/**/*.{html,js}'],
  theme: { extend: { colors: { brand }, spacing: { '128': '32rem' }, zIndex: { under: -1 } } },
  plugins: [forms({ strategy: 'class' }), require("@tailwindcss/typography")],
}
`
	got, err := DecodeJS([]byte(src))
	require.NoError(t, err)

	theme := got["theme"].(map[string]any)
	extend := theme["extend"].(map[string]any)
	assert.Equal(t, map[string]any{"brand": map[string]any{"500": "#123456", "dark-900": "#000"}}, extend["colors"])
	assert.Equal(t, map[string]any{"under": -1.0}, extend["zIndex"])

	plugins := got["plugins"].([]any)
	require.Len(t, plugins, 2)
	assert.Equal(t, Require{Module: "@tailwindcss/forms", HasOptions: true, Options: map[string]any{"strategy": "class"}}, plugins[0])
	assert.Equal(t, Require{Module: "@tailwindcss/typography"}, plugins[1])
}

func TestDecodeJS_RequireWithOptions(t *testing.T) {
	src := `module.exports = {
  content: [],
  plugins: [require('@tailwindcss/typography')({ className: 'wysiwyg' })],
}`
	got, err := DecodeJS([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, []any{Require{
		Module:     "@tailwindcss/typography",
		HasOptions: true,
		Options:    map[string]any{"className": "wysiwyg"},
	}}, got["plugins"])
}

func TestDecodeJS_Errors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantPath string
	}{
		{
			name:     "non static reference",
			src:      `const colors = require('tailwindcss/colors'); module.exports = { theme: { extend: { colors: { sky: colors.sky } } } }`,
			wantPath: "theme.extend.colors.sky",
		},
		{
			name:     "function value",
			src:      `module.exports = { content: [], theme: { extend: { spacing: () => ({}) } } }`,
			wantPath: "theme.extend.spacing",
		},
		{
			name:     "bigint",
			src:      `module.exports = { content: [], theme: { extend: { zIndex: { top: 100n } } } }`,
			wantPath: "theme.extend.zIndex.top",
		},
		{
			name: "no export",
			src:  `const x = { content: [] }`,
		},
		{
			name: "syntax error",
			src:  `module.exports = { content: [ }`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeJS([]byte(tt.src))
			require.Error(t, err)
			var se *SyntaxError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.wantPath, se.Path)
		})
	}
}

func TestDecodeJSON_AllowsCommentsAndTrailingCommas(t *testing.T) {
	src := `{
  // files to scan
  "content": ["./templates/**/*.html", "./static/**/*.js",],
  "theme": { "extend": { "spacing": { "72": 18 } } }, /* trailing */
}`
	got, err := DecodeJSON([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, []any{"./templates/**/*.html", "./static/**/*.js"}, got["content"])
	assert.Equal(t, map[string]any{"extend": map[string]any{"spacing": map[string]any{"72": 18.0}}}, got["theme"])
}

func TestDecodeJSON_SyntaxErrorPosition(t *testing.T) {
	src := "{\n  \"content\": [\n    \"a\" \"b\"\n  ]\n}"
	_, err := DecodeJSON([]byte(src))
	require.Error(t, err)

	var se *SyntaxError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 3, se.Line)
	assert.Positive(t, se.Column)
}

func TestDecodeJSON_RejectsNonObject(t *testing.T) {
	_, err := DecodeJSON([]byte(`["a"]`))
	require.Error(t, err)
}

func TestDecodeYAML(t *testing.T) {
	src := `
content:
  - ./templates/**/*.html
theme:
  extend:
    spacing:
      "72": 18
safelist: [bg-blue-500]
`
	got, err := DecodeYAML([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, []any{"./templates/**/*.html"}, got["content"])
	assert.Equal(t, map[string]any{"extend": map[string]any{"spacing": map[string]any{"72": 18.0}}}, got["theme"])
}

func TestDecodeYAML_SyntaxError(t *testing.T) {
	_, err := DecodeYAML([]byte("content: [a, b\n"))
	require.Error(t, err)
	var se *SyntaxError
	require.True(t, errors.As(err, &se))
}

func TestDecodeHCL_AttributesAndBlocks(t *testing.T) {
	src := `
content  = ["./templates/**/*.html", "./static/**/*.js"]
safelist = ["bg-blue-500"]
plugins  = ["@tailwindcss/forms", { name = "@tailwindcss/typography", options = { className = "prose" } }]

theme {
  extend {
    spacing = { "72" = 18 }
  }
}
`
	got, err := DecodeHCL("tailwind.hcl", []byte(src))
	require.NoError(t, err)
	assert.Equal(t, []any{"./templates/**/*.html", "./static/**/*.js"}, got["content"])
	assert.Equal(t, map[string]any{"extend": map[string]any{"spacing": map[string]any{"72": 18.0}}}, got["theme"])
	assert.Equal(t, []any{
		"@tailwindcss/forms",
		map[string]any{"name": "@tailwindcss/typography", "options": map[string]any{"className": "prose"}},
	}, got["plugins"])
}

func TestDecodeHCL_SyntaxError(t *testing.T) {
	_, err := DecodeHCL("bad.hcl", []byte("content = [\n"))
	require.Error(t, err)
	var se *SyntaxError
	require.True(t, errors.As(err, &se))
	assert.Positive(t, se.Line)
}

func TestDecodeHCL_RejectsVariables(t *testing.T) {
	_, err := DecodeHCL("vars.hcl", []byte("content = [var.glob]\n"))
	require.Error(t, err)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	doc := Document{
		{Key: "content", Value: []any{"./templates/**/*.html", "./static/**/*.js"}},
		{Key: "theme", Value: map[string]any{"extend": map[string]any{
			"colors":  map[string]any{"brand-500": "#123456"},
			"spacing": map[string]any{"72": 18.0},
			"opacity": map[string]any{"15": 0.15},
		}}},
		{Key: "safelist", Value: []any{"bg-blue-500", "bg-blue-700"}},
		{Key: "plugins", Value: []any{}},
		{Key: "important", Value: true},
	}

	for _, f := range All {
		t.Run(string(f), func(t *testing.T) {
			data, err := Encode(f, doc)
			require.NoError(t, err)

			got, err := Decode(f, "roundtrip"+f.Extension(), data)
			require.NoError(t, err, "%s", data)
			for _, field := range doc {
				assert.Equal(t, field.Value, got[field.Key], "key %s in\n%s", field.Key, data)
			}
		})
	}
}

func TestEncodeJS_Require(t *testing.T) {
	doc := Document{
		{Key: "content", Value: []any{}},
		{Key: "plugins", Value: []any{
			Require{Module: "@tailwindcss/forms"},
			Require{Module: "@tailwindcss/typography", HasOptions: true, Options: map[string]any{"className": "prose"}},
		}},
	}
	data, err := EncodeJS(doc)
	require.NoError(t, err)
	assert.Contains(t, string(data), `require("@tailwindcss/forms")`)
	assert.Contains(t, string(data), `require("@tailwindcss/typography")({`)

	got, err := DecodeJS(data)
	require.NoError(t, err)
	assert.Equal(t, doc[1].Value, got["plugins"])
}

func TestEncodeJSON_KeyOrder(t *testing.T) {
	data, err := EncodeJSON(Document{
		{Key: "content", Value: []any{"a"}},
		{Key: "theme", Value: map[string]any{"extend": map[string]any{}}},
		{Key: "plugins", Value: []any(nil)},
	})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"content\": [\n    \"a\"\n  ],\n  \"theme\": {\n    \"extend\": {}\n  },\n  \"plugins\": []\n}\n", string(data))
}

func TestUnquoteJS(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`"plain"`, "plain"},
		{`'single'`, "single"},
		{`'it\'s'`, "it's"},
		{`"tab\there"`, "tab\there"},
		{`"A\x42"`, "AB"},
		{`"\u0041"`, "A"},
		{`"\u{41}"`, "A"},
		{`"\u{1F600}"`, "\U0001F600"},
		{`"\uD83D\uDE00"`, "\U0001F600"},
		{"\"a\\\r\nb\"", "ab"},
		{"\"a\\\nb\"", "ab"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := unquoteJS([]byte(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{
		`"unterminated`,
		`"\xZZ"`,
		`"\u00"`,
		`"\u{}"`,
		`"\u{110000}"`,
		`"\uD83D"`,
		`"\uD83D\u0041"`,
	} {
		_, err := unquoteJS([]byte(bad))
		assert.Error(t, err, bad)
	}
}

func TestDecodeJS_UnicodeEscapes(t *testing.T) {
	got, err := DecodeJS([]byte(`module.exports = { content: [], safelist: ["\uD83D\uDE00", "\u{41}"] }`))
	require.NoError(t, err)
	assert.Equal(t, []any{"\U0001F600", "A"}, got["safelist"])
}

func TestNormalize(t *testing.T) {
	in := map[string]any{
		"a": 1,
		"b": []any{int64(2), map[any]any{"c": 3}},
		"d": []string{"x"},
	}
	want := map[string]any{
		"a": 1.0,
		"b": []any{2.0, map[string]any{"c": 3.0}},
		"d": []any{"x"},
	}
	assert.Equal(t, want, Normalize(in))
}
