package cssconf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, body := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	}
}

func TestResolveContent(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"templates/index.html":     `<div class="p-4">`,
		"templates/sub/card.html":  `<div class="m-2">`,
		"static/app.js":            `el.classList.add("hidden")`,
		"static/app.min.js":        ``,
		"static/readme.md":         ``,
		".gitignore":               "*.min.js\n",
		"templates/notes.txt":      ``,
		"templates/sub/nested.htm": ``,
	})

	cfg, err := New(Options{Content: []string{
		"./templates/**/*.html",
		"./static/**/*.js",
		"!./templates/sub/**",
		"./templates/**/*.html",
		"./missing/**/*.vue",
	}})
	require.NoError(t, err)

	res, err := ResolveContent(cfg, dir)
	require.NoError(t, err)

	assert.Equal(t, dir, res.BaseDir)
	assert.ElementsMatch(t, []string{"templates/index.html", "static/app.js"}, res.Files)

	assert.Equal(t, 4, res.Stats.FilesDiscovered)
	assert.Equal(t, 2, res.Stats.FilesMatched)
	assert.Equal(t, 2, res.Stats.FilesSkipped)

	require.Len(t, res.Patterns, 5)
	assert.Equal(t, PatternMatch{Pattern: "./templates/**/*.html", Matches: 2}, res.Patterns[0])
	assert.Equal(t, PatternMatch{Pattern: "./static/**/*.js", Matches: 2}, res.Patterns[1])
	assert.Equal(t, PatternMatch{Pattern: "!./templates/sub/**", Negated: true, Matches: 1}, res.Patterns[2])
	assert.Equal(t, 2, res.Patterns[3].Matches)
	assert.Equal(t, 0, res.Patterns[4].Matches)
}

func TestResolveContent_Degenerate(t *testing.T) {
	cfg, err := New(Options{})
	require.NoError(t, err)

	res, err := ResolveContent(cfg, t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, res.Files)
	assert.Empty(t, res.Patterns)
}

func TestContentBaseDir(t *testing.T) {
	abs, err := New(Options{Content: []string{"*.html"}})
	require.NoError(t, err)
	rel, err := New(Options{Content: []string{"*.html"}, ContentRelative: true})
	require.NoError(t, err)

	configFile := filepath.Join("project", "web", "tailwind.config.js")

	assert.Equal(t, "cwd", ContentBaseDir(abs, configFile, "cwd"))
	assert.Equal(t, filepath.Join("project", "web"), ContentBaseDir(rel, configFile, "cwd"))
	assert.Equal(t, "cwd", ContentBaseDir(rel, "", "cwd"))
}
