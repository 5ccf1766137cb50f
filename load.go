package cssconf

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/providers/file"
	"github.com/yacobolo/cssconf/internal/format"
)

// DefaultConfigNames are searched, in order, by FindConfigFile.
var DefaultConfigNames = []string{
	"tailwind.config.js",
	"tailwind.config.cjs",
	"tailwind.config.mjs",
	"tailwind.config.json",
	"tailwind.config.jsonc",
	"tailwind.config.yaml",
	"tailwind.config.yml",
	"tailwind.config.hcl",
}

// LoadResult is a successfully loaded config and what was noticed while
// loading it.
type LoadResult struct {
	File     string
	Format   format.Format
	Config   *Config
	Warnings []Warning
}

// Loader loads config files. The zero value uses the default plugin
// registry and discards log output.
type Loader struct {
	// Registry validates plugin descriptors. Nil means DefaultRegistry.
	Registry *PluginRegistry
	// Logger receives one Warn record per load warning.
	Logger *slog.Logger
}

// Load parses data, choosing the format from filename's extension.
func Load(filename string, data []byte) (*LoadResult, error) {
	return (&Loader{}).Load(filename, data)
}

// LoadFormat parses data in an explicit format.
func LoadFormat(f format.Format, filename string, data []byte) (*LoadResult, error) {
	return (&Loader{}).LoadFormat(f, filename, data)
}

// LoadFile reads and parses the config file at path.
func LoadFile(path string) (*LoadResult, error) {
	return (&Loader{}).LoadFile(path)
}

// LoadFile reads and parses the config file at path.
func (l *Loader) LoadFile(path string) (*LoadResult, error) {
	data, err := file.Provider(path).ReadBytes()
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return l.Load(path, data)
}

// Load parses data, choosing the format from filename's extension.
func (l *Loader) Load(filename string, data []byte) (*LoadResult, error) {
	f, ok := format.FromPath(filename)
	if !ok {
		return nil, fmt.Errorf("%s: %w (want .js, .cjs, .mjs, .json, .jsonc, .yaml, .yml or .hcl)", filename, ErrUnsupportedFormat)
	}
	return l.LoadFormat(f, filename, data)
}

// LoadFormat parses data in an explicit format. Either the whole file is
// accepted or an error is returned; there is no partial result.
func (l *Loader) LoadFormat(f format.Format, filename string, data []byte) (*LoadResult, error) {
	tree, err := format.Decode(f, filename, data)
	if err != nil {
		le := &LoadError{File: filename, Format: f, Err: err}
		var se *format.SyntaxError
		if errors.As(err, &se) {
			le.Line, le.Column, le.Path = se.Line, se.Column, se.Path
		}
		return nil, le
	}

	reg := l.Registry
	if reg == nil {
		reg = DefaultRegistry()
	}

	d := &decoder{registry: reg}
	opts, err := d.decode(tree)
	if err != nil {
		return nil, withFile(err, filename)
	}

	cfg, err := NewWithRegistry(opts, reg)
	if err != nil {
		return nil, withFile(err, filename)
	}

	for i := range d.warnings {
		d.warnings[i].File = filename
	}
	l.logWarnings(d.warnings)

	return &LoadResult{File: filename, Format: f, Config: cfg, Warnings: d.warnings}, nil
}

func (l *Loader) logWarnings(warnings []Warning) {
	if l.Logger == nil {
		return
	}
	for _, w := range warnings {
		l.Logger.Warn(w.Message, "file", w.File, "path", w.Path, "kind", string(w.Kind))
	}
}

func withFile(err error, filename string) error {
	var se *SchemaError
	if errors.As(err, &se) && se.File == "" {
		se.File = filename
	}
	return err
}

// FindConfigFile returns the first of DefaultConfigNames present in dir.
func FindConfigFile(dir string) (string, error) {
	for _, name := range DefaultConfigNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", fmt.Errorf("no config file found in %s (looked for %s)", dir, DefaultConfigNames[0])
}
