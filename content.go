package cssconf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
)

// PatternMatch records how many files one content glob selected.
type PatternMatch struct {
	Pattern string
	Negated bool
	Matches int
}

// ContentStats tracks file resolution statistics
type ContentStats struct {
	FilesDiscovered int // Files found by positive globs
	FilesMatched    int // Files the engine would scan
	FilesSkipped    int // Removed by negated globs or .gitignore
}

// ContentResult is a preview of the files the engine would scan.
type ContentResult struct {
	BaseDir  string
	Files    []string // relative to BaseDir when possible, slash separated
	Patterns []PatternMatch
	Stats    ContentStats
}

// ContentBaseDir picks the directory content globs resolve against: the
// config file's directory for relative content, otherwise cwd.
func ContentBaseDir(c *Config, configFile, cwd string) string {
	if c.ContentRelative() && configFile != "" {
		return filepath.Dir(configFile)
	}
	return cwd
}

// ResolveContent expands the content globs of c against baseDir. Globs
// prefixed with "!" exclude files; files ignored by baseDir/.gitignore are
// skipped. The result lists each file once, in discovery order.
func ResolveContent(c *Config, baseDir string) (*ContentResult, error) {
	result := &ContentResult{BaseDir: baseDir}
	gi := loadGitIgnore(baseDir)

	var negated []negation
	var files []string
	seen := make(map[string]bool)

	for _, glob := range c.content {
		if strings.HasPrefix(glob, "!") {
			negated = append(negated, negation{
				pattern: absPattern(baseDir, strings.TrimPrefix(glob, "!")),
				index:   len(result.Patterns),
			})
			result.Patterns = append(result.Patterns, PatternMatch{Pattern: glob, Negated: true})
			continue
		}

		matches, err := doublestar.FilepathGlob(absPattern(baseDir, glob), doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob pattern %q: %w", glob, err)
		}
		result.Patterns = append(result.Patterns, PatternMatch{Pattern: glob, Matches: len(matches)})

		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	result.Stats.FilesDiscovered = len(files)

	for _, file := range files {
		if excluded(file, negated, result.Patterns) {
			result.Stats.FilesSkipped++
			continue
		}
		rel := relativeTo(baseDir, file)
		if gi != nil && !strings.HasPrefix(rel, "../") && !filepath.IsAbs(rel) && gi.MatchesPath(rel) {
			result.Stats.FilesSkipped++
			continue
		}
		result.Files = append(result.Files, rel)
	}
	result.Stats.FilesMatched = len(result.Files)

	return result, nil
}

type negation struct {
	pattern string
	index   int // position in ContentResult.Patterns
}

// excluded reports whether file matches a negated glob and bumps that
// glob's match count.
func excluded(file string, negated []negation, patterns []PatternMatch) bool {
	for _, neg := range negated {
		if ok, err := doublestar.PathMatch(neg.pattern, file); err == nil && ok {
			patterns[neg.index].Matches++
			return true
		}
	}
	return false
}

func absPattern(baseDir, glob string) string {
	glob = filepath.FromSlash(glob)
	if filepath.IsAbs(glob) {
		return glob
	}
	return filepath.Join(baseDir, glob)
}

func relativeTo(baseDir, path string) string {
	rel, err := filepath.Rel(baseDir, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// loadGitIgnore compiles baseDir/.gitignore. A missing file is not an error.
func loadGitIgnore(baseDir string) *ignore.GitIgnore {
	path := filepath.Join(baseDir, ".gitignore")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return nil
	}
	return gi
}
