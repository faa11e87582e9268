package batch

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/gnana997/extractinator/pkg/parser"
)

// DiscoverConfig selects the files of a directory tree. Patterns are
// doublestar globs matched against slash-separated paths relative to the
// root. An empty Include selects every module and component.
type DiscoverConfig struct {
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`
}

// DefaultDiscoverConfig skips dependency and build output directories.
func DefaultDiscoverConfig() DiscoverConfig {
	return DiscoverConfig{
		Exclude: []string{
			"**/node_modules",
			"**/.git",
			"**/.svelte-kit",
			"**/dist",
			"**/build",
		},
	}
}

// Validate reports the first malformed pattern.
func (c DiscoverConfig) Validate() error {
	for _, p := range c.Exclude {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid exclude pattern: %s", p)
		}
	}
	for _, p := range c.Include {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid include pattern: %s", p)
		}
	}
	return nil
}

// skips reports whether rel, a path relative to the root, is excluded.
// An excluded directory is not descended into.
func (c DiscoverConfig) skips(rel string) bool {
	return rel != "." && matchAny(c.Exclude, rel)
}

// selects reports whether the file at rel is extracted.
func (c DiscoverConfig) selects(rel string) bool {
	if _, ok := parser.ClassifyFile(rel); !ok {
		return false
	}
	return len(c.Include) == 0 || matchAny(c.Include, rel)
}

// DiscoverFiles walks rootDir and returns the absolute paths, sorted, of
// the modules and components cfg selects. Unreadable subdirectories are
// skipped; an unreadable root is an error.
func DiscoverFiles(rootDir string, cfg DiscoverConfig) ([]string, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	root, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root path: %w", err)
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		switch {
		case cfg.skips(rel):
			if d.IsDir() {
				return filepath.SkipDir
			}
		case !d.IsDir() && cfg.selects(rel):
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.Sort(files)
	return files, nil
}

func matchAny(patterns []string, rel string) bool {
	return slices.ContainsFunc(patterns, func(p string) bool {
		ok, _ := doublestar.Match(p, rel)
		return ok
	})
}
