// Package discovery finds build files to extract dependencies from.
package discovery

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/moby/patternmatcher"
	"github.com/sirupsen/logrus"
)

// Options controls which files a directory walk returns.
type Options struct {
	// Include are doublestar globs matched against slash-separated paths
	// relative to the walked directory.
	Include []string
	// Exclude are ignore-file patterns added to the directory's own
	// .earthlyignore.
	Exclude []string
}

// Find expands paths into build files. Files are returned as given;
// directories are walked. The result is sorted and free of duplicates.
func Find(paths []string, opts Options) ([]string, error) {
	for _, pattern := range opts.Include {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid include pattern %q", pattern)
		}
	}

	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, path := range paths {
		fi, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !fi.IsDir() {
			add(path)
			continue
		}

		found, err := walk(path, opts)
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", path, err)
		}
		for _, f := range found {
			add(f)
		}
	}

	sort.Strings(files)
	return files, nil
}

func walk(root string, opts Options) ([]string, error) {
	patterns, ignoreFile, err := LoadIgnoreFile(root)
	if err != nil {
		return nil, fmt.Errorf("reading ignore file: %w", err)
	}
	if ignoreFile != "" {
		logrus.WithFields(logrus.Fields{
			"file":     ignoreFile,
			"patterns": len(patterns),
		}).Debug("loaded ignore file")
	}
	pm, err := patternmatcher.New(append(patterns, opts.Exclude...))
	if err != nil {
		return nil, fmt.Errorf("compiling ignore patterns: %w", err)
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil || rel == "." {
			return err
		}

		ignored, err := pm.MatchesOrParentMatches(rel)
		if err != nil {
			return err
		}
		if d.IsDir() {
			// Exclusions ("!pattern") may re-include files below an
			// ignored directory, so only prune when there are none.
			if ignored && !pm.Exclusions() {
				logrus.WithField("dir", path).Debug("skipping ignored directory")
				return filepath.SkipDir
			}
			return nil
		}
		if ignored {
			return nil
		}

		slashed := filepath.ToSlash(rel)
		for _, pattern := range opts.Include {
			if ok, _ := doublestar.Match(pattern, slashed); ok {
				files = append(files, path)
				break
			}
		}
		return nil
	})
	return files, err
}
