// Package discovery finds notebook files under a root path.
package discovery

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// CheckpointDir is the auto-save directory Jupyter editors create next to
// notebooks. It is always excluded.
const CheckpointDir = ".ipynb_checkpoints"

// DefaultIgnoreDirs are directory names skipped during traversal in addition
// to hidden directories and checkpoint directories.
var DefaultIgnoreDirs = []string{
	".git",
	".hg",
	".svn",
	"node_modules",
	"venv",
	".venv",
	"__pycache__",
	".tox",
}

// Finder discovers notebook files.
type Finder struct {
	ignoreDirs map[string]bool
	logger     *slog.Logger
}

// Option configures a Finder.
type Option func(*Finder)

// WithIgnoreDirs replaces the default set of ignored directory names.
func WithIgnoreDirs(dirs []string) Option {
	return func(f *Finder) {
		f.ignoreDirs = make(map[string]bool, len(dirs))
		for _, d := range dirs {
			f.ignoreDirs[d] = true
		}
	}
}

// WithLogger sets the logger used for traversal warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Finder) {
		f.logger = logger
	}
}

// NewFinder creates a Finder with the default exclusion set.
func NewFinder(opts ...Option) *Finder {
	f := &Finder{
		ignoreDirs: make(map[string]bool, len(DefaultIgnoreDirs)),
		logger:     slog.Default(),
	}
	for _, d := range DefaultIgnoreDirs {
		f.ignoreDirs[d] = true
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Find returns all notebook files under root, sorted lexicographically by
// full path. A file root yields itself (if it is a notebook), a directory
// root is walked recursively, and a non-existent root yields an empty slice
// without an error — "no notebooks found" is a normal state, not a failure.
//
// Checkpoint directories, hidden directories, and ignored directory names
// are skipped without being descended into. Unreadable directories are
// logged as warnings and skipped; they never fail the whole discovery.
func (f *Finder) Find(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	if !info.IsDir() {
		if isNotebookFile(root) {
			return []string{root}, nil
		}
		return []string{}, nil
	}

	notebooks := []string{}

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Permission problems skip the subtree, not the run
			f.logger.Warn("skipping unreadable path", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			// The root itself is never excluded, even if hidden
			if path == root {
				return nil
			}
			if f.excluded(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if isNotebookFile(path) && !strings.HasPrefix(d.Name(), ".") {
			notebooks = append(notebooks, path)
		}
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	sort.Strings(notebooks)
	return notebooks, nil
}

// excluded reports whether a directory name should be pruned.
func (f *Finder) excluded(name string) bool {
	if name == CheckpointDir {
		return true
	}
	if strings.HasPrefix(name, ".") {
		return true
	}
	return f.ignoreDirs[name]
}

func isNotebookFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".ipynb")
}
