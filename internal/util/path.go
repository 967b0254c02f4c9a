package util

import (
	"os"
	"path/filepath"
	"strings"
)

// DisplayPath returns path relative to the current working directory when
// that makes it shorter, otherwise the original path. Used for report lines
// so deep absolute paths don't dominate terminal output.
func DisplayPath(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return path
	}

	rel, err := filepath.Rel(wd, path)
	if err != nil {
		return path
	}

	// A relative path that climbs out of the working tree is rarely shorter
	// or clearer than the absolute one.
	if strings.HasPrefix(rel, "..") {
		return path
	}

	if len(rel) < len(path) {
		return rel
	}
	return path
}

// IsNotebook reports whether path has the Jupyter notebook extension.
func IsNotebook(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".ipynb")
}
