// Package project resolves and validates project roots, maps projects to
// their stub cache directories, and serializes refresh runs per project.
package project

import (
	"os"
	"path/filepath"

	"github.com/fauxforce/fauxforce/internal/errors"
)

// MarkerFile is the file whose presence identifies a project root.
const MarkerFile = "sfdx-project.json"

// toolingDir is the project-relative location of the generated stub caches.
var toolingDir = filepath.Join(".sfdx", "tools", "sobjects")

// Validate checks that root is a valid project directory: it must exist and
// contain the project marker file. Returns a ProjectError wrapping
// ErrProjectNotFound otherwise.
func Validate(root string) error {
	info, err := os.Stat(filepath.Join(root, MarkerFile))
	if err != nil || info.IsDir() {
		return errors.NewProjectError("missing "+MarkerFile, errors.ErrProjectNotFound).WithRoot(root)
	}
	return nil
}

// FindRoot walks upward from start looking for the project marker file and
// returns the first directory that contains it. Returns a ProjectError
// wrapping ErrProjectNotFound when no ancestor is a project root.
func FindRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", errors.NewProjectError("resolving start directory", err).WithRoot(start)
	}

	for {
		if Validate(dir) == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.NewProjectError("no ancestor contains "+MarkerFile, errors.ErrProjectNotFound).WithRoot(start)
		}
		dir = parent
	}
}

// StandardDir returns the stub cache directory for standard objects.
func StandardDir(root string) string {
	return filepath.Join(root, toolingDir, "standardObjects")
}

// CustomDir returns the stub cache directory for custom objects.
func CustomDir(root string) string {
	return filepath.Join(root, toolingDir, "customObjects")
}

// LogDir returns the directory where refresh logs for the project live.
func LogDir(root string) string {
	return filepath.Join(root, ".sfdx", "tools", "logs")
}
