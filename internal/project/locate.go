package project

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/simonhull/shuffle/internal/errs"
)

const (
	// MarkerFile identifies a project root.
	MarkerFile = "Shuffle.toml"

	// MainPackageDir is the Move package compiled and bound by shuffle.
	MainPackageDir = "main"

	// GeneratedDir holds generated bindings inside the main package.
	GeneratedDir = "generated"
)

var errNoProject = errors.New("unable to find Shuffle.toml; are you in a Shuffle project?")

// Locate walks upward from startDir and returns the first directory that
// directly contains Shuffle.toml. It never descends or visits siblings.
func Locate(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", errs.New(errs.ErrIO, startDir, err)
	}

	for {
		if IsProject(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errs.New(errs.ErrNotFound, startDir, errNoProject)
		}
		dir = parent
	}
}

// IsProject reports whether dir directly contains a Shuffle.toml file.
func IsProject(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, MarkerFile))
	return err == nil && info.Mode().IsRegular()
}

// MainPackagePath returns the main Move package directory of root.
func MainPackagePath(root string) string {
	return filepath.Join(root, MainPackageDir)
}

// GeneratedPath returns the generated bindings directory of root.
func GeneratedPath(root string) string {
	return filepath.Join(root, MainPackageDir, GeneratedDir)
}
