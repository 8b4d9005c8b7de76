// Package filesystem locates compiler artifacts inside a Move package.
package filesystem

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// skippedDirs never hold artifacts the build reads back.
var skippedDirs = []string{"node_modules", "generated"}

// SkipDir reports whether a directory below the walk root is pruned:
// hidden directories and skippedDirs.
func SkipDir(name string) bool {
	return strings.HasPrefix(name, ".") || slices.Contains(skippedDirs, name)
}

// Walk calls visit for every regular file under root, pruning directories
// for which SkipDir is true. Hidden files are ignored.
func Walk(root string, visit func(path string) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		switch {
		case err != nil:
			return err
		case path == root:
			return nil
		case d.IsDir():
			if SkipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		case !d.Type().IsRegular() || strings.HasPrefix(d.Name(), "."):
			return nil
		}
		return visit(path)
	})
}

// FindFiles returns every file under root with extension ext, sorted. A
// missing root yields no files.
func FindFiles(root, ext string) ([]string, error) {
	var files []string
	err := Walk(root, func(path string) error {
		if filepath.Ext(path) == ext {
			files = append(files, path)
		}
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) && len(files) == 0 {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	slices.Sort(files)
	return files, nil
}

// ListFiles returns the files directly inside dir with extension ext,
// sorted. Subdirectories are not entered. A missing dir yields no files.
func ListFiles(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() && !strings.HasPrefix(e.Name(), ".") && filepath.Ext(e.Name()) == ext {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files, nil
}
