package generator

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Transaction replaces the whole content of one output directory. Files are
// staged in a sibling directory and swapped in on Commit, so a failed
// commit leaves the previous content untouched.
type Transaction struct {
	dir       string
	files     map[string][]byte
	committed bool
}

// NewTransaction starts a transaction owning dir.
func NewTransaction(dir string) *Transaction {
	return &Transaction{dir: dir, files: make(map[string][]byte)}
}

// AddFile stages content at rel, a slash-separated path inside the
// directory. Adding the same path twice keeps the last content.
func (t *Transaction) AddFile(rel string, content []byte) {
	t.files[rel] = content
}

// Files returns the staged relative paths in sorted order.
func (t *Transaction) Files() []string {
	paths := make([]string, 0, len(t.files))
	for rel := range t.files {
		paths = append(paths, rel)
	}
	sort.Strings(paths)
	return paths
}

// Commit writes the staged files and replaces the directory with them.
func (t *Transaction) Commit() error {
	if t.committed {
		return fmt.Errorf("transaction already committed")
	}

	parent := filepath.Dir(t.dir)
	if err := os.MkdirAll(parent, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", parent, err)
	}
	staging, err := os.MkdirTemp(parent, "."+filepath.Base(t.dir)+"-")
	if err != nil {
		return fmt.Errorf("failed to stage %s: %w", t.dir, err)
	}
	defer os.RemoveAll(staging)

	for _, rel := range t.Files() {
		if err := writeStaged(staging, rel, t.files[rel]); err != nil {
			return err
		}
	}

	if err := os.RemoveAll(t.dir); err != nil {
		return fmt.Errorf("failed to clear %s: %w", t.dir, err)
	}
	if err := os.Rename(staging, t.dir); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", t.dir, err)
	}
	t.committed = true
	return nil
}

func writeStaged(staging, rel string, content []byte) error {
	local := filepath.FromSlash(rel)
	if !filepath.IsLocal(local) {
		return fmt.Errorf("path escapes output directory: %s", rel)
	}
	path := filepath.Join(staging, local)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", rel, err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", rel, err)
	}
	return nil
}
