package testutil

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/simonhull/shuffle/internal/codegen"
	"github.com/simonhull/shuffle/internal/compiler"
	"github.com/simonhull/shuffle/internal/project"
)

// TestProject represents a temporary Shuffle project for testing
type TestProject struct {
	Root string
	t    *testing.T
}

// NewTestProject scaffolds a project with default options in a temporary
// directory.
func NewTestProject(t *testing.T) *TestProject {
	t.Helper()

	root := filepath.Join(t.TempDir(), "project")
	if err := project.NewScaffolder(nil).Scaffold(context.Background(), root, project.ScaffoldOptions{}); err != nil {
		t.Fatalf("scaffolding test project: %v", err)
	}

	return &TestProject{Root: root, t: t}
}

// Path joins rel onto the project root.
func (p *TestProject) Path(rel ...string) string {
	return filepath.Join(append([]string{p.Root}, rel...)...)
}

// PackageDir returns the main Move package directory.
func (p *TestProject) PackageDir() string {
	return project.MainPackagePath(p.Root)
}

// FileExists checks if a file exists in the project
func (p *TestProject) FileExists(rel string) bool {
	p.t.Helper()

	_, err := os.Stat(p.Path(rel))
	return err == nil
}

// ReadFile reads a file from the project
func (p *TestProject) ReadFile(rel string) (string, error) {
	p.t.Helper()

	content, err := os.ReadFile(p.Path(rel))
	return string(content), err
}

// WriteFile writes content to rel, creating parent directories.
func (p *TestProject) WriteFile(rel, content string) error {
	p.t.Helper()

	path := p.Path(rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}

// WriteABIs writes abis where move build puts them for the package pkg.
func WriteABIs(pkgDir, pkg string, abis ...codegen.ScriptABI) error {
	dir := filepath.Join(pkgDir, compiler.BuildDirName, pkg, "abis", pkg)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	for _, abi := range abis {
		path := filepath.Join(dir, abi.Name+codegen.ABIExt)
		if err := os.WriteFile(path, codegen.EncodeScriptABI(abi), 0644); err != nil {
			return err
		}
	}
	return nil
}

// Snapshot returns every file under dir keyed by slash-separated relative
// path.
func Snapshot(t *testing.T, dir string) map[string]string {
	t.Helper()

	files := make(map[string]string)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	if err != nil {
		t.Fatalf("snapshot %s: %v", dir, err)
	}
	return files
}
