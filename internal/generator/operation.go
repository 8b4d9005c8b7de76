package generator

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Operation is one file system change. Validate reports whether Execute
// would succeed without touching anything; force skips conflict checks.
type Operation interface {
	Validate(force bool) error
	Execute() error
	Target() string
}

// WriteFileOp creates a file and its parent directories. Empty content is
// allowed; nil content is a programming error.
type WriteFileOp struct {
	Path    string
	Content []byte
	Mode    fs.FileMode
}

func (op *WriteFileOp) Validate(force bool) error {
	if op.Content == nil {
		return fmt.Errorf("content is nil for file: %s", op.Path)
	}
	if force {
		return nil
	}
	if _, err := os.Lstat(op.Path); err == nil {
		return fmt.Errorf("file already exists: %s", op.Path)
	} else if !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (op *WriteFileOp) Execute() error {
	if err := os.MkdirAll(filepath.Dir(op.Path), 0755); err != nil {
		return err
	}
	return os.WriteFile(op.Path, op.Content, op.Mode)
}

func (op *WriteFileOp) Target() string { return op.Path }

// ExecuteOptions configures Execute.
type ExecuteOptions struct {
	DryRun bool
	Force  bool
	Root   string    // Targets are reported relative to Root when set
	Writer io.Writer // Progress output (default: os.Stdout)
}

// Execute validates every operation, then runs them in order. Nothing runs
// if any validation fails. Cancellation is checked between operations.
func Execute(ctx context.Context, ops []Operation, opts ExecuteOptions) error {
	w := opts.Writer
	if w == nil {
		w = os.Stdout
	}

	for _, op := range ops {
		if err := op.Validate(opts.Force); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
	}

	for _, op := range ops {
		if err := ctx.Err(); err != nil {
			return err
		}
		target := displayPath(opts.Root, op.Target())
		if opts.DryRun {
			fmt.Fprintf(w, "✓ [DRY RUN] Create %s\n", target)
			continue
		}
		if err := op.Execute(); err != nil {
			return fmt.Errorf("creating %s: %w", target, err)
		}
		fmt.Fprintf(w, "✓ Create %s\n", target)
	}
	return nil
}

func displayPath(root, path string) string {
	if root == "" {
		return path
	}
	if rel, err := filepath.Rel(root, path); err == nil && filepath.IsLocal(rel) {
		return filepath.ToSlash(rel)
	}
	return path
}
