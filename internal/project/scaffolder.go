package project

import (
	"context"
	"embed"
	"fmt"
	"io"
	"path/filepath"

	"github.com/simonhull/shuffle/internal/generator"
)

//go:embed templates
var templates embed.FS

// ScaffoldOptions configures a new project.
type ScaffoldOptions struct {
	Blockchain  string // Written to Shuffle.toml (default: goodday)
	PackageName string // Move package name (default: Message)
	DevAddress  string // Address bound to Sender in dev mode (default: 0xe110)
	DryRun      bool
}

// scaffoldFile maps a template to its location in the new project.
type scaffoldFile struct {
	template string
	target   string
}

var scaffoldFiles = []scaffoldFile{
	{"templates/main/Move.toml.tmpl", "main/Move.toml"},
	{"templates/main/sources/Message.move.tmpl", "main/sources/Message.move"},
	{"templates/e2e/message.test.ts.tmpl", "e2e/message.test.ts"},
	{"templates/integration/sdk.test.ts.tmpl", "integration/sdk.test.ts"},
}

// Scaffolder creates new Shuffle projects
type Scaffolder struct {
	renderer *generator.Renderer
	out      io.Writer
}

// NewScaffolder creates a project scaffolder reporting created files to out.
func NewScaffolder(out io.Writer) *Scaffolder {
	if out == nil {
		out = io.Discard
	}
	return &Scaffolder{
		renderer: generator.NewRenderer(templates),
		out:      out,
	}
}

// Scaffold writes a new project at root. It refuses to overwrite any
// existing file, and writes nothing if any target already exists.
func (s *Scaffolder) Scaffold(ctx context.Context, root string, opts ScaffoldOptions) error {
	if opts.Blockchain == "" {
		opts.Blockchain = DefaultBlockchain
	}
	if opts.PackageName == "" {
		opts.PackageName = "Message"
	}
	if opts.DevAddress == "" {
		opts.DevAddress = "0xe110"
	}

	cfg, err := MarshalConfig(&Config{Blockchain: opts.Blockchain})
	if err != nil {
		return fmt.Errorf("invalid project config: %w", err)
	}

	ops := []generator.Operation{
		&generator.WriteFileOp{Path: filepath.Join(root, MarkerFile), Content: cfg, Mode: 0644},
	}
	for _, f := range scaffoldFiles {
		content, err := s.renderer.Render(f.template, opts)
		if err != nil {
			return err
		}
		ops = append(ops, &generator.WriteFileOp{
			Path:    filepath.Join(root, filepath.FromSlash(f.target)),
			Content: content,
			Mode:    0644,
		})
	}

	return generator.Execute(ctx, ops, generator.ExecuteOptions{
		DryRun: opts.DryRun,
		Root:   root,
		Writer: s.out,
	})
}
