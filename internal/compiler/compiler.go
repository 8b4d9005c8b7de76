// Package compiler builds the project's Move package.
//
// The Move compiler itself is an external capability behind the Compiler
// interface; MoveCLI drives the `move` binary. Build applies the fixed
// development configuration the rest of the pipeline depends on.
package compiler

import (
	"context"
	"io"

	"github.com/simonhull/shuffle/internal/errs"
	"github.com/simonhull/shuffle/internal/project"
)

// BuildConfig selects compiler outputs and address bindings.
type BuildConfig struct {
	DevMode      bool // Bind named addresses from [dev-addresses]
	TestMode     bool // Include #[test] code
	GenerateDocs bool
	GenerateABIs bool
}

// DevBuildConfig is the configuration used for binding generation: dev
// addresses, no test code, no docs, ABIs emitted.
var DevBuildConfig = BuildConfig{
	DevMode:      true,
	TestMode:     false,
	GenerateDocs: false,
	GenerateABIs: true,
}

// CompiledModule is one bytecode artifact.
type CompiledModule struct {
	Name     string
	Path     string
	Bytecode []byte
}

// CompiledPackage is the artifact set of a successful build.
type CompiledPackage struct {
	Name     string
	Root     string // Package directory (contains Move.toml)
	BuildDir string // Package build output directory
	Modules  []CompiledModule
}

// Compiler compiles and tests a Move package directory. Diagnostics are
// streamed to out.
type Compiler interface {
	Compile(ctx context.Context, pkgDir string, cfg BuildConfig, out io.Writer) (*CompiledPackage, error)
	Test(ctx context.Context, pkgDir string, out io.Writer) error
}

// Build compiles the main package of the project at root with
// DevBuildConfig. A compiler failure is returned as errs.ErrCompile with the
// compiler's error attached unchanged. There are no retries.
func Build(ctx context.Context, c Compiler, root string, out io.Writer) (*CompiledPackage, error) {
	if out == nil {
		out = io.Discard
	}
	pkgDir := project.MainPackagePath(root)
	pkg, err := c.Compile(ctx, pkgDir, DevBuildConfig, out)
	if err != nil {
		return nil, errs.New(errs.ErrCompile, pkgDir, err)
	}
	return pkg, nil
}
