// Package bindings generates TypeScript client bindings for a Shuffle
// project's main Move package.
package bindings

import (
	"context"
	"io"
	"path/filepath"

	"github.com/simonhull/shuffle/internal/codegen"
	"github.com/simonhull/shuffle/internal/codegen/typescript"
	"github.com/simonhull/shuffle/internal/compiler"
	"github.com/simonhull/shuffle/internal/errs"
	"github.com/simonhull/shuffle/internal/logger"
	"github.com/simonhull/shuffle/internal/project"
)

const (
	// TypesModule holds the generated Diem core types.
	TypesModule = "diemTypes"
	// BuildersModule holds the generated transaction builders.
	BuildersModule = "diemStdlib"
)

// Generator runs the binding pipeline. NewInstaller is called with the
// project's output directory; nil selects the TypeScript installer.
type Generator struct {
	Compiler     compiler.Compiler
	NewInstaller func(outputDir string) codegen.Installer
	Logger       logger.Logger
	Out          io.Writer // Compiler output
}

// New returns a Generator with the TypeScript installer.
func New(c compiler.Compiler, log logger.Logger, out io.Writer) *Generator {
	return &Generator{Compiler: c, Logger: log, Out: out}
}

// Generate builds the main package of the project at root and regenerates
// main/generated from the embedded type registry and the package ABIs. The
// steps run in a fixed order and the first failure stops the run; modules
// already written by earlier steps stay on disk.
func (g *Generator) Generate(ctx context.Context, root string) error {
	log := g.Logger
	if log == nil {
		log = logger.NewSilentLogger()
	}
	log = log.WithFields(logger.F("project", root))

	pkgDir := project.MainPackagePath(root)
	outDir := project.GeneratedPath(root)
	newInstaller := g.NewInstaller
	if newInstaller == nil {
		newInstaller = func(dir string) codegen.Installer { return typescript.NewInstaller(dir) }
	}
	installer := newInstaller(outDir)

	log.Debug("building move package", logger.F("path", pkgDir))
	if _, err := compiler.Build(ctx, g.Compiler, root, g.Out); err != nil {
		return err
	}

	log.Debug("installing runtimes", logger.F("output", outDir))
	if err := installer.InstallSerdeRuntime(); err != nil {
		return errs.New(errs.ErrRuntimeInstall, "serde", err)
	}
	if err := installer.InstallBCSRuntime(); err != nil {
		return errs.New(errs.ErrRuntimeInstall, "bcs", err)
	}

	reg, err := codegen.LoadRegistry()
	if err != nil {
		return errs.New(errs.ErrParse, codegen.RegistryPath, err)
	}
	installer.ReplaceKeywords(reg)

	cfg := codegen.ModuleConfig{Name: TypesModule, Encodings: []codegen.Encoding{codegen.BCS}}
	log.Debug("installing types module", logger.F("module", TypesModule), logger.F("types", reg.Len()))
	if err := installer.InstallModule(cfg, reg); err != nil {
		return errs.New(errs.ErrCodegen, TypesModule, err)
	}

	abis, err := codegen.ReadABIs(filepath.Join(pkgDir, compiler.BuildDirName))
	if err != nil {
		return err
	}

	log.Debug("installing transaction builders", logger.F("module", BuildersModule), logger.F("functions", len(abis)))
	if err := installer.InstallTransactionBuilders(BuildersModule, abis); err != nil {
		return errs.New(errs.ErrCodegen, BuildersModule, err)
	}

	log.Info("generated typescript bindings", logger.F("output", outDir), logger.F("functions", len(abis)))
	return nil
}
