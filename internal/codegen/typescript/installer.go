// Package typescript generates Deno-compatible TypeScript client bindings:
// the serde and bcs runtimes, a types module rendered from a type registry,
// and transaction builders rendered from ABI descriptors.
package typescript

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"

	"github.com/simonhull/shuffle/internal/codegen"
	"github.com/simonhull/shuffle/internal/generator"
)

//go:embed runtime templates
var assets embed.FS

const (
	// ModuleFile is the entry point of every generated module directory.
	ModuleFile = "mod.ts"

	// DefaultTypesModule is the types module transaction builders import.
	DefaultTypesModule = "diemTypes"
)

// Installer writes TypeScript modules under an output directory. Every
// install replaces its module directory wholesale.
type Installer struct {
	dir         string
	typesModule string
	renderer    *generator.Renderer
}

var _ codegen.Installer = (*Installer)(nil)

// NewInstaller returns an installer writing under dir.
func NewInstaller(dir string) *Installer {
	return &Installer{
		dir:         dir,
		typesModule: DefaultTypesModule,
		renderer:    generator.NewRenderer(assets),
	}
}

// Dir returns the output directory.
func (i *Installer) Dir() string { return i.dir }

func (i *Installer) InstallSerdeRuntime() error {
	return i.installRuntime("serde")
}

func (i *Installer) InstallBCSRuntime() error {
	return i.installRuntime("bcs")
}

func (i *Installer) installRuntime(name string) error {
	root := path.Join("runtime", name)
	target := filepath.Join(i.dir, name)

	tx := generator.NewTransaction(target)
	err := fs.WalkDir(assets, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := assets.ReadFile(p)
		if err != nil {
			return err
		}
		tx.AddFile(p[len(root)+1:], data)
		return nil
	})
	if err != nil {
		return fmt.Errorf("reading %s runtime: %w", name, err)
	}
	return tx.Commit()
}

func (i *Installer) ReplaceKeywords(reg *codegen.Registry) {
	codegen.ReplaceKeywords(reg, Keywords)
}

func (i *Installer) InstallModule(cfg codegen.ModuleConfig, reg *codegen.Registry) error {
	src, err := EmitModule(cfg, reg)
	if err != nil {
		return err
	}
	return i.writeModule(cfg.Name, src)
}

func (i *Installer) InstallTransactionBuilders(name string, abis []codegen.ScriptABI) error {
	view, err := newBuildersView(i.typesModule, abis)
	if err != nil {
		return err
	}
	src, err := i.renderer.Render("templates/builders.ts.tmpl", view)
	if err != nil {
		return err
	}
	return i.writeModule(name, src)
}

func (i *Installer) writeModule(name string, src []byte) error {
	target := filepath.Join(i.dir, name)
	tx := generator.NewTransaction(target)
	tx.AddFile(ModuleFile, src)
	return tx.Commit()
}
