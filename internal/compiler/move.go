package compiler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/simonhull/shuffle/internal/exec"
	"github.com/simonhull/shuffle/internal/filesystem"
	"github.com/simonhull/shuffle/internal/logger"
)

const (
	// BuildDirName is the compiler output directory inside a package.
	BuildDirName = "build"

	bytecodeDirName = "bytecode_modules"
	bytecodeExt     = ".mv"
)

// MoveCLI compiles packages with the external move binary.
type MoveCLI struct {
	Binary   string // Defaults to "move"
	Executor *exec.Executor
	Logger   logger.Logger
}

// NewMoveCLI returns a MoveCLI using the default executor.
func NewMoveCLI(executor *exec.Executor, log logger.Logger) *MoveCLI {
	if executor == nil {
		executor = exec.NewExecutor(nil)
	}
	if log == nil {
		log = logger.Default()
	}
	return &MoveCLI{Binary: "move", Executor: executor, Logger: log}
}

// BuildArgs returns the move CLI arguments for cfg.
func BuildArgs(pkgDir string, cfg BuildConfig) []string {
	args := []string{"build", "--path", pkgDir}
	if cfg.DevMode {
		args = append(args, "--dev")
	}
	if cfg.TestMode {
		args = append(args, "--test")
	}
	if cfg.GenerateDocs {
		args = append(args, "--doc")
	}
	if cfg.GenerateABIs {
		args = append(args, "--abi")
	}
	return args
}

// Compile runs `move build` and loads the resulting bytecode modules. The
// compiler's stderr is included in the returned error.
func (m *MoveCLI) Compile(ctx context.Context, pkgDir string, cfg BuildConfig, out io.Writer) (*CompiledPackage, error) {
	manifest, err := LoadManifest(pkgDir)
	if err != nil {
		return nil, err
	}

	m.Logger.Debug("compiling move package",
		logger.F("package", manifest.Package.Name),
		logger.F("path", pkgDir),
		logger.F("dev", cfg.DevMode),
		logger.F("abi", cfg.GenerateABIs))

	if err := m.run(ctx, out, BuildArgs(pkgDir, cfg)...); err != nil {
		return nil, err
	}

	return LoadPackage(pkgDir, manifest.Package.Name)
}

// Test runs the package's Move unit tests.
func (m *MoveCLI) Test(ctx context.Context, pkgDir string, out io.Writer) error {
	m.Logger.Debug("running move unit tests", logger.F("path", pkgDir))
	return m.run(ctx, out, "unit-test", "--path", pkgDir)
}

func (m *MoveCLI) run(ctx context.Context, out io.Writer, args ...string) error {
	if out == nil {
		out = io.Discard
	}
	var diag bytes.Buffer
	e := m.Executor.WithOutput(out, io.MultiWriter(out, &diag))

	binary := m.Binary
	if binary == "" {
		binary = "move"
	}
	if err := e.Run(ctx, binary, args...); err != nil {
		if d := strings.TrimSpace(diag.String()); d != "" {
			return fmt.Errorf("%w\n%s", err, d)
		}
		return err
	}
	return nil
}

// LoadPackage reads the bytecode modules of a built package. Modules are
// ordered by file name. Dependency bytecode under bytecode_modules/dependencies
// belongs to other packages and is not loaded.
func LoadPackage(pkgDir, name string) (*CompiledPackage, error) {
	buildDir := filepath.Join(pkgDir, BuildDirName, name)
	paths, err := filesystem.ListFiles(filepath.Join(buildDir, bytecodeDirName), bytecodeExt)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", buildDir, err)
	}

	pkg := &CompiledPackage{Name: name, Root: pkgDir, BuildDir: buildDir}
	for _, path := range paths {
		code, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading module %s: %w", path, err)
		}
		pkg.Modules = append(pkg.Modules, CompiledModule{
			Name:     strings.TrimSuffix(filepath.Base(path), bytecodeExt),
			Path:     path,
			Bytecode: code,
		})
	}
	return pkg, nil
}
