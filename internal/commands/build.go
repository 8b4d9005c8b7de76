package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simonhull/shuffle/internal/bindings"
	"github.com/simonhull/shuffle/internal/compiler"
	"github.com/simonhull/shuffle/internal/exec"
	"github.com/simonhull/shuffle/internal/logger"
	"github.com/simonhull/shuffle/internal/output"
	"github.com/simonhull/shuffle/internal/project"
)

func moveCompiler() compiler.Compiler {
	return compiler.NewMoveCLI(exec.NewExecutor(nil), logger.Default())
}

// BuildCmd compiles the project's main package.
func BuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Compile the project's Move package",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, cfg, err := projectRoot()
			if err != nil {
				return err
			}
			output.Verbose(fmt.Sprintf("Project root: %s (blockchain %s)", root, cfg.Blockchain))

			pkg, err := compiler.Build(cmd.Context(), moveCompiler(), root, output.Writer())
			if err != nil {
				return err
			}
			if len(pkg.Modules) == 0 {
				output.Warn(fmt.Sprintf("%s compiled to no modules", pkg.Name))
			}
			output.Success(fmt.Sprintf("Built %s (%d modules)", pkg.Name, len(pkg.Modules)))
			return nil
		},
	}
}

// GenerateCmd builds the project and regenerates its TypeScript bindings.
func GenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Generate TypeScript bindings for the project",
		Long: `Compiles the main package and writes TypeScript bindings to
main/generated/:
  serde/       serialization runtime
  bcs/         BCS runtime
  diemTypes/   Diem types with BCS support
  diemStdlib/  transaction builders for the package's script functions

Each directory is replaced on every run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, cfg, err := projectRoot()
			if err != nil {
				return err
			}
			output.Verbose(fmt.Sprintf("Generating bindings for %s", cfg.Blockchain))

			g := bindings.New(moveCompiler(), logger.Default(), output.Writer())
			if err := g.Generate(cmd.Context(), root); err != nil {
				return err
			}
			output.Success(fmt.Sprintf("Generated TypeScript bindings in %s", project.GeneratedPath(root)))
			return nil
		},
	}
}
