package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/simonhull/shuffle/internal/exec"
	"github.com/simonhull/shuffle/internal/output"
	"github.com/simonhull/shuffle/internal/testrunner"
)

// TestCmd runs the project's tests.
func TestCmd() *cobra.Command {
	var unitOnly, e2eOnly bool

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Run Move unit tests and Deno e2e tests",
		Long: `Runs the Move unit tests of the main package, then the Deno tests in
e2e/ against the configured network using the test account from the
Shuffle home.

Examples:
  shuffle test
  shuffle test --unit
  SHUFFLE_JSON_RPC_URL=http://127.0.0.1:9080/v1 shuffle test --e2e`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if unitOnly && e2eOnly {
				return fmt.Errorf("--unit and --e2e are mutually exclusive")
			}
			root, cfg, err := projectRoot()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if !e2eOnly {
				if err := testrunner.RunMoveUnitTests(ctx, moveCompiler(), root, output.Writer()); err != nil {
					return err
				}
				output.Success("Move unit tests passed")
			}
			if unitOnly {
				return nil
			}

			s, err := LoadSettings(cmd.Flags())
			if err != nil {
				return err
			}
			output.Verbose(fmt.Sprintf("Running e2e tests against %s at %s", cfg.Blockchain, s.JSONRPCURL))
			sender, err := s.Home.TestAddress()
			if err != nil {
				return fmt.Errorf("reading test account (run shuffle account first): %w", err)
			}

			deno := testrunner.NewDenoRunner(exec.NewExecutor(nil))
			err = deno.Run(ctx, testrunner.DenoConfig{
				ProjectPath: root,
				Home:        s.Home,
				NetworkURL:  s.JSONRPCURL,
				RESTURL:     s.RESTURL,
				KeyPath:     s.Home.TestKeyPath(),
				Sender:      sender,
				TestDir:     filepath.Join(root, testrunner.E2EDir),
			})
			if err != nil {
				return err
			}
			output.Success("e2e tests passed")
			return nil
		},
	}

	cmd.Flags().BoolVar(&unitOnly, "unit", false, "Run only the Move unit tests")
	cmd.Flags().BoolVar(&e2eOnly, "e2e", false, "Run only the Deno e2e tests")

	return cmd
}
