package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simonhull/shuffle/internal/output"
	"github.com/simonhull/shuffle/internal/project"
)

// NewCmd creates and returns the 'new' command for scaffolding projects
func NewCmd() *cobra.Command {
	var opts project.ScaffoldOptions

	cmd := &cobra.Command{
		Use:   "new [path]",
		Short: "Create a new Shuffle project",
		Long: `Creates a new Shuffle project with:
• Shuffle.toml
• A sample Move package in main/ (the Message module)
• Deno e2e and integration test skeletons

Example:
  shuffle new helloblockchain`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			output.Verbose(fmt.Sprintf("Creating new Shuffle project: %s", path))

			scaffolder := project.NewScaffolder(output.Writer())
			if err := scaffolder.Scaffold(cmd.Context(), path, opts); err != nil {
				return err
			}
			if opts.DryRun {
				return nil
			}

			output.Success(fmt.Sprintf("Created Shuffle project: %s", path))
			output.Info("Next steps:")
			output.Step(fmt.Sprintf("cd %s", path))
			output.Step("shuffle build")
			output.Step("shuffle generate")
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Blockchain, "blockchain", project.DefaultBlockchain, "Blockchain written to Shuffle.toml")
	cmd.Flags().StringVar(&opts.PackageName, "package", "", "Move package name (default: Message)")
	cmd.Flags().StringVar(&opts.DevAddress, "dev-address", "", "Address bound to Sender in dev mode (default: 0xe110)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Print the files that would be created")

	return cmd
}
