package commands

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/simonhull/shuffle/internal/output"
	"github.com/simonhull/shuffle/internal/project"
)

// AccountCmd creates the latest and test keys in the Shuffle home.
func AccountCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "account",
		Short: "Create local keys for the latest and test accounts",
		Long: `Generates ed25519 keys for the latest (publishing) and test accounts in
the Shuffle home and prints their addresses. Existing keys are kept unless
--force is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := LoadSettings(cmd.Flags())
			if err != nil {
				return err
			}
			output.Verbose(fmt.Sprintf("Shuffle home: %s", s.Home.Dir()))

			for _, role := range []project.AccountRole{project.LatestAccount, project.TestAccount} {
				addr, err := s.Home.Address(role)
				switch {
				case err == nil && !force:
					output.Info(fmt.Sprintf("%s account exists: %s", role, addr.Hex()))
					continue
				case err == nil:
					output.Warn(fmt.Sprintf("Replacing %s account %s", role, addr.Hex()))
				case !errors.Is(err, fs.ErrNotExist):
					return err
				}

				acct, err := s.Home.GenerateKey(role)
				if err != nil {
					return err
				}
				output.Success(fmt.Sprintf("Created %s account: %s", role, acct.Address.Hex()))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Replace existing keys")

	return cmd
}
