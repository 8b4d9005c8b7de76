package main

import (
	"os"

	"github.com/simonhull/shuffle/internal/commands"
	"github.com/simonhull/shuffle/internal/output"
)

func main() {
	rootCmd := commands.RootCmd()

	rootCmd.AddCommand(commands.NewCmd())
	rootCmd.AddCommand(commands.BuildCmd())
	rootCmd.AddCommand(commands.GenerateCmd())
	rootCmd.AddCommand(commands.TestCmd())
	rootCmd.AddCommand(commands.AccountCmd())

	if err := rootCmd.Execute(); err != nil {
		output.Error(err.Error())
		os.Exit(1)
	}
}
