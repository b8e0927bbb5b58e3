package main

import (
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0-dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "asmgraft",
		Short:         "Structural identity of .NET metadata across modules",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.AddCommand(newVersionCmd())
	root.AddCommand(newCompareCmd())
	root.AddCommand(newHashCmd())
	root.AddCommand(newPlanCmd())
	root.AddCommand(newPackCmd())
	root.AddCommand(newProfileCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}
