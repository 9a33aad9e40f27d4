package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "notebook-inspect",
		Short:         "Inspect, validate and normalize notebook JSON files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newLsCmd(), newValidateCmd(), newFmtCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
