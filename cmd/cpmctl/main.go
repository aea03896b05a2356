package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "cpmctl",
		Short: "Critical path analysis for schedule plan files",
		Long: `cpmctl reads task definitions from HCL plan files and computes earliest and
latest start and finish, slack and the critical path of the schedule, without
a running server.`,
		SilenceUsage: true,
	}
	root.AddCommand(analyzeCmd())
	return root
}
