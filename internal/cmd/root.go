// Package cmd implements the CLI commands for logtree.
package cmd

import (
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags
var Version = "dev"

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "logtree",
	Short: "Inspect and exercise hierarchical logging configurations",
	Long: `logtree works with the YAML configurations of the logtree logging library.

It validates configuration files, prints the logger hierarchy they describe
with effective levels and appenders, emits test events through a configured
registry, and queries events recorded by store appenders.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and returns any error.
func Execute() error {
	return rootCmd.Execute()
}
