// Package cli implements the bridges command-line interface.
//
// # Commands
//
//   - visualize: build a data structure from a JSON or TOML file and deliver it
//   - preview: print the assembled document without delivering it
//   - serve: run a local BRIDGES-compatible server for testing
//   - config: create and inspect the configuration file
//   - cache: manage the delivery deduplication cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// Execute builds the command tree and runs it with ctx. The --verbose flag
// switches the logger to debug level before any command runs.
func (c *CLI) Execute(ctx context.Context, args []string) error {
	var verbose bool

	root := c.RootCommand()
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	preRun := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level := LogInfo
		if verbose {
			level = LogDebug
		}
		c.SetLogLevel(level)
		return preRun(cmd, args)
	}

	if args != nil {
		root.SetArgs(args)
	}
	return root.ExecuteContext(ctx)
}
