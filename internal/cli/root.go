// Package cli implements the tardiness command line: solve a workflow
// instance and evaluate an existing order.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  string
	date    string
)

// SetVersion is called from main with values injected through ldflags.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

type rootOptions struct {
	verbose    bool
	configPath string
}

func newRootCmd(stderr io.Writer) *cobra.Command {
	var options rootOptions

	root := &cobra.Command{
		Use:          "tardiness",
		Short:        "Order workflow tasks for minimum total tardiness",
		Long:         `tardiness reads a workflow of tasks with due dates and precedence edges and searches a single machine execution order with minimum total tardiness, using best first branch and bound with a greedy fallback.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := log.InfoLevel
			if options.verbose {
				level = log.DebugLevel
			}

			cmd.SetContext(
				withLogger(cmd.Context(), newLogger(stderr, level)),
			)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("tardiness %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&options.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVarP(&options.configPath, "config", "c", "", "YAML or TOML config file")

	root.AddCommand(newSolveCmd(&options))
	root.AddCommand(newEvaluateCmd(&options))

	return root
}

// Execute runs the command line with the process arguments.
func Execute(ctx context.Context) error {
	return newRootCmd(os.Stderr).ExecuteContext(ctx)
}
