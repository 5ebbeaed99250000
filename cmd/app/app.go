// Package app assembles the command tree.
package app

import (
	"fjacquet/stmt-import/cmd/commit"
	"fjacquet/stmt-import/cmd/dryrun"
	"fjacquet/stmt-import/cmd/preview"
	"fjacquet/stmt-import/cmd/root"

	"github.com/spf13/cobra"
)

// New returns the root command with every subcommand, sharing opts.
func New(opts *root.Options) *cobra.Command {
	cmd := root.NewCommand(opts)
	cmd.AddCommand(
		preview.NewCommand(opts),
		dryrun.NewCommand(opts),
		commit.NewCommand(opts),
	)
	return cmd
}
