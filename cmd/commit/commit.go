// Package commit implements the import command, which files a statement in the ledger.
package commit

import (
	"fmt"

	"fjacquet/stmt-import/cmd/common"
	"fjacquet/stmt-import/cmd/root"

	"github.com/spf13/cobra"
)

// NewCommand creates the import command.
func NewCommand(opts *root.Options) *cobra.Command {
	var mappingFlags common.MappingFlags

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a statement file into a ledger journal",
		Long: `Read the whole statement file and file every valid row as one statement
in the journal. Under the fail policy nothing is filed unless every row is valid.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := common.PrepareJob(opts, mappingFlags)
			if err != nil {
				return err
			}

			ref, err := job.Container.GetImporter().RunImport(job.Source, job.Options, job.Mapping, job.Journal)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Statement %s imported into journal %s\n", ref, job.Journal)
			return nil
		},
	}
	common.AddMappingFlags(cmd, &mappingFlags)
	return cmd
}
