// Package dryrun implements the test command, which runs an import without
// committing anything.
package dryrun

import (
	"fmt"

	"fjacquet/stmt-import/cmd/common"
	"fjacquet/stmt-import/cmd/root"
	"fjacquet/stmt-import/internal/report"

	"github.com/spf13/cobra"
)

// NewCommand creates the test command.
func NewCommand(opts *root.Options) *cobra.Command {
	var (
		mappingFlags common.MappingFlags
		format       string
	)

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Dry-run an import and print a report",
		Long: `Read the whole statement file with the current options and mapping and
report how many rows would be imported. Nothing is written to the ledger.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := common.PrepareJob(opts, mappingFlags)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("format") {
				format = job.Container.GetConfig().Report.Format
			}
			if !report.ValidFormat(format) {
				return fmt.Errorf("unsupported report format: %s", format)
			}

			result, err := job.Container.GetImporter().TestImport(job.Source, job.Options, job.Mapping, job.Journal)
			if err != nil {
				return err
			}
			return job.Container.GetReportGenerator().Write(cmd.OutOrStdout(), result, format)
		},
	}
	common.AddMappingFlags(cmd, &mappingFlags)
	cmd.Flags().StringVarP(&format, "format", "f", report.FormatText, "Report format (text, json, yaml)")
	return cmd
}
