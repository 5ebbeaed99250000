// Package preview implements the preview command, which proposes a column mapping.
package preview

import (
	"fmt"
	"strings"

	"fjacquet/stmt-import/cmd/root"
	"fjacquet/stmt-import/internal/logging"
	"fjacquet/stmt-import/internal/mapping"
	"fjacquet/stmt-import/internal/tabular"

	"github.com/spf13/cobra"
)

// NewCommand creates the preview command.
func NewCommand(opts *root.Options) *cobra.Command {
	var save string

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Propose a column mapping for a statement file",
		Long: `Read the first rows of a statement file and print the proposed column
mapping as YAML. Edit the saved mapping and pass it to "test" or "import"
with --mapping.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, save)
		},
	}
	cmd.Flags().StringVarP(&save, "save", "s", "", "Also write the mapping to this file")
	return cmd
}

func run(cmd *cobra.Command, opts *root.Options, save string) error {
	c, err := opts.Container()
	if err != nil {
		return err
	}
	if opts.Input == "" {
		return fmt.Errorf("input file is required (use --input)")
	}

	src, err := tabular.ReadSource(opts.Input)
	if err != nil {
		return err
	}
	cfg, err := c.GetConfig().ImportConfiguration()
	if err != nil {
		return err
	}

	imp := c.GetImporter()
	out := cmd.OutOrStdout()
	if sheets := imp.Sheets(src); len(sheets) > 0 {
		fmt.Fprintf(out, "# sheets: %s\n", strings.Join(sheets, ", "))
	}

	m := imp.PreviewMapping(src, cfg)
	if m.IsEmpty() {
		return fmt.Errorf("no columns found in %s, check the file and the import options", src.Name)
	}

	data, err := mapping.Encode(src.Name, m)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		return err
	}

	if save != "" {
		if err := mapping.Save(save, src.Name, m); err != nil {
			return err
		}
		c.GetLogger().Info("Mapping saved", logging.F(logging.FieldOutputFile, save))
	}
	return nil
}
