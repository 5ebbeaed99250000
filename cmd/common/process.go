// Package common contains shared functionality for command handlers
package common

import (
	"fmt"

	"fjacquet/stmt-import/cmd/root"
	"fjacquet/stmt-import/internal/container"
	"fjacquet/stmt-import/internal/logging"
	"fjacquet/stmt-import/internal/mapping"
	"fjacquet/stmt-import/internal/models"
	"fjacquet/stmt-import/internal/tabular"

	"github.com/spf13/cobra"
)

// MappingFlags select the column mapping of the test and import commands.
type MappingFlags struct {
	File      string
	Overrides []string
}

// AddMappingFlags registers the mapping flags on cmd.
func AddMappingFlags(cmd *cobra.Command, f *MappingFlags) {
	cmd.Flags().StringVarP(&f.File, "mapping", "m", "", "Mapping file written by the preview command (default: guess from the header)")
	cmd.Flags().StringArrayVar(&f.Overrides, "map", nil, "Assign a field to a column by name or 1-based number, e.g. --map amount=3 (repeatable, empty column unassigns)")
}

// Job is everything an import run needs.
type Job struct {
	Container *container.Container
	Source    tabular.Source
	Options   models.ImportConfiguration
	Mapping   models.ColumnMapping
	Journal   string
}

// PrepareJob reads the input file and resolves the options and the mapping.
func PrepareJob(opts *root.Options, flags MappingFlags) (Job, error) {
	c, err := opts.Container()
	if err != nil {
		return Job{}, err
	}
	if opts.Input == "" {
		return Job{}, fmt.Errorf("input file is required (use --input)")
	}

	src, err := tabular.ReadSource(opts.Input)
	if err != nil {
		return Job{}, err
	}
	if _, err := tabular.DetectFormat(src.Name); err != nil {
		return Job{}, err
	}

	cfg, err := c.GetConfig().ImportConfiguration()
	if err != nil {
		return Job{}, err
	}

	m, err := ResolveMapping(c, src, cfg, flags)
	if err != nil {
		return Job{}, err
	}

	return Job{
		Container: c,
		Source:    src,
		Options:   cfg,
		Mapping:   m,
		Journal:   c.GetConfig().Ledger.Journal,
	}, nil
}

// ResolveMapping loads the mapping file, or guesses a mapping from the file
// itself, and then applies the command line overrides.
func ResolveMapping(c *container.Container, src tabular.Source, cfg models.ImportConfiguration, flags MappingFlags) (models.ColumnMapping, error) {
	logger := c.GetLogger().WithField(logging.FieldFile, src.Name)

	var m models.ColumnMapping
	if flags.File != "" {
		loaded, err := mapping.Load(flags.File)
		if err != nil {
			return models.ColumnMapping{}, err
		}
		logger.Debug("Loaded column mapping", logging.F(logging.FieldInputFile, flags.File))
		m = loaded
	} else {
		m = c.GetImporter().PreviewMapping(src, cfg)
	}

	if len(flags.Overrides) == 0 {
		return m, nil
	}
	overrides, err := mapping.ParseOverrides(flags.Overrides)
	if err != nil {
		return models.ColumnMapping{}, err
	}
	return mapping.Apply(m, overrides)
}
