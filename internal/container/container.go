// Package container provides dependency injection for the stmt-import application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"fmt"

	"fjacquet/stmt-import/internal/config"
	"fjacquet/stmt-import/internal/importer"
	"fjacquet/stmt-import/internal/ledger"
	"fjacquet/stmt-import/internal/logging"
	"fjacquet/stmt-import/internal/report"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation: all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger   logging.Logger
	config   *config.Config
	store    ledger.Store
	importer *importer.Importer
	reporter *report.Generator
}

// Option customizes a Container under construction.
type Option func(*options)

type options struct {
	logger logging.Logger
	store  ledger.Store
}

// WithLogger uses logger instead of one built from the log section.
func WithLogger(logger logging.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithStore uses store instead of the file ledger in the configured directory.
func WithStore(store ledger.Store) Option {
	return func(o *options) { o.store = store }
}

// NewContainer creates and wires all application dependencies.
func NewContainer(cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	// Create logger first as it's needed by other components
	logger := o.logger
	if logger == nil {
		logger = config.NewLogger(cfg)
	}

	store := o.store
	if store == nil {
		dir := cfg.LedgerDirectory()
		fileStore, err := ledger.NewFileStore(dir, cfg.LedgerDelimiter(), logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open ledger in %s: %w", dir, err)
		}
		store = fileStore
	}

	reporter := report.NewGenerator(logger)
	reporter.ShowRecords = cfg.Report.ShowRecords

	logger.Debug("Container initialized",
		logging.F(logging.FieldJournal, cfg.Ledger.Journal),
		logging.F(logging.FieldFormat, cfg.Report.Format))

	return &Container{
		logger:   logger,
		config:   cfg,
		store:    store,
		importer: importer.New(store, logger),
		reporter: reporter,
	}, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetStore returns the ledger the importer commits to.
func (c *Container) GetStore() ledger.Store {
	return c.store
}

// GetImporter returns the importer bound to the container's ledger.
func (c *Container) GetImporter() *importer.Importer {
	return c.importer
}

// GetReportGenerator returns the report generator.
func (c *Container) GetReportGenerator() *report.Generator {
	return c.reporter
}

// Close performs cleanup of container resources.
func (c *Container) Close() error {
	c.logger.Debug("Container closed")
	return nil
}
