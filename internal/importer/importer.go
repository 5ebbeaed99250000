// Package importer drives a statement import from an uploaded file to either a
// dry-run report or a committed ledger statement.
package importer

import (
	"errors"
	"fmt"
	"io"
	"time"

	"fjacquet/stmt-import/internal/extractor"
	"fjacquet/stmt-import/internal/ledger"
	"fjacquet/stmt-import/internal/logging"
	"fjacquet/stmt-import/internal/mapping"
	"fjacquet/stmt-import/internal/models"
	"fjacquet/stmt-import/internal/parsererror"
	"fjacquet/stmt-import/internal/tabular"
)

// Phase is a step of one import run.
type Phase string

const (
	PhaseConfiguring Phase = "configuring"
	PhasePreviewing  Phase = "previewing"
	PhaseValidating  Phase = "validating"
	PhaseExtracting  Phase = "extracting"
	PhaseCommitting  Phase = "committing"
	PhaseReporting   Phase = "reporting"
)

// Importer runs imports against one ledger. It holds no per-run state, so one
// Importer can serve any number of runs.
type Importer struct {
	store  ledger.Store
	logger logging.Logger
	now    func() time.Time
}

// New creates an Importer. A nil logger falls back to the default logger.
func New(store ledger.Store, logger logging.Logger) *Importer {
	return &Importer{
		store:  store,
		logger: logging.OrDefault(logger),
		now:    time.Now,
	}
}

// SetClock replaces the clock used to date rows without a date.
func (i *Importer) SetClock(now func() time.Time) {
	if now != nil {
		i.now = now
	}
}

// PreviewMapping reads the first rows of src and proposes a mapping. It never
// fails: anything that prevents reading the file yields an empty mapping.
func (i *Importer) PreviewMapping(src tabular.Source, cfg models.ImportConfiguration) models.ColumnMapping {
	logger := i.logger.WithFields(
		logging.F(logging.FieldFile, src.Name),
		logging.F(logging.FieldPhase, PhasePreviewing),
	)

	header, sample, err := tabular.Preview(src, cfg)
	if err != nil {
		logger.WithError(err).Error("Error parsing file for preview")
		return models.ColumnMapping{}
	}

	m := mapping.Build(header, sample, cfg.HasHeader)
	logger.Debug("Built column mapping", logging.F(logging.FieldCount, m.Len()))
	return m
}

// Sheets lists the sheets of a workbook for sheet selection. Delimited text
// and unreadable files have none.
func (i *Importer) Sheets(src tabular.Source) []string {
	names, err := tabular.SheetNames(src)
	if err != nil {
		i.logger.WithError(err).WithField(logging.FieldFile, src.Name).Warn("Cannot list workbook sheets")
		return nil
	}
	return names
}

// TestImport runs the whole import without committing anything.
//
// The error is only set for problems found before any row is read: invalid
// options, an unusable journal, an invalid mapping or an unsupported file.
// Problems found while reading end up in the report.
func (i *Importer) TestImport(src tabular.Source, cfg models.ImportConfiguration, m models.ColumnMapping, journal string) (models.ImportReport, error) {
	r := i.newRun(src, cfg, m, journal, true)
	report := models.ImportReport{SourceName: src.Name}

	if err := r.validate(); err != nil {
		return report, err
	}

	err := r.extract()
	r.setPhase(PhaseReporting)
	report.TotalRows = r.total
	report.ValidCount = r.valid
	report.SkippedCount = r.skipped
	if err != nil {
		report.Fatal = true
		report.Diagnostics = []string{fmt.Sprintf("Fatal %s Error: %v", r.format.Label(), err)}
		r.logger.WithError(err).Warn("Test import stopped")
		return report, nil
	}

	report.Diagnostics = r.diagnostics
	report.Records = r.records
	r.logger.Info("Test import finished",
		logging.F(logging.FieldValid, r.valid),
		logging.F(logging.FieldSkipped, r.skipped))
	return report, nil
}

// RunImport imports src and files every valid row as one statement in journal.
// It returns the reference of the new statement. Nothing is committed unless
// the whole file was read.
func (i *Importer) RunImport(src tabular.Source, cfg models.ImportConfiguration, m models.ColumnMapping, journal string) (string, error) {
	r := i.newRun(src, cfg, m, journal, false)

	if err := r.validate(); err != nil {
		return "", err
	}
	if err := r.extract(); err != nil {
		return "", fmt.Errorf("error parsing %s file: %w", r.format.Label(), err)
	}

	if r.valid == 0 {
		if r.skipped > 0 {
			return "", &parsererror.ConfigurationError{
				Reason: fmt.Sprintf("%d lines were skipped due to errors", r.skipped),
				Err:    parsererror.ErrNoValidTransactions,
			}
		}
		return "", &parsererror.ConfigurationError{Err: parsererror.ErrNoValidTransactions}
	}

	r.setPhase(PhaseCommitting)
	ref, err := i.store.CommitStatement(models.ImportBatch{
		SourceName: src.Name,
		Journal:    journal,
		Records:    r.records,
	})
	if err != nil {
		r.logger.WithError(err).Error("Failed to commit statement")
		return "", err
	}

	r.logger.Info("Import finished",
		logging.F(logging.FieldStatement, ref),
		logging.F(logging.FieldValid, r.valid),
		logging.F(logging.FieldSkipped, r.skipped))
	return ref, nil
}

// run is the state of a single import.
type run struct {
	store   ledger.Store
	now     func() time.Time
	logger  logging.Logger
	src     tabular.Source
	cfg     models.ImportConfiguration
	mapping models.ColumnMapping
	journal string
	phase   Phase
	format  tabular.Format

	total       int
	valid       int
	skipped     int
	diagnostics []string
	records     []models.TransactionRecord
}

func (i *Importer) newRun(src tabular.Source, cfg models.ImportConfiguration, m models.ColumnMapping, journal string, dryRun bool) *run {
	r := &run{
		store:   i.store,
		now:     i.now,
		src:     src,
		cfg:     cfg,
		mapping: m,
		journal: journal,
		logger: i.logger.WithFields(
			logging.F(logging.FieldFile, src.Name),
			logging.F(logging.FieldJournal, journal),
			logging.F(logging.FieldDryRun, dryRun),
		),
	}
	r.setPhase(PhaseConfiguring)
	return r
}

func (r *run) setPhase(p Phase) {
	r.phase = p
	r.logger.Debug("Import phase", logging.F(logging.FieldPhase, p))
}

// validate runs every check that must pass before the first row is read.
func (r *run) validate() error {
	if err := r.cfg.Validate(); err != nil {
		return &parsererror.ConfigurationError{Reason: "invalid import options", Err: err}
	}
	if r.cfg.SeparatorsCollide() {
		r.logger.Warn("Decimal and thousands separators are the same character",
			logging.F(logging.FieldDelimiter, r.cfg.DecimalSeparator.Char()))
	}

	r.setPhase(PhaseValidating)
	if err := r.store.CheckJournal(r.journal); err != nil {
		return &parsererror.ConfigurationError{Err: err}
	}
	if err := mapping.Validate(r.mapping); err != nil {
		return err
	}

	format, err := tabular.DetectFormat(r.src.Name)
	if err != nil {
		return err
	}
	r.format = format
	return nil
}

// extract reads every data row. The returned error is fatal for the run: the
// file could not be read or a row failed under the fail policy.
func (r *run) extract() error {
	r.setPhase(PhaseExtracting)

	reader, err := tabular.OpenData(r.src, r.cfg)
	if err != nil {
		return err
	}

	ex := extractor.New(r.mapping, r.cfg, r.store, r.logger)
	ex.SetClock(r.now)

	for {
		row, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if row.IsBlank() {
			continue
		}
		r.total++

		rec, err := ex.Extract(row)
		if err != nil {
			r.skipped++
			r.diagnostics = append(r.diagnostics, err.Error())
			r.logger.Warn("Row skipped",
				logging.F(logging.FieldRow, row.Number),
				logging.F(logging.FieldError, err.Error()),
				logging.F(logging.FieldPolicy, r.cfg.OnError))
			if r.cfg.OnError == models.OnErrorFail {
				return err
			}
			continue
		}
		r.valid++
		r.records = append(r.records, rec)
	}
}
