// Package extractor turns one raw source row into a transaction record.
package extractor

import (
	"strings"
	"time"

	"fjacquet/stmt-import/internal/currencyutils"
	"fjacquet/stmt-import/internal/dateutils"
	"fjacquet/stmt-import/internal/ledger"
	"fjacquet/stmt-import/internal/logging"
	"fjacquet/stmt-import/internal/models"
	"fjacquet/stmt-import/internal/parsererror"

	"github.com/shopspring/decimal"
)

// column is a mapped column index; ok is false when the field is not mapped.
type column struct {
	index int
	ok    bool
}

// Extractor applies one mapping and one configuration to many rows.
type Extractor struct {
	mapping models.ColumnMapping
	cfg     models.ImportConfiguration
	format  models.NumberFormat
	store   ledger.Store
	logger  logging.Logger
	now     func() time.Time

	date, label, partner, amount, currency, foreignAmount column
}

// New prepares an extractor. The mapping is expected to be validated.
func New(m models.ColumnMapping, cfg models.ImportConfiguration, store ledger.Store, logger logging.Logger) *Extractor {
	lookup := func(f models.TargetField) column {
		idx, ok := m.Index(f)
		return column{index: idx, ok: ok}
	}
	return &Extractor{
		mapping:       m,
		cfg:           cfg,
		format:        cfg.NumberFormat(),
		store:         store,
		logger:        logging.OrDefault(logger),
		now:           time.Now,
		date:          lookup(models.FieldDate),
		label:         lookup(models.FieldPaymentRef),
		partner:       lookup(models.FieldPartner),
		amount:        lookup(models.FieldAmount),
		currency:      lookup(models.FieldForeignCurrencyCode),
		foreignAmount: lookup(models.FieldAmountCurrency),
	}
}

// SetClock replaces the clock used for rows without a date.
func (e *Extractor) SetClock(now func() time.Time) {
	if now != nil {
		e.now = now
	}
}

// cell returns the value of a mapped column; ok is false when the column is
// not mapped or lies beyond the end of the row.
func (e *Extractor) cell(row models.RawRow, c column) (models.Cell, bool) {
	if !c.ok {
		return models.EmptyCell(), false
	}
	return row.Cell(c.index)
}

// Extract builds the record for row. Date and amount failures abort the row
// with a *parsererror.RowError; partner and foreign currency problems only
// leave those fields empty.
func (e *Extractor) Extract(row models.RawRow) (models.TransactionRecord, error) {
	var rec models.TransactionRecord

	date, err := e.extractDate(row)
	if err != nil {
		return models.TransactionRecord{}, err
	}
	rec.Date = date

	rec.PaymentRef = models.DefaultPaymentRef
	if c, ok := e.cell(row, e.label); ok && !c.IsEmpty() {
		rec.PaymentRef = c.String()
	}

	if c, ok := e.cell(row, e.partner); ok {
		if name := strings.TrimSpace(c.String()); name != "" {
			if id, found := e.store.FindOrCreatePartner(name, e.cfg.CreatePartner); found {
				rec.PartnerRef = id
			}
		}
	}

	amount, err := e.extractAmount(row)
	if err != nil {
		return models.TransactionRecord{}, err
	}
	rec.Amount = amount

	e.extractForeign(row, &rec)
	return rec, nil
}

func (e *Extractor) extractDate(row models.RawRow) (time.Time, error) {
	c, ok := e.cell(row, e.date)
	if !ok {
		return dateutils.Today(e.now()), nil
	}
	date, found, err := dateutils.ParseDate(c, e.cfg.DateFormat)
	if err != nil {
		return time.Time{}, e.rowError(row, parsererror.InvalidDate, e.date.index, c, err)
	}
	if !found {
		return dateutils.Today(e.now()), nil
	}
	return date, nil
}

func (e *Extractor) extractAmount(row models.RawRow) (decimal.Decimal, error) {
	c, ok := e.cell(row, e.amount)
	if !ok {
		return decimal.Zero, nil
	}
	amount, err := currencyutils.ParseAmount(c, e.format)
	if err != nil {
		return decimal.Zero, e.rowError(row, parsererror.InvalidAmount, e.amount.index, c, err)
	}
	return amount, nil
}

func (e *Extractor) extractForeign(row models.RawRow, rec *models.TransactionRecord) {
	c, ok := e.cell(row, e.currency)
	if !ok {
		return
	}
	code := strings.TrimSpace(c.String())
	if code == "" {
		return
	}
	id, found := e.store.FindCurrencyByCode(code)
	if !found {
		e.logger.WithFields(
			logging.F(logging.FieldRow, row.Number),
			logging.F(logging.FieldCurrency, code),
		).Debug("Unknown currency code, foreign amount ignored")
		return
	}
	rec.ForeignCurrencyRef = id

	ac, ok := e.cell(row, e.foreignAmount)
	if !ok {
		return
	}
	amount, err := currencyutils.ParseAmount(ac, e.format)
	if err != nil {
		e.logger.WithError(err).WithFields(
			logging.F(logging.FieldRow, row.Number),
			logging.F(logging.FieldColumn, e.mapping.ColumnName(e.foreignAmount.index)),
			logging.F(logging.FieldValue, ac.String()),
		).Warn("Invalid foreign amount, using zero")
		return
	}
	rec.ForeignAmount = amount
}

func (e *Extractor) rowError(row models.RawRow, kind parsererror.RowErrorKind, index int, c models.Cell, err error) error {
	return &parsererror.RowError{
		Row:        row.Number,
		Kind:       kind,
		Column:     index,
		ColumnName: e.mapping.ColumnName(index),
		Value:      c.String(),
		Err:        err,
	}
}
