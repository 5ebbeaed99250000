package tabular

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"time"

	"fjacquet/stmt-import/internal/models"
	"fjacquet/stmt-import/internal/parsererror"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

var errNoSheets = errors.New("workbook has no sheets")

// Layouts accepted for cells stored with the ISO 8601 date type.
var isoCellLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// xlsxReader holds the cached values of one sheet. The workbook is read in full
// when the reader is created and closed right away.
type xlsxReader struct {
	rows []models.RawRow
	pos  int
}

func openWorkbook(data []byte) (*excelize.File, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, xlsxParseError("workbook", "data", err)
	}
	return f, nil
}

func workbookSheets(data []byte) ([]string, error) {
	f, err := openWorkbook(data)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return f.GetSheetList(), nil
}

// selectSheet returns the requested sheet, or the first one when the request is
// empty or names a sheet the workbook does not have.
func selectSheet(f *excelize.File, requested string) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", xlsxParseError("sheet", requested, errNoSheets)
	}
	for _, name := range sheets {
		if name == requested {
			return name, nil
		}
	}
	return sheets[0], nil
}

func newXLSXReader(data []byte, sheet string) (*xlsxReader, error) {
	f, err := openWorkbook(data)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	name, err := selectSheet(f, sheet)
	if err != nil {
		return nil, err
	}

	raw, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, xlsxParseError("sheet", name, err)
	}

	conv := newCellConverter(f, name)
	rows := make([]models.RawRow, len(raw))
	for i, values := range raw {
		cells := make([]models.Cell, len(values))
		for j, v := range values {
			cells[j] = conv.convert(i, j, v)
		}
		rows[i] = models.RawRow{Number: i + 1, Cells: cells}
	}
	return &xlsxReader{rows: rows}, nil
}

func (r *xlsxReader) Format() Format {
	return FormatXLSX
}

// Next returns the next sheet row. Empty rows are returned too; the row number
// is the sheet row.
func (r *xlsxReader) Next() (models.RawRow, error) {
	if r.pos >= len(r.rows) {
		return models.RawRow{}, io.EOF
	}
	row := r.rows[r.pos]
	r.pos++
	return row, nil
}

func (r *xlsxReader) skipFirst() error {
	if r.pos < len(r.rows) {
		r.pos++
	}
	return nil
}

// cellConverter restores the native type of cached cell values.
type cellConverter struct {
	file      *excelize.File
	sheet     string
	date1904  bool
	dateStyle map[int]bool
}

func newCellConverter(f *excelize.File, sheet string) *cellConverter {
	c := &cellConverter{file: f, sheet: sheet, dateStyle: make(map[int]bool)}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		c.date1904 = *props.Date1904
	}
	return c
}

func (c *cellConverter) convert(row, col int, raw string) models.Cell {
	if raw == "" {
		return models.EmptyCell()
	}
	axis, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return models.TextCell(raw)
	}
	typ, err := c.file.GetCellType(c.sheet, axis)
	if err != nil {
		return models.TextCell(raw)
	}

	switch typ {
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		return c.number(axis, raw)
	case excelize.CellTypeDate:
		for _, layout := range isoCellLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return models.DateCell(t)
			}
		}
		return models.TextCell(raw)
	case excelize.CellTypeBool:
		if raw == "1" {
			return models.TextCell("TRUE")
		}
		return models.TextCell("FALSE")
	default:
		return models.TextCell(raw)
	}
}

func (c *cellConverter) number(axis, raw string) models.Cell {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return models.TextCell(raw)
	}
	if c.isDateFormatted(axis) {
		if t, err := excelize.ExcelDateToTime(d.InexactFloat64(), c.date1904); err == nil {
			return models.DateCell(t)
		}
	}
	return models.NumberCell(d)
}

func (c *cellConverter) isDateFormatted(axis string) bool {
	styleID, err := c.file.GetCellStyle(c.sheet, axis)
	if err != nil || styleID == 0 {
		return false
	}
	if known, ok := c.dateStyle[styleID]; ok {
		return known
	}
	isDate := false
	if style, err := c.file.GetStyle(styleID); err == nil && style != nil {
		isDate = isDateNumFmt(style.NumFmt, style.CustomNumFmt)
	}
	c.dateStyle[styleID] = isDate
	return isDate
}

// isDateNumFmt reports whether a number format renders a calendar date.
// Time-only formats are left as numbers.
func isDateNumFmt(id int, custom *string) bool {
	if custom != nil && *custom != "" {
		return customFormatHasDate(*custom)
	}
	switch {
	case id >= 14 && id <= 17, id == 22:
		return true
	case id >= 27 && id <= 36:
		return true
	case id >= 50 && id <= 58:
		return true
	default:
		return false
	}
}

func customFormatHasDate(format string) bool {
	var b strings.Builder
	inQuote, inBracket := false, false
	for _, r := range format {
		switch {
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '[':
			inBracket = true
		case r == ']':
			inBracket = false
		case inBracket:
		default:
			b.WriteRune(r)
		}
	}
	code := strings.ToLower(b.String())
	return strings.ContainsAny(code, "yd")
}

func xlsxParseError(field, value string, err error) error {
	return &parsererror.ParseError{Parser: FormatXLSX.Label(), Field: field, Value: value, Err: err}
}
