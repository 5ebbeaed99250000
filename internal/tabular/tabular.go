// Package tabular turns an uploaded statement file into a stream of raw rows.
// Delimited text and spreadsheets share the same Reader contract and the same
// header policy, so the rest of the import never looks at the file format.
package tabular

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/stmt-import/internal/models"
	"fjacquet/stmt-import/internal/parsererror"
)

// Format identifies the physical layout of a source.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Label is the upper-case name used in user-facing messages.
func (f Format) Label() string {
	return strings.ToUpper(string(f))
}

// previewRows is how many rows Preview looks at: an optional header and one sample.
const previewRows = 2

// Source is an uploaded file held in memory.
type Source struct {
	Name string
	Data []byte
}

// ReadSource loads the file at path into a Source named after its base name.
func ReadSource(path string) (Source, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the command line
	if err != nil {
		return Source{}, fmt.Errorf("error reading input file: %w", err)
	}
	return Source{Name: filepath.Base(path), Data: data}, nil
}

// Reader yields the rows of one source. Next returns io.EOF once every row has
// been returned; a Reader is single pass and cannot be restarted.
type Reader interface {
	Next() (models.RawRow, error)
	Format() Format
}

// DetectFormat picks the reader from the file extension, ignoring case.
func DetectFormat(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", &parsererror.UnsupportedFormatError{FileName: name}
	}
}

// Open returns a reader over every row of src, header included.
func Open(src Source, cfg models.ImportConfiguration) (Reader, error) {
	format, err := DetectFormat(src.Name)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatXLSX:
		return newXLSXReader(src.Data, cfg.Sheet)
	default:
		return newCSVReader(src.Data, cfg)
	}
}

// OpenData returns a reader positioned after the header row when the
// configuration says the source has one.
func OpenData(src Source, cfg models.ImportConfiguration) (Reader, error) {
	r, err := Open(src, cfg)
	if err != nil {
		return nil, err
	}
	if !cfg.HasHeader {
		return r, nil
	}
	if skipper, ok := r.(interface{ skipFirst() error }); ok {
		if err := skipper.skipFirst(); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Preview reads at most two rows and returns the column labels with the
// matching sample values. Without a header the labels are "Column 1".."Column N"
// and the first row is the sample.
func Preview(src Source, cfg models.ImportConfiguration) ([]string, []models.Cell, error) {
	r, err := Open(src, cfg)
	if err != nil {
		return nil, nil, err
	}

	var rows []models.RawRow
	for len(rows) < previewRows {
		row, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		rows = append(rows, row)
	}

	header, sample := splitPreview(rows, cfg.HasHeader)
	return header, sample, nil
}

func splitPreview(rows []models.RawRow, hasHeader bool) ([]string, []models.Cell) {
	if len(rows) == 0 {
		return nil, nil
	}

	if hasHeader {
		header := make([]string, len(rows[0].Cells))
		for i, c := range rows[0].Cells {
			header[i] = c.String()
		}
		var sample []models.Cell
		if len(rows) > 1 {
			sample = rows[1].Cells
		}
		return header, sample
	}

	header := make([]string, len(rows[0].Cells))
	for i := range header {
		header[i] = fmt.Sprintf("Column %d", i+1)
	}
	return header, rows[0].Cells
}

// SheetNames lists the sheets of a workbook. Delimited text has none.
func SheetNames(src Source) ([]string, error) {
	format, err := DetectFormat(src.Name)
	if err != nil {
		return nil, err
	}
	if format != FormatXLSX {
		return nil, nil
	}
	return workbookSheets(src.Data)
}
