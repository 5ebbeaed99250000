package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"fjacquet/stmt-import/internal/models"
	"fjacquet/stmt-import/internal/parsererror"
)

// csvReader reads delimited text. encoding/csv only knows the double quote, so
// a custom quote character is swapped with '"' before parsing and swapped back
// in every field afterwards.
type csvReader struct {
	reader  *csv.Reader
	swapper *strings.Replacer
}

func newCSVReader(data []byte, cfg models.ImportConfiguration) (*csvReader, error) {
	text, err := Decode(data, cfg.Encoding)
	if err != nil {
		return nil, err
	}

	var swapper *strings.Replacer
	if quote := cfg.Quote(); quote != '"' {
		swapper = strings.NewReplacer(`"`, string(quote), string(quote), `"`)
		text = swapper.Replace(text)
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = cfg.Separator.Rune()
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	return &csvReader{reader: reader, swapper: swapper}, nil
}

func (r *csvReader) Format() Format {
	return FormatCSV
}

// Next returns the next record. Blank lines never reach the caller and the row
// number is the line the record starts on.
func (r *csvReader) Next() (models.RawRow, error) {
	record, err := r.reader.Read()
	if err == io.EOF {
		return models.RawRow{}, io.EOF
	}
	if err != nil {
		return models.RawRow{}, csvParseError(err)
	}

	line, _ := r.reader.FieldPos(0)
	cells := make([]models.Cell, len(record))
	for i, field := range record {
		if r.swapper != nil {
			field = r.swapper.Replace(field)
		}
		cells[i] = models.TextCell(field)
	}
	return models.RawRow{Number: line, Cells: cells}, nil
}

func (r *csvReader) skipFirst() error {
	if _, err := r.Next(); err != nil && err != io.EOF {
		return err
	}
	return nil
}

func csvParseError(err error) error {
	value := "input"
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		value = fmt.Sprintf("line %d", pe.StartLine)
	}
	return &parsererror.ParseError{Parser: FormatCSV.Label(), Field: "record", Value: value, Err: err}
}
