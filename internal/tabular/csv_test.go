package tabular

import (
	"os"
	"path/filepath"
	"testing"

	"fjacquet/stmt-import/internal/models"
	"fjacquet/stmt-import/internal/parsererror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0600))
	return path
}

func csvRows(t *testing.T, data string, cfg models.ImportConfiguration) []models.RawRow {
	t.Helper()
	r, err := Open(Source{Name: "bank.csv", Data: []byte(data)}, cfg)
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, r.Format())
	return readAll(t, r)
}

func TestCSVReader_Separators(t *testing.T) {
	tests := []struct {
		name      string
		separator models.Separator
		data      string
	}{
		{"comma", models.SeparatorComma, "2024-01-15,Coffee,-3.50\n"},
		{"semicolon", models.SeparatorSemicolon, "2024-01-15;Coffee;-3.50\n"},
		{"tab", models.SeparatorTab, "2024-01-15\tCoffee\t-3.50\n"},
		{"space", models.SeparatorSpace, "2024-01-15 Coffee -3.50\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := models.DefaultImportConfiguration()
			cfg.Separator = tt.separator
			rows := csvRows(t, tt.data, cfg)
			require.Len(t, rows, 1)
			assert.Equal(t, []string{"2024-01-15", "Coffee", "-3.50"}, texts(rows[0]))
		})
	}
}

func TestCSVReader_QuotedFields(t *testing.T) {
	data := "Date,Label,Amount\n" +
		"2024-01-15,\"Coffee, large\",-3.50\n" +
		"2024-01-16,\"Lunch\nwith team\",-12.00\n" +
		"2024-01-17,\"Say \"\"hi\"\"\",1.00\n"

	rows := csvRows(t, data, models.DefaultImportConfiguration())
	require.Len(t, rows, 4)
	assert.Equal(t, "Coffee, large", rows[1].Cells[1].Text)
	assert.Equal(t, "Lunch\nwith team", rows[2].Cells[1].Text)
	assert.Equal(t, `Say "hi"`, rows[3].Cells[1].Text)

	// A record starting after an embedded newline reports the line it starts on.
	assert.Equal(t, 3, rows[2].Number)
	assert.Equal(t, 5, rows[3].Number)
}

func TestCSVReader_CustomQuote(t *testing.T) {
	cfg := models.DefaultImportConfiguration()
	cfg.Separator = models.SeparatorSemicolon
	cfg.QuoteChar = '\''

	data := "'Coffee; large';-3,50;\"literal\"\n"
	rows := csvRows(t, data, cfg)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"Coffee; large", "-3,50", `"literal"`}, texts(rows[0]))
}

func TestCSVReader_BlankLinesSkipped(t *testing.T) {
	data := "Date,Amount\n\n2024-01-15,-3.50\n\n\n2024-01-16,-12.00\n"

	rows := csvRows(t, data, models.DefaultImportConfiguration())
	require.Len(t, rows, 3)
	assert.Equal(t, 1, rows[0].Number)
	assert.Equal(t, 3, rows[1].Number)
	assert.Equal(t, 6, rows[2].Number)
}

func TestCSVReader_RaggedRows(t *testing.T) {
	rows := csvRows(t, "a,b,c\nd\ne,f\n", models.DefaultImportConfiguration())
	require.Len(t, rows, 3)
	assert.Len(t, rows[0].Cells, 3)
	assert.Len(t, rows[1].Cells, 1)
	assert.Len(t, rows[2].Cells, 2)
}

func TestCSVReader_EmptyFieldsAreEmptyCells(t *testing.T) {
	rows := csvRows(t, "2024-01-15,,-3.50\n", models.DefaultImportConfiguration())
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Cells[1].IsEmpty())
	assert.False(t, rows[0].IsBlank())
}

func TestCSVReader_DecodeFailure(t *testing.T) {
	_, err := Open(Source{Name: "bank.csv", Data: []byte("Caf\xe9,1\n")}, models.DefaultImportConfiguration())
	var decodeErr *parsererror.DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, "utf-8", decodeErr.Encoding)
	assert.Equal(t, 3, decodeErr.Offset)
}

func TestCSVReader_Latin1(t *testing.T) {
	cfg := models.DefaultImportConfiguration()
	cfg.Encoding = models.EncodingLatin1

	rows := csvRows(t, "Caf\xe9,1\n", cfg)
	require.Len(t, rows, 1)
	assert.Equal(t, "Café", rows[0].Cells[0].Text)
}

func TestCSVParseError(t *testing.T) {
	err := csvParseError(assert.AnError)
	var pe *parsererror.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "CSV", pe.Parser)
	assert.Equal(t, "input", pe.Value)
}
