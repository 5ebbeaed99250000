package mapping

import (
	"path/filepath"
	"testing"

	"fjacquet/stmt-import/internal/models"
	"fjacquet/stmt-import/internal/parsererror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutoGuess(t *testing.T) {
	tests := []struct {
		label    string
		expected models.TargetField
	}{
		{"Date", models.FieldDate},
		{"Booking Date", models.FieldDate},
		{"Amount", models.FieldAmount},
		{"Debit", models.FieldAmount},
		{"CREDIT", models.FieldAmount},
		{"Partner", models.FieldPartner},
		{"Customer Name", models.FieldPartner},
		{"vendor", models.FieldPartner},
		{"Label", models.FieldPaymentRef},
		{"Description", models.FieldPaymentRef},
		{"Reference", models.FieldPaymentRef},
		{"Currency", models.FieldForeignCurrencyCode},
		{"Balance", models.FieldUnset},
		{"", models.FieldUnset},
		// Earlier rules win.
		{"Value Date Amount", models.FieldDate},
		{"Amount Currency", models.FieldAmount},
		{"Partner Reference", models.FieldPartner},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.expected, AutoGuess(tt.label))
		})
	}
}

func TestBuild_WithHeader(t *testing.T) {
	header := []string{"Date", "", "Description", "Amount"}
	sample := []models.Cell{
		models.TextCell("2024-01-15"),
		models.TextCell("ignored"),
		models.TextCell("Coffee"),
	}

	m := Build(header, sample, true)
	entries := m.Entries()
	require.Len(t, entries, 3)

	assert.Equal(t, models.MappingEntry{ColumnIndex: 0, ColumnName: "Date", ExampleContent: "2024-01-15", Target: models.FieldDate}, entries[0])
	assert.Equal(t, models.MappingEntry{ColumnIndex: 2, ColumnName: "Description", ExampleContent: "Coffee", Target: models.FieldPaymentRef}, entries[1])
	// Sample shorter than the header leaves the example empty.
	assert.Equal(t, models.MappingEntry{ColumnIndex: 3, ColumnName: "Amount", Target: models.FieldAmount}, entries[2])
}

func TestBuild_WithoutHeader(t *testing.T) {
	header := []string{"Column 1", "Column 2"}
	sample := []models.Cell{models.TextCell("15/01/2024"), models.TextCell("-3,50")}

	entries := Build(header, sample, false).Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "Column 1", entries[0].ColumnName)
	assert.Equal(t, "15/01/2024", entries[0].ExampleContent)
	assert.Equal(t, models.FieldUnset, entries[0].Target)
	assert.Equal(t, "-3,50", entries[1].ExampleContent)
}

func TestBuild_Idempotent(t *testing.T) {
	header := []string{"Date", "Partner", "Amount"}
	sample := []models.Cell{models.TextCell("2024-01-15"), models.TextCell("Shop"), models.TextCell("1")}

	assert.Equal(t, Build(header, sample, true), Build(header, sample, true))
}

func TestBuild_Empty(t *testing.T) {
	assert.True(t, Build(nil, nil, true).IsEmpty())
}

func entry(idx int, name string, target models.TargetField) models.MappingEntry {
	return models.MappingEntry{ColumnIndex: idx, ColumnName: name, Target: target}
}

func TestValidate(t *testing.T) {
	valid := models.NewColumnMapping([]models.MappingEntry{
		entry(0, "Date", models.FieldDate),
		entry(1, "Label", models.FieldPaymentRef),
		entry(2, "Amount", models.FieldAmount),
		entry(3, "Balance", models.FieldUnset),
	})
	assert.NoError(t, Validate(valid))
}

func TestValidate_Empty(t *testing.T) {
	err := Validate(models.ColumnMapping{})

	var cfgErr *parsererror.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.ErrorIs(t, err, parsererror.ErrNoMapping)
}

func TestValidate_Duplicates(t *testing.T) {
	m := models.NewColumnMapping([]models.MappingEntry{
		entry(0, "Date", models.FieldDate),
		entry(1, "Value Date", models.FieldDate),
		entry(2, "Debit", models.FieldAmount),
		entry(3, "Credit", models.FieldAmount),
		entry(4, "Label", models.FieldPaymentRef),
	})

	err := Validate(m)
	var dupErr *parsererror.DuplicateMappingError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, []string{"date", "amount"}, dupErr.Fields)
	assert.Contains(t, err.Error(), "date, amount")
}

func TestValidate_DuplicatesCheckedBeforeRequired(t *testing.T) {
	m := models.NewColumnMapping([]models.MappingEntry{
		entry(0, "Label", models.FieldPaymentRef),
		entry(1, "Memo", models.FieldPaymentRef),
	})

	var dupErr *parsererror.DuplicateMappingError
	assert.ErrorAs(t, Validate(m), &dupErr)
}

func TestValidate_MissingRequired(t *testing.T) {
	tests := []struct {
		name    string
		entries []models.MappingEntry
		missing []string
		reason  string
	}{
		{
			name:    "missing date",
			entries: []models.MappingEntry{entry(0, "Amount", models.FieldAmount)},
			missing: []string{"date"},
			reason:  "please map the 'Date' column",
		},
		{
			name:    "missing amount",
			entries: []models.MappingEntry{entry(0, "Date", models.FieldDate)},
			missing: []string{"amount"},
			reason:  "please map the 'Amount' column",
		},
		{
			name:    "nothing assigned",
			entries: []models.MappingEntry{entry(0, "Balance", models.FieldUnset)},
			missing: []string{"date", "amount"},
			reason:  "please map the 'Date' column",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(models.NewColumnMapping(tt.entries))

			var cfgErr *parsererror.ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.reason, cfgErr.Reason)

			var missingErr *parsererror.MissingRequiredError
			require.ErrorAs(t, err, &missingErr)
			assert.Equal(t, tt.missing, missingErr.Fields)
		})
	}
}

func TestSaveLoad(t *testing.T) {
	m := models.NewColumnMapping([]models.MappingEntry{
		{ColumnIndex: 0, ColumnName: "Date", ExampleContent: "2024-01-15", Target: models.FieldDate},
		{ColumnIndex: 1, ColumnName: "Balance", ExampleContent: "100.00"},
		{ColumnIndex: 2, ColumnName: "Amount", ExampleContent: "-3.50", Target: models.FieldAmount},
	})
	path := filepath.Join(t.TempDir(), "mappings", "bank.yaml")

	require.NoError(t, Save(path, "bank.csv", m))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, m.Entries(), loaded.Entries())
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, writeFile(path, "columns:\n  - column_index: 0\n    column_name: Date\n    target_field: when\n"))
	_, err = Load(path)
	assert.ErrorContains(t, err, "unknown target field")
}

func TestEncode(t *testing.T) {
	m := models.NewColumnMapping([]models.MappingEntry{
		{ColumnIndex: 0, ColumnName: "Date", Target: models.FieldDate},
		{ColumnIndex: 1, ColumnName: "Balance"},
	})

	data, err := Encode("bank.csv", m)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "source: bank.csv")
	assert.Contains(t, out, "target_field: date")
	assert.Contains(t, out, "column_name: Balance")
}
