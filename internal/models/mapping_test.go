package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleMapping() ColumnMapping {
	return NewColumnMapping([]MappingEntry{
		{ColumnIndex: 0, ColumnName: "Date", Target: FieldDate},
		{ColumnIndex: 1, ColumnName: "Label", Target: FieldPaymentRef},
		{ColumnIndex: 2, ColumnName: "Notes"},
		{ColumnIndex: 3, ColumnName: "Amount", Target: FieldAmount},
	})
}

func TestColumnMapping_Lookups(t *testing.T) {
	m := sampleMapping()

	assert.Equal(t, 4, m.Len())
	assert.False(t, m.IsEmpty())
	assert.True(t, NewColumnMapping(nil).IsEmpty())

	idx, ok := m.Index(FieldAmount)
	assert.True(t, ok)
	assert.Equal(t, 3, idx)
	_, ok = m.Index(FieldPartner)
	assert.False(t, ok)
	_, ok = m.Index(FieldUnset)
	assert.False(t, ok, "unset is never a lookup key")

	assert.Equal(t, "Notes", m.ColumnName(2))
	assert.Equal(t, UnknownColumnName, m.ColumnName(9))
	assert.Equal(t, []TargetField{FieldDate, FieldPaymentRef, FieldAmount}, m.Targets())
}

func TestColumnMapping_IsAValue(t *testing.T) {
	entries := []MappingEntry{{ColumnIndex: 0, ColumnName: "Date", Target: FieldDate}}
	m := NewColumnMapping(entries)
	entries[0].Target = FieldAmount
	assert.Equal(t, []TargetField{FieldDate}, m.Targets())

	got := m.Entries()
	got[0].Target = FieldPartner
	assert.Equal(t, []TargetField{FieldDate}, m.Targets())

	changed, ok := m.WithTarget(0, FieldPartner)
	require.True(t, ok)
	assert.Equal(t, []TargetField{FieldPartner}, changed.Targets())
	assert.Equal(t, []TargetField{FieldDate}, m.Targets())

	_, ok = m.WithTarget(5, FieldAmount)
	assert.False(t, ok)
}

func TestTargetField_Text(t *testing.T) {
	for _, f := range TargetFields {
		parsed, err := ParseTargetField(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, parsed)
		assert.NotEmpty(t, f.Label())
	}

	f, err := ParseTargetField("")
	require.NoError(t, err)
	assert.False(t, f.IsSet())

	_, err = ParseTargetField("Amount")
	assert.EqualError(t, err, `unknown target field: "Amount"`)
	assert.Equal(t, "TargetField(42)", TargetField(42).String())
}

func TestMappingEntry_YAML(t *testing.T) {
	var e MappingEntry
	require.NoError(t, yaml.Unmarshal([]byte("column_index: 4\ncolumn_name: Currency\ntarget_field: foreign_currency_code\n"), &e))
	assert.Equal(t, FieldForeignCurrencyCode, e.Target)

	err := yaml.Unmarshal([]byte("column_index: 1\ntarget_field: iban\n"), &e)
	assert.Error(t, err)
}
