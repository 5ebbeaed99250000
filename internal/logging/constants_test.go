package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldNamesAreDistinct(t *testing.T) {
	names := []string{
		FieldFile, FieldFormat, FieldSheet, FieldEncoding, FieldDelimiter, FieldRow,
		FieldColumn, FieldValue, FieldTarget, FieldPhase, FieldPolicy, FieldJournal,
		FieldPartner, FieldCurrency, FieldStatement, FieldReason, FieldError, FieldCount,
		FieldValid, FieldSkipped, FieldDryRun, FieldDuration, FieldInputFile, FieldOutputFile,
	}

	seen := make(map[string]bool, len(names))
	for _, n := range names {
		assert.NotEmpty(t, n)
		assert.False(t, seen[n], "duplicate field name %q", n)
		seen[n] = true
	}
}
