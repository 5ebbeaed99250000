package mapping

import (
	"os"
	"testing"

	"fjacquet/stmt-import/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0600)
}

func TestParseOverride(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Override
		wantErr  bool
	}{
		{"by name", "partner=Counterparty", Override{Field: models.FieldPartner, Column: "Counterparty"}, false},
		{"by number", "amount=3", Override{Field: models.FieldAmount, Column: "3"}, false},
		{"spaces trimmed", " date = Booking Date ", Override{Field: models.FieldDate, Column: "Booking Date"}, false},
		{"unassign", "partner=", Override{Field: models.FieldPartner}, false},
		{"no separator", "partner", Override{}, true},
		{"unknown field", "balance=Balance", Override{}, true},
		{"missing field", "=Balance", Override{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := ParseOverride(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, o)
		})
	}
}

func TestParseOverrides(t *testing.T) {
	overrides, err := ParseOverrides([]string{"date=1", "amount=Amount"})
	require.NoError(t, err)
	assert.Len(t, overrides, 2)

	_, err = ParseOverrides([]string{"date=1", "oops"})
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	base := models.NewColumnMapping([]models.MappingEntry{
		entry(0, "Date", models.FieldDate),
		entry(1, "Counterparty", models.FieldUnset),
		entry(2, "Description", models.FieldPaymentRef),
		entry(3, "Amount", models.FieldAmount),
	})

	t.Run("assign by name", func(t *testing.T) {
		m, err := Apply(base, []Override{{Field: models.FieldPartner, Column: "counterparty"}})
		require.NoError(t, err)
		idx, ok := m.Index(models.FieldPartner)
		require.True(t, ok)
		assert.Equal(t, 1, idx)
	})

	t.Run("move by number", func(t *testing.T) {
		m, err := Apply(base, []Override{{Field: models.FieldPaymentRef, Column: "2"}})
		require.NoError(t, err)
		idx, _ := m.Index(models.FieldPaymentRef)
		assert.Equal(t, 1, idx)
		assert.Len(t, m.Targets(), 3)
		assert.NoError(t, Validate(m))
	})

	t.Run("unassign", func(t *testing.T) {
		m, err := Apply(base, []Override{{Field: models.FieldPaymentRef}})
		require.NoError(t, err)
		_, ok := m.Index(models.FieldPaymentRef)
		assert.False(t, ok)
	})

	t.Run("unknown column", func(t *testing.T) {
		_, err := Apply(base, []Override{{Field: models.FieldPartner, Column: "Nope"}})
		assert.ErrorContains(t, err, "unknown column")
	})

	t.Run("base mapping unchanged", func(t *testing.T) {
		_, err := Apply(base, []Override{{Field: models.FieldDate, Column: "Amount"}})
		require.NoError(t, err)
		idx, _ := base.Index(models.FieldDate)
		assert.Equal(t, 0, idx)
	})
}
