package mapping

import (
	"fmt"
	"strconv"
	"strings"

	"fjacquet/stmt-import/internal/models"
)

// Override reassigns a field from the command line. Column is a column name or
// a 1-based column number; an empty Column unassigns the field.
type Override struct {
	Field  models.TargetField
	Column string
}

// ParseOverride reads "field=column", for example "partner=Counterparty".
func ParseOverride(s string) (Override, error) {
	key, column, ok := strings.Cut(s, "=")
	if !ok {
		return Override{}, fmt.Errorf("invalid mapping override %q: expected field=column", s)
	}
	field, err := models.ParseTargetField(strings.TrimSpace(key))
	if err != nil {
		return Override{}, err
	}
	if !field.IsSet() {
		return Override{}, fmt.Errorf("invalid mapping override %q: missing field", s)
	}
	return Override{Field: field, Column: strings.TrimSpace(column)}, nil
}

// ParseOverrides parses every value of a repeated flag.
func ParseOverrides(values []string) ([]Override, error) {
	overrides := make([]Override, 0, len(values))
	for _, v := range values {
		o, err := ParseOverride(v)
		if err != nil {
			return nil, err
		}
		overrides = append(overrides, o)
	}
	return overrides, nil
}

// Apply returns a new mapping with the overrides applied in order. The field is
// first removed from whichever column held it, so an override never creates a
// duplicate on its own.
func Apply(m models.ColumnMapping, overrides []Override) (models.ColumnMapping, error) {
	for _, o := range overrides {
		m = unassign(m, o.Field)
		if o.Column == "" {
			continue
		}

		idx, err := resolveColumn(m, o.Column)
		if err != nil {
			return models.ColumnMapping{}, err
		}
		m, _ = m.WithTarget(idx, o.Field)
	}
	return m, nil
}

func unassign(m models.ColumnMapping, field models.TargetField) models.ColumnMapping {
	entries := m.Entries()
	for i := range entries {
		if entries[i].Target == field {
			entries[i].Target = models.FieldUnset
		}
	}
	return models.NewColumnMapping(entries)
}

func resolveColumn(m models.ColumnMapping, column string) (int, error) {
	entries := m.Entries()
	for _, e := range entries {
		if strings.EqualFold(e.ColumnName, column) {
			return e.ColumnIndex, nil
		}
	}
	if n, err := strconv.Atoi(column); err == nil {
		for _, e := range entries {
			if e.ColumnIndex == n-1 {
				return e.ColumnIndex, nil
			}
		}
	}
	return 0, fmt.Errorf("unknown column %q", column)
}
