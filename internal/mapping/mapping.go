// Package mapping builds, checks and persists the assignment of source columns
// to transaction fields.
package mapping

import (
	"fmt"
	"strings"

	"fjacquet/stmt-import/internal/models"
	"fjacquet/stmt-import/internal/parsererror"
)

// guessRule assigns field when the lower-cased column label contains one of keywords.
type guessRule struct {
	field    models.TargetField
	keywords []string
}

// Rules are checked in order; the first match wins.
var guessRules = []guessRule{
	{models.FieldDate, []string{"date"}},
	{models.FieldAmount, []string{"amount", "debit", "credit"}},
	{models.FieldPartner, []string{"partner", "customer", "vendor"}},
	{models.FieldPaymentRef, []string{"label", "desc", "ref"}},
	{models.FieldForeignCurrencyCode, []string{"curr"}},
}

// AutoGuess proposes a target field from a column label.
func AutoGuess(label string) models.TargetField {
	lower := strings.ToLower(label)
	for _, rule := range guessRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.field
			}
		}
	}
	return models.FieldUnset
}

// Build creates one entry per column label. When the source has a header,
// columns without a label are left out; their data is then unreachable.
func Build(header []string, sample []models.Cell, hasHeader bool) models.ColumnMapping {
	entries := make([]models.MappingEntry, 0, len(header))
	for idx, label := range header {
		if label == "" && hasHeader {
			continue
		}
		if label == "" {
			label = fmt.Sprintf("Column %d", idx+1)
		}
		example := ""
		if idx < len(sample) {
			example = sample[idx].String()
		}
		entries = append(entries, models.MappingEntry{
			ColumnIndex:    idx,
			ColumnName:     label,
			ExampleContent: example,
			Target:         AutoGuess(label),
		})
	}
	return models.NewColumnMapping(entries)
}

// Validate checks that a mapping can drive an import: it must have entries,
// no field may be assigned twice and every required field must be assigned.
func Validate(m models.ColumnMapping) error {
	if m.IsEmpty() {
		return &parsererror.ConfigurationError{
			Reason: "please map columns before importing",
			Err:    parsererror.ErrNoMapping,
		}
	}

	if dups := duplicateTargets(m); len(dups) > 0 {
		return &parsererror.ConfigurationError{
			Reason: "please map each field to only one column",
			Err:    &parsererror.DuplicateMappingError{Fields: dups},
		}
	}

	var missing []string
	for _, field := range models.RequiredFields {
		if _, ok := m.Index(field); !ok {
			missing = append(missing, field.String())
		}
	}
	if len(missing) > 0 {
		return &parsererror.ConfigurationError{
			Reason: fmt.Sprintf("please map the '%s' column", requiredLabel(missing[0])),
			Err:    &parsererror.MissingRequiredError{Fields: missing},
		}
	}
	return nil
}

// duplicateTargets returns every field assigned more than once, in order of
// first appearance.
func duplicateTargets(m models.ColumnMapping) []string {
	counts := make(map[models.TargetField]int)
	var order []models.TargetField
	for _, field := range m.Targets() {
		if counts[field] == 0 {
			order = append(order, field)
		}
		counts[field]++
	}

	var dups []string
	for _, field := range order {
		if counts[field] > 1 {
			dups = append(dups, field.String())
		}
	}
	return dups
}

func requiredLabel(key string) string {
	field, err := models.ParseTargetField(key)
	if err != nil {
		return key
	}
	return field.Label()
}
