// Package currencyutils parses statement amounts written with locale-specific
// decimal and thousands separators.
package currencyutils

import (
	"fmt"
	"strings"

	"fjacquet/stmt-import/internal/models"
	"fjacquet/stmt-import/internal/parsererror"

	"github.com/shopspring/decimal"
)

// nbsp is the no-break space many European exports use for digit grouping.
const nbsp = "\u00a0"

// ParseAmount converts a cell into a decimal amount.
//
// Empty cells yield zero and numeric cells are returned unchanged. Text is trimmed,
// stripped of the thousands separator and only then has its decimal separator
// replaced by a dot, so "1.234,56" with (dot, comma) never turns into "1.234.56".
func ParseAmount(cell models.Cell, format models.NumberFormat) (decimal.Decimal, error) {
	switch cell.Kind {
	case models.CellEmpty:
		return decimal.Zero, nil
	case models.CellNumber:
		return cell.Number, nil
	}
	raw := cell.String()
	if raw == "" {
		return decimal.Zero, nil
	}

	cleaned := StandardizeAmount(raw, format)
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: '%s'", parsererror.ErrInvalidAmount, raw)
	}
	return amount, nil
}

// StandardizeAmount rewrites raw into the canonical form accepted by
// decimal.NewFromString.
func StandardizeAmount(raw string, format models.NumberFormat) string {
	value := strings.TrimSpace(raw)

	thousands := format.Thousands.Char()
	value = strings.ReplaceAll(value, thousands, "")
	if format.Thousands == models.ThousandsSpace {
		value = strings.ReplaceAll(value, nbsp, "")
	}

	if sep := format.Decimal.Char(); sep != "." {
		value = strings.ReplaceAll(value, sep, ".")
	}
	return value
}

// FormatAmount renders an amount with the given separators and two decimals.
// It is the inverse of ParseAmount for well-formed values.
func FormatAmount(amount decimal.Decimal, format models.NumberFormat) string {
	fixed := amount.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var grouped strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteString(format.Thousands.Char())
		}
		grouped.WriteRune(r)
	}

	sign := ""
	if amount.IsNegative() {
		sign = "-"
	}
	return sign + grouped.String() + format.Decimal.Char() + frac
}
