package models

import "fmt"

// TargetField is the transaction field a source column is mapped to.
type TargetField int

const (
	FieldUnset TargetField = iota
	FieldDate
	FieldPaymentRef
	FieldPartner
	FieldAmount
	FieldForeignCurrencyCode
	FieldAmountCurrency
)

// TargetFields lists every assignable field in canonical order.
var TargetFields = []TargetField{
	FieldDate,
	FieldPaymentRef,
	FieldPartner,
	FieldAmount,
	FieldForeignCurrencyCode,
	FieldAmountCurrency,
}

// RequiredFields must be mapped before an import can run.
var RequiredFields = []TargetField{FieldDate, FieldAmount}

// String returns the configuration key of the field; unset is the empty string.
func (f TargetField) String() string {
	switch f {
	case FieldUnset:
		return ""
	case FieldDate:
		return "date"
	case FieldPaymentRef:
		return "payment_ref"
	case FieldPartner:
		return "partner"
	case FieldAmount:
		return "amount"
	case FieldForeignCurrencyCode:
		return "foreign_currency_code"
	case FieldAmountCurrency:
		return "amount_currency"
	default:
		return fmt.Sprintf("TargetField(%d)", int(f))
	}
}

// Label returns a human readable name for the field.
func (f TargetField) Label() string {
	switch f {
	case FieldDate:
		return "Date"
	case FieldPaymentRef:
		return "Label"
	case FieldPartner:
		return "Partner"
	case FieldAmount:
		return "Amount"
	case FieldForeignCurrencyCode:
		return "Foreign Currency Code"
	case FieldAmountCurrency:
		return "Foreign Currency Amount"
	default:
		return ""
	}
}

// IsSet reports whether the field is a real assignment.
func (f TargetField) IsSet() bool {
	return f != FieldUnset
}

// ParseTargetField converts a configuration key into a TargetField.
// The empty string yields FieldUnset.
func ParseTargetField(s string) (TargetField, error) {
	if s == "" {
		return FieldUnset, nil
	}
	for _, f := range TargetFields {
		if f.String() == s {
			return f, nil
		}
	}
	return FieldUnset, fmt.Errorf("unknown target field: %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (f TargetField) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *TargetField) UnmarshalText(text []byte) error {
	parsed, err := ParseTargetField(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
