package models

import (
	"fmt"
	"strings"
)

// Encoding is the character encoding of a delimited-text source.
type Encoding string

const (
	EncodingUTF8        Encoding = "utf-8"
	EncodingUTF16       Encoding = "utf-16"
	EncodingWindows1252 Encoding = "windows-1252"
	EncodingLatin1      Encoding = "latin1"
)

// Separator is the field delimiter of a delimited-text source.
type Separator string

const (
	SeparatorComma     Separator = "comma"
	SeparatorSemicolon Separator = "semicolon"
	SeparatorTab       Separator = "tab"
	SeparatorSpace     Separator = "space"
)

// Rune returns the delimiter character, defaulting to a comma.
func (s Separator) Rune() rune {
	switch s {
	case SeparatorSemicolon:
		return ';'
	case SeparatorTab:
		return '\t'
	case SeparatorSpace:
		return ' '
	default:
		return ','
	}
}

// DateFormat selects the pattern used to read text dates.
type DateFormat string

const (
	DateFormatEUSlash  DateFormat = "eu_slash"  // DD/MM/YYYY
	DateFormatISODash  DateFormat = "iso_dash"  // YYYY-MM-DD
	DateFormatUSSlash  DateFormat = "us_slash"  // MM/DD/YYYY
	DateFormatEUDash   DateFormat = "eu_dash"   // DD-MM-YYYY
	DateFormatEUDot    DateFormat = "eu_dot"    // DD.MM.YYYY
	DateFormatISOSlash DateFormat = "iso_slash" // YYYY/MM/DD
	DateFormatEUShort  DateFormat = "eu_short"  // DD/MM/YY
	DateFormatUSShort  DateFormat = "us_short"  // MM/DD/YY
)

// DateFormats lists every supported date format in display order.
var DateFormats = []DateFormat{
	DateFormatEUSlash,
	DateFormatISODash,
	DateFormatUSSlash,
	DateFormatEUDash,
	DateFormatEUDot,
	DateFormatISOSlash,
	DateFormatEUShort,
	DateFormatUSShort,
}

// DecimalSeparator is the character separating integer and fractional digits.
type DecimalSeparator string

const (
	DecimalDot   DecimalSeparator = "dot"
	DecimalComma DecimalSeparator = "comma"
)

// Char returns the separator as text.
func (d DecimalSeparator) Char() string {
	if d == DecimalComma {
		return ","
	}
	return "."
}

// ThousandsSeparator is the digit grouping character.
type ThousandsSeparator string

const (
	ThousandsComma ThousandsSeparator = "comma"
	ThousandsDot   ThousandsSeparator = "dot"
	ThousandsSpace ThousandsSeparator = "space"
)

// Char returns the separator as text.
func (t ThousandsSeparator) Char() string {
	switch t {
	case ThousandsDot:
		return "."
	case ThousandsSpace:
		return " "
	default:
		return ","
	}
}

// ErrorPolicy decides what happens when a row cannot be extracted.
type ErrorPolicy string

const (
	// OnErrorFail aborts the whole run at the first failing row.
	OnErrorFail ErrorPolicy = "fail"
	// OnErrorSkip records a diagnostic and continues with the next row.
	OnErrorSkip ErrorPolicy = "skip"
)

// NumberFormat groups the separators used by the amount parser.
type NumberFormat struct {
	Decimal   DecimalSeparator
	Thousands ThousandsSeparator
}

// ImportConfiguration holds the options of one import run. It is passed by value
// and never changed once a run has started.
type ImportConfiguration struct {
	Encoding           Encoding
	Separator          Separator
	QuoteChar          rune
	HasHeader          bool
	DateFormat         DateFormat
	DecimalSeparator   DecimalSeparator
	ThousandsSeparator ThousandsSeparator
	OnError            ErrorPolicy
	CreatePartner      bool
	// Sheet names the workbook sheet to read; empty or unknown means the first sheet.
	Sheet string
}

// DefaultImportConfiguration returns the options used when nothing is configured.
func DefaultImportConfiguration() ImportConfiguration {
	return ImportConfiguration{
		Encoding:           EncodingUTF8,
		Separator:          SeparatorComma,
		QuoteChar:          '"',
		HasHeader:          true,
		DateFormat:         DateFormatEUSlash,
		DecimalSeparator:   DecimalDot,
		ThousandsSeparator: ThousandsComma,
		OnError:            OnErrorFail,
		CreatePartner:      true,
	}
}

// NumberFormat returns the separators used to parse amounts.
func (c ImportConfiguration) NumberFormat() NumberFormat {
	return NumberFormat{Decimal: c.DecimalSeparator, Thousands: c.ThousandsSeparator}
}

// Quote returns the configured quote character, falling back to a double quote.
func (c ImportConfiguration) Quote() rune {
	if c.QuoteChar == 0 {
		return '"'
	}
	return c.QuoteChar
}

// Validate checks that every option holds a known value.
func (c ImportConfiguration) Validate() error {
	switch c.Encoding {
	case EncodingUTF8, EncodingUTF16, EncodingWindows1252, EncodingLatin1:
	default:
		return fmt.Errorf("unsupported encoding: %q", c.Encoding)
	}
	switch c.Separator {
	case SeparatorComma, SeparatorSemicolon, SeparatorTab, SeparatorSpace:
	default:
		return fmt.Errorf("unsupported separator: %q", c.Separator)
	}
	if _, err := ParseDateFormat(string(c.DateFormat)); err != nil {
		return err
	}
	switch c.DecimalSeparator {
	case DecimalDot, DecimalComma:
	default:
		return fmt.Errorf("unsupported decimal separator: %q", c.DecimalSeparator)
	}
	switch c.ThousandsSeparator {
	case ThousandsComma, ThousandsDot, ThousandsSpace:
	default:
		return fmt.Errorf("unsupported thousands separator: %q", c.ThousandsSeparator)
	}
	switch c.OnError {
	case OnErrorFail, OnErrorSkip:
	default:
		return fmt.Errorf("unsupported error policy: %q", c.OnError)
	}
	if q := c.Quote(); q == c.Separator.Rune() || q == '\n' || q == '\r' {
		return fmt.Errorf("quote character %q cannot be used with separator %q", q, c.Separator)
	}
	return nil
}

// SeparatorsCollide reports whether the decimal and thousands separators are the
// same character, in which case every decimal separator is stripped as grouping.
func (c ImportConfiguration) SeparatorsCollide() bool {
	return c.DecimalSeparator.Char() == c.ThousandsSeparator.Char()
}

// ParseDateFormat converts a configuration key into a DateFormat.
func ParseDateFormat(s string) (DateFormat, error) {
	key := DateFormat(strings.ToLower(strings.TrimSpace(s)))
	for _, f := range DateFormats {
		if f == key {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported date format: %q", s)
}

// ParseQuoteChar returns the single character of s, or a double quote when s is empty.
func ParseQuoteChar(s string) (rune, error) {
	runes := []rune(s)
	switch len(runes) {
	case 0:
		return '"', nil
	case 1:
		return runes[0], nil
	default:
		return 0, fmt.Errorf("quote character must be a single character, got: %q", s)
	}
}
