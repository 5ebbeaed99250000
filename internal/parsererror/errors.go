package parsererror

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoMapping is returned when an import starts without any column mapping.
	ErrNoMapping = errors.New("no column mapping")
	// ErrMissingSuspenseAccount is returned when the target journal cannot receive statements.
	ErrMissingSuspenseAccount = errors.New("journal has no suspense account")
	// ErrUnknownJournal is returned when the target journal does not exist.
	ErrUnknownJournal = errors.New("unknown journal")
	// ErrNoValidTransactions is returned when a real run produced nothing to commit.
	ErrNoValidTransactions = errors.New("no valid transactions found")
	// ErrInvalidDate is wrapped by date parse failures.
	ErrInvalidDate = errors.New("invalid date")
	// ErrInvalidAmount is wrapped by amount parse failures.
	ErrInvalidAmount = errors.New("invalid amount")
)

// ParseError represents malformed input that prevents reading a source at all.
type ParseError struct {
	Parser string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Parser, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ConfigurationError blocks a run before any row is read.
type ConfigurationError struct {
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err == nil {
		return e.Reason
	}
	if e.Reason == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Reason, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// DuplicateMappingError names every field assigned to more than one column.
type DuplicateMappingError struct {
	Fields []string
}

func (e *DuplicateMappingError) Error() string {
	return fmt.Sprintf("duplicate mapping detected for fields: %s", strings.Join(e.Fields, ", "))
}

// MissingRequiredError names required fields without a column.
type MissingRequiredError struct {
	Fields []string
}

func (e *MissingRequiredError) Error() string {
	return fmt.Sprintf("required fields are not mapped: %s", strings.Join(e.Fields, ", "))
}

// DecodeError reports bytes that are not valid in the configured encoding.
// Offset is a byte offset for utf-8 and a character offset otherwise.
type DecodeError struct {
	Encoding string
	Offset   int
	Err      error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot decode input as %s at offset %d: %v", e.Encoding, e.Offset, e.Err)
	}
	return fmt.Sprintf("cannot decode input as %s at offset %d", e.Encoding, e.Offset)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// UnsupportedFormatError reports a file whose extension has no reader.
type UnsupportedFormatError struct {
	FileName string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file format '%s': please upload a .csv or .xlsx file", e.FileName)
}

// RowErrorKind identifies which field made a row fail.
type RowErrorKind int

const (
	InvalidDate RowErrorKind = iota + 1
	InvalidAmount
)

func (k RowErrorKind) String() string {
	switch k {
	case InvalidDate:
		return "Date"
	case InvalidAmount:
		return "Amount"
	default:
		return "Row"
	}
}

// RowError reports a single row that could not be extracted. Its message is the
// diagnostic line shown to the user.
type RowError struct {
	Row        int
	Kind       RowErrorKind
	Column     int
	ColumnName string
	Value      string
	Err        error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("Row %d: %s Error: '%s' in column '%s' (Index %d)",
		e.Row, e.Kind, e.Value, e.ColumnName, e.Column)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// CommitError reports a ledger failure while checking a journal or filing a statement.
type CommitError struct {
	Journal string
	Reason  string
	Err     error
}

func (e *CommitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot commit statement to journal '%s': %s: %v", e.Journal, e.Reason, e.Err)
	}
	return fmt.Sprintf("cannot commit statement to journal '%s': %s", e.Journal, e.Reason)
}

func (e *CommitError) Unwrap() error {
	return e.Err
}
