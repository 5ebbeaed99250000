// Package models holds the value types shared by the import pipeline: raw
// cells and rows, import options, column mappings, records and reports.
package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CellKind tells which value a Cell carries.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
	CellDate
)

// Cell is one value of a source row. Delimited text only produces text cells;
// spreadsheets keep numbers and dates in their native form.
type Cell struct {
	Kind   CellKind
	Text   string
	Number decimal.Decimal
	Time   time.Time
}

// EmptyCell returns an absent value.
func EmptyCell() Cell {
	return Cell{Kind: CellEmpty}
}

// TextCell wraps a text value.
func TextCell(s string) Cell {
	return Cell{Kind: CellText, Text: s}
}

// NumberCell wraps a numeric value.
func NumberCell(d decimal.Decimal) Cell {
	return Cell{Kind: CellNumber, Number: d}
}

// DateCell wraps a date or date-time value.
func DateCell(t time.Time) Cell {
	return Cell{Kind: CellDate, Time: t}
}

// IsEmpty reports whether the cell holds no value at all. An empty text cell
// counts as empty; whitespace does not.
func (c Cell) IsEmpty() bool {
	switch c.Kind {
	case CellEmpty:
		return true
	case CellText:
		return c.Text == ""
	default:
		return false
	}
}

// IsBlank reports whether the cell is empty or only whitespace.
func (c Cell) IsBlank() bool {
	if c.Kind == CellText {
		return strings.TrimSpace(c.Text) == ""
	}
	return c.IsEmpty()
}

// String renders the cell as text.
func (c Cell) String() string {
	switch c.Kind {
	case CellText:
		return c.Text
	case CellNumber:
		return c.Number.String()
	case CellDate:
		if c.Time.Hour() == 0 && c.Time.Minute() == 0 && c.Time.Second() == 0 && c.Time.Nanosecond() == 0 {
			return c.Time.Format("2006-01-02")
		}
		return c.Time.Format("2006-01-02 15:04:05")
	default:
		return ""
	}
}

// RawRow is one source row. Number is the 1-based row (or line) in the source.
type RawRow struct {
	Number int
	Cells  []Cell
}

// Cell returns the cell at index, or an empty cell when the row is shorter.
func (r RawRow) Cell(index int) (Cell, bool) {
	if index < 0 || index >= len(r.Cells) {
		return EmptyCell(), false
	}
	return r.Cells[index], true
}

// IsBlank reports whether every cell of the row is absent or blank.
func (r RawRow) IsBlank() bool {
	for _, c := range r.Cells {
		if !c.IsBlank() {
			return false
		}
	}
	return true
}
