// Package dateutils parses statement dates according to the configured
// date format, with an ISO fallback for mixed exports.
package dateutils

import (
	"fmt"
	"strings"
	"time"

	"fjacquet/stmt-import/internal/models"
	"fjacquet/stmt-import/internal/parsererror"
)

// DateLayoutISO is tried whenever the configured layout does not match.
const DateLayoutISO = "2006-1-2"

// Day and month accept one or two digits; two-digit years pivot at 69.
var layouts = map[models.DateFormat]string{
	models.DateFormatEUSlash:  "2/1/2006",
	models.DateFormatISODash:  DateLayoutISO,
	models.DateFormatUSSlash:  "1/2/2006",
	models.DateFormatEUDash:   "2-1-2006",
	models.DateFormatEUDot:    "2.1.2006",
	models.DateFormatISOSlash: "2006/1/2",
	models.DateFormatEUShort:  "2/1/06",
	models.DateFormatUSShort:  "1/2/06",
}

// Layout returns the Go time layout for format. Unknown formats use ISO.
func Layout(format models.DateFormat) string {
	if layout, ok := layouts[format]; ok {
		return layout
	}
	return DateLayoutISO
}

// ParseDate converts a cell into a calendar date.
//
// The boolean is false when the cell is empty, letting the caller choose a default.
// Date cells keep their own calendar date without any timezone conversion.
func ParseDate(cell models.Cell, format models.DateFormat) (time.Time, bool, error) {
	switch cell.Kind {
	case models.CellEmpty:
		return time.Time{}, false, nil
	case models.CellDate:
		return DateOnly(cell.Time), true, nil
	}
	raw := cell.String()
	if raw == "" {
		return time.Time{}, false, nil
	}

	value := strings.TrimSpace(raw)
	if t, err := time.Parse(Layout(format), value); err == nil {
		return t, true, nil
	}
	if t, err := time.Parse(DateLayoutISO, value); err == nil {
		return t, true, nil
	}
	return time.Time{}, false, fmt.Errorf("%w: '%s'", parsererror.ErrInvalidDate, raw)
}

// DateOnly truncates t to its calendar date in UTC, keeping the wall-clock day.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar date of now.
func Today(now time.Time) time.Time {
	return DateOnly(now)
}
