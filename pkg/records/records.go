// Package records defines the row-oriented record model shared by the
// spreadsheet loader and the reminder engine.
package records

import (
	"fmt"
	"strconv"
	"time"
)

// RowKey is the synthetic field holding a record's provenance label,
// "<sheet>:<row>" with 1-based row numbering. It is assigned at ingestion
// and never mutated afterward.
const RowKey = "_row"

// Record is a named-field data row. Values are strings, float64 numbers,
// time.Time dates, or empty strings for blank cells.
type Record map[string]any

// Row returns the record's provenance label.
func (r Record) Row() string {
	row, _ := r[RowKey].(string)
	return row
}

// String returns the display form of the named field.
func (r Record) String(field string) string {
	return FormatValue(r[field])
}

// FormatValue creates the display string for a cell value. Date values
// render their calendar-date portion only, the time of day is dropped.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case time.Time:
		return t.Format("2006-01-02")
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// DateValue extracts the date from a cell value, reporting whether the
// value was date-typed.
func DateValue(v any) (time.Time, bool) {
	t, ok := v.(time.Time)
	return t, ok
}

// IsNonEmptyString reports whether a cell value is a non-empty string.
func IsNonEmptyString(v any) bool {
	s, ok := v.(string)
	return ok && s != ""
}
