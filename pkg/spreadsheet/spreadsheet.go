// Package spreadsheet loads named worksheets of an Excel workbook into
// record sequences, preserving the native type of each cell.
package spreadsheet

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/action-reminders/reminders-go/pkg/records"
)

var (
	// ErrSourceNotFound indicates the workbook path does not exist.
	ErrSourceNotFound = errors.New("spreadsheet not found")
	// ErrSheetMalformed indicates the named sheet is absent or its rows
	// cannot be reconciled into a rectangular shape.
	ErrSheetMalformed = errors.New("sheet malformed")
)

// Builtin number formats that render as dates. Custom formats are matched
// by their date/time tokens.
var builtinDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true, 19: true, 20: true,
	21: true, 22: true, 45: true, 46: true, 47: true,
}

// Load opens the workbook at path and parses the named sheet into a
// sequence of records. Field names come from the sheet's header row; cell
// values keep their native type (dates stay time.Time). Every record gets
// a provenance label "<sheet>:<row>" under records.RowKey.
func Load(path, sheetName string) ([]records.Record, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	idx, err := f.GetSheetIndex(sheetName)
	if err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: no sheet named %q", ErrSheetMalformed, sheetName)
	}

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %q has no header row", ErrSheetMalformed, sheetName)
	}

	headers := rows[0]
	result := make([]records.Record, 0, len(rows)-1)
	for i, raw := range rows[1:] {
		if len(raw) > len(headers) {
			return nil, fmt.Errorf("%w: sheet %q row %d has more cells than headers",
				ErrSheetMalformed, sheetName, i+2)
		}

		record := records.Record{}
		for col, header := range headers {
			if header == "" {
				continue
			}
			var value any = ""
			if col < len(raw) && raw[col] != "" {
				value, err = cellValue(f, sheetName, col+1, i+2, raw[col])
				if err != nil {
					return nil, err
				}
			}
			record[header] = value
		}
		record[records.RowKey] = fmt.Sprintf("%s:%d", sheetName, i+1)
		result = append(result, record)
	}

	return result, nil
}

// cellValue turns a raw cell string into its typed value: time.Time for
// date-styled numeric cells, float64 for other numeric cells, the raw
// string otherwise.
func cellValue(f *excelize.File, sheet string, col, row int, raw string) (any, error) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return nil, fmt.Errorf("invalid cell coordinates (%d,%d): %w", col, row, err)
	}

	cellType, err := f.GetCellType(sheet, cell)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect cell %s: %w", cell, err)
	}
	switch cellType {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString:
		return raw, nil
	}

	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return raw, nil
	}

	if isDateStyled(f, sheet, cell) {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return t, nil
		}
	}
	return serial, nil
}

// isDateStyled reports whether the cell's number format renders as a date.
func isDateStyled(f *excelize.File, sheet, cell string) bool {
	styleID, err := f.GetCellStyle(sheet, cell)
	if err != nil {
		return false
	}
	style, err := f.GetStyle(styleID)
	if err != nil || style == nil {
		return false
	}
	if builtinDateFormats[style.NumFmt] {
		return true
	}
	if style.CustomNumFmt != nil {
		return containsDateToken(*style.CustomNumFmt)
	}
	return false
}

// containsDateToken matches the y/m/d/h tokens of custom date formats.
func containsDateToken(format string) bool {
	for _, r := range format {
		switch r {
		case 'y', 'm', 'd', 'h', 'Y', 'M', 'D', 'H':
			return true
		}
	}
	return false
}
