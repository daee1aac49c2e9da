package spreadsheet

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/action-reminders/reminders-go/pkg/records"
)

// writeWorkbook builds a workbook on disk with the given sheets, each a
// slice of rows starting with the header row.
func writeWorkbook(t *testing.T, sheets map[string][][]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	for name, rows := range sheets {
		_, err := f.NewSheet(name)
		require.NoError(t, err)
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}
	require.NoError(t, f.DeleteSheet("Sheet1"))

	path := filepath.Join(t.TempDir(), "actions.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

// TestLoad_TypedCells tests that strings, numbers, and dates keep their
// native type and empty cells become empty strings
func TestLoad_TypedCells(t *testing.T) {
	due := time.Date(2030, 3, 24, 0, 0, 0, 0, time.UTC)
	path := writeWorkbook(t, map[string][][]any{
		"ActionItems": {
			{"ID", "Title", "Due", "Priority", "Notes"},
			{"AI-1", "Ship release", due, 2.5, nil},
		},
	})

	result, err := Load(path, "ActionItems")

	require.NoError(t, err)
	require.Len(t, result, 1)
	record := result[0]
	assert.Equal(t, "AI-1", record["ID"])
	assert.Equal(t, "Ship release", record["Title"])

	parsed, ok := record["Due"].(time.Time)
	require.True(t, ok, "due cell should parse as a date, got %T", record["Due"])
	assert.Equal(t, "2030-03-24", parsed.Format("2006-01-02"))

	assert.Equal(t, 2.5, record["Priority"])
	assert.Equal(t, "", record["Notes"])
}

// TestLoad_ProvenanceLabels tests that each record carries its sheet and
// data-row position
func TestLoad_ProvenanceLabels(t *testing.T) {
	path := writeWorkbook(t, map[string][][]any{
		"People": {
			{"User", "Email"},
			{"Fred Flintstone", "fred@example.com"},
			{"Barney Rubble", "barney@example.com"},
		},
	})

	result, err := Load(path, "People")

	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "People:1", result[0].Row())
	assert.Equal(t, "People:2", result[1].Row())
}

// TestLoad_SkipsEmptyHeaders tests that columns under an empty header
// cell are dropped from the records
func TestLoad_SkipsEmptyHeaders(t *testing.T) {
	path := writeWorkbook(t, map[string][][]any{
		"People": {
			{"User", "", "Email"},
			{"Fred Flintstone", "ignored", "fred@example.com"},
		},
	})

	result, err := Load(path, "People")

	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, records.Record{
		"User":         "Fred Flintstone",
		"Email":        "fred@example.com",
		records.RowKey: "People:1",
	}, result[0])
}

// TestLoad_SourceNotFound tests the sentinel for a missing workbook
func TestLoad_SourceNotFound(t *testing.T) {
	result, err := Load(filepath.Join(t.TempDir(), "absent.xlsx"), "People")

	assert.Nil(t, result)
	require.ErrorIs(t, err, ErrSourceNotFound)
}

// TestLoad_MissingSheet tests the sentinel for an unknown sheet name
func TestLoad_MissingSheet(t *testing.T) {
	path := writeWorkbook(t, map[string][][]any{
		"People": {
			{"User"},
			{"Fred Flintstone"},
		},
	})

	result, err := Load(path, "Nowhere")

	assert.Nil(t, result)
	require.ErrorIs(t, err, ErrSheetMalformed)
}

// TestLoad_NoHeaderRow tests the sentinel for an entirely empty sheet
func TestLoad_NoHeaderRow(t *testing.T) {
	path := writeWorkbook(t, map[string][][]any{
		"Empty":  {},
		"People": {{"User"}},
	})

	result, err := Load(path, "Empty")

	assert.Nil(t, result)
	require.ErrorIs(t, err, ErrSheetMalformed)
	assert.Contains(t, err.Error(), "no header row")
}

// TestLoad_RowWiderThanHeader tests the sentinel for a data row with
// more cells than the header declares
func TestLoad_RowWiderThanHeader(t *testing.T) {
	path := writeWorkbook(t, map[string][][]any{
		"People": {
			{"User", "Email"},
			{"Fred Flintstone", "fred@example.com", "surplus"},
		},
	})

	result, err := Load(path, "People")

	assert.Nil(t, result)
	require.ErrorIs(t, err, ErrSheetMalformed)
	assert.Contains(t, err.Error(), "more cells than headers")
}
