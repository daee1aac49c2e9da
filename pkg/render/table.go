// Package render turns grouped action items into formatted tables in
// several output encodings. Rendering is deterministic: identical input
// yields byte-identical output in every format.
package render

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/action-reminders/reminders-go/pkg/records"
)

// Format selects a table output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatHTML Format = "html"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// Table renders the actions as a table in the requested format. Column
// order follows the columns argument exactly; each action contributes one
// row with missing fields rendered as empty strings. The align map may
// override the default center alignment per column with "l", "c", or "r".
func Table(actions []records.Record, columns []string, align map[string]string, format Format) (string, error) {
	rows := make([][]string, 0, len(actions))
	for _, action := range actions {
		row := make([]string, len(columns))
		for i, column := range columns {
			row[i] = action.String(column)
		}
		rows = append(rows, row)
	}

	switch format {
	case FormatText:
		return textTable(columns, rows, align), nil
	case FormatHTML:
		return htmlTable(columns, rows, align), nil
	case FormatJSON:
		return jsonTable(columns, rows)
	case FormatCSV:
		return csvTable(columns, rows)
	}
	return "", fmt.Errorf("unknown table format %q", format)
}

// textTable renders a plain bordered text grid.
func textTable(columns []string, rows [][]string, align map[string]string) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetHeader(columns)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_CENTER)

	alignments := make([]int, len(columns))
	for i, column := range columns {
		alignments[i] = textAlignment(align[column])
	}
	table.SetColumnAlignment(alignments)

	for _, row := range rows {
		table.Append(row)
	}
	table.Render()
	return buf.String()
}

func textAlignment(directive string) int {
	switch directive {
	case "l":
		return tablewriter.ALIGN_LEFT
	case "r":
		return tablewriter.ALIGN_RIGHT
	default:
		return tablewriter.ALIGN_CENTER
	}
}

// htmlTable renders full-bordered table markup with a header row.
func htmlTable(columns []string, rows [][]string, align map[string]string) string {
	var b strings.Builder
	b.WriteString("<table border=\"1\" rules=\"all\">\n")
	b.WriteString("    <thead>\n        <tr>\n")
	for _, column := range columns {
		fmt.Fprintf(&b, "            <th>%s</th>\n", html.EscapeString(column))
	}
	b.WriteString("        </tr>\n    </thead>\n    <tbody>\n")
	for _, row := range rows {
		b.WriteString("        <tr>\n")
		for i, cell := range row {
			fmt.Fprintf(&b, "            <td align=\"%s\">%s</td>\n",
				htmlAlignment(align[columns[i]]), html.EscapeString(cell))
		}
		b.WriteString("        </tr>\n")
	}
	b.WriteString("    </tbody>\n</table>")
	return b.String()
}

func htmlAlignment(directive string) string {
	switch directive {
	case "l":
		return "left"
	case "r":
		return "right"
	default:
		return "center"
	}
}

// jsonTable renders an array of column-name-to-cell objects.
func jsonTable(columns []string, rows [][]string) (string, error) {
	objects := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		object := make(map[string]string, len(columns))
		for i, column := range columns {
			object[column] = row[i]
		}
		objects = append(objects, object)
	}
	data, err := json.MarshalIndent(objects, "", "    ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal table to JSON: %w", err)
	}
	return string(data), nil
}

// csvTable renders header plus rows with CRLF row terminators. The CRLF
// endings are a legacy compatibility requirement of downstream consumers.
func csvTable(columns []string, rows [][]string) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.UseCRLF = true
	if err := w.Write(columns); err != nil {
		return "", fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf.String(), nil
}
