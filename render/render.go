// Package render writes a frame table for humans or for export. The text
// format uses go-pretty, the rest are plain encoders.
package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/floedata/floe/frame"
	"github.com/jedib0t/go-pretty/v6/table"
)

const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
)

// Write renders t in the given format. Unknown formats fall back to text.
func Write(w io.Writer, t *frame.Table, format string) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, t)
	case FormatCSV:
		return writeCSV(w, t)
	case FormatMarkdown:
		return writeTable(w, t, true)
	default:
		return writeTable(w, t, false)
	}
}

func writeTable(w io.Writer, t *frame.Table, markdown bool) error {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)

	names := t.ColumnNames()
	header := make(table.Row, len(names))
	for i, name := range names {
		header[i] = name
	}
	tw.AppendHeader(header)

	cols := t.Columns()
	for i := 0; i < t.NumRows(); i++ {
		row := make(table.Row, len(cols))
		for j, c := range cols {
			row[j] = cellString(c, i)
		}
		tw.AppendRow(row)
	}

	if markdown {
		tw.RenderMarkdown()
	} else {
		tw.Render()
	}
	_, err := fmt.Fprintf(w, "(%d rows)\n", t.NumRows())
	return err
}

// writeJSON emits one object per row, missing cells as null
func writeJSON(w io.Writer, t *frame.Table) error {
	names := t.ColumnNames()
	cols := t.Columns()
	rows := make([]map[string]any, 0, t.NumRows())
	for i := 0; i < t.NumRows(); i++ {
		row := make(map[string]any, len(cols))
		for j, c := range cols {
			row[names[j]] = c.Value(i)
		}
		rows = append(rows, row)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

// writeCSV emits missing cells as empty fields
func writeCSV(w io.Writer, t *frame.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.ColumnNames()); err != nil {
		return fmt.Errorf("error writing CSV header: %w", err)
	}

	cols := t.Columns()
	record := make([]string, len(cols))
	for i := 0; i < t.NumRows(); i++ {
		for j, c := range cols {
			if c.IsMissing(i) {
				record[j] = ""
			} else {
				record[j] = cellString(c, i)
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("error writing CSV row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func cellString(c *frame.Column, i int) string {
	if c.IsMissing(i) {
		return "missing"
	}
	switch c.DType() {
	case frame.Float64:
		return strconv.FormatFloat(c.Float(i), 'g', -1, 64)
	case frame.Int64:
		return strconv.FormatInt(c.Int(i), 10)
	case frame.String:
		return c.Str(i)
	case frame.Bool:
		return strconv.FormatBool(c.Bool(i))
	default:
		return ""
	}
}
