package main

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/mockcql/mockcql"
)

// renderResult prints a statement result: a table for SELECT output, a row
// count for writes.
func renderResult(w io.Writer, res *mockcql.Result) {
	if len(res.Columns) == 0 {
		fmt.Fprintf(w, "OK (%d rows affected)\n", res.RowsAffected)
		return
	}
	if len(res.Rows) == 0 {
		fmt.Fprintln(w, "(0 rows)")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, len(res.Columns))
	for i, col := range res.Columns {
		header[i] = col
	}
	t.AppendHeader(header)

	for _, row := range res.Rows {
		cells := make(table.Row, len(row))
		for i, v := range row {
			cells[i] = formatValue(v)
		}
		t.AppendRow(cells)
	}

	t.Render()
	fmt.Fprintf(w, "(%d rows)\n", len(res.Rows))
}

// renderRowMaps prints an inspection snapshot with a deterministic column
// order.
func renderRowMaps(w io.Writer, rows []map[string]any) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "(0 rows)")
		return
	}

	cols := make([]string, 0, len(rows[0]))
	for col := range rows[0] {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, len(cols))
	for i, col := range cols {
		header[i] = col
	}
	t.AppendHeader(header)

	for _, row := range rows {
		cells := make(table.Row, len(cols))
		for i, col := range cols {
			cells[i] = formatValue(row[col])
		}
		t.AppendRow(cells)
	}

	t.Render()
	fmt.Fprintf(w, "(%d rows)\n", len(rows))
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case time.Time:
		return val.UTC().Format(time.RFC3339)
	case uuid.UUID:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}
