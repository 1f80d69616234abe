package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Result formats accepted by Render.
const (
	ResultTable = "table"
	ResultTSV   = "tsv"
	ResultJSON  = "json"
)

// Result holds a fully read query result. NULL cells are empty strings.
type Result struct {
	Columns []string
	Rows    [][]string
}

// TSV renders the result as a header line followed by one tab-separated
// line per row.
func (r *Result) TSV() string {
	var sb strings.Builder
	sb.WriteString(strings.Join(r.Columns, "\t"))
	for _, row := range r.Rows {
		sb.WriteByte('\n')
		sb.WriteString(strings.Join(row, "\t"))
	}
	return sb.String()
}

// Render writes the result in the given format.
func (r *Result) Render(w io.Writer, format string) error {
	switch format {
	case "", ResultTable:
		return r.renderTable(w)
	case ResultTSV:
		_, err := fmt.Fprintln(w, r.TSV())
		return err
	case ResultJSON:
		return r.renderJSON(w)
	default:
		return fmt.Errorf("invalid result format: %s (must be 'table', 'tsv', or 'json')", format)
	}
}

func (r *Result) renderTable(w io.Writer) error {
	if len(r.Rows) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, len(r.Columns))
	for i, col := range r.Columns {
		header[i] = col
	}
	t.AppendHeader(header)

	for _, row := range r.Rows {
		tr := make(table.Row, len(row))
		for i, v := range row {
			tr[i] = v
		}
		t.AppendRow(tr)
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", len(r.Rows))
	return nil
}

func (r *Result) renderJSON(w io.Writer) error {
	records := make([]map[string]string, 0, len(r.Rows))
	for _, row := range r.Rows {
		rec := make(map[string]string, len(r.Columns))
		for i, col := range r.Columns {
			if i < len(row) {
				rec[col] = row[i]
			}
		}
		records = append(records, rec)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// scanRows reads every row of rows into a Result.
func scanRows(rows *sql.Rows) (*Result, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := &Result{Columns: cols, Rows: [][]string{}}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		result.Rows = append(result.Rows, formatRow(values))
	}

	return result, rows.Err()
}

func formatRow(values []any) []string {
	row := make([]string, len(values))
	for i, v := range values {
		row[i] = formatValue(v)
	}
	return row
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(val)
	case string:
		return val
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return fmt.Sprint(val)
	}
}
