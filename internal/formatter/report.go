package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/martschema/internal/dbt"
	"github.com/tordrt/martschema/internal/schema"
)

// ReportFormatter writes the agent-facing report: a bulleted overview of
// every table followed by the detailed schema as indented JSON.
type ReportFormatter struct {
	writer io.Writer
}

// NewReportFormatter creates a new report formatter
func NewReportFormatter(w io.Writer) *ReportFormatter {
	return &ReportFormatter{writer: w}
}

// Format writes the report. The output has no trailing newline.
func (f *ReportFormatter) Format(d *schema.Description) error {
	_, _ = fmt.Fprintln(f.writer, d.Title)
	_, _ = fmt.Fprintf(f.writer, "Database: %s | Schema: %s\n", d.Database, d.Schema)
	_, _ = fmt.Fprintln(f.writer)
	_, _ = fmt.Fprintln(f.writer, "TABLES OVERVIEW:")
	_, _ = fmt.Fprintf(f.writer, "Total mart tables: %d\n", len(d.Tables))
	_, _ = fmt.Fprintln(f.writer)

	for _, table := range d.Tables {
		f.formatTable(table)
	}

	detailed, err := MarshalDetailed(d)
	if err != nil {
		return fmt.Errorf("failed to encode detailed schema: %w", err)
	}

	_, _ = fmt.Fprintln(f.writer, "DETAILED SCHEMA (JSON):")
	_, err = f.writer.Write(detailed)
	return err
}

func (f *ReportFormatter) formatTable(table schema.Table) {
	_, _ = fmt.Fprintf(f.writer, "• %s (%s TABLE)\n", table.Name, strings.ToUpper(table.Type))
	_, _ = fmt.Fprintf(f.writer, "  - Columns: %d\n", len(table.Columns))
	_, _ = fmt.Fprintf(f.writer, "  - Full name: %s\n", table.FullName())

	if len(table.Relationships.ForeignKeys) > 0 {
		_, _ = fmt.Fprintln(f.writer, "  - Foreign Keys:")
		for _, fk := range table.Relationships.ForeignKeys {
			_, _ = fmt.Fprintf(f.writer, "    • %s → %s.%s\n", fk.Column, fk.ReferencesTable, fk.ReferencesColumn)
		}
	}

	if len(table.Relationships.UniqueKeys) > 0 {
		_, _ = fmt.Fprintf(f.writer, "  - Unique Keys: %s\n", strings.Join(table.Relationships.UniqueKeys, ", "))
	}

	_, _ = fmt.Fprintln(f.writer)
}

// detailedSchema is the structured form of a description. Field order
// fixes the key order of the encoded object.
type detailedSchema struct {
	DatabaseType  string                   `json:"database_type"`
	Database      string                   `json:"database"`
	Schema        string                   `json:"schema"`
	Tables        map[string]detailedTable `json:"tables"`
	Relationships dbt.RelationshipIndex    `json:"relationships"`
	Summary       string                   `json:"summary"`
}

type detailedTable struct {
	Name          string                    `json:"name"`
	Type          string                    `json:"type"`
	Description   string                    `json:"description"`
	Columns       map[string]detailedColumn `json:"columns"`
	Database      string                    `json:"database"`
	Schema        string                    `json:"schema"`
	Alias         string                    `json:"alias"`
	FullName      string                    `json:"full_name"`
	Relationships dbt.Relationships         `json:"relationships"`
}

type detailedColumn struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	DataType    string           `json:"data_type"`
	Constraints []dbt.Constraint `json:"constraints"`
}

func toDetailed(d *schema.Description) detailedSchema {
	out := detailedSchema{
		DatabaseType:  d.DatabaseType,
		Database:      d.Database,
		Schema:        d.Schema,
		Tables:        make(map[string]detailedTable, len(d.Tables)),
		Relationships: d.Relationships,
		Summary:       d.Summary,
	}
	if out.Relationships == nil {
		out.Relationships = dbt.RelationshipIndex{}
	}

	for _, t := range d.Tables {
		cols := make(map[string]detailedColumn, len(t.Columns))
		for _, c := range t.Columns {
			constraints := c.Constraints
			if constraints == nil {
				constraints = []dbt.Constraint{}
			}
			cols[c.Name] = detailedColumn{
				Name:        c.Name,
				Description: c.Description,
				DataType:    c.DataType,
				Constraints: constraints,
			}
		}
		out.Tables[t.Name] = detailedTable{
			Name:          t.Name,
			Type:          t.Type,
			Description:   t.Description,
			Columns:       cols,
			Database:      t.Database,
			Schema:        t.Schema,
			Alias:         t.Alias,
			FullName:      t.FullName(),
			Relationships: t.Relationships,
		}
	}
	return out
}

// MarshalDetailed encodes the structured form of d as two-space indented
// JSON without a trailing newline.
func MarshalDetailed(d *schema.Description) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toDetailed(d)); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
