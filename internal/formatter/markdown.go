package formatter

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/tordrt/martschema/internal/dbt"
	"github.com/tordrt/martschema/internal/schema"
)

// MarkdownFormatter formats a description as markdown
type MarkdownFormatter struct {
	writer io.Writer
}

// NewMarkdownFormatter creates a new markdown formatter
func NewMarkdownFormatter(w io.Writer) *MarkdownFormatter {
	return &MarkdownFormatter{writer: w}
}

// Format writes the description in markdown format
func (f *MarkdownFormatter) Format(d *schema.Description) error {
	_, _ = fmt.Fprintln(f.writer, "# Mart Schema")
	_, _ = fmt.Fprintln(f.writer)
	_, _ = fmt.Fprintf(f.writer, "%s. Database: `%s`, schema: `%s`.\n", d.Summary, d.Database, d.Schema)
	_, _ = fmt.Fprintln(f.writer)

	for _, table := range d.Tables {
		if err := f.FormatTable(table); err != nil {
			return err
		}
	}
	return nil
}

// FormatTable formats a single table (exported for use by multifile formatter)
func (f *MarkdownFormatter) FormatTable(table schema.Table) error {
	// Table header
	_, _ = fmt.Fprintf(f.writer, "## %s (%s)\n\n", table.Name, table.Type)

	if table.Description != "" {
		_, _ = fmt.Fprintf(f.writer, "%s\n\n", table.Description)
	}
	_, _ = fmt.Fprintf(f.writer, "Full name: `%s`\n\n", table.FullName())

	f.FormatColumns(table.Columns, table.Relationships)
	f.FormatRelations(table.Relationships.ForeignKeys)

	if len(table.Relationships.UniqueKeys) > 0 {
		_, _ = fmt.Fprintf(f.writer, "Unique keys: %s\n\n", strings.Join(table.Relationships.UniqueKeys, ", "))
	}

	return nil
}

// FormatColumns writes the columns section
func (f *MarkdownFormatter) FormatColumns(columns []schema.Column, rels dbt.Relationships) {
	_, _ = fmt.Fprintln(f.writer, "### Columns")
	_, _ = fmt.Fprintln(f.writer)

	if len(columns) == 0 {
		_, _ = fmt.Fprintln(f.writer, "_No documented columns._")
		_, _ = fmt.Fprintln(f.writer)
		return
	}

	for _, col := range columns {
		line := fmt.Sprintf("- **%s:** %s", col.Name, col.DataType)
		if constraintStr := f.formatConstraints(col, rels); constraintStr != "" {
			line += ", " + constraintStr
		}
		if col.Description != "" {
			line += " - " + col.Description
		}
		_, _ = fmt.Fprintln(f.writer, line)
	}
	_, _ = fmt.Fprintln(f.writer)
}

// FormatRelations writes the references section
func (f *MarkdownFormatter) FormatRelations(fks []dbt.ForeignKey) {
	if len(fks) == 0 {
		return
	}

	_, _ = fmt.Fprintln(f.writer, "### References")
	_, _ = fmt.Fprintln(f.writer)
	for _, fk := range fks {
		_, _ = fmt.Fprintf(f.writer, "- %s → %s.%s\n", fk.Column, fk.ReferencesTable, fk.ReferencesColumn)
	}
	_, _ = fmt.Fprintln(f.writer)
}

func (f *MarkdownFormatter) formatConstraints(col schema.Column, rels dbt.Relationships) string {
	var constraints []string

	if slices.Contains(rels.UniqueKeys, col.Name) {
		constraints = append(constraints, "UNIQUE")
	}

	if slices.Contains(rels.NotNullColumns, col.Name) {
		constraints = append(constraints, "NOT NULL")
	}

	for _, c := range col.Constraints {
		// already reported from tests
		if (c.Type == dbt.TestUnique && slices.Contains(rels.UniqueKeys, col.Name)) ||
			(c.Type == dbt.TestNotNull && slices.Contains(rels.NotNullColumns, col.Name)) {
			continue
		}
		label := strings.ToUpper(strings.ReplaceAll(c.Type, "_", " "))
		if c.Expression != "" {
			label = fmt.Sprintf("%s(%s)", label, c.Expression)
		}
		constraints = append(constraints, label)
	}

	return strings.Join(constraints, ", ")
}
