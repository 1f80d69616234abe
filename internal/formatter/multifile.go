package formatter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tordrt/martschema/internal/schema"
)

const overviewFile = "_overview.md"

// MultiFileFormatter writes a description to a directory: an overview plus
// one markdown file per table
type MultiFileFormatter struct {
	OutputDir string
}

// NewMultiFileFormatter creates a new multi-file formatter
func NewMultiFileFormatter(outputDir string) *MultiFileFormatter {
	return &MultiFileFormatter{OutputDir: outputDir}
}

// Format writes the description to multiple files
func (f *MultiFileFormatter) Format(d *schema.Description) error {
	for _, t := range d.Tables {
		if _, err := tableFileName(t.Name); err != nil {
			return err
		}
	}

	// Create output directory if it doesn't exist
	if err := os.MkdirAll(f.OutputDir, 0o750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := f.writeOverview(d); err != nil {
		return fmt.Errorf("failed to write overview: %w", err)
	}

	for i := range d.Tables {
		if err := f.writeTableFile(&d.Tables[i], d); err != nil {
			return fmt.Errorf("failed to write table file for %s: %w", d.Tables[i].Name, err)
		}
	}

	return nil
}

func (f *MultiFileFormatter) writeOverview(d *schema.Description) error {
	file, err := os.Create(filepath.Join(f.OutputDir, overviewFile))
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	_, _ = fmt.Fprintf(file, "# Schema Overview\n\n")
	_, _ = fmt.Fprintf(file, "%s\n\n", d.Summary)
	_, _ = fmt.Fprintf(file, "Each table has a corresponding file: `<table_name>.md`\n\n")

	for _, section := range []struct {
		title string
		kind  string
	}{
		{"Dimension tables", schema.TypeDimension},
		{"Fact tables", schema.TypeFact},
	} {
		var tables []schema.Table
		for _, t := range d.Tables {
			if t.Type == section.kind {
				tables = append(tables, t)
			}
		}
		if len(tables) == 0 {
			continue
		}

		_, _ = fmt.Fprintf(file, "## %s\n\n", section.title)
		for _, table := range tables {
			_, _ = fmt.Fprintf(file, "- **%s**", table.Name)
			if targets := referencedTables(table); len(targets) > 0 {
				_, _ = fmt.Fprintf(file, " (references: %s)", strings.Join(targets, ", "))
			}
			_, _ = fmt.Fprintln(file)
		}
		_, _ = fmt.Fprintln(file)
	}

	return nil
}

func (f *MultiFileFormatter) writeTableFile(table *schema.Table, d *schema.Description) error {
	name, err := tableFileName(table.Name)
	if err != nil {
		return err
	}

	file, err := os.Create(filepath.Join(f.OutputDir, name))
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	md := NewMarkdownFormatter(file)
	if err := md.FormatTable(*table); err != nil {
		return err
	}

	if incoming := FindIncomingRelations(table.Name, d); len(incoming) > 0 {
		_, _ = fmt.Fprintf(file, "### Referenced by\n\n")
		for _, rel := range incoming {
			_, _ = fmt.Fprintf(file, "- %s.%s → %s\n", rel.SourceTable, rel.SourceColumn, rel.TargetColumn)
		}
		_, _ = fmt.Fprintln(file)
	}

	return nil
}

// tableFileName returns <table>.md, rejecting names that would resolve
// outside the output directory.
func tableFileName(table string) (string, error) {
	name := table + ".md"
	if table == "" || strings.ContainsAny(table, `/\`) || strings.Contains(table, "..") || !filepath.IsLocal(name) {
		return "", fmt.Errorf("table name %q cannot be used as a file name", table)
	}
	return name, nil
}

// IncomingRelation represents a foreign key pointing at a table
type IncomingRelation struct {
	SourceTable  string
	SourceColumn string
	TargetTable  string
	TargetColumn string
}

// FindIncomingRelations finds all foreign keys in d that reference tableName
func FindIncomingRelations(tableName string, d *schema.Description) []IncomingRelation {
	var incoming []IncomingRelation

	for _, table := range d.Tables {
		for _, fk := range table.Relationships.ForeignKeys {
			if fk.ReferencesTable == tableName {
				incoming = append(incoming, IncomingRelation{
					SourceTable:  table.Name,
					SourceColumn: fk.Column,
					TargetTable:  fk.ReferencesTable,
					TargetColumn: fk.ReferencesColumn,
				})
			}
		}
	}

	return incoming
}

// referencedTables returns the distinct target tables of a table's foreign keys.
func referencedTables(table schema.Table) []string {
	seen := make(map[string]bool)
	var targets []string
	for _, fk := range table.Relationships.ForeignKeys {
		if !seen[fk.ReferencesTable] {
			seen[fk.ReferencesTable] = true
			targets = append(targets, fk.ReferencesTable)
		}
	}
	return targets
}
