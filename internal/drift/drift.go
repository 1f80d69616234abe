// Package drift compares a described mart layer against the live warehouse.
package drift

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/tordrt/martschema/internal/db"
	"github.com/tordrt/martschema/internal/dbt"
	"github.com/tordrt/martschema/internal/schema"
)

// Finding kinds
const (
	MissingTable       = "missing_table"
	MissingColumn      = "missing_column"
	UndocumentedColumn = "undocumented_column"
	TypeMismatch       = "type_mismatch"
)

// Catalog lists live columns. db.Warehouse satisfies it.
type Catalog interface {
	Columns(ctx context.Context, schemaName, table string) ([]db.Column, error)
}

// Finding is one difference between the description and the warehouse.
type Finding struct {
	Kind   string `json:"kind"`
	Table  string `json:"table"`
	Column string `json:"column,omitempty"`

	// Described and Live are the data types, set for TypeMismatch only.
	Described string `json:"described,omitempty"`
	Live      string `json:"live,omitempty"`
}

func (f Finding) String() string {
	switch f.Kind {
	case MissingTable:
		return fmt.Sprintf("%s: table not found in warehouse", f.Table)
	case MissingColumn:
		return fmt.Sprintf("%s.%s: column not found in warehouse", f.Table, f.Column)
	case UndocumentedColumn:
		return fmt.Sprintf("%s.%s: column not in manifest", f.Table, f.Column)
	case TypeMismatch:
		return fmt.Sprintf("%s.%s: manifest type %s, warehouse type %s", f.Table, f.Column, f.Described, f.Live)
	default:
		return fmt.Sprintf("%s.%s: %s", f.Table, f.Column, f.Kind)
	}
}

// Check looks up every described table in catalog by its alias (its name
// when no alias is set) and reports the differences, sorted by table then
// column. Described columns of unknown type are never reported as
// mismatched.
func Check(ctx context.Context, d *schema.Description, catalog Catalog) ([]Finding, error) {
	var findings []Finding

	for _, table := range d.Tables {
		physical := table.Alias
		if physical == "" {
			physical = table.Name
		}

		live, err := catalog.Columns(ctx, table.Schema, physical)
		if err != nil {
			return nil, fmt.Errorf("failed to list columns of %s: %w", table.Name, err)
		}
		if len(live) == 0 {
			findings = append(findings, Finding{Kind: MissingTable, Table: table.Name})
			continue
		}

		findings = append(findings, compareColumns(table, live)...)
	}

	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].Table != findings[j].Table {
			return findings[i].Table < findings[j].Table
		}
		return findings[i].Column < findings[j].Column
	})
	return findings, nil
}

func compareColumns(table schema.Table, live []db.Column) []Finding {
	var findings []Finding

	liveByName := make(map[string]db.Column, len(live))
	for _, col := range live {
		liveByName[strings.ToLower(col.Name)] = col
	}

	described := make(map[string]bool, len(table.Columns))
	for _, col := range table.Columns {
		key := strings.ToLower(col.Name)
		described[key] = true

		liveCol, ok := liveByName[key]
		if !ok {
			findings = append(findings, Finding{Kind: MissingColumn, Table: table.Name, Column: col.Name})
			continue
		}

		if col.DataType == dbt.UnknownDataType || col.DataType == "" {
			continue
		}
		if NormalizeType(col.DataType) != NormalizeType(liveCol.Type) {
			findings = append(findings, Finding{
				Kind:      TypeMismatch,
				Table:     table.Name,
				Column:    col.Name,
				Described: col.DataType,
				Live:      liveCol.Type,
			})
		}
	}

	for _, col := range live {
		if !described[strings.ToLower(col.Name)] {
			findings = append(findings, Finding{Kind: UndocumentedColumn, Table: table.Name, Column: col.Name})
		}
	}

	return findings
}

// typeAliases folds engine spellings of the same type together.
var typeAliases = map[string]string{
	"int":                         "integer",
	"int4":                        "integer",
	"signed":                      "integer",
	"int8":                        "bigint",
	"long":                        "bigint",
	"int2":                        "smallint",
	"short":                       "smallint",
	"text":                        "varchar",
	"string":                      "varchar",
	"char":                        "varchar",
	"bpchar":                      "varchar",
	"character":                   "varchar",
	"character varying":           "varchar",
	"float8":                      "double",
	"double precision":            "double",
	"float":                       "real",
	"float4":                      "real",
	"numeric":                     "decimal",
	"bool":                        "boolean",
	"logical":                     "boolean",
	"datetime":                    "timestamp",
	"timestamp without time zone": "timestamp",
	"timestamptz":                 "timestamp with time zone",
}

// NormalizeType lowercases a data type, drops its parameters such as
// precision or length and folds aliases, so DECIMAL(18,2) and numeric
// compare equal.
func NormalizeType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	if i := strings.IndexByte(t, '('); i >= 0 {
		rest := ""
		if j := strings.IndexByte(t[i:], ')'); j >= 0 {
			rest = t[i+j+1:]
		}
		t = strings.TrimSpace(t[:i]) + rest
	}
	t = strings.Join(strings.Fields(t), " ")

	if alias, ok := typeAliases[t]; ok {
		return alias
	}
	return t
}
