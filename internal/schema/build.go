// Package schema assembles the description of a dbt project's mart layer
// from a decoded manifest and its relationship index.
package schema

import (
	"sort"
	"strings"

	"github.com/tordrt/martschema/internal/dbt"
)

// Defaults used when BuildOptions leaves a field empty.
const (
	DefaultMartPrefix      = "mart_"
	DefaultDimensionMarker = "dim_"
	DefaultDatabaseType    = "duckdb"
	DefaultDatabase        = "db"
	DefaultSchema          = "main"
	DefaultSummary         = "DuckDB database containing healthcare claims data with dimension and fact tables"
	DefaultTitle           = "DuckDB Database Schema - Healthcare Claims Data"
)

// BuildOptions controls which tables are described and how the warehouse is labelled.
type BuildOptions struct {
	MartPrefix      string
	DimensionMarker string
	DatabaseType    string
	Database        string
	Schema          string
	Summary         string
	Title           string
}

func (o BuildOptions) withDefaults() BuildOptions {
	if o.MartPrefix == "" {
		o.MartPrefix = DefaultMartPrefix
	}
	if o.DimensionMarker == "" {
		o.DimensionMarker = DefaultDimensionMarker
	}
	if o.DatabaseType == "" {
		o.DatabaseType = DefaultDatabaseType
	}
	if o.Database == "" {
		o.Database = DefaultDatabase
	}
	if o.Schema == "" {
		o.Schema = DefaultSchema
	}
	if o.Summary == "" {
		o.Summary = DefaultSummary
	}
	if o.Title == "" {
		o.Title = DefaultTitle
	}
	return o
}

// Classify returns TypeDimension when name contains marker, TypeFact otherwise.
func Classify(name, marker string) string {
	if strings.Contains(name, marker) {
		return TypeDimension
	}
	return TypeFact
}

// Build describes every model node of m whose name starts with the mart
// prefix, one table per name. Tables without an index entry get empty
// relationships.
func Build(m *dbt.Manifest, idx dbt.RelationshipIndex, opts BuildOptions) *Description {
	opts = opts.withDefaults()
	if idx == nil {
		idx = dbt.RelationshipIndex{}
	}

	d := &Description{
		DatabaseType:  opts.DatabaseType,
		Database:      opts.Database,
		Schema:        opts.Schema,
		Summary:       opts.Summary,
		Title:         opts.Title,
		Tables:        []Table{},
		Relationships: idx,
	}
	if m == nil {
		return d
	}

	// Versioned models share a name; nodes are visited in ID order so the
	// last version replaces the earlier ones.
	ids := make([]string, 0, len(m.Nodes))
	for id := range m.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	byName := make(map[string]Table)
	for _, id := range ids {
		node := m.Nodes[id]
		if !node.IsModel() || !strings.HasPrefix(node.Name, opts.MartPrefix) {
			continue
		}

		rels, ok := idx[node.Name]
		if !ok {
			rels = dbt.NewRelationships()
		}

		byName[node.Name] = Table{
			Name:          node.Name,
			Type:          Classify(node.Name, opts.DimensionMarker),
			Description:   node.Description,
			Columns:       buildColumns(node.Columns),
			Database:      node.Database,
			Schema:        node.Schema,
			Alias:         node.Alias,
			Relationships: rels,
		}
	}

	for _, t := range byName {
		d.Tables = append(d.Tables, t)
	}
	sort.Slice(d.Tables, func(i, j int) bool {
		return d.Tables[i].Name < d.Tables[j].Name
	})

	return d
}

func buildColumns(cols map[string]dbt.Column) []Column {
	columns := make([]Column, 0, len(cols))
	for _, c := range cols {
		columns = append(columns, Column{
			Name:        c.Name,
			Description: c.Description,
			DataType:    c.DataType,
			Constraints: c.Constraints,
		})
	}
	sort.Slice(columns, func(i, j int) bool {
		return columns[i].Name < columns[j].Name
	})
	return columns
}
