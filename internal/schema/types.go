package schema

import "github.com/tordrt/martschema/internal/dbt"

// Table classifications.
const (
	TypeDimension = "dimension"
	TypeFact      = "fact"
)

// Description represents the described mart layer of a warehouse
type Description struct {
	DatabaseType  string
	Database      string
	Schema        string
	Summary       string
	Title         string
	Tables        []Table // sorted by name
	Relationships dbt.RelationshipIndex
}

// Table represents a mart table
type Table struct {
	Name          string
	Type          string // dimension or fact
	Description   string
	Columns       []Column // sorted by name
	Database      string
	Schema        string
	Alias         string
	Relationships dbt.Relationships
}

// Column represents a table column as declared in the manifest
type Column struct {
	Name        string
	Description string
	DataType    string
	Constraints []dbt.Constraint
}

// FullName returns the quoted three-part name of the table.
func (t Table) FullName() string {
	return `"` + t.Database + `"."` + t.Schema + `"."` + t.Name + `"`
}

// IsDimension reports whether the table is classified as a dimension.
func (t Table) IsDimension() bool {
	return t.Type == TypeDimension
}

// Table returns the table with the given name, or nil.
func (d *Description) Table(name string) *Table {
	for i := range d.Tables {
		if d.Tables[i].Name == name {
			return &d.Tables[i]
		}
	}
	return nil
}

// TableNames returns the table names in description order.
func (d *Description) TableNames() []string {
	names := make([]string, 0, len(d.Tables))
	for _, t := range d.Tables {
		names = append(names, t.Name)
	}
	return names
}
