package dbt

import "strings"

// ForeignKey is a referential relationship declared through a relationships test.
type ForeignKey struct {
	Column           string `json:"column"`
	ReferencesTable  string `json:"references_table"`
	ReferencesColumn string `json:"references_column"`
}

// Relationships collects the key declarations of one model.
type Relationships struct {
	ForeignKeys    []ForeignKey `json:"foreign_keys"`
	UniqueKeys     []string     `json:"unique_keys"`
	NotNullColumns []string     `json:"not_null_columns"`
}

// NewRelationships returns an entry with empty, non-nil collections.
func NewRelationships() Relationships {
	return Relationships{
		ForeignKeys:    []ForeignKey{},
		UniqueKeys:     []string{},
		NotNullColumns: []string{},
	}
}

// RelationshipIndex maps model names to their key declarations.
type RelationshipIndex map[string]Relationships

// ExtractRelationships builds the index for every declared model whose name
// starts with prefix. A nil schema file yields an empty index. When a model
// is declared twice the later declaration wins.
func ExtractRelationships(sf *SchemaFile, prefix string) RelationshipIndex {
	idx := make(RelationshipIndex)
	if sf == nil {
		return idx
	}

	for _, model := range sf.Models {
		if !strings.HasPrefix(model.Name, prefix) {
			continue
		}

		rels := NewRelationships()
		for _, col := range model.Columns {
			for _, test := range col.AllTests() {
				switch {
				case test.Relationship != nil:
					if !strings.Contains(test.Relationship.To, "ref(") {
						continue
					}
					rels.ForeignKeys = append(rels.ForeignKeys, ForeignKey{
						Column:           col.Name,
						ReferencesTable:  RefTarget(test.Relationship.To),
						ReferencesColumn: test.Relationship.Field,
					})
				case test.Name == TestUnique:
					rels.UniqueKeys = append(rels.UniqueKeys, col.Name)
				case test.Name == TestNotNull:
					rels.NotNullColumns = append(rels.NotNullColumns, col.Name)
				}
			}
		}
		idx[model.Name] = rels
	}

	return idx
}

// RefTarget extracts the model name from a ref expression such as
// ref('dim_patient'). It returns the text between the first single quote and
// the next one (or the end of the string). An expression with no single quote
// is returned unchanged, so ref(var_name) yields "ref(var_name)".
func RefTarget(expr string) string {
	parts := strings.Split(expr, "'")
	if len(parts) < 2 {
		return expr
	}
	return parts[1]
}
