package dbt

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Test names recognised in a column's tests list.
const (
	TestUnique        = "unique"
	TestNotNull       = "not_null"
	TestRelationships = "relationships"
)

// SchemaFile is a dbt properties file declaring models and their column tests.
type SchemaFile struct {
	Models []ModelDecl `yaml:"models"`
}

// ModelDecl is one entry of the models list.
type ModelDecl struct {
	Name    string       `yaml:"name"`
	Columns []ColumnDecl `yaml:"columns"`
}

// ColumnDecl is one column of a declared model.
type ColumnDecl struct {
	Name      string     `yaml:"name"`
	Tests     []TestDecl `yaml:"tests"`
	DataTests []TestDecl `yaml:"data_tests"`
}

// AllTests returns the column's tests followed by its data_tests.
func (c ColumnDecl) AllTests() []TestDecl {
	if len(c.DataTests) == 0 {
		return c.Tests
	}
	all := make([]TestDecl, 0, len(c.Tests)+len(c.DataTests))
	all = append(all, c.Tests...)
	return append(all, c.DataTests...)
}

// TestDecl is a single test entry. Scalar entries ("unique", "not_null")
// set Name; a mapping entry with a relationships key sets Relationship.
// Other mapping entries decode to the zero value and are ignored.
type TestDecl struct {
	Name         string
	Relationship *RelationshipTest
}

// RelationshipTest is the body of a relationships test.
type RelationshipTest struct {
	To    string `yaml:"to"`
	Field string `yaml:"field"`
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *TestDecl) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		t.Name = node.Value
		return nil
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			if node.Content[i].Value != TestRelationships {
				continue
			}
			body := node.Content[i+1]
			if body.Kind != yaml.MappingNode {
				return fmt.Errorf("line %d: relationships test must be a mapping", body.Line)
			}
			var rel RelationshipTest
			if err := body.Decode(&rel); err != nil {
				return err
			}
			t.Relationship = &rel
			return nil
		}
		return nil
	default:
		return nil
	}
}

// SchemaFilePath returns the conventional location of the marts schema file
// for a manifest: the manifest's directory is the project's target dir, so
// the file lives at <project>/models/marts/schema.yml.
func SchemaFilePath(manifestPath string) string {
	projectRoot := filepath.Dir(filepath.Dir(manifestPath))
	return filepath.Join(projectRoot, "models", "marts", "schema.yml")
}

// LoadSchemaFile reads and decodes the schema file at path. An empty file
// yields an empty SchemaFile.
func LoadSchemaFile(path string) (*SchemaFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}

	var sf SchemaFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("failed to decode schema file %s: %w", path, err)
	}
	return &sf, nil
}
