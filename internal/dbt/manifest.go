// Package dbt decodes the dbt artifacts this tool reads: the build manifest
// (target/manifest.json) and the marts schema file (models/marts/schema.yml).
package dbt

import (
	"encoding/json"
	"fmt"
	"os"
)

// ResourceTypeModel is the manifest resource type of a model node.
const ResourceTypeModel = "model"

// UnknownDataType is used for columns whose manifest entry has no data_type.
const UnknownDataType = "unknown"

// Manifest is the subset of a dbt manifest that describes modeled tables.
type Manifest struct {
	Nodes map[string]Node
}

// Node is a manifest node with every optional field resolved to its default.
type Node struct {
	ID           string
	ResourceType string
	Name         string
	Description  string
	Columns      map[string]Column
	Database     string
	Schema       string
	Alias        string
}

// Column is a manifest column entry. Name is the key the column is stored
// under in the node's columns mapping.
type Column struct {
	Name        string
	Description string
	DataType    string
	Constraints []Constraint
}

// Constraint is a dbt column-level constraint.
type Constraint struct {
	Type       string   `json:"type"`
	Name       string   `json:"name,omitempty"`
	Expression string   `json:"expression,omitempty"`
	To         string   `json:"to,omitempty"`
	ToColumns  []string `json:"to_columns,omitempty"`
}

// IsModel reports whether the node is a model.
func (n Node) IsModel() bool {
	return n.ResourceType == ResourceTypeModel
}

// rawManifest mirrors the JSON document. Pointers distinguish absent and
// null keys from empty values so defaults are applied in one place.
type rawManifest struct {
	Nodes map[string]rawNode `json:"nodes"`
}

type rawNode struct {
	ResourceType *string              `json:"resource_type"`
	Name         *string              `json:"name"`
	Description  *string              `json:"description"`
	Columns      map[string]rawColumn `json:"columns"`
	Database     *string              `json:"database"`
	Schema       *string              `json:"schema"`
	Alias        *string              `json:"alias"`
}

type rawColumn struct {
	Description *string      `json:"description"`
	DataType    *string      `json:"data_type"`
	Constraints []Constraint `json:"constraints"`
}

// LoadManifest reads and decodes the manifest at path.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	m, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode manifest %s: %w", path, err)
	}
	return m, nil
}

// ParseManifest decodes a manifest document.
func ParseManifest(data []byte) (*Manifest, error) {
	var raw rawManifest
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	m := &Manifest{Nodes: make(map[string]Node, len(raw.Nodes))}
	for id, rn := range raw.Nodes {
		m.Nodes[id] = rn.normalize(id)
	}
	return m, nil
}

func (rn rawNode) normalize(id string) Node {
	n := Node{
		ID:           id,
		ResourceType: valueOr(rn.ResourceType, ""),
		Name:         valueOr(rn.Name, ""),
		Description:  valueOr(rn.Description, ""),
		Database:     valueOr(rn.Database, ""),
		Schema:       valueOr(rn.Schema, ""),
		Alias:        valueOr(rn.Alias, ""),
		Columns:      make(map[string]Column, len(rn.Columns)),
	}

	for key, rc := range rn.Columns {
		constraints := rc.Constraints
		if constraints == nil {
			constraints = []Constraint{}
		}
		n.Columns[key] = Column{
			Name:        key,
			Description: valueOr(rc.Description, ""),
			DataType:    valueOr(rc.DataType, UnknownDataType),
			Constraints: constraints,
		}
	}
	return n
}

func valueOr(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}
