package drift

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tordrt/martschema/internal/db"
	"github.com/tordrt/martschema/internal/dbt"
	"github.com/tordrt/martschema/internal/schema"
)

// fakeCatalog maps "schema.table" to its live columns.
type fakeCatalog struct {
	tables map[string][]db.Column
	err    error
	seen   []string
}

func (c *fakeCatalog) Columns(_ context.Context, schemaName, table string) ([]db.Column, error) {
	c.seen = append(c.seen, schemaName+"."+table)
	if c.err != nil {
		return nil, c.err
	}
	return c.tables[schemaName+"."+table], nil
}

func description() *schema.Description {
	return &schema.Description{
		Tables: []schema.Table{
			{
				Name:   "mart_claims",
				Schema: "main",
				Alias:  "mart_claims",
				Columns: []schema.Column{
					{Name: "amount", DataType: "decimal"},
					{Name: "claim_id", DataType: "integer"},
					{Name: "diagnosis", DataType: dbt.UnknownDataType},
					{Name: "paid_at", DataType: "date"},
				},
			},
			{
				Name:    "mart_dim_patient",
				Schema:  "main",
				Columns: []schema.Column{{Name: "patient_id", DataType: "int"}},
			},
			{
				Name:    "mart_dim_provider",
				Schema:  "main",
				Alias:   "dim_provider_v2",
				Columns: []schema.Column{{Name: "provider_id", DataType: "varchar"}},
			},
		},
	}
}

func TestCheck(t *testing.T) {
	catalog := &fakeCatalog{tables: map[string][]db.Column{
		"main.mart_claims": {
			{Name: "claim_id", Type: "INTEGER", Position: 1},
			{Name: "amount", Type: "DECIMAL(18,2)", Position: 2},
			{Name: "diagnosis", Type: "VARCHAR", Position: 3},
			{Name: "paid_at", Type: "TIMESTAMP", Position: 4},
			{Name: "member_id", Type: "INTEGER", Position: 5},
		},
		"main.mart_dim_patient": {
			{Name: "PATIENT_ID", Type: "int4", Position: 1},
		},
	}}

	findings, err := Check(context.Background(), description(), catalog)
	require.NoError(t, err)

	assert.Equal(t, []Finding{
		{Kind: UndocumentedColumn, Table: "mart_claims", Column: "member_id"},
		{Kind: TypeMismatch, Table: "mart_claims", Column: "paid_at", Described: "date", Live: "TIMESTAMP"},
		{Kind: MissingTable, Table: "mart_dim_provider"},
	}, findings)

	assert.Equal(t, []string{"main.mart_claims", "main.mart_dim_patient", "main.dim_provider_v2"}, catalog.seen)
}

func TestCheck_MissingColumn(t *testing.T) {
	d := &schema.Description{Tables: []schema.Table{{
		Name:    "mart_claims",
		Columns: []schema.Column{{Name: "claim_id", DataType: "integer"}, {Name: "status", DataType: "varchar"}},
	}}}
	catalog := &fakeCatalog{tables: map[string][]db.Column{
		".mart_claims": {{Name: "claim_id", Type: "INTEGER"}},
	}}

	findings, err := Check(context.Background(), d, catalog)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, Finding{Kind: MissingColumn, Table: "mart_claims", Column: "status"}, findings[0])
	assert.Equal(t, "mart_claims.status: column not found in warehouse", findings[0].String())
}

func TestCheck_CatalogError(t *testing.T) {
	_, err := Check(context.Background(), description(), &fakeCatalog{err: errors.New("connection reset")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mart_claims")
	assert.Contains(t, err.Error(), "connection reset")
}

func TestCheck_NoTables(t *testing.T) {
	findings, err := Check(context.Background(), &schema.Description{}, &fakeCatalog{})
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestNormalizeType(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"INTEGER", "integer"},
		{"int4", "integer"},
		{"DECIMAL(18,2)", "decimal"},
		{"numeric(10, 0)", "decimal"},
		{"character varying(255)", "varchar"},
		{"TEXT", "varchar"},
		{"double precision", "double"},
		{"timestamp(6) without time zone", "timestamp"},
		{"  Boolean ", "boolean"},
		{"date", "date"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeType(tt.in))
		})
	}
}

func TestFinding_String(t *testing.T) {
	assert.Equal(t, "mart_claims: table not found in warehouse", Finding{Kind: MissingTable, Table: "mart_claims"}.String())
	assert.Equal(t, "mart_claims.x: column not in manifest", Finding{Kind: UndocumentedColumn, Table: "mart_claims", Column: "x"}.String())
	assert.Equal(t, "mart_claims.paid_at: manifest type date, warehouse type TIMESTAMP",
		Finding{Kind: TypeMismatch, Table: "mart_claims", Column: "paid_at", Described: "date", Live: "TIMESTAMP"}.String())
}
