package dbt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefTarget(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{expr: "ref('target_tbl')", want: "target_tbl"},
		{expr: "ref('dim_patient')", want: "dim_patient"},
		{expr: "ref(var_name)", want: "ref(var_name)"},
		{expr: "ref('unterminated", want: "unterminated"},
		{expr: "ref('pkg', 'model')", want: "pkg"},
		{expr: `ref("double")`, want: `ref("double")`},
		{expr: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			assert.Equal(t, tt.want, RefTarget(tt.expr))
		})
	}
}

func TestExtractRelationships(t *testing.T) {
	sf := &SchemaFile{
		Models: []ModelDecl{
			{
				Name: "mart_claims",
				Columns: []ColumnDecl{
					{
						Name: "patient_id",
						Tests: []TestDecl{
							{Relationship: &RelationshipTest{To: "ref('dim_patient')", Field: "patient_id"}},
							{Name: "not_null"},
						},
					},
					{
						Name:  "claim_id",
						Tests: []TestDecl{{Name: "unique"}, {Name: "not_null"}},
					},
				},
			},
			{
				Name: "stg_claims",
				Columns: []ColumnDecl{
					{Name: "claim_id", Tests: []TestDecl{{Name: "unique"}}},
				},
			},
		},
	}

	idx := ExtractRelationships(sf, "mart_")
	require.Len(t, idx, 1)

	rels, ok := idx["mart_claims"]
	require.True(t, ok)
	assert.Equal(t, []ForeignKey{{
		Column:           "patient_id",
		ReferencesTable:  "dim_patient",
		ReferencesColumn: "patient_id",
	}}, rels.ForeignKeys)
	assert.Equal(t, []string{"claim_id"}, rels.UniqueKeys)
	assert.Equal(t, []string{"patient_id", "claim_id"}, rels.NotNullColumns)
}

func TestExtractRelationships_RefWithoutQuotes(t *testing.T) {
	sf := &SchemaFile{Models: []ModelDecl{{
		Name: "mart_claims",
		Columns: []ColumnDecl{{
			Name:  "provider_id",
			Tests: []TestDecl{{Relationship: &RelationshipTest{To: "ref(var_name)", Field: "id"}}},
		}},
	}}}

	idx := ExtractRelationships(sf, "mart_")
	require.Len(t, idx["mart_claims"].ForeignKeys, 1)
	assert.Equal(t, "ref(var_name)", idx["mart_claims"].ForeignKeys[0].ReferencesTable)
}

func TestExtractRelationships_SkipsNonRefTargets(t *testing.T) {
	sf := &SchemaFile{Models: []ModelDecl{{
		Name: "mart_claims",
		Columns: []ColumnDecl{{
			Name:  "payer_id",
			Tests: []TestDecl{{Relationship: &RelationshipTest{To: "source('raw', 'payers')", Field: "id"}}},
		}},
	}}}

	idx := ExtractRelationships(sf, "mart_")
	require.Contains(t, idx, "mart_claims")
	assert.Empty(t, idx["mart_claims"].ForeignKeys)
}

func TestExtractRelationships_EmptyInputs(t *testing.T) {
	assert.Empty(t, ExtractRelationships(nil, "mart_"))
	assert.Empty(t, ExtractRelationships(&SchemaFile{}, "mart_"))

	idx := ExtractRelationships(&SchemaFile{Models: []ModelDecl{{Name: "mart_empty"}}}, "mart_")
	require.Contains(t, idx, "mart_empty")
	assert.Equal(t, NewRelationships(), idx["mart_empty"])
}

func TestExtractRelationships_LaterDeclarationWins(t *testing.T) {
	sf := &SchemaFile{Models: []ModelDecl{
		{Name: "mart_claims", Columns: []ColumnDecl{{Name: "a", Tests: []TestDecl{{Name: "unique"}}}}},
		{Name: "mart_claims", Columns: []ColumnDecl{{Name: "b", Tests: []TestDecl{{Name: "unique"}}}}},
	}}

	idx := ExtractRelationships(sf, "mart_")
	assert.Equal(t, []string{"b"}, idx["mart_claims"].UniqueKeys)
}
