package db

import (
	"context"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

const duckDBDefaultSchema = "main"

// DuckDBClient manages the connection to DuckDB
type DuckDBClient struct {
	*sqlClient
}

// NewDuckDBClient opens the DuckDB database file at path. An empty path or
// ":memory:" opens an in-memory database.
func NewDuckDBClient(ctx context.Context, path string) (*DuckDBClient, error) {
	if path == "" {
		path = ":memory:"
	}

	db, err := openSQL(ctx, "duckdb", path)
	if err != nil {
		return nil, err
	}
	return &DuckDBClient{sqlClient: &sqlClient{db: db, kind: KindDuckDB}}, nil
}

// Columns lists a table's columns from information_schema
func (c *DuckDBClient) Columns(ctx context.Context, schemaName, table string) ([]Column, error) {
	if schemaName == "" {
		schemaName = duckDBDefaultSchema
	}

	query := `
		SELECT
			column_name,
			data_type,
			is_nullable,
			ordinal_position
		FROM information_schema.columns
		WHERE table_schema = ? AND table_name = ?
		ORDER BY ordinal_position
	`
	return c.informationSchemaColumns(ctx, query, schemaName, table)
}
