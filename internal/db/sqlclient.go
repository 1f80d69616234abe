package db

import (
	"context"
	"database/sql"
	"fmt"
)

// sqlClient carries what the database/sql backed warehouses share.
type sqlClient struct {
	db   *sql.DB
	kind string
}

// openSQL opens a database/sql handle and verifies it with a ping.
func openSQL(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Kind returns the warehouse kind
func (c *sqlClient) Kind() string {
	return c.kind
}

// Query runs a statement and reads every row
func (c *sqlClient) Query(ctx context.Context, query string) (*Result, error) {
	if c.db == nil {
		return nil, fmt.Errorf("database connection not established")
	}

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result, err := scanRows(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to read query results: %w", err)
	}
	return result, nil
}

// Close closes the database connection
func (c *sqlClient) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// informationSchemaColumns scans rows of (column_name, data_type,
// is_nullable, ordinal_position) as returned by information_schema.columns.
func (c *sqlClient) informationSchemaColumns(ctx context.Context, query string, args ...any) ([]Column, error) {
	if c.db == nil {
		return nil, fmt.Errorf("database connection not established")
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query column metadata: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var columns []Column
	for rows.Next() {
		var col Column
		var nullable string
		if err := rows.Scan(&col.Name, &col.Type, &nullable, &col.Position); err != nil {
			return nil, fmt.Errorf("failed to scan column metadata: %w", err)
		}
		col.Nullable = nullable == "YES"
		columns = append(columns, col)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating column metadata: %w", err)
	}
	return columns, nil
}
