// Package db connects to the warehouse the described marts live in. It runs
// ad-hoc queries for agents and lists live table columns for drift checks.
package db

import (
	"context"
	"fmt"
)

// Warehouse is an open connection to one of the supported databases.
type Warehouse interface {
	// Kind returns one of the Kind constants.
	Kind() string

	// Query runs a statement and returns every row as strings.
	Query(ctx context.Context, query string) (*Result, error)

	// Columns lists the columns of schemaName.table ordered by position.
	// An empty schemaName selects the connection's default schema. A table
	// that does not exist yields no columns and no error.
	Columns(ctx context.Context, schemaName, table string) ([]Column, error)

	Close() error
}

// Column represents a live table column
type Column struct {
	Name     string
	Type     string
	Nullable bool
	Position int
}

// Open connects to the warehouse at url.
func Open(ctx context.Context, url string) (Warehouse, error) {
	kind, connStr, err := ParseDatabaseURL(url)
	if err != nil {
		return nil, err
	}

	var w Warehouse
	switch kind {
	case KindDuckDB:
		w, err = NewDuckDBClient(ctx, connStr)
	case KindSQLite:
		w, err = NewSQLiteClient(ctx, connStr)
	case KindPostgres:
		w, err = NewPostgresClient(ctx, connStr)
	case KindMySQL:
		w, err = NewMySQLClient(ctx, connStr)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", kind)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", kind, err)
	}
	return w, nil
}
