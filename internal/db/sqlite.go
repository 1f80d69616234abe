package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteClient manages the connection to SQLite
type SQLiteClient struct {
	*sqlClient
}

// NewSQLiteClient creates a new SQLite client
func NewSQLiteClient(ctx context.Context, path string) (*SQLiteClient, error) {
	db, err := openSQL(ctx, "sqlite3", path)
	if err != nil {
		return nil, err
	}
	return &SQLiteClient{sqlClient: &sqlClient{db: db, kind: KindSQLite}}, nil
}

// Columns lists a table's columns with PRAGMA table_info. SQLite has no
// schemas, so schemaName is ignored.
func (c *SQLiteClient) Columns(ctx context.Context, _ string, table string) ([]Column, error) {
	query := fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(table))

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query column metadata: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var columns []Column
	for rows.Next() {
		var cid int
		var name, colType string
		var notNull, pk int
		var defaultValue sql.NullString

		if err := rows.Scan(&cid, &name, &colType, &notNull, &defaultValue, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan column metadata: %w", err)
		}

		columns = append(columns, Column{
			Name:     name,
			Type:     colType,
			Nullable: notNull == 0 && pk == 0,
			Position: cid + 1,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating column metadata: %w", err)
	}
	return columns, nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
