package db

import (
	"context"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLClient manages the connection to MySQL
type MySQLClient struct {
	*sqlClient
}

// NewMySQLClient creates a new MySQL client
func NewMySQLClient(ctx context.Context, connString string) (*MySQLClient, error) {
	db, err := openSQL(ctx, "mysql", connString)
	if err != nil {
		return nil, err
	}
	return &MySQLClient{sqlClient: &sqlClient{db: db, kind: KindMySQL}}, nil
}

// Columns lists a table's columns. MySQL schemas are databases; an empty
// schemaName uses the database of the connection string.
func (c *MySQLClient) Columns(ctx context.Context, schemaName, table string) ([]Column, error) {
	query := `
		SELECT
			COLUMN_NAME,
			DATA_TYPE,
			IS_NULLABLE,
			ORDINAL_POSITION
		FROM information_schema.COLUMNS
		WHERE TABLE_SCHEMA = COALESCE(NULLIF(?, ''), DATABASE()) AND TABLE_NAME = ?
		ORDER BY ORDINAL_POSITION
	`
	return c.informationSchemaColumns(ctx, query, schemaName, table)
}
