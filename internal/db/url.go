package db

import (
	"fmt"
	"strings"
)

// Supported warehouse kinds.
const (
	KindDuckDB   = "duckdb"
	KindSQLite   = "sqlite"
	KindPostgres = "postgres"
	KindMySQL    = "mysql"
)

// ParseDatabaseURL detects the warehouse kind and returns the connection
// string its driver expects.
func ParseDatabaseURL(url string) (kind, connectionStr string, err error) {
	if url == "" {
		return "", "", fmt.Errorf("database URL is required")
	}

	if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
		return KindPostgres, url, nil
	}

	if strings.HasPrefix(url, "mysql://") {
		// Strip mysql:// prefix for the Go MySQL driver
		return KindMySQL, strings.TrimPrefix(url, "mysql://"), nil
	}

	if strings.HasPrefix(url, "sqlite://") {
		return KindSQLite, strings.TrimPrefix(url, "sqlite://"), nil
	}

	if strings.HasPrefix(url, "duckdb://") {
		// duckdb:// alone opens an in-memory database
		return KindDuckDB, strings.TrimPrefix(url, "duckdb://"), nil
	}

	return "", "", fmt.Errorf("invalid database URL scheme (must start with duckdb://, sqlite://, postgres://, or mysql://)")
}
