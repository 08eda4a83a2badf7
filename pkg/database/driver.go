package database

import "fmt"

// Driver identifies the SQL backend of the durable store.
type Driver string

const (
	// DriverPostgres connects through pgx's database/sql adapter.
	DriverPostgres Driver = "postgres"
	// DriverSQLite opens an embedded modernc.org/sqlite database file.
	DriverSQLite Driver = "sqlite"
)

// SQLName returns the database/sql driver name registered for d.
func (d Driver) SQLName() string {
	if d == DriverSQLite {
		return "sqlite"
	}
	return "pgx"
}

// Placeholder returns the bind parameter for the n-th (1-based) argument.
func (d Driver) Placeholder(n int) string {
	if d == DriverSQLite {
		return "?"
	}
	return fmt.Sprintf("$%d", n)
}
