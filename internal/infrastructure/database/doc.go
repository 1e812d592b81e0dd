// Package database wraps SQLite access for the bridge's local storage.
//
// It configures the mattn/go-sqlite3 driver with WAL mode, a busy
// timeout and a single-writer connection pool, which is the shape
// SQLite works best in. Schema management lives with the packages that
// own the tables; this package only handles the connection lifecycle.
package database
