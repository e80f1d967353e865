// Package database handles database connections, schema inspection, and
// driver error classification.
//
// It wraps GORM so the rest of the service can stay agnostic of the
// configured driver. MySQL, PostgreSQL and SQLite are supported; SQLite is
// what the test suites run against.
//
// # Connect
//
// Connect opens the configured driver, applies pool settings and pings the
// server. SQLite connections are pinned to a single connection so that
// in-memory databases and open transactions share one handle.
//
// # Unique violations
//
// IsUniqueViolation recognises unique-constraint failures from every driver
// (pgconn code 23505, MySQL error 1062, SQLite "UNIQUE constraint failed",
// and gorm.ErrDuplicatedKey). The reconciliation driver uses it to detect a
// concurrent writer that created the same natural key first.
//
// # Schema Inspection
//
// GetTableColumns lists the live columns of a table. The integrity feature
// compares them against the catalog models.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "cultivars")
package database
