// Package database provides SQLite connectivity for the render history.
//
// This package manages:
//   - Database connection with WAL mode so history reads never block renders
//   - Schema migrations embedded in the binary
//   - In-memory databases for tests and one-shot CLI renders
//
// Security Considerations:
//   - All queries use parameterised statements
//   - Database file permissions are set to 0600 (owner read/write only)
//
// Usage:
//
//	db, err := database.Open(database.Config{Path: cfg.Database.Path, WALMode: true})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Migration Strategy:
//
// Files are named YYYYMMDD_HHMMSS_description.up.sql with an optional
// matching .down.sql. Each migration is applied in its own transaction and
// recorded in schema_migrations.
package database
