// Package sqlite provides a SQLite-based run ledger.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements:
//
//   - RunLogStore: one row per orchestrated run, pruned to a retention limit
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory and embedded at compile time. Applied versions are
// tracked in the schema_migrations table.
//
// # Data Location
//
// By default, the database is stored at $XDG_DATA_HOME/radar/runs.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
