// Package sqlite provides the SQLite implementation of driven.CaseStore.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. Searches, cases and orders share one database file.
//
// # Schema
//
// The schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql
// files; applied versions are recorded in schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.courtfetch/data/court_cases.db
//
// # Thread Safety
//
// All operations are safe for concurrent use. The store runs in WAL mode
// with a busy timeout so readers are not blocked by a running search.
package sqlite
