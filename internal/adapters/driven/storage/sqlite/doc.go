// Package sqlite provides a SQLite-based implementation of the recording
// library.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. A recording is stored across a parent row and ordered
// child tables (speakers, segments, words, summary points and their
// evidence links); a save replaces all of them in one transaction.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql
// files; applied versions are recorded in schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.consultsync/data/library.db
package sqlite
