// Package sqlite keeps docgpt's local state in a SQLite database.
//
// It uses modernc.org/sqlite, a pure Go driver, and implements:
//
//   - CredentialsStore: the signed-in identity's tokens
//   - UploadHistoryStore: uploads made from this machine
//
// # Schema
//
// The schema is managed through versioned migrations in the migrations/
// directory. Each applied version is recorded in schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.docgpt/data/state.db
package sqlite
