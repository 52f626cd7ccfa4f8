// Package sqlite provides SQLite implementations of the account and task
// stores defined in internal/store, backed by the pure-Go modernc.org/sqlite
// driver. It is the default backend for development and tests.
package sqlite
