// Package store defines the persistence contracts for accounts and tasks.
// Implementations live under internal/platform (PostgreSQL, SQLite); the
// services depend only on these interfaces so an in-memory store can stand in
// during tests.
package store
