// Package postgres provides PostgreSQL implementations of the account and
// task stores defined in internal/store, together with the embedded goose
// migrations that create their schema. Connections go through the pgx
// database/sql driver.
package postgres
