// Package testdb opens migrated databases for store tests: a throwaway
// SQLite file for every run, and PostgreSQL when TAREFAS_TEST_DATABASE_URL
// names one.
package testdb
