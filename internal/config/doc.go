// Package config handles configuration loading, parsing, and validation
// from defaults, an optional YAML file and environment variables. Defaults
// depend on the selected profile (development, testing or production), so
// a bare checkout runs against a local SQLite file while production must
// name its PostgreSQL database and signing secret explicitly.
package config
