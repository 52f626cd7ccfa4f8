// Package mocks provides in-memory test doubles for the store interfaces.
// The default behaviour mirrors the SQL stores closely enough to run the
// shared store suite; function fields override individual methods.
package mocks
