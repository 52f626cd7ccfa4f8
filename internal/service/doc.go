// Package service implements the application's use cases: account
// registration and authentication, and owner-scoped task management.
//
// Services depend only on the store interfaces, so they run unchanged over
// PostgreSQL, SQLite or the in-memory test stores. Every task operation takes
// the caller's account ID, and a task owned by anyone else is reported as
// ErrTaskNotFound, indistinguishable from a task that does not exist.
package service
