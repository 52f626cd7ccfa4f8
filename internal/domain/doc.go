// Package domain contains the core business entities of the task list:
// accounts, the tasks they own, and the value objects used to query them.
// It has no knowledge of storage or transport.
package domain
