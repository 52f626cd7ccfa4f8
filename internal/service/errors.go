package service

import (
	"errors"
	"fmt"
)

// Sentinel errors for expected conditions. Callers check them with
// errors.Is; the API layer maps each to an HTTP status.
var (
	// ErrEmailTaken indicates registration with an email that already
	// belongs to an account. Maps to 409 Conflict.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password so callers cannot tell which one failed. Maps to 401.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrTaskNotFound indicates no task with the given ID is owned by the
	// caller. Maps to 404.
	ErrTaskNotFound = errors.New("task not found")

	// ErrAccountNotFound indicates the caller's account no longer exists.
	// Maps to 404.
	ErrAccountNotFound = errors.New("account not found")
)

// ServiceError wraps unexpected failures with the operation that hit them.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
