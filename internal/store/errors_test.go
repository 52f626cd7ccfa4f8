package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantNotFound  bool
		wantDuplicate bool
	}{
		{name: "nil error"},
		{name: "generic error", err: errors.New("some error")},
		{name: "ErrNotFound", err: ErrNotFound, wantNotFound: true},
		{name: "ErrAccountNotFound", err: ErrAccountNotFound, wantNotFound: true},
		{
			name:         "wrapped ErrTaskNotFound",
			err:          fmt.Errorf("get task: %w", ErrTaskNotFound),
			wantNotFound: true,
		},
		{name: "ErrDuplicate", err: ErrDuplicate, wantDuplicate: true},
		{
			name:          "wrapped ErrEmailExists",
			err:           fmt.Errorf("create account: %w", ErrEmailExists),
			wantDuplicate: true,
		},
		{name: "ErrInvalidEntity", err: ErrInvalidEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantNotFound, IsNotFoundError(tt.err))
			assert.Equal(t, tt.wantDuplicate, IsDuplicateError(tt.err))
		})
	}
}

func TestSpecificErrorsAreDistinct(t *testing.T) {
	assert.False(t, errors.Is(ErrTaskNotFound, ErrAccountNotFound))
	assert.False(t, errors.Is(ErrAccountNotFound, ErrTaskNotFound))
}

func TestStoreError(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewStoreError("task", "list", "query failed", cause)

	assert.Equal(t, "list operation on task failed: query failed: connection reset", err.Error())
	assert.ErrorIs(t, err, cause)

	bare := NewStoreError("account", "delete", "no rows", nil)
	assert.Equal(t, "delete operation on account failed: no rows", bare.Error())
}
