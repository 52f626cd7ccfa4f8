package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	t.Parallel()

	accountID := uuid.New()

	t.Run("applies defaults", func(t *testing.T) {
		t.Parallel()
		task, err := NewTask(accountID, "  Buy milk  ", "", "", "")
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, task.ID)
		assert.Equal(t, uuid.Version(7), task.ID.Version())
		assert.Equal(t, accountID, task.AccountID)
		assert.Equal(t, "Buy milk", task.Title)
		assert.Equal(t, "", task.Description)
		assert.Equal(t, TaskStatusPending, task.Status)
		assert.Equal(t, TaskPriorityMedium, task.Priority)
		assert.False(t, task.CreatedAt.IsZero())
		assert.Equal(t, "UTC", task.CreatedAt.Location().String())
	})

	t.Run("keeps explicit values", func(t *testing.T) {
		t.Parallel()
		task, err := NewTask(accountID, "Write report", "quarterly", TaskStatusInProgress, TaskPriorityHigh)
		require.NoError(t, err)
		assert.Equal(t, "quarterly", task.Description)
		assert.Equal(t, TaskStatusInProgress, task.Status)
		assert.Equal(t, TaskPriorityHigh, task.Priority)
	})

	t.Run("rejects blank title", func(t *testing.T) {
		t.Parallel()
		_, err := NewTask(accountID, "   ", "", "", "")
		assert.ErrorIs(t, err, ErrEmptyTaskTitle)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("rejects missing owner", func(t *testing.T) {
		t.Parallel()
		_, err := NewTask(uuid.Nil, "title", "", "", "")
		assert.ErrorIs(t, err, ErrEmptyTaskAccountID)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		t.Parallel()
		_, err := NewTask(accountID, "title", "", TaskStatus("archived"), "")
		assert.ErrorIs(t, err, ErrInvalidTaskStatus)
	})

	t.Run("rejects long fields", func(t *testing.T) {
		t.Parallel()
		_, err := NewTask(accountID, strings.Repeat("a", MaxTaskTitleLength+1), "", "", "")
		assert.ErrorIs(t, err, ErrTaskTitleTooLong)

		_, err = NewTask(accountID, "ok", strings.Repeat("d", MaxTaskDescriptionLength+1), "", "")
		assert.ErrorIs(t, err, ErrTaskDescriptionTooLong)
	})

	t.Run("ids sort by creation", func(t *testing.T) {
		t.Parallel()
		first, err := NewTask(accountID, "first", "", "", "")
		require.NoError(t, err)
		second, err := NewTask(accountID, "second", "", "", "")
		require.NoError(t, err)
		assert.Less(t, first.ID.String(), second.ID.String())
	})
}

func TestParseTaskStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    TaskStatus
		wantErr bool
	}{
		{in: "pending", want: TaskStatusPending},
		{in: "pendente", want: TaskStatusPending},
		{in: "IN-PROGRESS", want: TaskStatusInProgress},
		{in: "em_andamento", want: TaskStatusInProgress},
		{in: " done ", want: TaskStatusDone},
		{in: "concluida", want: TaskStatusDone},
		{in: "archived", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseTaskStatus(tc.in)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTaskStatus)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseTaskPriority(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]TaskPriority{
		"low": TaskPriorityLow, "baixa": TaskPriorityLow,
		"Medium": TaskPriorityMedium, "media": TaskPriorityMedium,
		"high": TaskPriorityHigh, "alta": TaskPriorityHigh,
	} {
		got, err := ParseTaskPriority(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseTaskPriority("urgent")
	assert.ErrorIs(t, err, ErrInvalidTaskPriority)
}

func TestStatusFromCompleted(t *testing.T) {
	t.Parallel()
	assert.Equal(t, TaskStatusDone, StatusFromCompleted(true))
	assert.Equal(t, TaskStatusPending, StatusFromCompleted(false))
}

func TestTaskPatch(t *testing.T) {
	t.Parallel()

	task, err := NewTask(uuid.New(), "original", "keep me", "", TaskPriorityLow)
	require.NoError(t, err)

	t.Run("empty patch", func(t *testing.T) {
		assert.True(t, TaskPatch{}.IsEmpty())
		assert.NoError(t, TaskPatch{}.Validate())
	})

	t.Run("apply changes only present fields", func(t *testing.T) {
		title := "  renamed "
		status := TaskStatusDone
		patch := TaskPatch{Title: &title, Status: &status}.Normalize()
		require.NoError(t, patch.Validate())

		updated := *task
		patch.Apply(&updated)

		assert.Equal(t, "renamed", updated.Title)
		assert.Equal(t, "keep me", updated.Description)
		assert.Equal(t, TaskStatusDone, updated.Status)
		assert.Equal(t, TaskPriorityLow, updated.Priority)
		assert.Equal(t, task.CreatedAt, updated.CreatedAt)
		assert.Equal(t, task.AccountID, updated.AccountID)
	})

	t.Run("rejects blank title", func(t *testing.T) {
		blank := " "
		err := TaskPatch{Title: &blank}.Validate()
		assert.True(t, errors.Is(err, ErrEmptyTaskTitle))
	})

	t.Run("rejects invalid priority", func(t *testing.T) {
		p := TaskPriority("urgent")
		assert.ErrorIs(t, TaskPatch{Priority: &p}.Validate(), ErrInvalidTaskPriority)
	})
}
