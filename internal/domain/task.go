package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// TaskStatus represents where a task is in its (flat) lifecycle.
// Any status may be set from any other.
type TaskStatus string

// Possible task status values
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

// TaskPriority represents how urgent a task is.
type TaskPriority string

// Possible task priority values
const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// Field limits mirror the column sizes of the tasks table.
const (
	MaxTaskTitleLength       = 200
	MaxTaskDescriptionLength = 500
)

// Task validation errors
var (
	ErrEmptyTaskID            = validationErr("task ID cannot be empty")
	ErrEmptyTaskAccountID     = validationErr("task account ID cannot be empty")
	ErrEmptyTaskTitle         = validationErr("task title cannot be empty")
	ErrTaskTitleTooLong       = validationErr("task title is too long")
	ErrTaskDescriptionTooLong = validationErr("task description is too long")
	ErrInvalidTaskStatus      = validationErr("invalid task status")
	ErrInvalidTaskPriority    = validationErr("invalid task priority")
)

// statusAliases maps accepted spellings, including the Portuguese values
// older clients send, to the canonical status.
var statusAliases = map[string]TaskStatus{
	"pending":      TaskStatusPending,
	"pendente":     TaskStatusPending,
	"in_progress":  TaskStatusInProgress,
	"in-progress":  TaskStatusInProgress,
	"em_andamento": TaskStatusInProgress,
	"done":         TaskStatusDone,
	"concluida":    TaskStatusDone,
	"concluída":    TaskStatusDone,
}

var priorityAliases = map[string]TaskPriority{
	"low":    TaskPriorityLow,
	"baixa":  TaskPriorityLow,
	"medium": TaskPriorityMedium,
	"media":  TaskPriorityMedium,
	"média":  TaskPriorityMedium,
	"high":   TaskPriorityHigh,
	"alta":   TaskPriorityHigh,
}

// ParseTaskStatus converts user input into a canonical TaskStatus.
func ParseTaskStatus(s string) (TaskStatus, error) {
	status, ok := statusAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", ErrInvalidTaskStatus
	}
	return status, nil
}

// ParseTaskPriority converts user input into a canonical TaskPriority.
func ParseTaskPriority(s string) (TaskPriority, error) {
	priority, ok := priorityAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", ErrInvalidTaskPriority
	}
	return priority, nil
}

// StatusFromCompleted maps the legacy boolean completion flag onto a status.
func StatusFromCompleted(completed bool) TaskStatus {
	if completed {
		return TaskStatusDone
	}
	return TaskStatusPending
}

// Task is a to-do item owned by exactly one account.
type Task struct {
	ID          uuid.UUID    `json:"id"`
	AccountID   uuid.UUID    `json:"account_id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	CreatedAt   time.Time    `json:"created_at"`
}

// NewTask creates a Task owned by accountID. Empty status and priority fall
// back to pending and medium. IDs are UUIDv7 so they sort by creation time.
func NewTask(
	accountID uuid.UUID,
	title, description string,
	status TaskStatus,
	priority TaskPriority,
) (*Task, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	if status == "" {
		status = TaskStatusPending
	}
	if priority == "" {
		priority = TaskPriorityMedium
	}

	task := &Task{
		ID:          id,
		AccountID:   accountID,
		Title:       strings.TrimSpace(title),
		Description: description,
		Status:      status,
		Priority:    priority,
		CreatedAt:   time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if t.AccountID == uuid.Nil {
		return ErrEmptyTaskAccountID
	}

	if err := validateTitle(t.Title); err != nil {
		return err
	}

	if utf8.RuneCountInString(t.Description) > MaxTaskDescriptionLength {
		return ErrTaskDescriptionTooLong
	}

	if !isValidTaskStatus(t.Status) {
		return ErrInvalidTaskStatus
	}

	if !isValidTaskPriority(t.Priority) {
		return ErrInvalidTaskPriority
	}

	return nil
}

// TaskPatch carries a partial update. Nil fields are left unchanged.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *TaskStatus
	Priority    *TaskPriority
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil && p.Priority == nil
}

// Normalize returns a copy with the title trimmed, matching what NewTask stores.
func (p TaskPatch) Normalize() TaskPatch {
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		p.Title = &title
	}
	return p
}

// Validate checks every field present in the patch.
func (p TaskPatch) Validate() error {
	if p.Title != nil {
		if err := validateTitle(*p.Title); err != nil {
			return err
		}
	}
	if p.Description != nil && utf8.RuneCountInString(*p.Description) > MaxTaskDescriptionLength {
		return ErrTaskDescriptionTooLong
	}
	if p.Status != nil && !isValidTaskStatus(*p.Status) {
		return ErrInvalidTaskStatus
	}
	if p.Priority != nil && !isValidTaskPriority(*p.Priority) {
		return ErrInvalidTaskPriority
	}
	return nil
}

// Apply copies the present fields onto t.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
}

func validateTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTaskTitle
	}
	if utf8.RuneCountInString(title) > MaxTaskTitleLength {
		return ErrTaskTitleTooLong
	}
	return nil
}

// isValidTaskStatus checks if the given status is a canonical TaskStatus.
func isValidTaskStatus(status TaskStatus) bool {
	switch status {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusDone:
		return true
	default:
		return false
	}
}

// isValidTaskPriority checks if the given priority is a canonical TaskPriority.
func isValidTaskPriority(priority TaskPriority) bool {
	switch priority {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	default:
		return false
	}
}
