package domain

import "strings"

// Pagination defaults for task listings.
const (
	DefaultPage     = 1
	DefaultPageSize = 5
	MaxPageSize     = 100
)

// TaskQuery describes one page of an account's task listing.
// Results are always ordered newest first.
type TaskQuery struct {
	Page     int
	PageSize int
	// Search matches case-insensitively against title or description.
	Search   string
	Status   *TaskStatus
	Priority *TaskPriority
}

// Normalize fills in defaults and clamps out-of-range values.
func (q TaskQuery) Normalize() TaskQuery {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	q.Search = strings.TrimSpace(q.Search)
	return q
}

// Offset returns the number of rows to skip for the query's page.
func (q TaskQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// Matches reports whether t satisfies the query's filters.
// SQL stores express the same rules in their WHERE clauses.
func (q TaskQuery) Matches(t *Task) bool {
	if q.Status != nil && t.Status != *q.Status {
		return false
	}
	if q.Priority != nil && t.Priority != *q.Priority {
		return false
	}
	if q.Search != "" {
		term := strings.ToLower(q.Search)
		if !strings.Contains(strings.ToLower(t.Title), term) &&
			!strings.Contains(strings.ToLower(t.Description), term) {
			return false
		}
	}
	return true
}

// ParseStatusFilter interprets a list filter value. "all", "todos" and the
// empty string mean no filter.
func ParseStatusFilter(s string) (*TaskStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all", "todos":
		return nil, nil
	}
	status, err := ParseTaskStatus(s)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// ParsePriorityFilter interprets a list filter value. "all", "todas" and the
// empty string mean no filter.
func ParsePriorityFilter(s string) (*TaskPriority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all", "todas":
		return nil, nil
	}
	priority, err := ParseTaskPriority(s)
	if err != nil {
		return nil, err
	}
	return &priority, nil
}

// TaskPage is one page of a task listing.
type TaskPage struct {
	Items      []*Task
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// NewTaskPage assembles a page; TotalPages is ceil(total / pageSize).
func NewTaskPage(items []*Task, total int, q TaskQuery) *TaskPage {
	if items == nil {
		items = []*Task{}
	}
	totalPages := 0
	if q.PageSize > 0 {
		totalPages = (total + q.PageSize - 1) / q.PageSize
	}
	return &TaskPage{
		Items:      items,
		Total:      total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: totalPages,
	}
}
