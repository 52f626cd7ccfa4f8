package api

import (
	"time"

	"github.com/phrazzld/tarefas-api/internal/domain"
)

// RegisterRequest defines the payload for the account registration endpoint.
type RegisterRequest struct {
	Name     string `json:"nome"  validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=120"`
	Password string `json:"senha" validate:"required,max=72"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"senha" validate:"required,max=72"`
}

// LoginResponse carries the session token issued at login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	// ExpiresAt is the RFC 3339 instant the token stops being accepted.
	ExpiresAt string `json:"expires_at"`
}

// AccountResponse is the public view of the authenticated account.
type AccountResponse struct {
	ID        string `json:"id"`
	Name      string `json:"nome"`
	Email     string `json:"email"`
	CreatedAt string `json:"criado_em"`
}

// TaskRequest is the body of task create and update requests. Absent
// fields are nil; on update only present fields change. Concluida is the
// legacy completion flag, used only when Status is absent.
type TaskRequest struct {
	Title       *string `json:"titulo"`
	Description *string `json:"descricao"`
	Status      *string `json:"status"`
	Priority    *string `json:"prioridade"`
	Concluida   *bool   `json:"concluida"`
}

// TaskResponse is the JSON representation of a task.
type TaskResponse struct {
	ID          string `json:"id"`
	Title       string `json:"titulo"`
	Description string `json:"descricao"`
	Status      string `json:"status"`
	Priority    string `json:"prioridade"`
	CreatedAt   string `json:"data_criacao"`
}

// TaskListResponse is one page of the task listing.
type TaskListResponse struct {
	Data       []TaskResponse `json:"data"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PerPage    int            `json:"per_page"`
	TotalPages int            `json:"totalPages"`
}

// formatTime renders t as RFC 3339 UTC at microsecond precision, the
// resolution PostgreSQL keeps.
func formatTime(t time.Time) string {
	return t.UTC().Truncate(time.Microsecond).Format(time.RFC3339Nano)
}

func taskToResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID.String(),
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		CreatedAt:   formatTime(t.CreatedAt),
	}
}

func pageToResponse(p *domain.TaskPage) TaskListResponse {
	data := make([]TaskResponse, 0, len(p.Items))
	for _, t := range p.Items {
		data = append(data, taskToResponse(t))
	}
	return TaskListResponse{
		Data:       data,
		Total:      p.Total,
		Page:       p.Page,
		PerPage:    p.PageSize,
		TotalPages: p.TotalPages,
	}
}

func accountToResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		ID:        a.ID.String(),
		Name:      a.Name,
		Email:     a.Email,
		CreatedAt: formatTime(a.CreatedAt),
	}
}
