package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/tarefas-api/internal/api/shared"
	"github.com/phrazzld/tarefas-api/internal/domain"
	"github.com/phrazzld/tarefas-api/internal/service"
	"github.com/phrazzld/tarefas-api/internal/service/auth"
)

// Client-facing messages.
const (
	MsgRegistered         = "Usuário registrado com sucesso!"
	MsgEmailTaken         = "Este email já está em uso"
	MsgInvalidCredentials = "Credenciais inválidas"
	MsgTaskDeleted        = "Tarefa deletada com sucesso"
	MsgAccountDeleted     = "Conta removida com sucesso"
	MsgTaskNotFound       = "Tarefa não encontrada"
	MsgAccountNotFound    = "Usuário não encontrado"
	MsgInvalidToken       = "Token inválido ou expirado"
	MsgInvalidBody        = "Corpo da requisição inválido"
	MsgInvalidData        = "Dados inválidos"
	MsgInternal           = "Erro interno do servidor"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking their types to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest

	case errors.Is(err, service.ErrEmailTaken):
		return http.StatusConflict

	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	case errors.Is(err, service.ErrTaskNotFound),
		errors.Is(err, service.ErrAccountNotFound):
		return http.StatusNotFound

	default:
		return http.StatusInternalServerError
	}
}

// validationMessages gives each domain validation sentinel its client text.
var validationMessages = []struct {
	err error
	msg string
}{
	{domain.ErrEmptyAccountName, "O nome é obrigatório"},
	{domain.ErrAccountNameTooLong, fmt.Sprintf("O nome deve ter no máximo %d caracteres", domain.MaxAccountNameLength)},
	{domain.ErrEmptyEmail, "O email é obrigatório"},
	{domain.ErrInvalidEmail, "Email inválido"},
	{domain.ErrEmailTooLong, fmt.Sprintf("O email deve ter no máximo %d caracteres", domain.MaxAccountEmailLength)},
	{domain.ErrEmptyPassword, "A senha é obrigatória"},
	{domain.ErrPasswordTooLong, fmt.Sprintf("A senha deve ter no máximo %d bytes", domain.MaxPasswordBytes)},
	{domain.ErrEmptyTaskTitle, "O título é obrigatório"},
	{domain.ErrTaskTitleTooLong, fmt.Sprintf("O título deve ter no máximo %d caracteres", domain.MaxTaskTitleLength)},
	{
		domain.ErrTaskDescriptionTooLong,
		fmt.Sprintf("A descrição deve ter no máximo %d caracteres", domain.MaxTaskDescriptionLength),
	},
	{domain.ErrInvalidTaskStatus, "Status inválido"},
	{domain.ErrInvalidTaskPriority, "Prioridade inválida"},
}

// GetSafeErrorMessage returns the client-facing message for err. Unknown
// errors get the generic internal error text.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return MsgInternal
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		for _, vm := range validationMessages {
			if errors.Is(err, vm.err) {
				return vm.msg
			}
		}
		return MsgInvalidData

	case errors.Is(err, service.ErrEmailTaken):
		return MsgEmailTaken

	case errors.Is(err, service.ErrInvalidCredentials):
		return MsgInvalidCredentials

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return MsgInvalidToken

	case errors.Is(err, service.ErrTaskNotFound):
		return MsgTaskNotFound

	case errors.Is(err, service.ErrAccountNotFound):
		return MsgAccountNotFound

	default:
		return MsgInternal
	}
}

// SanitizeValidationError turns validator output into a short message
// naming the first offending JSON field.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return MsgInvalidData
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("O campo '%s' é obrigatório", fe.Field())
	case "email":
		return "Email inválido"
	case "max":
		return fmt.Sprintf("O campo '%s' excede o tamanho máximo", fe.Field())
	default:
		return fmt.Sprintf("O campo '%s' é inválido", fe.Field())
	}
}

// HandleAPIError writes the mapped status and safe message for err and
// logs the redacted details.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}
