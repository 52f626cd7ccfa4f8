package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/tarefas-api/internal/api/shared"
	"github.com/phrazzld/tarefas-api/internal/platform/logger"
	"github.com/phrazzld/tarefas-api/internal/platform/metrics"
	"github.com/phrazzld/tarefas-api/internal/service"
)

// Metric label values for auth attempts.
const (
	actionRegister = "register"
	actionLogin    = "login"
	resultSuccess  = "success"
	resultFailure  = "failure"
	resultError    = "error"
)

// AuthHandler handles registration, login and the caller's own account.
type AuthHandler struct {
	accounts service.AccountService
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewAuthHandler creates a new AuthHandler. metrics may be nil.
func NewAuthHandler(
	accounts service.AccountService,
	m *metrics.Metrics,
	logger *slog.Logger,
) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		accounts: accounts,
		metrics:  m,
		logger:   logger.With(slog.String("component", "auth_handler")),
	}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		h.metrics.IncAuthAttempt(actionRegister, resultFailure)
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, MsgInvalidBody, err)
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		h.metrics.IncAuthAttempt(actionRegister, resultFailure)
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	account, err := h.accounts.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.metrics.IncAuthAttempt(actionRegister, outcome(err))
		HandleAPIError(w, r, err)
		return
	}

	h.metrics.IncAuthAttempt(actionRegister, resultSuccess)
	logger.FromContextOrDefault(r.Context(), h.logger).Info("account registered",
		slog.String("account_id", account.ID.String()))
	shared.RespondWithMessage(w, r, http.StatusCreated, MsgRegistered)
}

// Login handles POST /api/auth/login. Unknown emails and wrong passwords
// get the same response.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		h.metrics.IncAuthAttempt(actionLogin, resultFailure)
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, MsgInvalidBody, err)
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		h.metrics.IncAuthAttempt(actionLogin, resultFailure)
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	session, err := h.accounts.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		h.metrics.IncAuthAttempt(actionLogin, outcome(err))
		HandleAPIError(w, r, err)
		return
	}

	h.metrics.IncAuthAttempt(actionLogin, resultSuccess)
	shared.RespondWithJSON(w, r, http.StatusOK, LoginResponse{
		AccessToken: session.AccessToken,
		ExpiresAt:   session.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountFromRequest(w, r)
	if !ok {
		return
	}

	account, err := h.accounts.GetAccount(r.Context(), accountID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, accountToResponse(account))
}

// DeleteMe handles DELETE /api/auth/me, removing the caller's account and
// every task it owns.
func (h *AuthHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountFromRequest(w, r)
	if !ok {
		return
	}

	if err := h.accounts.DeleteAccount(r.Context(), accountID); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithMessage(w, r, http.StatusOK, MsgAccountDeleted)
}

// outcome classifies a failed auth attempt for metrics: caller mistakes
// are failures, everything else is an error.
func outcome(err error) string {
	if MapErrorToStatusCode(err) == http.StatusInternalServerError {
		return resultError
	}
	return resultFailure
}
