package shared_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/phrazzld/tarefas-api/internal/api/shared"
	"github.com/phrazzld/tarefas-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceID(t *testing.T) {
	t.Parallel()

	assert.Empty(t, shared.GetTraceID(context.Background()))

	ctx := shared.WithTraceID(context.Background(), "abc")
	assert.Equal(t, "abc", shared.GetTraceID(ctx))

	generated := shared.GetTraceID(shared.WithTraceID(context.Background(), ""))
	assert.Len(t, generated, 32)
	assert.NotEqual(t, generated, shared.NewTraceID())
}

func TestAccountIDFromContext(t *testing.T) {
	t.Parallel()

	_, ok := shared.AccountIDFromContext(context.Background())
	assert.False(t, ok)

	_, ok = shared.AccountIDFromContext(shared.WithAccountID(context.Background(), uuid.Nil))
	assert.False(t, ok)

	id := uuid.New()
	got, ok := shared.AccountIDFromContext(shared.WithAccountID(context.Background(), id))
	require.True(t, ok)
	assert.Equal(t, id, got)
}

func TestRespondWithErrorAndLog(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ctx := shared.WithTraceID(context.Background(), "trace-1")
	ctx = logger.WithLogger(ctx, log)
	req := httptest.NewRequest(http.MethodGet, "/api/tarefas", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	cause := stringError("dial postgres://tarefas:s3cret@db/tarefas")
	shared.RespondWithErrorAndLog(rec, req, http.StatusInternalServerError, "Erro interno do servidor", cause)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	var body shared.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Erro interno do servidor", body.Msg)
	assert.Equal(t, "trace-1", body.TraceID)
	assert.NotContains(t, rec.Body.String(), "s3cret")

	assert.Contains(t, logs.String(), `"level":"ERROR"`)
	assert.NotContains(t, logs.String(), "s3cret")
}

func TestRespondWithMessage(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodDelete, "/api/tarefas/1", nil)
	rec := httptest.NewRecorder()
	shared.RespondWithMessage(rec, req, http.StatusOK, "Tarefa deletada com sucesso")

	assert.JSONEq(t, `{"msg":"Tarefa deletada com sucesso"}`, rec.Body.String())
}

type sampleRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"nome"  validate:"required"`
}

func TestDecodeAndValidate(t *testing.T) {
	t.Parallel()

	t.Run("valid body ignores unknown fields", func(t *testing.T) {
		body := `{"email":"a@b.co","nome":"Ana","id_usuario":99}`
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))

		var got sampleRequest
		require.NoError(t, shared.DecodeJSON(req, &got))
		assert.NoError(t, shared.ValidateRequest(got))
	})

	t.Run("empty body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
		var got sampleRequest
		assert.ErrorIs(t, shared.DecodeJSON(req, &got), shared.ErrEmptyBody)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))
		var got sampleRequest
		assert.Error(t, shared.DecodeJSON(req, &got))
	})

	t.Run("validation uses json names", func(t *testing.T) {
		err := shared.ValidateRequest(sampleRequest{Email: "nope"})
		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)

		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fe.Field())
		}
		assert.ElementsMatch(t, []string{"email", "nome"}, fields)
	})
}

type stringError string

func (e stringError) Error() string { return string(e) }
