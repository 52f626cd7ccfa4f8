// Package storetest holds behavioural tests shared by every store.AccountStore
// and store.TaskStore implementation.
package storetest

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tarefas-api/internal/domain"
	"github.com/phrazzld/tarefas-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns a fresh, empty pair of stores sharing one backend.
type Factory func(t *testing.T) (store.AccountStore, store.TaskStore)

var baseTime = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

// Run executes the full behavioural suite against the stores built by newStores.
func Run(t *testing.T, newStores Factory) {
	t.Run("Accounts", func(t *testing.T) { runAccountTests(t, newStores) })
	t.Run("Tasks", func(t *testing.T) { runTaskTests(t, newStores) })
	t.Run("List", func(t *testing.T) { runListTests(t, newStores) })
}

// MustCreateAccount stores a new account with a placeholder password hash.
func MustCreateAccount(t *testing.T, accounts store.AccountStore, email string) *domain.Account {
	t.Helper()
	account, err := domain.NewAccount("Conta "+email, email, "senha-secreta")
	require.NoError(t, err)
	account.HashedPassword = "$2a$04$placeholderhashplaceholderhashplaceholderhashplac"
	account.CreatedAt = baseTime
	require.NoError(t, accounts.Create(context.Background(), account))
	return account
}

// MustCreateTask stores a task created offset after a fixed base time.
func MustCreateTask(
	t *testing.T,
	tasks store.TaskStore,
	owner uuid.UUID,
	title, description string,
	status domain.TaskStatus,
	priority domain.TaskPriority,
	offset time.Duration,
) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(owner, title, description, status, priority)
	require.NoError(t, err)
	task.CreatedAt = baseTime.Add(offset)
	require.NoError(t, tasks.Create(context.Background(), task))
	return task
}

func runAccountTests(t *testing.T, newStores Factory) {
	ctx := context.Background()

	t.Run("create and fetch", func(t *testing.T) {
		accounts, _ := newStores(t)
		created := MustCreateAccount(t, accounts, "ana@example.com")

		byID, err := accounts.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, byID.ID)
		assert.Equal(t, created.Name, byID.Name)
		assert.Equal(t, "ana@example.com", byID.Email)
		assert.Equal(t, created.HashedPassword, byID.HashedPassword)
		assert.Empty(t, byID.Password)
		assert.True(t, baseTime.Equal(byID.CreatedAt))

		byEmail, err := accounts.GetByEmail(ctx, "ANA@Example.com")
		require.NoError(t, err)
		assert.Equal(t, created.ID, byEmail.ID)
	})

	t.Run("duplicate email ignores case", func(t *testing.T) {
		accounts, _ := newStores(t)
		MustCreateAccount(t, accounts, "bia@example.com")

		dup, err := domain.NewAccount("Outra", "BIA@example.com", "outra-senha")
		require.NoError(t, err)
		dup.HashedPassword = "hash"

		err = accounts.Create(ctx, dup)
		assert.ErrorIs(t, err, store.ErrEmailExists)
		assert.True(t, store.IsDuplicateError(err))
	})

	t.Run("unknown account", func(t *testing.T) {
		accounts, _ := newStores(t)

		_, err := accounts.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, store.ErrAccountNotFound)
		_, err = accounts.GetByEmail(ctx, "ninguem@example.com")
		assert.ErrorIs(t, err, store.ErrAccountNotFound)
		assert.ErrorIs(t, accounts.Delete(ctx, uuid.New()), store.ErrAccountNotFound)
	})

	t.Run("delete removes owned tasks only", func(t *testing.T) {
		accounts, tasks := newStores(t)
		gone := MustCreateAccount(t, accounts, "gone@example.com")
		kept := MustCreateAccount(t, accounts, "kept@example.com")

		doomed := MustCreateTask(t, tasks, gone.ID, "A", "", "", "", 0)
		survivor := MustCreateTask(t, tasks, kept.ID, "B", "", "", "", 0)

		require.NoError(t, accounts.Delete(ctx, gone.ID))

		_, err := accounts.GetByID(ctx, gone.ID)
		assert.ErrorIs(t, err, store.ErrAccountNotFound)
		_, err = tasks.GetByOwner(ctx, gone.ID, doomed.ID)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)

		_, err = tasks.GetByOwner(ctx, kept.ID, survivor.ID)
		assert.NoError(t, err)

		// The email becomes available again.
		MustCreateAccount(t, accounts, "gone@example.com")
	})
}

func runTaskTests(t *testing.T, newStores Factory) {
	ctx := context.Background()

	t.Run("create and fetch by owner", func(t *testing.T) {
		accounts, tasks := newStores(t)
		owner := MustCreateAccount(t, accounts, "owner@example.com")
		intruder := MustCreateAccount(t, accounts, "intruder@example.com")

		created := MustCreateTask(t, tasks, owner.ID, "Pagar contas", "luz e água",
			domain.TaskStatusInProgress, domain.TaskPriorityHigh, time.Minute)

		got, err := tasks.GetByOwner(ctx, owner.ID, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, owner.ID, got.AccountID)
		assert.Equal(t, "Pagar contas", got.Title)
		assert.Equal(t, "luz e água", got.Description)
		assert.Equal(t, domain.TaskStatusInProgress, got.Status)
		assert.Equal(t, domain.TaskPriorityHigh, got.Priority)
		assert.True(t, created.CreatedAt.Equal(got.CreatedAt))

		_, err = tasks.GetByOwner(ctx, intruder.ID, created.ID)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
		_, err = tasks.GetByOwner(ctx, owner.ID, uuid.New())
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})

	t.Run("create for unknown account", func(t *testing.T) {
		_, tasks := newStores(t)
		task, err := domain.NewTask(uuid.New(), "Órfã", "", "", "")
		require.NoError(t, err)

		assert.ErrorIs(t, tasks.Create(ctx, task), store.ErrInvalidEntity)
	})

	t.Run("partial update keeps other fields", func(t *testing.T) {
		accounts, tasks := newStores(t)
		owner := MustCreateAccount(t, accounts, "owner@example.com")
		created := MustCreateTask(t, tasks, owner.ID, "Original", "descrição",
			domain.TaskStatusPending, domain.TaskPriorityLow, 0)

		title := "Renomeada"
		updated, err := tasks.Update(ctx, owner.ID, created.ID, domain.TaskPatch{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, "Renomeada", updated.Title)
		assert.Equal(t, "descrição", updated.Description)
		assert.Equal(t, domain.TaskStatusPending, updated.Status)
		assert.Equal(t, domain.TaskPriorityLow, updated.Priority)
		assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))

		done := domain.TaskStatusDone
		empty := ""
		updated, err = tasks.Update(ctx, owner.ID, created.ID,
			domain.TaskPatch{Status: &done, Description: &empty})
		require.NoError(t, err)
		assert.Equal(t, "Renomeada", updated.Title)
		assert.Equal(t, "", updated.Description)
		assert.Equal(t, domain.TaskStatusDone, updated.Status)

		stored, err := tasks.GetByOwner(ctx, owner.ID, created.ID)
		require.NoError(t, err)
		assert.Equal(t, updated, stored)
	})

	t.Run("update is scoped by owner", func(t *testing.T) {
		accounts, tasks := newStores(t)
		owner := MustCreateAccount(t, accounts, "owner@example.com")
		intruder := MustCreateAccount(t, accounts, "intruder@example.com")
		created := MustCreateTask(t, tasks, owner.ID, "Minha", "", "", "", 0)

		title := "Roubada"
		_, err := tasks.Update(ctx, intruder.ID, created.ID, domain.TaskPatch{Title: &title})
		assert.ErrorIs(t, err, store.ErrTaskNotFound)

		got, err := tasks.GetByOwner(ctx, owner.ID, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Minha", got.Title)
	})

	t.Run("delete is scoped by owner", func(t *testing.T) {
		accounts, tasks := newStores(t)
		owner := MustCreateAccount(t, accounts, "owner@example.com")
		intruder := MustCreateAccount(t, accounts, "intruder@example.com")
		created := MustCreateTask(t, tasks, owner.ID, "Minha", "", "", "", 0)

		assert.ErrorIs(t, tasks.Delete(ctx, intruder.ID, created.ID), store.ErrTaskNotFound)
		require.NoError(t, tasks.Delete(ctx, owner.ID, created.ID))
		assert.ErrorIs(t, tasks.Delete(ctx, owner.ID, created.ID), store.ErrTaskNotFound)

		_, err := tasks.GetByOwner(ctx, owner.ID, created.ID)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})
}

func runListTests(t *testing.T, newStores Factory) {
	ctx := context.Background()

	list := func(t *testing.T, tasks store.TaskStore, owner uuid.UUID, q domain.TaskQuery) ([]*domain.Task, int) {
		t.Helper()
		items, total, err := tasks.List(ctx, owner, q.Normalize())
		require.NoError(t, err)
		return items, total
	}
	titles := func(items []*domain.Task) []string {
		out := make([]string, len(items))
		for i, task := range items {
			out[i] = task.Title
		}
		return out
	}

	t.Run("newest first with pagination", func(t *testing.T) {
		accounts, tasks := newStores(t)
		owner := MustCreateAccount(t, accounts, "owner@example.com")
		for i := 1; i <= 7; i++ {
			MustCreateTask(t, tasks, owner.ID, fmt.Sprintf("T%d", i), "", "", "",
				time.Duration(i)*time.Second)
		}

		items, total := list(t, tasks, owner.ID, domain.TaskQuery{})
		assert.Equal(t, 7, total)
		assert.Equal(t, []string{"T7", "T6", "T5", "T4", "T3"}, titles(items))

		items, total = list(t, tasks, owner.ID, domain.TaskQuery{Page: 2})
		assert.Equal(t, 7, total)
		assert.Equal(t, []string{"T2", "T1"}, titles(items))

		items, total = list(t, tasks, owner.ID, domain.TaskQuery{Page: 3, PageSize: 3})
		assert.Equal(t, 7, total)
		assert.Equal(t, []string{"T1"}, titles(items))

		items, total = list(t, tasks, owner.ID, domain.TaskQuery{Page: 9})
		assert.Equal(t, 7, total)
		assert.Empty(t, items)
	})

	t.Run("equal creation times break ties by id", func(t *testing.T) {
		accounts, tasks := newStores(t)
		owner := MustCreateAccount(t, accounts, "owner@example.com")

		var ids []string
		for i := 0; i < 4; i++ {
			task := MustCreateTask(t, tasks, owner.ID, fmt.Sprintf("S%d", i), "", "", "", 0)
			ids = append(ids, task.ID.String())
		}
		sort.Sort(sort.Reverse(sort.StringSlice(ids)))

		items, _ := list(t, tasks, owner.ID, domain.TaskQuery{PageSize: 10})
		got := make([]string, len(items))
		for i, task := range items {
			got[i] = task.ID.String()
		}
		assert.Equal(t, ids, got)
	})

	t.Run("filters combine", func(t *testing.T) {
		accounts, tasks := newStores(t)
		owner := MustCreateAccount(t, accounts, "owner@example.com")

		MustCreateTask(t, tasks, owner.ID, "Relatório mensal", "enviar ao chefe",
			domain.TaskStatusPending, domain.TaskPriorityHigh, 1*time.Second)
		MustCreateTask(t, tasks, owner.ID, "Academia", "treino de pernas",
			domain.TaskStatusDone, domain.TaskPriorityLow, 2*time.Second)
		MustCreateTask(t, tasks, owner.ID, "Revisar RELATÓRIO", "",
			domain.TaskStatusDone, domain.TaskPriorityHigh, 3*time.Second)
		MustCreateTask(t, tasks, owner.ID, "Mercado", "comprar Pernas de frango",
			domain.TaskStatusInProgress, domain.TaskPriorityMedium, 4*time.Second)

		done := domain.TaskStatusDone
		high := domain.TaskPriorityHigh

		items, total := list(t, tasks, owner.ID, domain.TaskQuery{Status: &done})
		assert.Equal(t, 2, total)
		assert.Equal(t, []string{"Revisar RELATÓRIO", "Academia"}, titles(items))

		items, total = list(t, tasks, owner.ID, domain.TaskQuery{Priority: &high})
		assert.Equal(t, 2, total)
		assert.Equal(t, []string{"Revisar RELATÓRIO", "Relatório mensal"}, titles(items))

		items, total = list(t, tasks, owner.ID, domain.TaskQuery{Status: &done, Priority: &high})
		assert.Equal(t, 1, total)
		assert.Equal(t, []string{"Revisar RELATÓRIO"}, titles(items))

		// Search covers the description and ignores ASCII case.
		items, total = list(t, tasks, owner.ID, domain.TaskQuery{Search: "PERNAS"})
		assert.Equal(t, 2, total)
		assert.Equal(t, []string{"Mercado", "Academia"}, titles(items))

		// Accented letters fold too.
		items, total = list(t, tasks, owner.ID, domain.TaskQuery{Search: "relatório"})
		assert.Equal(t, 2, total)
		assert.Equal(t, []string{"Revisar RELATÓRIO", "Relatório mensal"}, titles(items))

		items, total = list(t, tasks, owner.ID, domain.TaskQuery{Search: "mensal", Status: &done})
		assert.Zero(t, total)
		assert.Empty(t, items)
	})

	t.Run("search treats wildcards literally", func(t *testing.T) {
		accounts, tasks := newStores(t)
		owner := MustCreateAccount(t, accounts, "owner@example.com")

		MustCreateTask(t, tasks, owner.ID, "Meta 100% batida", "", "", "", 1*time.Second)
		MustCreateTask(t, tasks, owner.ID, "Meta 1000 batida", "", "", "", 2*time.Second)
		MustCreateTask(t, tasks, owner.ID, "arquivo_final", "", "", "", 3*time.Second)
		MustCreateTask(t, tasks, owner.ID, "arquivoXfinal", "", "", "", 4*time.Second)

		items, _ := list(t, tasks, owner.ID, domain.TaskQuery{Search: "100%"})
		assert.Equal(t, []string{"Meta 100% batida"}, titles(items))

		items, _ = list(t, tasks, owner.ID, domain.TaskQuery{Search: "o_f"})
		assert.Equal(t, []string{"arquivo_final"}, titles(items))
	})

	t.Run("accounts are isolated", func(t *testing.T) {
		accounts, tasks := newStores(t)
		a := MustCreateAccount(t, accounts, "a@example.com")
		b := MustCreateAccount(t, accounts, "b@example.com")

		MustCreateTask(t, tasks, a.ID, "de A", "", "", "", 0)
		MustCreateTask(t, tasks, b.ID, "de B", "", "", "", 0)

		items, total := list(t, tasks, a.ID, domain.TaskQuery{})
		assert.Equal(t, 1, total)
		assert.Equal(t, []string{"de A"}, titles(items))

		items, total = list(t, tasks, uuid.New(), domain.TaskQuery{})
		assert.Zero(t, total)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})
}
