package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tarefas-api/internal/domain"
	"github.com/phrazzld/tarefas-api/internal/platform/logger"
	"github.com/phrazzld/tarefas-api/internal/service/auth"
	"github.com/phrazzld/tarefas-api/internal/store"
)

// dummyPassword is hashed once and compared against when a login names an
// unknown email, so both failure paths cost one bcrypt comparison.
const dummyPassword = "tarefas-timing-equaliser"

// Session is the result of a successful login.
type Session struct {
	AccessToken string
	ExpiresAt   time.Time
	Account     *domain.Account
}

// AccountService manages account registration, login and removal.
type AccountService interface {
	// Register creates an account. Returns a domain validation error for bad
	// input and ErrEmailTaken when the email is already registered.
	Register(ctx context.Context, name, email, password string) (*domain.Account, error)

	// Authenticate checks credentials and issues a session token.
	// Returns ErrInvalidCredentials for an unknown email or wrong password.
	Authenticate(ctx context.Context, email, password string) (*Session, error)

	// GetAccount returns the public view of an account.
	GetAccount(ctx context.Context, accountID uuid.UUID) (*domain.Account, error)

	// DeleteAccount removes an account together with all of its tasks.
	DeleteAccount(ctx context.Context, accountID uuid.UUID) error
}

type accountServiceImpl struct {
	accounts store.AccountStore
	hasher   auth.PasswordHasher
	tokens   auth.JWTService
	logger   *slog.Logger

	dummyOnce sync.Once
	dummyHash string
}

// NewAccountService creates a new AccountService.
// It returns an error if any of the required dependencies are nil.
func NewAccountService(
	accounts store.AccountStore,
	hasher auth.PasswordHasher,
	tokens auth.JWTService,
	logger *slog.Logger,
) (AccountService, error) {
	if accounts == nil {
		return nil, domain.NewValidationError("accounts", "cannot be nil", domain.ErrValidation)
	}
	if hasher == nil {
		return nil, domain.NewValidationError("hasher", "cannot be nil", domain.ErrValidation)
	}
	if tokens == nil {
		return nil, domain.NewValidationError("tokens", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &accountServiceImpl{
		accounts: accounts,
		hasher:   hasher,
		tokens:   tokens,
		logger:   logger.With(slog.String("component", "account_service")),
	}, nil
}

// Register implements AccountService.
func (s *accountServiceImpl) Register(
	ctx context.Context,
	name, email, password string,
) (*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	account, err := domain.NewAccount(name, email, password)
	if err != nil {
		log.Debug("registration rejected by validation", slog.String("error", err.Error()))
		return nil, err
	}

	// Checked up front so a taken email does not cost a bcrypt hash; the
	// unique index still decides races.
	if _, err := s.accounts.GetByEmail(ctx, account.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, store.ErrAccountNotFound) {
		log.Error("failed to look up email", slog.String("error", err.Error()))
		return nil, NewServiceError("register", "failed to check email", err)
	}

	hashed, err := s.hasher.Hash(account.Password)
	if err != nil {
		return nil, NewServiceError("register", "failed to hash password", err)
	}
	account.HashedPassword = hashed
	account.Password = ""

	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return nil, fmt.Errorf("%w: %w", ErrEmailTaken, err)
		}
		log.Error("failed to save account", slog.String("error", err.Error()))
		return nil, NewServiceError("register", "failed to save account", err)
	}

	log.Info("account registered", slog.String("account_id", account.ID.String()))
	return account.Public(), nil
}

// Authenticate implements AccountService.
func (s *accountServiceImpl) Authenticate(
	ctx context.Context,
	email, password string,
) (*Session, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	account, err := s.accounts.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if !errors.Is(err, store.ErrAccountNotFound) {
			log.Error("failed to look up account for login", slog.String("error", err.Error()))
			return nil, NewServiceError("authenticate", "failed to look up account", err)
		}
		s.compareDummy(password)
		log.Debug("login failed: unknown email")
		return nil, ErrInvalidCredentials
	}

	if err := s.hasher.Compare(account.HashedPassword, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			log.Debug("login failed: wrong password", slog.String("account_id", account.ID.String()))
			return nil, ErrInvalidCredentials
		}
		log.Error("stored password hash is unusable",
			slog.String("account_id", account.ID.String()),
			slog.String("error", err.Error()))
		return nil, NewServiceError("authenticate", "failed to verify password", err)
	}

	token, expiresAt, err := s.tokens.GenerateToken(ctx, account.ID)
	if err != nil {
		return nil, NewServiceError("authenticate", "failed to issue token", err)
	}

	log.Info("login succeeded", slog.String("account_id", account.ID.String()))
	return &Session{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		Account:     account.Public(),
	}, nil
}

func (s *accountServiceImpl) compareDummy(password string) {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash(dummyPassword)
		if err != nil {
			s.logger.Warn("failed to prepare dummy password hash", slog.String("error", err.Error()))
			return
		}
		s.dummyHash = hash
	})
	if s.dummyHash != "" {
		_ = s.hasher.Compare(s.dummyHash, password)
	}
}

// GetAccount implements AccountService.
func (s *accountServiceImpl) GetAccount(ctx context.Context, accountID uuid.UUID) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, NewServiceError("get_account", "failed to retrieve account", err)
	}
	return account.Public(), nil
}

// DeleteAccount implements AccountService.
func (s *accountServiceImpl) DeleteAccount(ctx context.Context, accountID uuid.UUID) error {
	if err := s.accounts.Delete(ctx, accountID); err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return ErrAccountNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete account",
			slog.String("account_id", accountID.String()),
			slog.String("error", err.Error()))
		return NewServiceError("delete_account", "failed to delete account", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("account deleted",
		slog.String("account_id", accountID.String()))
	return nil
}
