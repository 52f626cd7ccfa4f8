package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Field limits mirror the column sizes of the accounts table.
const (
	MaxAccountNameLength  = 100
	MaxAccountEmailLength = 120
	// MaxPasswordBytes is bcrypt's input limit.
	MaxPasswordBytes = 72
)

// Account validation errors
var (
	ErrEmptyAccountID      = validationErr("account ID cannot be empty")
	ErrEmptyAccountName    = validationErr("name cannot be empty")
	ErrAccountNameTooLong  = validationErr("name is too long")
	ErrEmptyEmail          = validationErr("email cannot be empty")
	ErrInvalidEmail        = validationErr("invalid email format")
	ErrEmailTooLong        = validationErr("email is too long")
	ErrEmptyPassword       = validationErr("password cannot be empty")
	ErrPasswordTooLong     = validationErr("password must be at most 72 bytes long")
	ErrEmptyHashedPassword = validationErr("hashed password cannot be empty")
)

// Account is a registered credential holder that owns tasks.
type Account struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Password       string    `json:"-"` // Plaintext, only present during registration
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewAccount creates an Account with a fresh ID and creation time.
// The email is normalised so uniqueness is case-insensitive.
//
// The caller must hash Password into HashedPassword before storing it.
func NewAccount(name, email, password string) (*Account, error) {
	account := &Account{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		Email:     NormalizeEmail(email),
		Password:  password,
		CreatedAt: time.Now().UTC(),
	}

	if err := account.Validate(); err != nil {
		return nil, err
	}

	return account, nil
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate checks if the Account has valid data.
func (a *Account) Validate() error {
	if a.ID == uuid.Nil {
		return ErrEmptyAccountID
	}

	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyAccountName
	}
	if utf8.RuneCountInString(a.Name) > MaxAccountNameLength {
		return ErrAccountNameTooLong
	}

	if a.Email == "" {
		return ErrEmptyEmail
	}
	if len(a.Email) > MaxAccountEmailLength {
		return ErrEmailTooLong
	}
	if !validateEmailFormat(a.Email) {
		return ErrInvalidEmail
	}

	// A plaintext password is only present before hashing; stored accounts
	// carry the hash instead.
	if a.Password != "" {
		if len(a.Password) > MaxPasswordBytes {
			return ErrPasswordTooLong
		}
	} else if a.HashedPassword == "" {
		return ErrEmptyPassword
	}

	return nil
}

// Public returns a copy of the account without any credential material.
func (a *Account) Public() *Account {
	return &Account{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		CreatedAt: a.CreatedAt,
	}
}

// emailValidator applies the same "email" rule as request validation.
var emailValidator = validator.New()

func validateEmailFormat(email string) bool {
	return emailValidator.Var(email, "email") == nil
}
