package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JWTService issues and verifies the signed session tokens that identify an
// account on every authenticated request.
type JWTService interface {
	// GenerateToken creates a signed access token for accountID and returns
	// it together with its expiry time.
	GenerateToken(ctx context.Context, accountID uuid.UUID) (string, time.Time, error)

	// ValidateToken verifies signature and time claims and returns the claims.
	// Returns ErrExpiredToken, ErrTokenNotYetValid or ErrInvalidToken on failure.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the verified content of a session token.
type Claims struct {
	AccountID uuid.UUID
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}
