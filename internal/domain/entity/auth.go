package entity

import (
	"time"

	"github.com/google/uuid"
)

// ProviderType names the way a credential is checked.
type ProviderType string

// ProviderTypeEmail is the email and password credential.
const ProviderTypeEmail ProviderType = "email"

// Authentication represents a single method of logging in (a credential).
type Authentication struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Provider       ProviderType
	ProviderUserID string // The email address for ProviderTypeEmail.
	PasswordHash   string // bcrypt hash, only set for ProviderTypeEmail.
	CreatedAt      time.Time
}

// RefreshToken represents a long-lived, authorized user session.
type RefreshToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash string // SHA-256 of the raw refresh token.
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired reports whether the session is past its expiry at now.
func (t *RefreshToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
