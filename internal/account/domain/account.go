// Package domain defines account domain models and business logic.
//
// An account owns one credential pair: a public access key used to resolve the
// account on signed requests, and a secret key used only as an HMAC signing
// key. The secret key is returned to the caller exactly once, at registration
// or rotation.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Status describes whether an account may authenticate.
type Status string

const (
	// StatusActive allows the account to authenticate and manage tokens.
	StatusActive Status = "active"

	// StatusSuspended blocks all authentication for the account. Bearer
	// tokens issued by a suspended account keep validating; suspension only
	// gates the management surface.
	StatusSuspended Status = "suspended"
)

// Account represents a registered tenant with an HMAC credential pair.
type Account struct {
	ID           uuid.UUID // Unique identifier (UUIDv7)
	Email        string
	Company      string
	PasswordHash string //nolint:gosec // Argon2id hash, not a plaintext password
	AccessKey    string // Public identifier ("AK_" prefix), unique
	SecretKey    string // HMAC signing key ("SK_" prefix); recoverable at rest, never transmitted
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsActive reports whether the account may authenticate.
func (a *Account) IsActive() bool {
	return a.Status == StatusActive
}

// RegisterAccountInput contains the parameters for registering a new account.
type RegisterAccountInput struct {
	Email    string
	Company  string
	Password string
}

// RegisterAccountOutput contains the result of registering an account.
// SECURITY: SecretKey is only returned once and is never retrievable again.
type RegisterAccountOutput struct {
	ID        uuid.UUID
	Email     string
	Company   string
	AccessKey string
	SecretKey string
	CreatedAt time.Time
}

// RotateSecretKeyOutput contains the freshly generated secret key.
// The previous key stops verifying the moment the rotation commits.
type RotateSecretKeyOutput struct {
	AccessKey string
	SecretKey string
	UpdatedAt time.Time
}
