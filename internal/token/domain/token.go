// Package domain defines bearer token domain models and business logic.
//
// A token is an opaque bearer credential issued by an account. Only a SHA-256
// hash of the bearer string is stored; the plain string is returned exactly
// once at creation. Expiry is lazy: a token is expired the moment
// now >= expires_at, with no background sweep required for correctness.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Status is the composite token state derived from (is_active, expires_at, now).
type Status string

const (
	// StatusNormal means the token is active and unexpired.
	StatusNormal Status = "normal"

	// StatusExpired means expires_at has passed. Terminal: no operation
	// reactivates an expired token.
	StatusExpired Status = "expired"

	// StatusDisabled means the owner set is_active to false. Reversible.
	StatusDisabled Status = "disabled"
)

// Token represents an issued bearer token. The bearer string itself is never
// stored; TokenHash is its SHA-256 hex digest and TokenPreview a masked form
// safe for display.
type Token struct {
	ID            uuid.UUID
	AccountID     uuid.UUID
	TokenHash     string // SHA-256 hex of the bearer string, unique
	TokenPreview  string // masked bearer string for listings
	Description   string
	Scope         ScopeSet
	Prefix        string // bearer string prefix used at generation
	IsActive      bool
	TotalRequests int64
	LastUsedAt    *time.Time // nil means never used
	CreatedAt     time.Time
	ExpiresAt     time.Time
}

// IsExpired reports whether the token has passed its expiry instant.
func (t *Token) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// Status derives the composite state. Expired wins over disabled so that a
// token that is both reads as expired (the terminal condition).
func (t *Token) Status(now time.Time) Status {
	if t.IsExpired(now) {
		return StatusExpired
	}
	if !t.IsActive {
		return StatusDisabled
	}
	return StatusNormal
}

// CanValidate reports whether bearer presentation of this token succeeds.
func (t *Token) CanValidate(now time.Time) bool {
	return t.IsActive && !t.IsExpired(now)
}

// CreateTokenInput contains the parameters for issuing a new token.
// Exactly one of ExpiresInSeconds or ExpiresInDays must be positive.
type CreateTokenInput struct {
	Description      string
	Scope            []string
	ExpiresInSeconds int64
	ExpiresInDays    int
	Prefix           string // optional bearer prefix, defaults to the configured value
}

// CreateTokenOutput contains the result of issuing a token.
// SECURITY: Token carries the full bearer string and is only returned once.
type CreateTokenOutput struct {
	ID          uuid.UUID
	Token       string
	AccountID   uuid.UUID
	Description string
	Scope       ScopeSet
	CreatedAt   time.Time
	ExpiresAt   time.Time
	IsActive    bool
}

// Stats summarizes a token's usage counters.
type Stats struct {
	TokenID       uuid.UUID
	TotalRequests int64
	LastUsedAt    *time.Time
	CreatedAt     time.Time
}

// ValidationResult is the outcome of presenting a bearer token with an
// optional required scope. Valid and Granted are reported separately so
// callers can tell "bad token" from "token lacks permission".
type ValidationResult struct {
	Valid           bool
	Message         string
	Token           *Token           // nil when Valid is false
	PermissionCheck *PermissionCheck // nil when no scope was requested or token invalid
}

// PermissionCheck reports a single scope decision.
type PermissionCheck struct {
	Requested string
	Granted   bool
}
