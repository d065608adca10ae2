package domain

import (
	"github.com/allisson/tokengate/internal/errors"
)

// Token domain errors.
var (
	// ErrTokenNotFound indicates the token does not exist or belongs to a
	// different account. Ownership violations return this same error so that
	// another account's token is externally indistinguishable from a missing
	// one.
	ErrTokenNotFound = errors.Wrap(errors.ErrNotFound, "token not found")

	// ErrInvalidExpiry indicates the expiry duration is missing, non-positive,
	// or exceeds the configured maximum.
	ErrInvalidExpiry = errors.Wrap(errors.ErrInvalidInput, "invalid expiry")

	// ErrInvalidScope indicates an empty scope set or a scope outside the
	// permission catalogue.
	ErrInvalidScope = errors.Wrap(errors.ErrInvalidInput, "invalid scope")

	// ErrKeyCollision indicates a generated bearer string hashed into an
	// existing row. With 256 bits of randomness this should never happen; it
	// is surfaced as a fatal conflict rather than silently retried.
	ErrKeyCollision = errors.Wrap(errors.ErrConflict, "token key collision")

	// ErrTokenExpired indicates bearer presentation of an expired token.
	ErrTokenExpired = errors.Wrap(errors.ErrUnauthorized, "token expired")

	// ErrTokenInactive indicates bearer presentation of a disabled token.
	ErrTokenInactive = errors.Wrap(errors.ErrUnauthorized, "token inactive")
)
