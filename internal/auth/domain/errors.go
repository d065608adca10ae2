// Package domain defines authentication domain models and errors.
package domain

import (
	"github.com/allisson/tokengate/internal/errors"
)

// Authentication domain errors. All of them map to a uniform 401 response so
// a probing client cannot tell which check failed; the distinct sentinels
// exist for logging and tests.
var (
	// ErrInvalidAuthHeader indicates the Authorization header is missing or malformed.
	ErrInvalidAuthHeader = errors.Wrap(errors.ErrUnauthorized, "invalid authorization header")

	// ErrUnknownAccessKey indicates no account matches the presented access key.
	ErrUnknownAccessKey = errors.Wrap(errors.ErrUnauthorized, "unknown access key")

	// ErrSignatureMismatch indicates the recomputed signature does not match.
	ErrSignatureMismatch = errors.Wrap(errors.ErrUnauthorized, "signature mismatch")

	// ErrStaleTimestamp indicates the signed timestamp is too far in the past.
	ErrStaleTimestamp = errors.Wrap(errors.ErrUnauthorized, "stale request timestamp")

	// ErrTimestampInFuture indicates the signed timestamp is too far ahead of server time.
	ErrTimestampInFuture = errors.Wrap(errors.ErrUnauthorized, "request timestamp in the future")

	// ErrInvalidTimestamp indicates the timestamp header is absent or not RFC3339.
	ErrInvalidTimestamp = errors.Wrap(errors.ErrUnauthorized, "invalid request timestamp")
)
