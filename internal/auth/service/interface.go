// Package service provides the HMAC request-signing primitives.
//
// Signing binds method, path, timestamp, and body into a single signature so
// a captured signature cannot be replayed against a different request, and
// the timestamp window bounds replay exposure without a nonce store.
package service

import "time"

// SignatureService defines canonical string construction, HMAC-SHA256
// signing, and constant-time verification.
type SignatureService interface {
	// BuildStringToSign produces the canonical form
	// METHOD "\n" PATH "\n" TIMESTAMP "\n" BODY.
	BuildStringToSign(method, path, timestamp, body string) string

	// Sign computes Base64(HMAC-SHA256(secretKey, stringToSign)).
	Sign(secretKey, stringToSign string) string

	// Verify recomputes the signature and compares in constant time.
	Verify(secretKey, providedSignature, stringToSign string) bool

	// ValidateTimestamp checks that the RFC3339 timestamp is within the
	// configured clock-skew window around now.
	ValidateTimestamp(timestamp string, now time.Time) error
}
