// Package service provides technical services for bearer token generation
// and hashing.
package service

// BearerService defines operations for bearer string generation, hashing,
// and display masking. Implementations must use cryptographically secure
// random generation and a one-way hash: the plain bearer string is never
// persisted.
type BearerService interface {
	// Generate creates a new bearer string with the given prefix and returns
	// the plain string together with its SHA-256 hex hash. An empty prefix
	// falls back to DefaultPrefix; a custom prefix gets a "-" separator
	// appended when missing.
	Generate(prefix string) (plainToken string, tokenHash string, err error)

	// Hash computes the SHA-256 hex digest of a plain bearer string.
	Hash(plainToken string) string

	// Preview masks the middle of a bearer string for safe display in
	// listings, keeping the prefix plus eight characters on each end.
	Preview(plainToken string) string
}
