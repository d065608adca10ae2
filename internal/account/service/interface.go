// Package service provides technical services for account credential management.
//
// This package implements reusable services for credential pair generation and
// password hashing using industry-standard cryptographic practices.
package service

import "context"

// CredentialService defines operations for access/secret key pair generation.
// Implementations must use cryptographically secure random generation.
//
// The secret key is an HMAC signing key: unlike a password it must remain
// recoverable by the server, so it is never hashed.
type CredentialService interface {
	// GenerateAccessKey creates a new public access key ("AK_" prefix).
	GenerateAccessKey() (string, error)

	// GenerateSecretKey creates a new secret signing key ("SK_" prefix).
	// The key should be treated as sensitive data and only displayed once
	// to the account owner at registration or rotation.
	GenerateSecretKey() (string, error)
}

// KeyEncryptionService wraps and unwraps secret signing keys with an
// external keeper, so the copy at rest is ciphertext rather than the raw
// HMAC key material. Key URIs follow gocloud.dev/secrets conventions
// (hashivault://, base64key://, and the cloud KMS schemes).
type KeyEncryptionService interface {
	// EncryptSecretKey encrypts a plaintext secret key for storage.
	// Returns a base64-encoded ciphertext.
	EncryptSecretKey(ctx context.Context, secretKey string) (string, error)

	// DecryptSecretKey decrypts a stored secret key ciphertext back to the
	// plaintext signing key.
	DecryptSecretKey(ctx context.Context, encryptedSecretKey string) (string, error)

	// Close releases the underlying keeper resources.
	Close() error
}

// PasswordService defines operations for account password hashing.
// Implementations must use an industry-standard hashing algorithm
// (e.g., bcrypt, argon2) with constant-time verification.
type PasswordService interface {
	// HashPassword hashes a plain text password for storage.
	HashPassword(plainPassword string) (string, error)

	// ComparePassword compares a plain text password against a stored hash.
	// Returns true if the password matches, false otherwise.
	ComparePassword(plainPassword string, passwordHash string) bool
}
