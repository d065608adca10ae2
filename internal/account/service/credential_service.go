package service

import (
	"crypto/rand"
	"encoding/hex"

	apperrors "github.com/allisson/tokengate/internal/errors"
)

const (
	// AccessKeyPrefix marks public access keys.
	AccessKeyPrefix = "AK_"

	// SecretKeyPrefix marks secret signing keys.
	SecretKeyPrefix = "SK_"

	accessKeyBytes = 16
	secretKeyBytes = 32
)

// credentialService implements CredentialService using crypto/rand.
type credentialService struct{}

// GenerateAccessKey creates a new 16-byte random access key, hex-encoded
// with the "AK_" prefix.
func (s *credentialService) GenerateAccessKey() (string, error) {
	randomBytes := make([]byte, accessKeyBytes)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", apperrors.Wrap(err, "failed to generate access key")
	}
	return AccessKeyPrefix + hex.EncodeToString(randomBytes), nil
}

// GenerateSecretKey creates a new 32-byte random secret key, hex-encoded
// with the "SK_" prefix. The key is used as HMAC-SHA256 key material.
func (s *credentialService) GenerateSecretKey() (string, error) {
	randomBytes := make([]byte, secretKeyBytes)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", apperrors.Wrap(err, "failed to generate secret key")
	}
	return SecretKeyPrefix + hex.EncodeToString(randomBytes), nil
}

// NewCredentialService creates a new CredentialService instance.
func NewCredentialService() CredentialService {
	return &credentialService{}
}
