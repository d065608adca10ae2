package service

import (
	"context"
	"encoding/base64"

	"gocloud.dev/secrets"

	apperrors "github.com/allisson/tokengate/internal/errors"

	// Register keeper drivers for supported key URI schemes
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// keyEncryptionService implements KeyEncryptionService using a
// gocloud.dev/secrets keeper.
type keyEncryptionService struct {
	keeper *secrets.Keeper
}

// NewKeyEncryptionService opens a keeper for the configured key URI.
// Supports: gcpkms://, awskms://, azurekeyvault://, hashivault://, base64key://
func NewKeyEncryptionService(ctx context.Context, keyURI string) (KeyEncryptionService, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to open key encryption keeper")
	}
	return &keyEncryptionService{keeper: keeper}, nil
}

// EncryptSecretKey wraps a plaintext secret key with the keeper. The
// ciphertext is base64-encoded so it can live in the accounts secret_key
// column.
func (s *keyEncryptionService) EncryptSecretKey(ctx context.Context, secretKey string) (string, error) {
	ciphertext, err := s.keeper.Encrypt(ctx, []byte(secretKey))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to encrypt secret key")
	}
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// DecryptSecretKey unwraps a stored secret key back to its plaintext form.
func (s *keyEncryptionService) DecryptSecretKey(ctx context.Context, encryptedSecretKey string) (string, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(encryptedSecretKey)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to decode encrypted secret key")
	}

	plaintext, err := s.keeper.Decrypt(ctx, ciphertext)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to decrypt secret key")
	}
	return string(plaintext), nil
}

// Close releases the underlying keeper.
func (s *keyEncryptionService) Close() error {
	return s.keeper.Close()
}
