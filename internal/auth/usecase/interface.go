package usecase

import (
	"context"

	accountDomain "github.com/allisson/tokengate/internal/account/domain"
	authDomain "github.com/allisson/tokengate/internal/auth/domain"
	tokenDomain "github.com/allisson/tokengate/internal/token/domain"
)

// AccountRepository is the slice of account persistence needed for
// authentication.
type AccountRepository interface {
	// GetByAccessKey retrieves an account by its public access key
	GetByAccessKey(ctx context.Context, accessKey string) (*accountDomain.Account, error)
}

// TokenRepository is the slice of token persistence needed for bearer
// authentication.
type TokenRepository interface {
	// GetByTokenHash retrieves a token by the hash of its bearer string
	GetByTokenHash(ctx context.Context, tokenHash string) (*tokenDomain.Token, error)
}

// SecretKeyDecrypter is the slice of key encryption needed to unwrap a
// stored secret key before signature verification.
type SecretKeyDecrypter interface {
	// DecryptSecretKey decrypts a stored secret key ciphertext
	DecryptSecretKey(ctx context.Context, encryptedSecretKey string) (string, error)
}

// AuthUseCase defines request authentication for both Authorization schemes.
type AuthUseCase interface {
	// VerifyRequest authenticates an HMAC-signed request and returns the
	// resolved account. Any failure is an ErrUnauthorized-family error.
	VerifyRequest(ctx context.Context, req *authDomain.SignedRequest) (*accountDomain.Account, error)

	// AuthenticateBearer resolves a presented bearer string to an active,
	// unexpired token.
	AuthenticateBearer(ctx context.Context, bearer string) (*tokenDomain.Token, error)
}
