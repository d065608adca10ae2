// Package usecase defines business logic interfaces for account operations.
package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/allisson/tokengate/internal/account/domain"
)

// AccountRepository defines persistence operations for accounts.
// Implementations must support transaction-aware operations via context propagation.
type AccountRepository interface {
	// Create stores a new account. Returns ErrEmailAlreadyRegistered on a
	// duplicate email.
	Create(ctx context.Context, account *domain.Account) error

	// GetByID retrieves an account by ID. Returns ErrAccountNotFound if not found.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)

	// GetByEmail retrieves an account by email. Returns ErrAccountNotFound if not found.
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)

	// GetByAccessKey retrieves an account by access key. Returns ErrAccountNotFound if not found.
	GetByAccessKey(ctx context.Context, accessKey string) (*domain.Account, error)

	// UpdateSecretKey atomically replaces the account's secret key.
	// Returns ErrAccountNotFound if no row matched.
	UpdateSecretKey(ctx context.Context, id uuid.UUID, secretKey string) error
}

// AccountUseCase defines business logic operations for account management.
type AccountUseCase interface {
	// Register creates a new account with a freshly generated credential pair.
	//
	// Security Note: the returned SecretKey is the only time the key is
	// transmitted; it is stored server side solely for HMAC verification and
	// never included in any other response.
	Register(ctx context.Context, input *domain.RegisterAccountInput) (*domain.RegisterAccountOutput, error)

	// Get retrieves an account by ID. Returns ErrAccountNotFound if not found.
	Get(ctx context.Context, id uuid.UUID) (*domain.Account, error)

	// RotateSecretKey atomically replaces the account's secret key and returns
	// the new key. Signatures made with the previous key stop verifying the
	// moment the rotation commits.
	RotateSecretKey(ctx context.Context, accountID uuid.UUID) (*domain.RotateSecretKeyOutput, error)
}
