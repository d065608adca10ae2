package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/tokengate/internal/token/domain"
)

// TokenRepository defines the interface for token data access
type TokenRepository interface {
	// Create inserts a new token
	Create(ctx context.Context, token *domain.Token) error
	// GetByID retrieves a token by ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Token, error)
	// GetByTokenHash retrieves a token by the hash of its bearer string
	GetByTokenHash(ctx context.Context, tokenHash string) (*domain.Token, error)
	// ListByAccount retrieves an account's tokens, newest first
	ListByAccount(ctx context.Context, accountID uuid.UUID, activeOnly bool, limit, offset int) ([]*domain.Token, error)
	// CountByAccount returns the number of tokens owned by the account
	CountByAccount(ctx context.Context, accountID uuid.UUID, activeOnly bool) (int64, error)
	// UpdateStatus sets the is_active flag
	UpdateStatus(ctx context.Context, id uuid.UUID, isActive bool) error
	// Delete removes a token
	Delete(ctx context.Context, id uuid.UUID) error
	// IncrementUsage bumps the usage counter and stamps last_used_at
	IncrementUsage(ctx context.Context, id uuid.UUID, usedAt time.Time) error
	// DeleteExpired removes tokens expired before the cutoff
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
	// CountExpired returns the number of tokens expired before the cutoff
	CountExpired(ctx context.Context, before time.Time) (int64, error)
}

// ListQuery holds pagination and filtering options for token listings.
type ListQuery struct {
	ActiveOnly bool
	Limit      int
	Offset     int
}

// ListOutput is a page of tokens plus the total matching count.
type ListOutput struct {
	Tokens []*domain.Token
	Total  int64
}

// TokenUseCase defines the token lifecycle operations. All operations that
// take an accountID are ownership-scoped: a token belonging to another
// account behaves exactly like a token that does not exist.
type TokenUseCase interface {
	// Create issues a new bearer token for the account
	Create(ctx context.Context, accountID uuid.UUID, input *domain.CreateTokenInput) (*domain.CreateTokenOutput, error)
	// List retrieves the account's tokens with pagination
	List(ctx context.Context, accountID uuid.UUID, query *ListQuery) (*ListOutput, error)
	// Get retrieves one of the account's tokens by ID
	Get(ctx context.Context, accountID, tokenID uuid.UUID) (*domain.Token, error)
	// SetStatus enables or disables a token
	SetStatus(ctx context.Context, accountID, tokenID uuid.UUID, isActive bool) error
	// Delete permanently removes a token. Idempotent.
	Delete(ctx context.Context, accountID, tokenID uuid.UUID) error
	// Stats returns the token's usage counters
	Stats(ctx context.Context, accountID, tokenID uuid.UUID) (*domain.Stats, error)
	// CleanExpired deletes tokens that expired more than the given number of
	// days ago and returns the count. With dryRun it only counts.
	CleanExpired(ctx context.Context, days int, dryRun bool) (int64, error)
}

// ValidationUseCase defines bearer token validation.
type ValidationUseCase interface {
	// Validate checks a presented bearer string and, optionally, whether its
	// scope satisfies requiredScope. Invalid tokens yield a ValidationResult
	// with Valid=false, not an error.
	Validate(ctx context.Context, bearer, requiredScope string) (*domain.ValidationResult, error)
}
