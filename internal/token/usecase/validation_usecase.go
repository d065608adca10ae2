package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	authUsecase "github.com/allisson/tokengate/internal/auth/usecase"
	apperrors "github.com/allisson/tokengate/internal/errors"
	"github.com/allisson/tokengate/internal/token/domain"
)

// usageRecordTimeout bounds the background usage write so a slow database
// never leaks goroutines from the validation hot path.
const usageRecordTimeout = 5 * time.Second

// validationUseCase implements ValidationUseCase.
type validationUseCase struct {
	authUC    authUsecase.AuthUseCase
	tokenRepo TokenRepository
}

// Validate checks a presented bearer string. The outcome for a bad token is a
// ValidationResult with Valid=false and a human-readable message; errors are
// reserved for infrastructure failures. Scope denial does not invalidate the
// token: Valid stays true and PermissionCheck.Granted carries the decision.
func (uc *validationUseCase) Validate(
	ctx context.Context,
	bearer, requiredScope string,
) (*domain.ValidationResult, error) {
	token, err := uc.authUC.AuthenticateBearer(ctx, bearer)
	if err != nil {
		switch {
		case apperrors.Is(err, domain.ErrTokenExpired):
			return &domain.ValidationResult{Valid: false, Message: "Token has expired"}, nil
		case apperrors.Is(err, domain.ErrTokenInactive):
			return &domain.ValidationResult{Valid: false, Message: "Token is inactive"}, nil
		case apperrors.Is(err, domain.ErrTokenNotFound):
			return &domain.ValidationResult{Valid: false, Message: "Token not found"}, nil
		default:
			return nil, err
		}
	}

	result := &domain.ValidationResult{
		Valid:   true,
		Message: "Token is valid",
		Token:   token,
	}

	if requiredScope != "" {
		result.PermissionCheck = &domain.PermissionCheck{
			Requested: requiredScope,
			Granted:   token.Scope.Satisfies(requiredScope),
		}
	}

	uc.recordUsage(token.ID)

	return result, nil
}

// recordUsage bumps the token's usage counters in the background. The
// validation response never waits on this write; a lost increment is
// acceptable, a slow validation is not.
func (uc *validationUseCase) recordUsage(tokenID uuid.UUID) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), usageRecordTimeout)
		defer cancel()

		if err := uc.tokenRepo.IncrementUsage(ctx, tokenID, time.Now().UTC()); err != nil {
			slog.Warn("failed to record token usage",
				slog.String("token_id", tokenID.String()),
				slog.Any("error", err),
			)
		}
	}()
}

// NewValidationUseCase creates a new ValidationUseCase with the provided dependencies.
func NewValidationUseCase(
	authUC authUsecase.AuthUseCase,
	tokenRepo TokenRepository,
) ValidationUseCase {
	return &validationUseCase{
		authUC:    authUC,
		tokenRepo: tokenRepo,
	}
}
