// Package usecase implements the token lifecycle business logic: issuance,
// listing, status changes, deletion, usage stats, and bearer validation.
package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/tokengate/internal/audit/domain"
	auditUsecase "github.com/allisson/tokengate/internal/audit/usecase"
	"github.com/allisson/tokengate/internal/database"
	apperrors "github.com/allisson/tokengate/internal/errors"
	"github.com/allisson/tokengate/internal/token/domain"
	tokenService "github.com/allisson/tokengate/internal/token/service"
	appValidation "github.com/allisson/tokengate/internal/validation"
)

// List pagination bounds.
const (
	defaultListLimit = 50
	maxListLimit     = 100
)

// tokenUseCase implements TokenUseCase.
type tokenUseCase struct {
	txManager     database.TxManager
	tokenRepo     TokenRepository
	bearerService tokenService.BearerService
	auditUseCase  auditUsecase.AuditLogUseCase
	defaultPrefix string
	maxExpiration time.Duration
}

// validateCreateInput validates the non-expiry fields of a create request.
func (uc *tokenUseCase) validateCreateInput(input *domain.CreateTokenInput) error {
	err := validation.ValidateStruct(input,
		validation.Field(&input.Description,
			validation.Required.Error("description is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("description must be between 1 and 255 characters"),
		),
		validation.Field(&input.Prefix,
			validation.Length(0, 16).Error("prefix must be at most 16 characters"),
		),
	)
	if err != nil {
		return appValidation.WrapValidationError(err)
	}
	return domain.ValidateScopes(input.Scope)
}

// expiryDuration resolves the requested lifetime. Exactly one of
// ExpiresInSeconds or ExpiresInDays must be positive, and the result must not
// exceed the configured maximum.
func (uc *tokenUseCase) expiryDuration(input *domain.CreateTokenInput) (time.Duration, error) {
	hasSeconds := input.ExpiresInSeconds > 0
	hasDays := input.ExpiresInDays > 0

	if input.ExpiresInSeconds < 0 || input.ExpiresInDays < 0 {
		return 0, domain.ErrInvalidExpiry
	}
	if hasSeconds == hasDays {
		return 0, domain.ErrInvalidExpiry
	}

	var d time.Duration
	if hasSeconds {
		d = time.Duration(input.ExpiresInSeconds) * time.Second
	} else {
		d = time.Duration(input.ExpiresInDays) * 24 * time.Hour
	}

	if d > uc.maxExpiration {
		return 0, domain.ErrInvalidExpiry
	}
	return d, nil
}

// Create issues a new bearer token. The plain bearer string appears only in
// the returned output; at rest only its SHA-256 hash and a masked preview
// survive.
func (uc *tokenUseCase) Create(
	ctx context.Context,
	accountID uuid.UUID,
	input *domain.CreateTokenInput,
) (*domain.CreateTokenOutput, error) {
	if err := uc.validateCreateInput(input); err != nil {
		return nil, err
	}

	expiresIn, err := uc.expiryDuration(input)
	if err != nil {
		return nil, err
	}

	prefix := strings.TrimSpace(input.Prefix)
	if prefix == "" {
		prefix = uc.defaultPrefix
	}

	plainToken, tokenHash, err := uc.bearerService.Generate(prefix)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	token := &domain.Token{
		ID:           uuid.Must(uuid.NewV7()),
		AccountID:    accountID,
		TokenHash:    tokenHash,
		TokenPreview: uc.bearerService.Preview(plainToken),
		Description:  strings.TrimSpace(input.Description),
		Scope:        domain.ScopeSet(input.Scope),
		Prefix:       prefix,
		IsActive:     true,
		CreatedAt:    now,
		ExpiresAt:    now.Add(expiresIn),
	}

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		return uc.tokenRepo.Create(ctx, token)
	})
	if err != nil {
		uc.recordAudit(ctx, accountID, auditDomain.ActionCreateToken, token.ID.String(),
			auditDomain.ResultFailure, err.Error(), nil)
		return nil, err
	}

	uc.recordAudit(ctx, accountID, auditDomain.ActionCreateToken, token.ID.String(),
		auditDomain.ResultSuccess, "", map[string]any{
			"description": token.Description,
			"scope":       input.Scope,
		})

	return &domain.CreateTokenOutput{
		ID:          token.ID,
		Token:       plainToken,
		AccountID:   accountID,
		Description: token.Description,
		Scope:       token.Scope,
		CreatedAt:   token.CreatedAt,
		ExpiresAt:   token.ExpiresAt,
		IsActive:    token.IsActive,
	}, nil
}

// List retrieves a page of the account's tokens, newest first.
func (uc *tokenUseCase) List(
	ctx context.Context,
	accountID uuid.UUID,
	query *ListQuery,
) (*ListOutput, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := query.Offset
	if offset < 0 {
		offset = 0
	}

	total, err := uc.tokenRepo.CountByAccount(ctx, accountID, query.ActiveOnly)
	if err != nil {
		return nil, err
	}

	tokens, err := uc.tokenRepo.ListByAccount(ctx, accountID, query.ActiveOnly, limit, offset)
	if err != nil {
		return nil, err
	}

	return &ListOutput{Tokens: tokens, Total: total}, nil
}

// Get retrieves one of the account's tokens.
func (uc *tokenUseCase) Get(ctx context.Context, accountID, tokenID uuid.UUID) (*domain.Token, error) {
	return uc.getOwned(ctx, accountID, tokenID)
}

// SetStatus enables or disables a token. Setting the current value is a
// no-op success. Expired tokens cannot be re-enabled.
func (uc *tokenUseCase) SetStatus(ctx context.Context, accountID, tokenID uuid.UUID, isActive bool) error {
	token, err := uc.getOwned(ctx, accountID, tokenID)
	if err != nil {
		return err
	}

	if token.IsActive == isActive {
		return nil
	}

	if isActive && token.IsExpired(time.Now().UTC()) {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "cannot enable an expired token")
	}

	if err := uc.tokenRepo.UpdateStatus(ctx, tokenID, isActive); err != nil {
		uc.recordAudit(ctx, accountID, auditDomain.ActionUpdateToken, tokenID.String(),
			auditDomain.ResultFailure, err.Error(), nil)
		return err
	}

	uc.recordAudit(ctx, accountID, auditDomain.ActionUpdateToken, tokenID.String(),
		auditDomain.ResultSuccess, "", map[string]any{"is_active": isActive})
	return nil
}

// Delete permanently removes a token. Deleting a token that is already gone
// succeeds, so retried deletes are safe.
func (uc *tokenUseCase) Delete(ctx context.Context, accountID, tokenID uuid.UUID) error {
	_, err := uc.getOwned(ctx, accountID, tokenID)
	if err != nil {
		if apperrors.Is(err, domain.ErrTokenNotFound) {
			return nil
		}
		return err
	}

	if err := uc.tokenRepo.Delete(ctx, tokenID); err != nil {
		if apperrors.Is(err, domain.ErrTokenNotFound) {
			return nil
		}
		uc.recordAudit(ctx, accountID, auditDomain.ActionDeleteToken, tokenID.String(),
			auditDomain.ResultFailure, err.Error(), nil)
		return err
	}

	uc.recordAudit(ctx, accountID, auditDomain.ActionDeleteToken, tokenID.String(),
		auditDomain.ResultSuccess, "", nil)
	return nil
}

// Stats returns the token's usage counters.
func (uc *tokenUseCase) Stats(ctx context.Context, accountID, tokenID uuid.UUID) (*domain.Stats, error) {
	token, err := uc.getOwned(ctx, accountID, tokenID)
	if err != nil {
		return nil, err
	}

	return &domain.Stats{
		TokenID:       token.ID,
		TotalRequests: token.TotalRequests,
		LastUsedAt:    token.LastUsedAt,
		CreatedAt:     token.CreatedAt,
	}, nil
}

// CleanExpired reclaims storage for tokens that expired more than days days
// ago. Expiry correctness is enforced lazily at validation time, so this can
// run on any schedule. With dryRun it reports the count without deleting.
func (uc *tokenUseCase) CleanExpired(ctx context.Context, days int, dryRun bool) (int64, error) {
	if days < 0 {
		return 0, apperrors.Wrap(apperrors.ErrInvalidInput, "days must be a positive number")
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -days)

	if dryRun {
		return uc.tokenRepo.CountExpired(ctx, cutoff)
	}

	deleted, err := uc.tokenRepo.DeleteExpired(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	slog.Info("expired tokens cleaned",
		slog.Int64("deleted", deleted),
		slog.Int("days", days),
	)
	return deleted, nil
}

// getOwned fetches a token and checks ownership. A token owned by another
// account is reported as not found so token IDs leak nothing across accounts.
func (uc *tokenUseCase) getOwned(ctx context.Context, accountID, tokenID uuid.UUID) (*domain.Token, error) {
	token, err := uc.tokenRepo.GetByID(ctx, tokenID)
	if err != nil {
		return nil, err
	}
	if token.AccountID != accountID {
		return nil, domain.ErrTokenNotFound
	}
	return token, nil
}

// recordAudit writes an audit trail entry. Failures are logged and never
// propagated.
func (uc *tokenUseCase) recordAudit(
	ctx context.Context,
	accountID uuid.UUID,
	action, resourceID, result, errorMsg string,
	metadata map[string]any,
) {
	if uc.auditUseCase == nil {
		return
	}
	if err := uc.auditUseCase.Record(ctx, accountID, action, resourceID, result, errorMsg, metadata); err != nil {
		slog.Warn("failed to record audit log",
			slog.String("action", action),
			slog.String("account_id", accountID.String()),
			slog.Any("error", err),
		)
	}
}

// NewTokenUseCase creates a new TokenUseCase with the provided dependencies.
func NewTokenUseCase(
	txManager database.TxManager,
	tokenRepo TokenRepository,
	bearerService tokenService.BearerService,
	auditUseCase auditUsecase.AuditLogUseCase,
	defaultPrefix string,
	maxExpiration time.Duration,
) TokenUseCase {
	return &tokenUseCase{
		txManager:     txManager,
		tokenRepo:     tokenRepo,
		bearerService: bearerService,
		auditUseCase:  auditUseCase,
		defaultPrefix: defaultPrefix,
		maxExpiration: maxExpiration,
	}
}
