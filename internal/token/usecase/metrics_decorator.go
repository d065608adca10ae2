package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/tokengate/internal/metrics"
	"github.com/allisson/tokengate/internal/token/domain"
)

// tokenUseCaseWithMetrics decorates TokenUseCase with metrics instrumentation.
type tokenUseCaseWithMetrics struct {
	next    TokenUseCase
	metrics metrics.BusinessMetrics
}

// NewTokenUseCaseWithMetrics wraps a TokenUseCase with metrics recording.
func NewTokenUseCaseWithMetrics(useCase TokenUseCase, m metrics.BusinessMetrics) TokenUseCase {
	return &tokenUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Create records metrics for token issuance operations.
func (t *tokenUseCaseWithMetrics) Create(
	ctx context.Context,
	accountID uuid.UUID,
	input *domain.CreateTokenInput,
) (*domain.CreateTokenOutput, error) {
	start := time.Now()
	output, err := t.next.Create(ctx, accountID, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "token", "create", status)
	t.metrics.RecordDuration(ctx, "token", "create", time.Since(start), status)

	return output, err
}

// List records metrics for token list operations.
func (t *tokenUseCaseWithMetrics) List(
	ctx context.Context,
	accountID uuid.UUID,
	query *ListQuery,
) (*ListOutput, error) {
	start := time.Now()
	output, err := t.next.List(ctx, accountID, query)

	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "token", "list", status)
	t.metrics.RecordDuration(ctx, "token", "list", time.Since(start), status)

	return output, err
}

// Get records metrics for token retrieval operations.
func (t *tokenUseCaseWithMetrics) Get(ctx context.Context, accountID, tokenID uuid.UUID) (*domain.Token, error) {
	start := time.Now()
	token, err := t.next.Get(ctx, accountID, tokenID)

	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "token", "get", status)
	t.metrics.RecordDuration(ctx, "token", "get", time.Since(start), status)

	return token, err
}

// SetStatus records metrics for token status change operations.
func (t *tokenUseCaseWithMetrics) SetStatus(ctx context.Context, accountID, tokenID uuid.UUID, isActive bool) error {
	start := time.Now()
	err := t.next.SetStatus(ctx, accountID, tokenID, isActive)

	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "token", "set_status", status)
	t.metrics.RecordDuration(ctx, "token", "set_status", time.Since(start), status)

	return err
}

// Delete records metrics for token deletion operations.
func (t *tokenUseCaseWithMetrics) Delete(ctx context.Context, accountID, tokenID uuid.UUID) error {
	start := time.Now()
	err := t.next.Delete(ctx, accountID, tokenID)

	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "token", "delete", status)
	t.metrics.RecordDuration(ctx, "token", "delete", time.Since(start), status)

	return err
}

// Stats records metrics for token stats operations.
func (t *tokenUseCaseWithMetrics) Stats(ctx context.Context, accountID, tokenID uuid.UUID) (*domain.Stats, error) {
	start := time.Now()
	stats, err := t.next.Stats(ctx, accountID, tokenID)

	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "token", "stats", status)
	t.metrics.RecordDuration(ctx, "token", "stats", time.Since(start), status)

	return stats, err
}

// CleanExpired records metrics for expired token cleanup operations.
func (t *tokenUseCaseWithMetrics) CleanExpired(ctx context.Context, days int, dryRun bool) (int64, error) {
	start := time.Now()
	count, err := t.next.CleanExpired(ctx, days, dryRun)

	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "token", "clean_expired", status)
	t.metrics.RecordDuration(ctx, "token", "clean_expired", time.Since(start), status)

	return count, err
}

// validationUseCaseWithMetrics decorates ValidationUseCase with metrics
// instrumentation. The validation endpoint is the hot path, so its outcome
// (valid, invalid, error) is recorded explicitly.
type validationUseCaseWithMetrics struct {
	next    ValidationUseCase
	metrics metrics.BusinessMetrics
}

// NewValidationUseCaseWithMetrics wraps a ValidationUseCase with metrics recording.
func NewValidationUseCaseWithMetrics(useCase ValidationUseCase, m metrics.BusinessMetrics) ValidationUseCase {
	return &validationUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Validate records metrics for bearer validation operations.
func (v *validationUseCaseWithMetrics) Validate(
	ctx context.Context,
	bearer, requiredScope string,
) (*domain.ValidationResult, error) {
	start := time.Now()
	result, err := v.next.Validate(ctx, bearer, requiredScope)

	status := "valid"
	switch {
	case err != nil:
		status = "error"
	case !result.Valid:
		status = "invalid"
	}

	v.metrics.RecordOperation(ctx, "token", "validate", status)
	v.metrics.RecordDuration(ctx, "token", "validate", time.Since(start), status)

	return result, err
}
