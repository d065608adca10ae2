// Package usecase implements business logic for recording audit trail entries.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/tokengate/internal/audit/domain"
	apperrors "github.com/allisson/tokengate/internal/errors"
)

// AuditLogRepository defines persistence operations for audit log entries.
type AuditLogRepository interface {
	Create(ctx context.Context, auditLog *auditDomain.AuditLog) error
}

// AuditLogUseCase defines business logic operations for the audit trail.
// Recording is best-effort: callers log failures but never fail the
// operation being audited.
type AuditLogUseCase interface {
	Record(
		ctx context.Context,
		accountID uuid.UUID,
		action string,
		resourceID string,
		result string,
		errorMsg string,
		metadata map[string]any,
	) error
}

// auditLogUseCase implements AuditLogUseCase.
type auditLogUseCase struct {
	auditLogRepo AuditLogRepository
}

// Record persists an audit log entry for an account operation. Generates a
// unique UUIDv7 identifier and timestamp. The metadata parameter is optional
// and can be nil.
func (a *auditLogUseCase) Record(
	ctx context.Context,
	accountID uuid.UUID,
	action string,
	resourceID string,
	result string,
	errorMsg string,
	metadata map[string]any,
) error {
	auditLog := &auditDomain.AuditLog{
		ID:         uuid.Must(uuid.NewV7()),
		AccountID:  accountID,
		Action:     action,
		ResourceID: resourceID,
		Result:     result,
		ErrorMsg:   errorMsg,
		Metadata:   metadata,
		CreatedAt:  time.Now().UTC(),
	}

	if err := a.auditLogRepo.Create(ctx, auditLog); err != nil {
		return apperrors.Wrap(err, "failed to create audit log")
	}

	return nil
}

// NewAuditLogUseCase creates a new AuditLogUseCase with the provided dependencies.
func NewAuditLogUseCase(auditLogRepo AuditLogRepository) AuditLogUseCase {
	return &auditLogUseCase{
		auditLogRepo: auditLogRepo,
	}
}
