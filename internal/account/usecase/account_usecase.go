// Package usecase implements the account business logic and orchestrates
// credential generation, registration, and secret key rotation.
package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	"github.com/allisson/tokengate/internal/account/domain"
	accountService "github.com/allisson/tokengate/internal/account/service"
	auditDomain "github.com/allisson/tokengate/internal/audit/domain"
	auditUsecase "github.com/allisson/tokengate/internal/audit/usecase"
	"github.com/allisson/tokengate/internal/database"
	appValidation "github.com/allisson/tokengate/internal/validation"
)

// accountUseCase implements AccountUseCase.
type accountUseCase struct {
	txManager            database.TxManager
	accountRepo          AccountRepository
	credentialService    accountService.CredentialService
	passwordService      accountService.PasswordService
	keyEncryptionService accountService.KeyEncryptionService
	auditUseCase         auditUsecase.AuditLogUseCase
}

// validateRegisterInput validates the registration input using jellydator/validation.
func (uc *accountUseCase) validateRegisterInput(input *domain.RegisterAccountInput) error {
	err := validation.ValidateStruct(input,
		validation.Field(&input.Email,
			validation.Required.Error("email is required"),
			appValidation.NotBlank,
			appValidation.Email,
			validation.Length(5, 255).Error("email must be between 5 and 255 characters"),
		),
		validation.Field(&input.Company,
			validation.Length(0, 255).Error("company must be at most 255 characters"),
		),
		validation.Field(&input.Password,
			validation.Required.Error("password is required"),
			validation.Length(8, 128).Error("password must be between 8 and 128 characters"),
			appValidation.PasswordStrength{
				MinLength:     8,
				RequireUpper:  true,
				RequireLower:  true,
				RequireNumber: true,
			},
		),
	)
	return appValidation.WrapValidationError(err)
}

// Register creates a new account with a freshly generated credential pair.
// The plain secret key is only returned once; the stored copy is
// keeper-encrypted and unwrapped solely to recompute HMAC signatures.
func (uc *accountUseCase) Register(
	ctx context.Context,
	input *domain.RegisterAccountInput,
) (*domain.RegisterAccountOutput, error) {
	// Validate input
	if err := uc.validateRegisterInput(input); err != nil {
		return nil, err
	}

	// Hash the password
	passwordHash, err := uc.passwordService.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	// Generate the credential pair
	accessKey, err := uc.credentialService.GenerateAccessKey()
	if err != nil {
		return nil, err
	}

	secretKey, err := uc.credentialService.GenerateSecretKey()
	if err != nil {
		return nil, err
	}

	// Only the keeper-wrapped copy is persisted; the plaintext goes back
	// to the caller once and is never stored.
	encryptedSecretKey, err := uc.keyEncryptionService.EncryptSecretKey(ctx, secretKey)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	account := &domain.Account{
		ID:           uuid.Must(uuid.NewV7()),
		Email:        strings.TrimSpace(strings.ToLower(input.Email)),
		Company:      strings.TrimSpace(input.Company),
		PasswordHash: passwordHash,
		AccessKey:    accessKey,
		SecretKey:    encryptedSecretKey,
		Status:       domain.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		// Create account - repository will return domain errors
		return uc.accountRepo.Create(ctx, account)
	})
	if err != nil {
		return nil, err
	}

	uc.recordAudit(ctx, account.ID, auditDomain.ActionRegisterAccount, account.ID.String(), nil)

	return &domain.RegisterAccountOutput{
		ID:        account.ID,
		Email:     account.Email,
		Company:   account.Company,
		AccessKey: account.AccessKey,
		SecretKey: secretKey,
		CreatedAt: account.CreatedAt,
	}, nil
}

// Get retrieves an account by ID.
func (uc *accountUseCase) Get(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id)
}

// RotateSecretKey atomically replaces the account's secret key.
func (uc *accountUseCase) RotateSecretKey(
	ctx context.Context,
	accountID uuid.UUID,
) (*domain.RotateSecretKeyOutput, error) {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	secretKey, err := uc.credentialService.GenerateSecretKey()
	if err != nil {
		return nil, err
	}

	encryptedSecretKey, err := uc.keyEncryptionService.EncryptSecretKey(ctx, secretKey)
	if err != nil {
		return nil, err
	}

	// Single-statement UPDATE; readers see either the old or the new key,
	// never a partial state.
	if err := uc.accountRepo.UpdateSecretKey(ctx, accountID, encryptedSecretKey); err != nil {
		return nil, err
	}

	uc.recordAudit(ctx, accountID, auditDomain.ActionRotateSecretKey, accountID.String(), nil)

	return &domain.RotateSecretKeyOutput{
		AccessKey: account.AccessKey,
		SecretKey: secretKey,
		UpdatedAt: time.Now().UTC(),
	}, nil
}

// recordAudit writes an audit trail entry. Failures are logged and never
// propagated: the audited operation has already committed.
func (uc *accountUseCase) recordAudit(
	ctx context.Context,
	accountID uuid.UUID,
	action string,
	resourceID string,
	metadata map[string]any,
) {
	if uc.auditUseCase == nil {
		return
	}
	if err := uc.auditUseCase.Record(ctx, accountID, action, resourceID, auditDomain.ResultSuccess, "", metadata); err != nil {
		slog.Warn("failed to record audit log",
			slog.String("action", action),
			slog.String("account_id", accountID.String()),
			slog.Any("error", err),
		)
	}
}

// NewAccountUseCase creates a new AccountUseCase with the provided dependencies.
func NewAccountUseCase(
	txManager database.TxManager,
	accountRepo AccountRepository,
	credentialService accountService.CredentialService,
	passwordService accountService.PasswordService,
	keyEncryptionService accountService.KeyEncryptionService,
	auditUseCase auditUsecase.AuditLogUseCase,
) AccountUseCase {
	return &accountUseCase{
		txManager:            txManager,
		accountRepo:          accountRepo,
		credentialService:    credentialService,
		passwordService:      passwordService,
		keyEncryptionService: keyEncryptionService,
		auditUseCase:         auditUseCase,
	}
}
