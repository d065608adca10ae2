package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/tokengate/internal/account/domain"
	auditDomain "github.com/allisson/tokengate/internal/audit/domain"
	apperrors "github.com/allisson/tokengate/internal/errors"
)

// mockAccountRepository is a mock implementation of AccountRepository for testing.
type mockAccountRepository struct {
	mock.Mock
}

func (m *mockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *mockAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *mockAccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *mockAccountRepository) GetByAccessKey(ctx context.Context, accessKey string) (*domain.Account, error) {
	args := m.Called(ctx, accessKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *mockAccountRepository) UpdateSecretKey(ctx context.Context, id uuid.UUID, secretKey string) error {
	args := m.Called(ctx, id, secretKey)
	return args.Error(0)
}

// mockCredentialService is a mock implementation of service.CredentialService.
type mockCredentialService struct {
	mock.Mock
}

func (m *mockCredentialService) GenerateAccessKey() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *mockCredentialService) GenerateSecretKey() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

// mockPasswordService is a mock implementation of service.PasswordService.
type mockPasswordService struct {
	mock.Mock
}

func (m *mockPasswordService) HashPassword(plainPassword string) (string, error) {
	args := m.Called(plainPassword)
	return args.String(0), args.Error(1)
}

func (m *mockPasswordService) ComparePassword(plainPassword string, passwordHash string) bool {
	args := m.Called(plainPassword, passwordHash)
	return args.Bool(0)
}

// mockKeyEncryptionService is a mock implementation of service.KeyEncryptionService.
type mockKeyEncryptionService struct {
	mock.Mock
}

func (m *mockKeyEncryptionService) EncryptSecretKey(ctx context.Context, secretKey string) (string, error) {
	args := m.Called(ctx, secretKey)
	return args.String(0), args.Error(1)
}

func (m *mockKeyEncryptionService) DecryptSecretKey(ctx context.Context, encryptedSecretKey string) (string, error) {
	args := m.Called(ctx, encryptedSecretKey)
	return args.String(0), args.Error(1)
}

func (m *mockKeyEncryptionService) Close() error {
	args := m.Called()
	return args.Error(0)
}

// mockAuditLogUseCase is a mock implementation of audit usecase.AuditLogUseCase.
type mockAuditLogUseCase struct {
	mock.Mock
}

func (m *mockAuditLogUseCase) Record(
	ctx context.Context,
	accountID uuid.UUID,
	action string,
	resourceID string,
	result string,
	errorMsg string,
	metadata map[string]any,
) error {
	args := m.Called(ctx, accountID, action, resourceID, result, errorMsg, metadata)
	return args.Error(0)
}

// mockTxManager executes the callback directly, without a real transaction.
type mockTxManager struct{}

func (m *mockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newAccountUseCaseForTest(
	repo *mockAccountRepository,
	credentials *mockCredentialService,
	passwords *mockPasswordService,
	keyEncryption *mockKeyEncryptionService,
	audit *mockAuditLogUseCase,
) AccountUseCase {
	return NewAccountUseCase(&mockTxManager{}, repo, credentials, passwords, keyEncryption, audit)
}

func TestAccountUseCase_Register(t *testing.T) {
	ctx := context.Background()

	validInput := func() *domain.RegisterAccountInput {
		return &domain.RegisterAccountInput{
			Email:    "Owner@Example.com",
			Company:  "Acme Corp",
			Password: "Sup3rSecret",
		}
	}

	t.Run("Success_RegisterAccount", func(t *testing.T) {
		mockRepo := &mockAccountRepository{}
		mockCredentials := &mockCredentialService{}
		mockPasswords := &mockPasswordService{}
		mockKeys := &mockKeyEncryptionService{}
		mockAudit := &mockAuditLogUseCase{}

		mockPasswords.On("HashPassword", "Sup3rSecret").Return("argon2id-hash", nil).Once()
		mockCredentials.On("GenerateAccessKey").Return("AK_abc123", nil).Once()
		mockCredentials.On("GenerateSecretKey").Return("SK_def456", nil).Once()
		mockKeys.On("EncryptSecretKey", mock.Anything, "SK_def456").Return("wrapped-SK_def456", nil).Once()

		var capturedAccount *domain.Account
		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Account")).
			Run(func(args mock.Arguments) {
				capturedAccount = args.Get(1).(*domain.Account)
			}).
			Return(nil).
			Once()
		mockAudit.On(
			"Record",
			mock.Anything,
			mock.AnythingOfType("uuid.UUID"),
			auditDomain.ActionRegisterAccount,
			mock.AnythingOfType("string"),
			auditDomain.ResultSuccess,
			"",
			mock.Anything,
		).Return(nil).Once()

		useCase := newAccountUseCaseForTest(mockRepo, mockCredentials, mockPasswords, mockKeys, mockAudit)

		output, err := useCase.Register(ctx, validInput())
		require.NoError(t, err)
		require.NotNil(t, output)

		// Email is normalized to lowercase
		assert.Equal(t, "owner@example.com", output.Email)
		assert.Equal(t, "Acme Corp", output.Company)
		assert.Equal(t, "AK_abc123", output.AccessKey)
		assert.Equal(t, "SK_def456", output.SecretKey)
		assert.NotEqual(t, uuid.Nil, output.ID)

		// Stored account keeps the keeper-wrapped secret key and the hashed
		// password; the plaintext key only appears in the output
		assert.Equal(t, "argon2id-hash", capturedAccount.PasswordHash)
		assert.Equal(t, "wrapped-SK_def456", capturedAccount.SecretKey)
		assert.Equal(t, domain.StatusActive, capturedAccount.Status)

		mockRepo.AssertExpectations(t)
		mockCredentials.AssertExpectations(t)
		mockPasswords.AssertExpectations(t)
		mockKeys.AssertExpectations(t)
		mockAudit.AssertExpectations(t)
	})

	t.Run("Error_InvalidEmail", func(t *testing.T) {
		useCase := newAccountUseCaseForTest(
			&mockAccountRepository{},
			&mockCredentialService{},
			&mockPasswordService{},
			&mockKeyEncryptionService{},
			&mockAuditLogUseCase{},
		)

		input := validInput()
		input.Email = "not-an-email"

		output, err := useCase.Register(ctx, input)
		assert.Nil(t, output)
		assert.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})

	t.Run("Error_WeakPassword", func(t *testing.T) {
		useCase := newAccountUseCaseForTest(
			&mockAccountRepository{},
			&mockCredentialService{},
			&mockPasswordService{},
			&mockKeyEncryptionService{},
			&mockAuditLogUseCase{},
		)

		input := validInput()
		input.Password = "alllowercase"

		output, err := useCase.Register(ctx, input)
		assert.Nil(t, output)
		assert.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})

	t.Run("Error_DuplicateEmail", func(t *testing.T) {
		mockRepo := &mockAccountRepository{}
		mockCredentials := &mockCredentialService{}
		mockPasswords := &mockPasswordService{}
		mockKeys := &mockKeyEncryptionService{}

		mockPasswords.On("HashPassword", "Sup3rSecret").Return("argon2id-hash", nil).Once()
		mockCredentials.On("GenerateAccessKey").Return("AK_abc123", nil).Once()
		mockCredentials.On("GenerateSecretKey").Return("SK_def456", nil).Once()
		mockKeys.On("EncryptSecretKey", mock.Anything, "SK_def456").Return("wrapped-SK_def456", nil).Once()
		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Account")).
			Return(domain.ErrEmailAlreadyRegistered).
			Once()

		useCase := newAccountUseCaseForTest(mockRepo, mockCredentials, mockPasswords, mockKeys, &mockAuditLogUseCase{})

		output, err := useCase.Register(ctx, validInput())
		assert.Nil(t, output)
		assert.True(t, apperrors.Is(err, domain.ErrEmailAlreadyRegistered))
		assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
		mockRepo.AssertExpectations(t)
	})

	t.Run("Success_AuditFailureDoesNotFailRegistration", func(t *testing.T) {
		mockRepo := &mockAccountRepository{}
		mockCredentials := &mockCredentialService{}
		mockPasswords := &mockPasswordService{}
		mockKeys := &mockKeyEncryptionService{}
		mockAudit := &mockAuditLogUseCase{}

		mockPasswords.On("HashPassword", "Sup3rSecret").Return("argon2id-hash", nil).Once()
		mockCredentials.On("GenerateAccessKey").Return("AK_abc123", nil).Once()
		mockCredentials.On("GenerateSecretKey").Return("SK_def456", nil).Once()
		mockKeys.On("EncryptSecretKey", mock.Anything, "SK_def456").Return("wrapped-SK_def456", nil).Once()
		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Account")).Return(nil).Once()
		mockAudit.On(
			"Record",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything,
		).Return(errors.New("audit store down")).Once()

		useCase := newAccountUseCaseForTest(mockRepo, mockCredentials, mockPasswords, mockKeys, mockAudit)

		output, err := useCase.Register(ctx, validInput())
		assert.NoError(t, err)
		assert.NotNil(t, output)
		mockAudit.AssertExpectations(t)
	})

	t.Run("Error_EncryptionFails", func(t *testing.T) {
		mockRepo := &mockAccountRepository{}
		mockCredentials := &mockCredentialService{}
		mockPasswords := &mockPasswordService{}
		mockKeys := &mockKeyEncryptionService{}

		mockPasswords.On("HashPassword", "Sup3rSecret").Return("argon2id-hash", nil).Once()
		mockCredentials.On("GenerateAccessKey").Return("AK_abc123", nil).Once()
		mockCredentials.On("GenerateSecretKey").Return("SK_def456", nil).Once()
		mockKeys.On("EncryptSecretKey", mock.Anything, "SK_def456").
			Return("", errors.New("keeper unavailable")).
			Once()

		useCase := newAccountUseCaseForTest(mockRepo, mockCredentials, mockPasswords, mockKeys, &mockAuditLogUseCase{})

		output, err := useCase.Register(ctx, validInput())
		assert.Nil(t, output)
		assert.Error(t, err)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestAccountUseCase_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_GetAccount", func(t *testing.T) {
		mockRepo := &mockAccountRepository{}
		accountID := uuid.Must(uuid.NewV7())
		expected := &domain.Account{ID: accountID, Email: "owner@example.com"}

		mockRepo.On("GetByID", ctx, accountID).Return(expected, nil).Once()

		useCase := newAccountUseCaseForTest(
			mockRepo,
			&mockCredentialService{},
			&mockPasswordService{},
			&mockKeyEncryptionService{},
			&mockAuditLogUseCase{},
		)

		account, err := useCase.Get(ctx, accountID)
		assert.NoError(t, err)
		assert.Equal(t, expected, account)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		mockRepo := &mockAccountRepository{}
		accountID := uuid.Must(uuid.NewV7())

		mockRepo.On("GetByID", ctx, accountID).Return(nil, domain.ErrAccountNotFound).Once()

		useCase := newAccountUseCaseForTest(
			mockRepo,
			&mockCredentialService{},
			&mockPasswordService{},
			&mockKeyEncryptionService{},
			&mockAuditLogUseCase{},
		)

		account, err := useCase.Get(ctx, accountID)
		assert.Nil(t, account)
		assert.True(t, apperrors.Is(err, domain.ErrAccountNotFound))
	})
}

func TestAccountUseCase_RotateSecretKey(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_RotateSecretKey", func(t *testing.T) {
		mockRepo := &mockAccountRepository{}
		mockCredentials := &mockCredentialService{}
		mockKeys := &mockKeyEncryptionService{}
		mockAudit := &mockAuditLogUseCase{}

		accountID := uuid.Must(uuid.NewV7())
		account := &domain.Account{
			ID:        accountID,
			AccessKey: "AK_abc123",
			SecretKey: "SK_old",
			Status:    domain.StatusActive,
		}

		mockRepo.On("GetByID", ctx, accountID).Return(account, nil).Once()
		mockCredentials.On("GenerateSecretKey").Return("SK_new", nil).Once()
		mockKeys.On("EncryptSecretKey", mock.Anything, "SK_new").Return("wrapped-SK_new", nil).Once()
		mockRepo.On("UpdateSecretKey", ctx, accountID, "wrapped-SK_new").Return(nil).Once()
		mockAudit.On(
			"Record",
			mock.Anything,
			accountID,
			auditDomain.ActionRotateSecretKey,
			accountID.String(),
			auditDomain.ResultSuccess,
			"",
			mock.Anything,
		).Return(nil).Once()

		useCase := newAccountUseCaseForTest(mockRepo, mockCredentials, &mockPasswordService{}, mockKeys, mockAudit)

		output, err := useCase.RotateSecretKey(ctx, accountID)
		require.NoError(t, err)
		assert.Equal(t, "AK_abc123", output.AccessKey)
		assert.Equal(t, "SK_new", output.SecretKey)
		assert.False(t, output.UpdatedAt.IsZero())

		mockRepo.AssertExpectations(t)
		mockCredentials.AssertExpectations(t)
		mockKeys.AssertExpectations(t)
		mockAudit.AssertExpectations(t)
	})

	t.Run("Error_AccountNotFound", func(t *testing.T) {
		mockRepo := &mockAccountRepository{}
		accountID := uuid.Must(uuid.NewV7())

		mockRepo.On("GetByID", ctx, accountID).Return(nil, domain.ErrAccountNotFound).Once()

		useCase := newAccountUseCaseForTest(
			mockRepo,
			&mockCredentialService{},
			&mockPasswordService{},
			&mockKeyEncryptionService{},
			&mockAuditLogUseCase{},
		)

		output, err := useCase.RotateSecretKey(ctx, accountID)
		assert.Nil(t, output)
		assert.True(t, apperrors.Is(err, domain.ErrAccountNotFound))
	})

	t.Run("Error_UpdateFails", func(t *testing.T) {
		mockRepo := &mockAccountRepository{}
		mockCredentials := &mockCredentialService{}
		mockKeys := &mockKeyEncryptionService{}

		accountID := uuid.Must(uuid.NewV7())
		account := &domain.Account{ID: accountID, AccessKey: "AK_abc123"}

		mockRepo.On("GetByID", ctx, accountID).Return(account, nil).Once()
		mockCredentials.On("GenerateSecretKey").Return("SK_new", nil).Once()
		mockKeys.On("EncryptSecretKey", mock.Anything, "SK_new").Return("wrapped-SK_new", nil).Once()
		mockRepo.On("UpdateSecretKey", ctx, accountID, "wrapped-SK_new").
			Return(domain.ErrAccountNotFound).
			Once()

		useCase := newAccountUseCaseForTest(mockRepo, mockCredentials, &mockPasswordService{}, mockKeys, &mockAuditLogUseCase{})

		output, err := useCase.RotateSecretKey(ctx, accountID)
		assert.Nil(t, output)
		assert.Error(t, err)
	})

	t.Run("Error_EncryptionFails", func(t *testing.T) {
		mockRepo := &mockAccountRepository{}
		mockCredentials := &mockCredentialService{}
		mockKeys := &mockKeyEncryptionService{}

		accountID := uuid.Must(uuid.NewV7())
		account := &domain.Account{ID: accountID, AccessKey: "AK_abc123"}

		mockRepo.On("GetByID", ctx, accountID).Return(account, nil).Once()
		mockCredentials.On("GenerateSecretKey").Return("SK_new", nil).Once()
		mockKeys.On("EncryptSecretKey", mock.Anything, "SK_new").
			Return("", errors.New("keeper unavailable")).
			Once()

		useCase := newAccountUseCaseForTest(mockRepo, mockCredentials, &mockPasswordService{}, mockKeys, &mockAuditLogUseCase{})

		output, err := useCase.RotateSecretKey(ctx, accountID)
		assert.Nil(t, output)
		assert.Error(t, err)
		mockRepo.AssertNotCalled(t, "UpdateSecretKey", mock.Anything, mock.Anything, mock.Anything)
	})
}
