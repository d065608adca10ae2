package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/tokengate/internal/account/domain"
	"github.com/allisson/tokengate/internal/account/http/dto"
	authHTTP "github.com/allisson/tokengate/internal/auth/http"
)

type mockAccountUseCase struct {
	mock.Mock
}

func (m *mockAccountUseCase) Register(ctx context.Context, input *domain.RegisterAccountInput) (*domain.RegisterAccountOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RegisterAccountOutput), args.Error(1)
}

func (m *mockAccountUseCase) Get(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *mockAccountUseCase) RotateSecretKey(ctx context.Context, accountID uuid.UUID) (*domain.RotateSecretKeyOutput, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RotateSecretKeyOutput), args.Error(1)
}

func setupTestHandler(t *testing.T) (*AccountHandler, *mockAccountUseCase) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mockUseCase := new(mockAccountUseCase)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewAccountHandler(mockUseCase, logger), mockUseCase
}

func createTestContext(method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	return c, w
}

func withAuthenticatedAccount(c *gin.Context, account *domain.Account) {
	ctx := authHTTP.WithAccount(c.Request.Context(), account)
	c.Request = c.Request.WithContext(ctx)
}

func TestAccountHandler_RegisterHandler(t *testing.T) {
	t.Run("Success_ValidRequest", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		accountID := uuid.Must(uuid.NewV7())
		request := dto.RegisterAccountRequest{
			Email:    "ops@example.com",
			Company:  "Example Inc",
			Password: "Sup3rSecret",
		}

		output := &domain.RegisterAccountOutput{
			ID:        accountID,
			Email:     request.Email,
			Company:   request.Company,
			AccessKey: "AK_abc123",
			SecretKey: "SK_def456",
			CreatedAt: time.Now().UTC(),
		}

		mockUseCase.On("Register", mock.Anything, &domain.RegisterAccountInput{
			Email:    request.Email,
			Company:  request.Company,
			Password: request.Password,
		}).Return(output, nil).Once()

		c, w := createTestContext(http.MethodPost, "/api/v2/accounts/register", request)
		handler.RegisterHandler(c)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response dto.RegisterAccountResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, accountID, response.ID)
		assert.Equal(t, "AK_abc123", response.AccessKey)
		assert.Equal(t, "SK_def456", response.SecretKey)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_InvalidJSON", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		c, w := createTestContext(http.MethodPost, "/api/v2/accounts/register", nil)
		c.Request.Body = io.NopCloser(bytes.NewReader([]byte("invalid json")))

		handler.RegisterHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "validation_error", response["error"])
	})

	t.Run("Error_InvalidEmail", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		request := dto.RegisterAccountRequest{
			Email:    "not-an-email",
			Password: "Sup3rSecret",
		}

		c, w := createTestContext(http.MethodPost, "/api/v2/accounts/register", request)
		handler.RegisterHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockUseCase.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
	})

	t.Run("Error_WeakPassword", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		request := dto.RegisterAccountRequest{
			Email:    "ops@example.com",
			Password: "password",
		}

		c, w := createTestContext(http.MethodPost, "/api/v2/accounts/register", request)
		handler.RegisterHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockUseCase.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
	})

	t.Run("Error_DuplicateEmail", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		request := dto.RegisterAccountRequest{
			Email:    "ops@example.com",
			Password: "Sup3rSecret",
		}

		mockUseCase.On("Register", mock.Anything, mock.Anything).
			Return(nil, domain.ErrEmailAlreadyRegistered).Once()

		c, w := createTestContext(http.MethodPost, "/api/v2/accounts/register", request)
		handler.RegisterHandler(c)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestAccountHandler_RotateSecretKeyHandler(t *testing.T) {
	t.Run("Success_RotatesKey", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		account := &domain.Account{
			ID:        uuid.Must(uuid.NewV7()),
			AccessKey: "AK_abc123",
			Status:    domain.StatusActive,
		}

		output := &domain.RotateSecretKeyOutput{
			AccessKey: account.AccessKey,
			SecretKey: "SK_rotated",
			UpdatedAt: time.Now().UTC(),
		}

		mockUseCase.On("RotateSecretKey", mock.Anything, account.ID).Return(output, nil).Once()

		c, w := createTestContext(http.MethodPost, "/api/v2/accounts/regenerate-sk", nil)
		withAuthenticatedAccount(c, account)
		handler.RotateSecretKeyHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.RotateSecretKeyResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "AK_abc123", response.AccessKey)
		assert.Equal(t, "SK_rotated", response.SecretKey)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_NoAuthenticatedAccount", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		c, w := createTestContext(http.MethodPost, "/api/v2/accounts/regenerate-sk", nil)
		handler.RotateSecretKeyHandler(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		mockUseCase.AssertNotCalled(t, "RotateSecretKey", mock.Anything, mock.Anything)
	})
}

func TestAccountHandler_MeHandler(t *testing.T) {
	t.Run("Success_ReturnsProfileWithoutSecrets", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		account := &domain.Account{
			ID:           uuid.Must(uuid.NewV7()),
			Email:        "ops@example.com",
			Company:      "Example Inc",
			PasswordHash: "argon2id-hash",
			AccessKey:    "AK_abc123",
			SecretKey:    "SK_def456",
			Status:       domain.StatusActive,
			CreatedAt:    time.Now().UTC(),
			UpdatedAt:    time.Now().UTC(),
		}

		c, w := createTestContext(http.MethodGet, "/api/v2/accounts/me", nil)
		withAuthenticatedAccount(c, account)
		handler.MeHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.AccountResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, account.ID, response.ID)
		assert.Equal(t, "AK_abc123", response.AccessKey)
		assert.Equal(t, "active", response.Status)

		// The raw body must never leak credentials
		assert.NotContains(t, w.Body.String(), "SK_def456")
		assert.NotContains(t, w.Body.String(), "argon2id-hash")
	})

	t.Run("Error_NoAuthenticatedAccount", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		c, w := createTestContext(http.MethodGet, "/api/v2/accounts/me", nil)
		handler.MeHandler(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
