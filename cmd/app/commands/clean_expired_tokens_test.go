package commands

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/tokengate/internal/token/domain"
	tokenUsecase "github.com/allisson/tokengate/internal/token/usecase"
)

type mockTokenUseCase struct {
	mock.Mock
}

func (m *mockTokenUseCase) Create(ctx context.Context, accountID uuid.UUID, input *domain.CreateTokenInput) (*domain.CreateTokenOutput, error) {
	args := m.Called(ctx, accountID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreateTokenOutput), args.Error(1)
}

func (m *mockTokenUseCase) List(ctx context.Context, accountID uuid.UUID, query *tokenUsecase.ListQuery) (*tokenUsecase.ListOutput, error) {
	args := m.Called(ctx, accountID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tokenUsecase.ListOutput), args.Error(1)
}

func (m *mockTokenUseCase) Get(ctx context.Context, accountID, tokenID uuid.UUID) (*domain.Token, error) {
	args := m.Called(ctx, accountID, tokenID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Token), args.Error(1)
}

func (m *mockTokenUseCase) SetStatus(ctx context.Context, accountID, tokenID uuid.UUID, isActive bool) error {
	args := m.Called(ctx, accountID, tokenID, isActive)
	return args.Error(0)
}

func (m *mockTokenUseCase) Delete(ctx context.Context, accountID, tokenID uuid.UUID) error {
	args := m.Called(ctx, accountID, tokenID)
	return args.Error(0)
}

func (m *mockTokenUseCase) Stats(ctx context.Context, accountID, tokenID uuid.UUID) (*domain.Stats, error) {
	args := m.Called(ctx, accountID, tokenID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Stats), args.Error(1)
}

func (m *mockTokenUseCase) CleanExpired(ctx context.Context, days int, dryRun bool) (int64, error) {
	args := m.Called(ctx, days, dryRun)
	return args.Get(0).(int64), args.Error(1)
}

func TestCleanExpiredTokens(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()
	days := 30

	t.Run("text-output", func(t *testing.T) {
		mockUseCase := &mockTokenUseCase{}
		mockUseCase.On("CleanExpired", ctx, days, false).Return(int64(10), nil)

		var out bytes.Buffer
		err := cleanExpiredTokens(ctx, mockUseCase, logger, &out, days, false, "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), "Successfully deleted 10 expired token(s) older than 30 day(s)")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("dry-run-output", func(t *testing.T) {
		mockUseCase := &mockTokenUseCase{}
		mockUseCase.On("CleanExpired", ctx, days, true).Return(int64(4), nil)

		var out bytes.Buffer
		err := cleanExpiredTokens(ctx, mockUseCase, logger, &out, days, true, "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), "Dry-run mode: Would delete 4 expired token(s)")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("json-output", func(t *testing.T) {
		mockUseCase := &mockTokenUseCase{}
		mockUseCase.On("CleanExpired", ctx, days, true).Return(int64(5), nil)

		var out bytes.Buffer
		err := cleanExpiredTokens(ctx, mockUseCase, logger, &out, days, true, "json")

		require.NoError(t, err)
		require.Contains(t, out.String(), `"count": 5`)
		require.Contains(t, out.String(), `"dry_run": true`)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("use-case-error", func(t *testing.T) {
		mockUseCase := &mockTokenUseCase{}
		mockUseCase.On("CleanExpired", ctx, days, false).Return(int64(0), errors.New("database is down"))

		var out bytes.Buffer
		err := cleanExpiredTokens(ctx, mockUseCase, logger, &out, days, false, "text")

		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to clean expired tokens")
		require.Empty(t, out.String())
		mockUseCase.AssertExpectations(t)
	})
}
