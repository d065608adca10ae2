package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/tokengate/internal/account/domain"
	apperrors "github.com/allisson/tokengate/internal/errors"
	"github.com/allisson/tokengate/internal/testutil"
)

func newTestAccount(email, accessKey string) *domain.Account {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Account{
		ID:           uuid.Must(uuid.NewV7()),
		Email:        email,
		Company:      "Acme Corp",
		PasswordHash: "argon2id-hash",
		AccessKey:    accessKey,
		SecretKey:    "SK_0123456789abcdef",
		Status:       domain.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestNewPostgreSQLAccountRepository(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)

	repo := NewPostgreSQLAccountRepository(db)
	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestPostgreSQLAccountRepository_Create(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLAccountRepository(db)
	ctx := context.Background()

	account := newTestAccount("john@example.com", "AK_create")

	err := repo.Create(ctx, account)
	assert.NoError(t, err)

	// Verify the account was created
	created, err := repo.GetByID(ctx, account.ID)
	assert.NoError(t, err)
	assert.Equal(t, account.ID, created.ID)
	assert.Equal(t, account.Email, created.Email)
	assert.Equal(t, account.Company, created.Company)
	assert.Equal(t, account.AccessKey, created.AccessKey)
	assert.Equal(t, account.SecretKey, created.SecretKey)
	assert.Equal(t, domain.StatusActive, created.Status)
	assert.False(t, created.CreatedAt.IsZero())
	assert.False(t, created.UpdatedAt.IsZero())
}

func TestPostgreSQLAccountRepository_Create_DuplicateEmail(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLAccountRepository(db)
	ctx := context.Background()

	first := newTestAccount("dup@example.com", "AK_dup1")
	require.NoError(t, repo.Create(ctx, first))

	second := newTestAccount("dup@example.com", "AK_dup2")
	err := repo.Create(ctx, second)
	assert.Error(t, err)
	assert.True(t, apperrors.Is(err, domain.ErrEmailAlreadyRegistered))
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
}

func TestPostgreSQLAccountRepository_GetByID_NotFound(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLAccountRepository(db)
	ctx := context.Background()

	account, err := repo.GetByID(ctx, uuid.Must(uuid.NewV7()))
	assert.Error(t, err)
	assert.Nil(t, account)
	assert.True(t, apperrors.Is(err, domain.ErrAccountNotFound))
}

func TestPostgreSQLAccountRepository_GetByEmail(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLAccountRepository(db)
	ctx := context.Background()

	expected := newTestAccount("byemail@example.com", "AK_byemail")
	require.NoError(t, repo.Create(ctx, expected))

	account, err := repo.GetByEmail(ctx, "byemail@example.com")
	assert.NoError(t, err)
	assert.NotNil(t, account)
	assert.Equal(t, expected.ID, account.ID)
	assert.Equal(t, expected.Email, account.Email)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.True(t, apperrors.Is(err, domain.ErrAccountNotFound))
}

func TestPostgreSQLAccountRepository_GetByAccessKey(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLAccountRepository(db)
	ctx := context.Background()

	expected := newTestAccount("byak@example.com", "AK_lookup")
	require.NoError(t, repo.Create(ctx, expected))

	account, err := repo.GetByAccessKey(ctx, "AK_lookup")
	assert.NoError(t, err)
	assert.NotNil(t, account)
	assert.Equal(t, expected.ID, account.ID)
	assert.Equal(t, expected.SecretKey, account.SecretKey)

	_, err = repo.GetByAccessKey(ctx, "AK_unknown")
	assert.True(t, apperrors.Is(err, domain.ErrAccountNotFound))
}

func TestPostgreSQLAccountRepository_UpdateSecretKey(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLAccountRepository(db)
	ctx := context.Background()

	account := newTestAccount("rotate@example.com", "AK_rotate")
	require.NoError(t, repo.Create(ctx, account))

	err := repo.UpdateSecretKey(ctx, account.ID, "SK_rotated")
	assert.NoError(t, err)

	updated, err := repo.GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "SK_rotated", updated.SecretKey)
	assert.True(t, updated.UpdatedAt.After(account.UpdatedAt) || updated.UpdatedAt.Equal(account.UpdatedAt))
}

func TestPostgreSQLAccountRepository_UpdateSecretKey_NotFound(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLAccountRepository(db)
	ctx := context.Background()

	err := repo.UpdateSecretKey(ctx, uuid.Must(uuid.NewV7()), "SK_rotated")
	assert.Error(t, err)
	assert.True(t, apperrors.Is(err, domain.ErrAccountNotFound))
}
