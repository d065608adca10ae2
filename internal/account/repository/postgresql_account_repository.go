// Package repository provides data persistence implementations for account entities.
//
// Provides PostgreSQL and MySQL implementations with transaction support via database.GetTx().
// PostgreSQL uses native UUID types, MySQL uses BINARY(16) types.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/tokengate/internal/account/domain"
	"github.com/allisson/tokengate/internal/database"
	apperrors "github.com/allisson/tokengate/internal/errors"
)

// PostgreSQLAccountRepository handles account persistence for PostgreSQL
type PostgreSQLAccountRepository struct {
	db *sql.DB
}

// NewPostgreSQLAccountRepository creates a new PostgreSQLAccountRepository
func NewPostgreSQLAccountRepository(db *sql.DB) *PostgreSQLAccountRepository {
	return &PostgreSQLAccountRepository{
		db: db,
	}
}

// Create inserts a new account
func (r *PostgreSQLAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO accounts (id, email, company, password_hash, access_key, secret_key, status, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := querier.ExecContext(
		ctx,
		query,
		account.ID,
		account.Email,
		account.Company,
		account.PasswordHash,
		account.AccessKey,
		account.SecretKey,
		string(account.Status),
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		// Check for unique constraint violation (duplicate email or access key)
		if isPostgreSQLUniqueViolation(err) {
			return domain.ErrEmailAlreadyRegistered
		}
		return apperrors.Wrap(err, "failed to create account")
	}
	return nil
}

// GetByID retrieves an account by ID
func (r *PostgreSQLAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, email, company, password_hash, access_key, secret_key, status, created_at, updated_at
			  FROM accounts WHERE id = $1`

	return r.scanAccount(querier.QueryRowContext(ctx, query, id), "failed to get account by id")
}

// GetByEmail retrieves an account by email
func (r *PostgreSQLAccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, email, company, password_hash, access_key, secret_key, status, created_at, updated_at
			  FROM accounts WHERE email = $1`

	return r.scanAccount(querier.QueryRowContext(ctx, query, email), "failed to get account by email")
}

// GetByAccessKey retrieves an account by its access key. This is the hot path
// for request authentication, backed by the unique access_key index.
func (r *PostgreSQLAccountRepository) GetByAccessKey(ctx context.Context, accessKey string) (*domain.Account, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, email, company, password_hash, access_key, secret_key, status, created_at, updated_at
			  FROM accounts WHERE access_key = $1`

	return r.scanAccount(querier.QueryRowContext(ctx, query, accessKey), "failed to get account by access key")
}

// UpdateSecretKey atomically replaces the account's secret key in a single
// UPDATE statement. Returns domain.ErrAccountNotFound if no row matched.
func (r *PostgreSQLAccountRepository) UpdateSecretKey(ctx context.Context, id uuid.UUID, secretKey string) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE accounts SET secret_key = $1, updated_at = $2 WHERE id = $3`

	result, err := querier.ExecContext(ctx, query, secretKey, time.Now().UTC(), id)
	if err != nil {
		return apperrors.Wrap(err, "failed to update account secret key")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// scanAccount scans a single account row, mapping sql.ErrNoRows to
// domain.ErrAccountNotFound.
func (r *PostgreSQLAccountRepository) scanAccount(row *sql.Row, wrapMsg string) (*domain.Account, error) {
	var account domain.Account
	var status string

	err := row.Scan(
		&account.ID,
		&account.Email,
		&account.Company,
		&account.PasswordHash,
		&account.AccessKey,
		&account.SecretKey,
		&status,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(err, wrapMsg)
	}

	account.Status = domain.Status(status)
	return &account, nil
}

// isPostgreSQLUniqueViolation checks if the error is a PostgreSQL unique constraint violation
func isPostgreSQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// PostgreSQL: "duplicate key value violates unique constraint" or "pq: duplicate key"
	return strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint")
}
