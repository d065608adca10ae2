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

// MySQLAccountRepository handles account persistence for MySQL
type MySQLAccountRepository struct {
	db *sql.DB
}

// NewMySQLAccountRepository creates a new MySQLAccountRepository
func NewMySQLAccountRepository(db *sql.DB) *MySQLAccountRepository {
	return &MySQLAccountRepository{
		db: db,
	}
}

// Create inserts a new account
func (r *MySQLAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO accounts (id, email, company, password_hash, access_key, secret_key, status, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	// Convert UUID to bytes for MySQL BINARY(16)
	uuidBytes, err := account.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		uuidBytes,
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
		if isMySQLUniqueViolation(err) {
			return domain.ErrEmailAlreadyRegistered
		}
		return apperrors.Wrap(err, "failed to create account")
	}
	return nil
}

// GetByID retrieves an account by ID
func (r *MySQLAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, email, company, password_hash, access_key, secret_key, status, created_at, updated_at
			  FROM accounts WHERE id = ?`

	// Convert UUID to bytes for MySQL BINARY(16)
	uuidBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	return r.scanAccount(querier.QueryRowContext(ctx, query, uuidBytes), "failed to get account by id")
}

// GetByEmail retrieves an account by email
func (r *MySQLAccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, email, company, password_hash, access_key, secret_key, status, created_at, updated_at
			  FROM accounts WHERE email = ?`

	return r.scanAccount(querier.QueryRowContext(ctx, query, email), "failed to get account by email")
}

// GetByAccessKey retrieves an account by its access key. This is the hot path
// for request authentication, backed by the unique access_key index.
func (r *MySQLAccountRepository) GetByAccessKey(ctx context.Context, accessKey string) (*domain.Account, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, email, company, password_hash, access_key, secret_key, status, created_at, updated_at
			  FROM accounts WHERE access_key = ?`

	return r.scanAccount(querier.QueryRowContext(ctx, query, accessKey), "failed to get account by access key")
}

// UpdateSecretKey atomically replaces the account's secret key in a single
// UPDATE statement. Returns domain.ErrAccountNotFound if no row matched.
func (r *MySQLAccountRepository) UpdateSecretKey(ctx context.Context, id uuid.UUID, secretKey string) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE accounts SET secret_key = ?, updated_at = ? WHERE id = ?`

	uuidBytes, err := id.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	result, err := querier.ExecContext(ctx, query, secretKey, time.Now().UTC(), uuidBytes)
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
// domain.ErrAccountNotFound. UUIDs are stored as BINARY(16) and must be unmarshaled.
func (r *MySQLAccountRepository) scanAccount(row *sql.Row, wrapMsg string) (*domain.Account, error) {
	var account domain.Account
	var idBytes []byte
	var status string

	err := row.Scan(
		&idBytes,
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

	// Convert bytes back to UUID
	if err := account.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}

	account.Status = domain.Status(status)
	return &account, nil
}

// isMySQLUniqueViolation checks if the error is a MySQL unique constraint violation
func isMySQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// MySQL: "Error 1062: Duplicate entry"
	return strings.Contains(errMsg, "duplicate entry") || strings.Contains(errMsg, "1062")
}
