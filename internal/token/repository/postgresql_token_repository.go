// Package repository provides data persistence implementations for bearer tokens.
//
// Provides PostgreSQL and MySQL implementations with transaction support via database.GetTx().
// PostgreSQL uses native UUID types, MySQL uses BINARY(16) types. Scope sets are
// stored as JSON arrays.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/tokengate/internal/database"
	apperrors "github.com/allisson/tokengate/internal/errors"
	"github.com/allisson/tokengate/internal/token/domain"
)

// PostgreSQLTokenRepository handles token persistence for PostgreSQL
type PostgreSQLTokenRepository struct {
	db *sql.DB
}

// NewPostgreSQLTokenRepository creates a new PostgreSQLTokenRepository
func NewPostgreSQLTokenRepository(db *sql.DB) *PostgreSQLTokenRepository {
	return &PostgreSQLTokenRepository{
		db: db,
	}
}

const postgresTokenColumns = `id, account_id, token_hash, token_preview, description, scope, prefix,
	is_active, total_requests, last_used_at, created_at, expires_at`

// Create inserts a new token. A unique violation on token_hash is surfaced as
// ErrKeyCollision: with 256 bits of randomness it indicates a faulty entropy
// source, not a retryable condition.
func (r *PostgreSQLTokenRepository) Create(ctx context.Context, token *domain.Token) error {
	querier := database.GetTx(ctx, r.db)

	scopeJSON, err := json.Marshal(token.Scope)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal token scope")
	}

	query := `INSERT INTO tokens (id, account_id, token_hash, token_preview, description, scope, prefix,
			  is_active, total_requests, last_used_at, created_at, expires_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err = querier.ExecContext(
		ctx,
		query,
		token.ID,
		token.AccountID,
		token.TokenHash,
		token.TokenPreview,
		token.Description,
		scopeJSON,
		token.Prefix,
		token.IsActive,
		token.TotalRequests,
		token.LastUsedAt,
		token.CreatedAt,
		token.ExpiresAt,
	)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return domain.ErrKeyCollision
		}
		return apperrors.Wrap(err, "failed to create token")
	}
	return nil
}

// GetByID retrieves a token by ID
func (r *PostgreSQLTokenRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Token, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + postgresTokenColumns + ` FROM tokens WHERE id = $1`

	return scanPostgresToken(querier.QueryRowContext(ctx, query, id), "failed to get token by id")
}

// GetByTokenHash retrieves a token by the SHA-256 hash of its bearer string.
// This is the O(1) hot path for bearer authentication, backed by the unique
// token_hash index.
func (r *PostgreSQLTokenRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*domain.Token, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + postgresTokenColumns + ` FROM tokens WHERE token_hash = $1`

	return scanPostgresToken(querier.QueryRowContext(ctx, query, tokenHash), "failed to get token by hash")
}

// ListByAccount retrieves an account's tokens ordered by creation time
// descending (newest first) with pagination. When activeOnly is true, only
// tokens with is_active = true are returned (expiry is still evaluated
// lazily by callers). Returns an empty slice if no tokens are found.
func (r *PostgreSQLTokenRepository) ListByAccount(
	ctx context.Context,
	accountID uuid.UUID,
	activeOnly bool,
	limit, offset int,
) ([]*domain.Token, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + postgresTokenColumns + ` FROM tokens WHERE account_id = $1`
	args := []interface{}{accountID}

	if activeOnly {
		query += ` AND is_active = TRUE`
	}

	query += ` ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	args = append(args, limit, offset)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list tokens")
	}
	defer func() {
		_ = rows.Close()
	}()

	// Initialize empty slice to avoid returning nil for empty results
	tokens := make([]*domain.Token, 0)
	for rows.Next() {
		token, err := scanPostgresTokenRow(rows)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate tokens")
	}

	return tokens, nil
}

// CountByAccount returns the number of tokens owned by the account,
// respecting the same activeOnly filter as ListByAccount.
func (r *PostgreSQLTokenRepository) CountByAccount(
	ctx context.Context,
	accountID uuid.UUID,
	activeOnly bool,
) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT COUNT(*) FROM tokens WHERE account_id = $1`
	if activeOnly {
		query += ` AND is_active = TRUE`
	}

	var count int64
	if err := querier.QueryRowContext(ctx, query, accountID).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count tokens")
	}

	return count, nil
}

// UpdateStatus sets the is_active flag in a single UPDATE statement.
// Returns domain.ErrTokenNotFound if no row matched.
func (r *PostgreSQLTokenRepository) UpdateStatus(ctx context.Context, id uuid.UUID, isActive bool) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE tokens SET is_active = $1 WHERE id = $2`

	result, err := querier.ExecContext(ctx, query, isActive, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to update token status")
	}

	return checkTokenRowsAffected(result)
}

// Delete removes a token row. Returns domain.ErrTokenNotFound if no row
// matched; callers treat that as success for idempotent deletes.
func (r *PostgreSQLTokenRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM tokens WHERE id = $1`

	result, err := querier.ExecContext(ctx, query, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete token")
	}

	return checkTokenRowsAffected(result)
}

// IncrementUsage bumps the usage counter and stamps last_used_at in a single
// UPDATE, so concurrent validations never lose increments.
func (r *PostgreSQLTokenRepository) IncrementUsage(ctx context.Context, id uuid.UUID, usedAt time.Time) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE tokens SET total_requests = total_requests + 1, last_used_at = $1 WHERE id = $2`

	result, err := querier.ExecContext(ctx, query, usedAt, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to increment token usage")
	}

	return checkTokenRowsAffected(result)
}

// DeleteExpired removes tokens whose expires_at is before the cutoff and
// returns the number of rows reclaimed. Storage reclamation only: expiry
// correctness never depends on this running.
func (r *PostgreSQLTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM tokens WHERE expires_at < $1`

	result, err := querier.ExecContext(ctx, query, before)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired tokens")
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get rows affected")
	}

	return deleted, nil
}

// CountExpired returns the number of tokens whose expires_at is before the
// cutoff without deleting them.
func (r *PostgreSQLTokenRepository) CountExpired(ctx context.Context, before time.Time) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT COUNT(*) FROM tokens WHERE expires_at < $1`

	var count int64
	if err := querier.QueryRowContext(ctx, query, before).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count expired tokens")
	}

	return count, nil
}

// tokenRowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type tokenRowScanner interface {
	Scan(dest ...any) error
}

// scanPostgresToken scans a single token row, mapping sql.ErrNoRows to
// domain.ErrTokenNotFound.
func scanPostgresToken(row *sql.Row, wrapMsg string) (*domain.Token, error) {
	token, err := scanPostgresTokenRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTokenNotFound
		}
		return nil, apperrors.Wrap(err, wrapMsg)
	}
	return token, nil
}

// scanPostgresTokenRow scans token columns from any row scanner.
func scanPostgresTokenRow(row tokenRowScanner) (*domain.Token, error) {
	var token domain.Token
	var scopeJSON []byte
	var lastUsedAt sql.NullTime

	err := row.Scan(
		&token.ID,
		&token.AccountID,
		&token.TokenHash,
		&token.TokenPreview,
		&token.Description,
		&scopeJSON,
		&token.Prefix,
		&token.IsActive,
		&token.TotalRequests,
		&lastUsedAt,
		&token.CreatedAt,
		&token.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(scopeJSON, &token.Scope); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal token scope")
	}

	if lastUsedAt.Valid {
		token.LastUsedAt = &lastUsedAt.Time
	}

	return &token, nil
}

// checkTokenRowsAffected maps zero affected rows to domain.ErrTokenNotFound.
func checkTokenRowsAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return domain.ErrTokenNotFound
	}
	return nil
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
