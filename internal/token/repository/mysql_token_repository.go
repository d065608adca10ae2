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

// MySQLTokenRepository handles token persistence for MySQL
type MySQLTokenRepository struct {
	db *sql.DB
}

// NewMySQLTokenRepository creates a new MySQLTokenRepository
func NewMySQLTokenRepository(db *sql.DB) *MySQLTokenRepository {
	return &MySQLTokenRepository{
		db: db,
	}
}

const mysqlTokenColumns = `id, account_id, token_hash, token_preview, description, scope, prefix,
	is_active, total_requests, last_used_at, created_at, expires_at`

// Create inserts a new token. A unique violation on token_hash is surfaced as
// ErrKeyCollision.
func (r *MySQLTokenRepository) Create(ctx context.Context, token *domain.Token) error {
	querier := database.GetTx(ctx, r.db)

	idBytes, err := token.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal token id")
	}
	accountIDBytes, err := token.AccountID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal account id")
	}
	scopeJSON, err := json.Marshal(token.Scope)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal token scope")
	}

	query := `INSERT INTO tokens (id, account_id, token_hash, token_preview, description, scope, prefix,
			  is_active, total_requests, last_used_at, created_at, expires_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		idBytes,
		accountIDBytes,
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
		if isMySQLUniqueViolation(err) {
			return domain.ErrKeyCollision
		}
		return apperrors.Wrap(err, "failed to create token")
	}
	return nil
}

// GetByID retrieves a token by ID
func (r *MySQLTokenRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Token, error) {
	querier := database.GetTx(ctx, r.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal token id")
	}

	query := `SELECT ` + mysqlTokenColumns + ` FROM tokens WHERE id = ?`

	return scanMySQLToken(querier.QueryRowContext(ctx, query, idBytes), "failed to get token by id")
}

// GetByTokenHash retrieves a token by the SHA-256 hash of its bearer string.
func (r *MySQLTokenRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*domain.Token, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + mysqlTokenColumns + ` FROM tokens WHERE token_hash = ?`

	return scanMySQLToken(querier.QueryRowContext(ctx, query, tokenHash), "failed to get token by hash")
}

// ListByAccount retrieves an account's tokens ordered by creation time
// descending with pagination. Returns an empty slice if no tokens are found.
func (r *MySQLTokenRepository) ListByAccount(
	ctx context.Context,
	accountID uuid.UUID,
	activeOnly bool,
	limit, offset int,
) ([]*domain.Token, error) {
	querier := database.GetTx(ctx, r.db)

	accountIDBytes, err := accountID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal account id")
	}

	query := `SELECT ` + mysqlTokenColumns + ` FROM tokens WHERE account_id = ?`
	args := []interface{}{accountIDBytes}

	if activeOnly {
		query += ` AND is_active = TRUE`
	}

	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
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
		token, err := scanMySQLTokenRow(rows)
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

// CountByAccount returns the number of tokens owned by the account.
func (r *MySQLTokenRepository) CountByAccount(
	ctx context.Context,
	accountID uuid.UUID,
	activeOnly bool,
) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	accountIDBytes, err := accountID.MarshalBinary()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to marshal account id")
	}

	query := `SELECT COUNT(*) FROM tokens WHERE account_id = ?`
	if activeOnly {
		query += ` AND is_active = TRUE`
	}

	var count int64
	if err := querier.QueryRowContext(ctx, query, accountIDBytes).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count tokens")
	}

	return count, nil
}

// UpdateStatus sets the is_active flag in a single UPDATE statement.
// Returns domain.ErrTokenNotFound if no row matched.
func (r *MySQLTokenRepository) UpdateStatus(ctx context.Context, id uuid.UUID, isActive bool) error {
	querier := database.GetTx(ctx, r.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal token id")
	}

	query := `UPDATE tokens SET is_active = ? WHERE id = ?`

	result, err := querier.ExecContext(ctx, query, isActive, idBytes)
	if err != nil {
		return apperrors.Wrap(err, "failed to update token status")
	}

	return checkTokenRowsAffected(result)
}

// Delete removes a token row. Returns domain.ErrTokenNotFound if no row
// matched.
func (r *MySQLTokenRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal token id")
	}

	query := `DELETE FROM tokens WHERE id = ?`

	result, err := querier.ExecContext(ctx, query, idBytes)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete token")
	}

	return checkTokenRowsAffected(result)
}

// IncrementUsage bumps the usage counter and stamps last_used_at in a single
// UPDATE, so concurrent validations never lose increments.
func (r *MySQLTokenRepository) IncrementUsage(ctx context.Context, id uuid.UUID, usedAt time.Time) error {
	querier := database.GetTx(ctx, r.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal token id")
	}

	query := `UPDATE tokens SET total_requests = total_requests + 1, last_used_at = ? WHERE id = ?`

	result, err := querier.ExecContext(ctx, query, usedAt, idBytes)
	if err != nil {
		return apperrors.Wrap(err, "failed to increment token usage")
	}

	return checkTokenRowsAffected(result)
}

// DeleteExpired removes tokens whose expires_at is before the cutoff and
// returns the number of rows reclaimed.
func (r *MySQLTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM tokens WHERE expires_at < ?`

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
func (r *MySQLTokenRepository) CountExpired(ctx context.Context, before time.Time) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT COUNT(*) FROM tokens WHERE expires_at < ?`

	var count int64
	if err := querier.QueryRowContext(ctx, query, before).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count expired tokens")
	}

	return count, nil
}

// scanMySQLToken scans a single token row, mapping sql.ErrNoRows to
// domain.ErrTokenNotFound.
func scanMySQLToken(row *sql.Row, wrapMsg string) (*domain.Token, error) {
	token, err := scanMySQLTokenRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTokenNotFound
		}
		return nil, apperrors.Wrap(err, wrapMsg)
	}
	return token, nil
}

// scanMySQLTokenRow scans token columns with BINARY(16) UUID decoding.
func scanMySQLTokenRow(row tokenRowScanner) (*domain.Token, error) {
	var token domain.Token
	var idBytes, accountIDBytes, scopeJSON []byte
	var lastUsedAt sql.NullTime

	err := row.Scan(
		&idBytes,
		&accountIDBytes,
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

	if err := token.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal token id")
	}
	if err := token.AccountID.UnmarshalBinary(accountIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal account id")
	}
	if err := json.Unmarshal(scopeJSON, &token.Scope); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal token scope")
	}

	if lastUsedAt.Valid {
		token.LastUsedAt = &lastUsedAt.Time
	}

	return &token, nil
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
