package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/allisson/tokengate/internal/token/domain"
)

// CreateTokenResponse is returned once at creation. It is the only response
// that ever carries the full bearer string.
type CreateTokenResponse struct {
	ID          uuid.UUID `json:"id"`
	Token       string    `json:"token"`
	Description string    `json:"description"`
	Scope       []string  `json:"scope"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// ToCreateTokenResponse maps an issuance result to its API response.
func ToCreateTokenResponse(output *domain.CreateTokenOutput) CreateTokenResponse {
	return CreateTokenResponse{
		ID:          output.ID,
		Token:       output.Token,
		Description: output.Description,
		Scope:       output.Scope,
		IsActive:    output.IsActive,
		CreatedAt:   output.CreatedAt,
		ExpiresAt:   output.ExpiresAt,
	}
}

// TokenResponse represents the API view of an issued token. The bearer string
// never appears; TokenPreview is the masked form.
type TokenResponse struct {
	ID            uuid.UUID  `json:"id"`
	TokenPreview  string     `json:"token_preview"`
	Description   string     `json:"description"`
	Scope         []string   `json:"scope"`
	Status        string     `json:"status"`
	IsActive      bool       `json:"is_active"`
	TotalRequests int64      `json:"total_requests"`
	LastUsedAt    *time.Time `json:"last_used_at"`
	CreatedAt     time.Time  `json:"created_at"`
	ExpiresAt     time.Time  `json:"expires_at"`
}

// ToTokenResponse maps a token to its API response. Status is derived from
// the token state at the given instant.
func ToTokenResponse(token *domain.Token, now time.Time) TokenResponse {
	return TokenResponse{
		ID:            token.ID,
		TokenPreview:  token.TokenPreview,
		Description:   token.Description,
		Scope:         token.Scope,
		Status:        string(token.Status(now)),
		IsActive:      token.IsActive,
		TotalRequests: token.TotalRequests,
		LastUsedAt:    token.LastUsedAt,
		CreatedAt:     token.CreatedAt,
		ExpiresAt:     token.ExpiresAt,
	}
}

// ListTokensResponse is a page of tokens plus the total matching count.
type ListTokensResponse struct {
	Tokens []TokenResponse `json:"tokens"`
	Total  int64           `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

// ToListTokensResponse maps a page of tokens to its API response.
func ToListTokensResponse(tokens []*domain.Token, total int64, limit, offset int, now time.Time) ListTokensResponse {
	responses := make([]TokenResponse, 0, len(tokens))
	for _, token := range tokens {
		responses = append(responses, ToTokenResponse(token, now))
	}
	return ListTokensResponse{
		Tokens: responses,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}
}

// StatsResponse summarizes a token's usage counters.
type StatsResponse struct {
	TokenID       uuid.UUID  `json:"token_id"`
	TotalRequests int64      `json:"total_requests"`
	LastUsedAt    *time.Time `json:"last_used_at"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ToStatsResponse maps token stats to their API response.
func ToStatsResponse(stats *domain.Stats) StatsResponse {
	return StatsResponse{
		TokenID:       stats.TokenID,
		TotalRequests: stats.TotalRequests,
		LastUsedAt:    stats.LastUsedAt,
		CreatedAt:     stats.CreatedAt,
	}
}

// TokenInfo is the token detail embedded in a successful validation response.
type TokenInfo struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
	Scope       []string  `json:"scope"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// PermissionCheckResponse reports a single scope decision.
type PermissionCheckResponse struct {
	Requested string `json:"requested"`
	Granted   bool   `json:"granted"`
}

// ValidationResponse is the outcome of presenting a bearer token.
type ValidationResponse struct {
	Valid           bool                     `json:"valid"`
	Message         string                   `json:"message"`
	TokenInfo       *TokenInfo               `json:"token_info,omitempty"`
	PermissionCheck *PermissionCheckResponse `json:"permission_check,omitempty"`
}

// ToValidationResponse maps a validation result to its API response.
func ToValidationResponse(result *domain.ValidationResult) ValidationResponse {
	response := ValidationResponse{
		Valid:   result.Valid,
		Message: result.Message,
	}

	if result.Token != nil {
		response.TokenInfo = &TokenInfo{
			ID:          result.Token.ID,
			Description: result.Token.Description,
			Scope:       result.Token.Scope,
			ExpiresAt:   result.Token.ExpiresAt,
		}
	}

	if result.PermissionCheck != nil {
		response.PermissionCheck = &PermissionCheckResponse{
			Requested: result.PermissionCheck.Requested,
			Granted:   result.PermissionCheck.Granted,
		}
	}

	return response
}

// PermissionsResponse is the scope catalogue grouped by resource.
type PermissionsResponse struct {
	Categories []domain.PermissionCategory `json:"categories"`
	Total      int                         `json:"total"`
}

// ToPermissionsResponse maps the permission catalogue to its API response.
// Total counts individual scopes, not categories.
func ToPermissionsResponse(categories []domain.PermissionCategory) PermissionsResponse {
	total := 0
	for _, category := range categories {
		total += len(category.Permissions)
	}
	return PermissionsResponse{
		Categories: categories,
		Total:      total,
	}
}
