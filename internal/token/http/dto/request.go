// Package dto provides data transfer objects for token HTTP handlers.
package dto

import (
	validation "github.com/jellydator/validation"

	"github.com/allisson/tokengate/internal/token/domain"
	customValidation "github.com/allisson/tokengate/internal/validation"
)

// CreateTokenRequest contains the parameters for issuing a new bearer token.
// Exactly one of expires_in_seconds or expires_in_days must be positive.
type CreateTokenRequest struct {
	Description      string   `json:"description"`
	Scope            []string `json:"scope"`
	ExpiresInSeconds int64    `json:"expires_in_seconds"`
	ExpiresInDays    int      `json:"expires_in_days"`
	Prefix           string   `json:"prefix"`
}

// Validate checks the request's structural fields. Expiry bounds and scope
// catalogue membership are enforced by the use case.
func (r *CreateTokenRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Description,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.Scope,
			validation.Required,
		),
		validation.Field(&r.Prefix,
			validation.Length(0, 16),
		),
	)
}

// ToCreateTokenInput converts the request into a use case input.
func ToCreateTokenInput(r CreateTokenRequest) *domain.CreateTokenInput {
	return &domain.CreateTokenInput{
		Description:      r.Description,
		Scope:            r.Scope,
		ExpiresInSeconds: r.ExpiresInSeconds,
		ExpiresInDays:    r.ExpiresInDays,
		Prefix:           r.Prefix,
	}
}

// UpdateTokenStatusRequest toggles a token's active flag.
type UpdateTokenStatusRequest struct {
	IsActive *bool `json:"is_active"`
}

// Validate checks if the update status request is valid.
func (r *UpdateTokenStatusRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.IsActive, validation.NotNil),
	)
}

// ValidateTokenRequest is the optional body of a validation call. The bearer
// token itself travels in the Authorization header.
type ValidateTokenRequest struct {
	RequiredScope string `json:"required_scope"`
}
