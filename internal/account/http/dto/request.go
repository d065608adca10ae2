// Package dto provides data transfer objects for account HTTP handlers.
package dto

import (
	validation "github.com/jellydator/validation"

	"github.com/allisson/tokengate/internal/account/domain"
	customValidation "github.com/allisson/tokengate/internal/validation"
)

// RegisterAccountRequest contains the parameters for registering a new account.
type RegisterAccountRequest struct {
	Email    string `json:"email"`
	Company  string `json:"company"`
	Password string `json:"password"`
}

// Validate checks if the register account request is valid.
func (r *RegisterAccountRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email,
			validation.Required,
			customValidation.NotBlank,
			customValidation.Email,
			validation.Length(3, 255),
		),
		validation.Field(&r.Company,
			validation.Length(0, 255),
		),
		validation.Field(&r.Password,
			validation.Required,
			customValidation.PasswordStrength{
				MinLength:     8,
				RequireUpper:  true,
				RequireLower:  true,
				RequireNumber: true,
			},
		),
	)
}

// ToRegisterAccountInput converts the request into a use case input.
func ToRegisterAccountInput(r RegisterAccountRequest) *domain.RegisterAccountInput {
	return &domain.RegisterAccountInput{
		Email:    r.Email,
		Company:  r.Company,
		Password: r.Password,
	}
}
