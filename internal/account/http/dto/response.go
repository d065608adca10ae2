package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/allisson/tokengate/internal/account/domain"
)

// RegisterAccountResponse is returned once at registration. It is the only
// response that ever carries the secret key.
type RegisterAccountResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Company   string    `json:"company,omitempty"`
	AccessKey string    `json:"access_key"`
	SecretKey string    `json:"secret_key"`
	CreatedAt time.Time `json:"created_at"`
}

// ToRegisterAccountResponse maps a registration result to its API response.
func ToRegisterAccountResponse(output *domain.RegisterAccountOutput) RegisterAccountResponse {
	return RegisterAccountResponse{
		ID:        output.ID,
		Email:     output.Email,
		Company:   output.Company,
		AccessKey: output.AccessKey,
		SecretKey: output.SecretKey,
		CreatedAt: output.CreatedAt,
	}
}

// RotateSecretKeyResponse carries the freshly generated secret key.
type RotateSecretKeyResponse struct {
	AccessKey string    `json:"access_key"`
	SecretKey string    `json:"secret_key"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToRotateSecretKeyResponse maps a rotation result to its API response.
func ToRotateSecretKeyResponse(output *domain.RotateSecretKeyOutput) RotateSecretKeyResponse {
	return RotateSecretKeyResponse{
		AccessKey: output.AccessKey,
		SecretKey: output.SecretKey,
		UpdatedAt: output.UpdatedAt,
	}
}

// AccountResponse represents the API view of an account profile. Credentials
// beyond the public access key are never included.
type AccountResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Company   string    `json:"company,omitempty"`
	AccessKey string    `json:"access_key"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToAccountResponse maps an account to its API response.
func ToAccountResponse(account *domain.Account) AccountResponse {
	return AccountResponse{
		ID:        account.ID,
		Email:     account.Email,
		Company:   account.Company,
		AccessKey: account.AccessKey,
		Status:    string(account.Status),
		CreatedAt: account.CreatedAt,
		UpdatedAt: account.UpdatedAt,
	}
}
