package app

import (
	"fmt"

	authService "github.com/allisson/tokengate/internal/auth/service"
	authUsecase "github.com/allisson/tokengate/internal/auth/usecase"
)

// SignatureService returns the HMAC signature verification service.
func (c *Container) SignatureService() authService.SignatureService {
	c.signatureServiceInit.Do(func() {
		c.signatureService = authService.NewSignatureService(c.config.HMACClockSkew)
	})
	return c.signatureService
}

// AuthUseCase returns the request authentication use case instance.
func (c *Container) AuthUseCase() (authUsecase.AuthUseCase, error) {
	c.authUseCaseInit.Do(func() {
		useCase, err := c.initAuthUseCase()
		if err != nil {
			c.initErrors["authUseCase"] = err
			return
		}
		c.authUseCase = useCase
	})
	if storedErr, exists := c.initErrors["authUseCase"]; exists {
		return nil, storedErr
	}
	return c.authUseCase, nil
}

// initAuthUseCase creates the auth use case with all its dependencies.
func (c *Container) initAuthUseCase() (authUsecase.AuthUseCase, error) {
	accountRepo, err := c.AccountRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get account repository for auth use case: %w", err)
	}

	tokenRepo, err := c.TokenRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get token repository for auth use case: %w", err)
	}

	keyEncryptionService, err := c.KeyEncryptionService()
	if err != nil {
		return nil, fmt.Errorf("failed to get key encryption service for auth use case: %w", err)
	}

	return authUsecase.NewAuthUseCase(
		accountRepo,
		tokenRepo,
		c.SignatureService(),
		c.BearerService(),
		keyEncryptionService,
	), nil
}
