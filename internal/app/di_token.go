package app

import (
	"fmt"

	tokenRepository "github.com/allisson/tokengate/internal/token/repository"
	tokenService "github.com/allisson/tokengate/internal/token/service"
	tokenUsecase "github.com/allisson/tokengate/internal/token/usecase"
)

// TokenRepository returns the token repository instance.
func (c *Container) TokenRepository() (tokenUsecase.TokenRepository, error) {
	c.tokenRepoInit.Do(func() {
		repo, err := c.initTokenRepository()
		if err != nil {
			c.initErrors["tokenRepo"] = err
			return
		}
		c.tokenRepo = repo
	})
	if storedErr, exists := c.initErrors["tokenRepo"]; exists {
		return nil, storedErr
	}
	return c.tokenRepo, nil
}

// BearerService returns the bearer string generator and hasher.
func (c *Container) BearerService() tokenService.BearerService {
	c.bearerServiceInit.Do(func() {
		c.bearerService = tokenService.NewBearerService()
	})
	return c.bearerService
}

// TokenUseCase returns the token lifecycle use case instance, wrapped with
// business metrics recording.
func (c *Container) TokenUseCase() (tokenUsecase.TokenUseCase, error) {
	c.tokenUseCaseInit.Do(func() {
		useCase, err := c.initTokenUseCase()
		if err != nil {
			c.initErrors["tokenUseCase"] = err
			return
		}
		c.tokenUseCase = useCase
	})
	if storedErr, exists := c.initErrors["tokenUseCase"]; exists {
		return nil, storedErr
	}
	return c.tokenUseCase, nil
}

// ValidationUseCase returns the bearer token validation use case instance,
// wrapped with business metrics recording.
func (c *Container) ValidationUseCase() (tokenUsecase.ValidationUseCase, error) {
	c.validationUseCaseInit.Do(func() {
		useCase, err := c.initValidationUseCase()
		if err != nil {
			c.initErrors["validationUseCase"] = err
			return
		}
		c.validationUseCase = useCase
	})
	if storedErr, exists := c.initErrors["validationUseCase"]; exists {
		return nil, storedErr
	}
	return c.validationUseCase, nil
}

// initTokenRepository creates the token repository instance.
func (c *Container) initTokenRepository() (tokenUsecase.TokenRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for token repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return tokenRepository.NewMySQLTokenRepository(db), nil
	case "postgres":
		return tokenRepository.NewPostgreSQLTokenRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initTokenUseCase creates the token use case with all its dependencies.
func (c *Container) initTokenUseCase() (tokenUsecase.TokenUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for token use case: %w", err)
	}

	tokenRepo, err := c.TokenRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get token repository for token use case: %w", err)
	}

	auditUseCase, err := c.AuditLogUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit use case for token use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for token use case: %w", err)
	}

	useCase := tokenUsecase.NewTokenUseCase(
		txManager,
		tokenRepo,
		c.BearerService(),
		auditUseCase,
		c.config.TokenDefaultPrefix,
		c.config.TokenMaxExpiration,
	)

	return tokenUsecase.NewTokenUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initValidationUseCase creates the validation use case with all its dependencies.
func (c *Container) initValidationUseCase() (tokenUsecase.ValidationUseCase, error) {
	authUseCase, err := c.AuthUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get auth use case for validation use case: %w", err)
	}

	tokenRepo, err := c.TokenRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get token repository for validation use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for validation use case: %w", err)
	}

	useCase := tokenUsecase.NewValidationUseCase(authUseCase, tokenRepo)

	return tokenUsecase.NewValidationUseCaseWithMetrics(useCase, businessMetrics), nil
}
