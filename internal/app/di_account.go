package app

import (
	"context"
	"fmt"

	accountRepository "github.com/allisson/tokengate/internal/account/repository"
	accountService "github.com/allisson/tokengate/internal/account/service"
	accountUsecase "github.com/allisson/tokengate/internal/account/usecase"
)

// AccountRepository returns the account repository instance.
func (c *Container) AccountRepository() (accountUsecase.AccountRepository, error) {
	c.accountRepoInit.Do(func() {
		repo, err := c.initAccountRepository()
		if err != nil {
			c.initErrors["accountRepo"] = err
			return
		}
		c.accountRepo = repo
	})
	if storedErr, exists := c.initErrors["accountRepo"]; exists {
		return nil, storedErr
	}
	return c.accountRepo, nil
}

// CredentialService returns the access/secret key pair generator.
func (c *Container) CredentialService() accountService.CredentialService {
	c.credentialServiceInit.Do(func() {
		c.credentialService = accountService.NewCredentialService()
	})
	return c.credentialService
}

// PasswordService returns the password hashing service.
func (c *Container) PasswordService() accountService.PasswordService {
	c.passwordServiceInit.Do(func() {
		c.passwordService = accountService.NewPasswordService()
	})
	return c.passwordService
}

// KeyEncryptionService returns the keeper-backed secret key encryption
// service.
func (c *Container) KeyEncryptionService() (accountService.KeyEncryptionService, error) {
	c.keyEncryptionServiceInit.Do(func() {
		service, err := accountService.NewKeyEncryptionService(
			context.Background(),
			c.config.KeyEncryptionKeyURI,
		)
		if err != nil {
			c.initErrors["keyEncryptionService"] = fmt.Errorf("failed to create key encryption service: %w", err)
			return
		}
		c.keyEncryptionService = service
	})
	if storedErr, exists := c.initErrors["keyEncryptionService"]; exists {
		return nil, storedErr
	}
	return c.keyEncryptionService, nil
}

// AccountUseCase returns the account use case instance.
func (c *Container) AccountUseCase() (accountUsecase.AccountUseCase, error) {
	c.accountUseCaseInit.Do(func() {
		useCase, err := c.initAccountUseCase()
		if err != nil {
			c.initErrors["accountUseCase"] = err
			return
		}
		c.accountUseCase = useCase
	})
	if storedErr, exists := c.initErrors["accountUseCase"]; exists {
		return nil, storedErr
	}
	return c.accountUseCase, nil
}

// initAccountRepository creates the account repository instance.
func (c *Container) initAccountRepository() (accountUsecase.AccountRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for account repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return accountRepository.NewMySQLAccountRepository(db), nil
	case "postgres":
		return accountRepository.NewPostgreSQLAccountRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initAccountUseCase creates the account use case with all its dependencies.
func (c *Container) initAccountUseCase() (accountUsecase.AccountUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for account use case: %w", err)
	}

	accountRepo, err := c.AccountRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get account repository for account use case: %w", err)
	}

	keyEncryptionService, err := c.KeyEncryptionService()
	if err != nil {
		return nil, fmt.Errorf("failed to get key encryption service for account use case: %w", err)
	}

	auditUseCase, err := c.AuditLogUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit use case for account use case: %w", err)
	}

	return accountUsecase.NewAccountUseCase(
		txManager,
		accountRepo,
		c.CredentialService(),
		c.PasswordService(),
		keyEncryptionService,
		auditUseCase,
	), nil
}
