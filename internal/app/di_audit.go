package app

import (
	"fmt"

	auditRepository "github.com/allisson/tokengate/internal/audit/repository"
	auditUsecase "github.com/allisson/tokengate/internal/audit/usecase"
)

// AuditLogRepository returns the audit log repository instance.
func (c *Container) AuditLogRepository() (auditUsecase.AuditLogRepository, error) {
	c.auditRepoInit.Do(func() {
		repo, err := c.initAuditLogRepository()
		if err != nil {
			c.initErrors["auditRepo"] = err
			return
		}
		c.auditRepo = repo
	})
	if storedErr, exists := c.initErrors["auditRepo"]; exists {
		return nil, storedErr
	}
	return c.auditRepo, nil
}

// AuditLogUseCase returns the audit log use case instance.
func (c *Container) AuditLogUseCase() (auditUsecase.AuditLogUseCase, error) {
	c.auditUseCaseInit.Do(func() {
		useCase, err := c.initAuditLogUseCase()
		if err != nil {
			c.initErrors["auditUseCase"] = err
			return
		}
		c.auditUseCase = useCase
	})
	if storedErr, exists := c.initErrors["auditUseCase"]; exists {
		return nil, storedErr
	}
	return c.auditUseCase, nil
}

// initAuditLogRepository creates the audit log repository instance.
func (c *Container) initAuditLogRepository() (auditUsecase.AuditLogRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for audit log repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return auditRepository.NewMySQLAuditLogRepository(db), nil
	case "postgres":
		return auditRepository.NewPostgreSQLAuditLogRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initAuditLogUseCase creates the audit log use case.
func (c *Container) initAuditLogUseCase() (auditUsecase.AuditLogUseCase, error) {
	auditRepo, err := c.AuditLogRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit log repository for audit log use case: %w", err)
	}

	return auditUsecase.NewAuditLogUseCase(auditRepo), nil
}
