package app

import (
	"context"
	"fmt"

	"github.com/plantwatch/privacy/internal/anonymize"
	auditRepository "github.com/plantwatch/privacy/internal/audit/repository"
	auditUsecase "github.com/plantwatch/privacy/internal/audit/usecase"
	complianceUsecase "github.com/plantwatch/privacy/internal/compliance/usecase"
	consentRepository "github.com/plantwatch/privacy/internal/consent/repository"
	consentUsecase "github.com/plantwatch/privacy/internal/consent/usecase"
	cryptoDomain "github.com/plantwatch/privacy/internal/crypto/domain"
	cryptoService "github.com/plantwatch/privacy/internal/crypto/service"
	dsrUsecase "github.com/plantwatch/privacy/internal/dsr/usecase"
	recordRepository "github.com/plantwatch/privacy/internal/personaldata/repository"
	recordUsecase "github.com/plantwatch/privacy/internal/personaldata/usecase"
)

// Box returns the field-encryption box, loading the data key on first access.
func (c *Container) Box() (*cryptoService.Box, error) {
	var err error
	c.boxInit.Do(func() {
		c.box, err = c.initBox()
		if err != nil {
			c.initErrors["box"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["box"]; exists {
		return nil, storedErr
	}
	return c.box, nil
}

// Registry returns the anonymization rule registry.
func (c *Container) Registry() (*anonymize.Registry, error) {
	var err error
	c.registryInit.Do(func() {
		c.registry, err = c.initRegistry()
		if err != nil {
			c.initErrors["registry"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["registry"]; exists {
		return nil, storedErr
	}
	return c.registry, nil
}

// RecordRepository returns the personal-data record repository based on the
// configured store backend and database driver.
func (c *Container) RecordRepository() (recordUsecase.Repository, error) {
	var err error
	c.recordRepoInit.Do(func() {
		c.recordRepo, err = c.initRecordRepository()
		if err != nil {
			c.initErrors["recordRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["recordRepo"]; exists {
		return nil, storedErr
	}
	return c.recordRepo, nil
}

// ConsentRepository returns the consent record repository.
func (c *Container) ConsentRepository() (consentUsecase.Repository, error) {
	var err error
	c.consentRepoInit.Do(func() {
		c.consentRepo, err = c.initConsentRepository()
		if err != nil {
			c.initErrors["consentRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["consentRepo"]; exists {
		return nil, storedErr
	}
	return c.consentRepo, nil
}

// AuditRepository returns the audit entry repository.
func (c *Container) AuditRepository() (auditUsecase.Repository, error) {
	var err error
	c.auditRepoInit.Do(func() {
		c.auditRepo, err = c.initAuditRepository()
		if err != nil {
			c.initErrors["auditRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["auditRepo"]; exists {
		return nil, storedErr
	}
	return c.auditRepo, nil
}

// AuditUseCase returns the audit trail use case.
func (c *Container) AuditUseCase() (auditUsecase.UseCase, error) {
	var err error
	c.auditUseCaseInit.Do(func() {
		c.auditUseCase, err = c.initAuditUseCase()
		if err != nil {
			c.initErrors["auditUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["auditUseCase"]; exists {
		return nil, storedErr
	}
	return c.auditUseCase, nil
}

// RecordUseCase returns the personal-data use case.
func (c *Container) RecordUseCase() (recordUsecase.UseCase, error) {
	var err error
	c.recordUseCaseInit.Do(func() {
		c.recordUseCase, err = c.initRecordUseCase()
		if err != nil {
			c.initErrors["recordUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["recordUseCase"]; exists {
		return nil, storedErr
	}
	return c.recordUseCase, nil
}

// ConsentUseCase returns the consent use case.
func (c *Container) ConsentUseCase() (consentUsecase.UseCase, error) {
	var err error
	c.consentUseCaseInit.Do(func() {
		c.consentUseCase, err = c.initConsentUseCase()
		if err != nil {
			c.initErrors["consentUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["consentUseCase"]; exists {
		return nil, storedErr
	}
	return c.consentUseCase, nil
}

// ErasureUseCase returns the right-to-be-forgotten use case.
func (c *Container) ErasureUseCase() (dsrUsecase.ErasureUseCase, error) {
	var err error
	c.erasureUseCaseInit.Do(func() {
		c.erasureUseCase, err = c.initErasureUseCase()
		if err != nil {
			c.initErrors["erasureUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["erasureUseCase"]; exists {
		return nil, storedErr
	}
	return c.erasureUseCase, nil
}

// ExportUseCase returns the data-portability use case.
func (c *Container) ExportUseCase() (dsrUsecase.ExportUseCase, error) {
	var err error
	c.exportUseCaseInit.Do(func() {
		c.exportUseCase, err = c.initExportUseCase()
		if err != nil {
			c.initErrors["exportUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["exportUseCase"]; exists {
		return nil, storedErr
	}
	return c.exportUseCase, nil
}

// ComplianceUseCase returns the compliance check/report use case.
func (c *Container) ComplianceUseCase() (complianceUsecase.UseCase, error) {
	var err error
	c.complianceUseCaseInit.Do(func() {
		c.complianceUseCase, err = c.initComplianceUseCase()
		if err != nil {
			c.initErrors["complianceUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["complianceUseCase"]; exists {
		return nil, storedErr
	}
	return c.complianceUseCase, nil
}

// initBox loads the data key from the configured source and builds the box.
func (c *Container) initBox() (*cryptoService.Box, error) {
	logger := c.Logger()

	var source cryptoService.KeySource
	if c.config.KMSKeyURI != "" {
		source = cryptoService.NewKMSKeySource(
			cryptoService.NewKMSService(),
			c.config.KMSKeyURI,
			c.config.WrappedDataKey,
		)
	} else {
		source = cryptoService.NewEphemeralKeySource(logger)
	}

	key, err := source.Load(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to load data key: %w", err)
	}

	algorithm, err := cryptoDomain.ParseAlgorithm(c.config.DataKeyAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("invalid data key algorithm %q: %w", c.config.DataKeyAlgorithm, err)
	}

	box, err := cryptoService.NewBox(key, algorithm)
	if err != nil {
		return nil, fmt.Errorf("failed to create box: %w", err)
	}
	return box, nil
}

// initRegistry builds the anonymization registry keyed by the box hash.
func (c *Container) initRegistry() (*anonymize.Registry, error) {
	box, err := c.Box()
	if err != nil {
		return nil, fmt.Errorf("failed to get box for registry: %w", err)
	}
	return anonymize.NewRegistry(box), nil
}

// initRecordRepository creates the record repository for the configured backend.
func (c *Container) initRecordRepository() (recordUsecase.Repository, error) {
	if c.config.StoreBackend == "memory" {
		return recordRepository.NewMemoryRepository(), nil
	}

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for record repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return recordRepository.NewPostgreSQLRecordRepository(db), nil
	case "mysql":
		return recordRepository.NewMySQLRecordRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initConsentRepository creates the consent repository for the configured backend.
func (c *Container) initConsentRepository() (consentUsecase.Repository, error) {
	if c.config.StoreBackend == "memory" {
		return consentRepository.NewMemoryRepository(), nil
	}

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for consent repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return consentRepository.NewPostgreSQLConsentRepository(db), nil
	case "mysql":
		return consentRepository.NewMySQLConsentRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initAuditRepository creates the audit repository for the configured backend.
func (c *Container) initAuditRepository() (auditUsecase.Repository, error) {
	if c.config.StoreBackend == "memory" {
		return auditRepository.NewMemoryRepository(), nil
	}

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for audit repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return auditRepository.NewPostgreSQLEntryRepository(db), nil
	case "mysql":
		return auditRepository.NewMySQLEntryRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initAuditUseCase creates the audit use case with its repository.
func (c *Container) initAuditUseCase() (auditUsecase.UseCase, error) {
	repo, err := c.AuditRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit repository for audit use case: %w", err)
	}
	return auditUsecase.NewUseCase(repo), nil
}

// initRecordUseCase creates the personal-data use case with all its dependencies.
func (c *Container) initRecordUseCase() (recordUsecase.UseCase, error) {
	repo, err := c.RecordRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get record repository for record use case: %w", err)
	}

	box, err := c.Box()
	if err != nil {
		return nil, fmt.Errorf("failed to get box for record use case: %w", err)
	}

	registry, err := c.Registry()
	if err != nil {
		return nil, fmt.Errorf("failed to get registry for record use case: %w", err)
	}

	audit, err := c.AuditUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit use case for record use case: %w", err)
	}

	baseUseCase := recordUsecase.NewUseCase(repo, box, registry, audit)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for record use case: %w", err)
		}
		return recordUsecase.NewUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initConsentUseCase creates the consent use case with all its dependencies.
func (c *Container) initConsentUseCase() (consentUsecase.UseCase, error) {
	repo, err := c.ConsentRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get consent repository for consent use case: %w", err)
	}

	audit, err := c.AuditUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit use case for consent use case: %w", err)
	}

	baseUseCase := consentUsecase.NewUseCase(repo, audit)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for consent use case: %w", err)
		}
		return consentUsecase.NewUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initErasureUseCase creates the erasure use case with all its dependencies.
func (c *Container) initErasureUseCase() (dsrUsecase.ErasureUseCase, error) {
	records, err := c.RecordUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get record use case for erasure use case: %w", err)
	}

	consents, err := c.ConsentUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get consent use case for erasure use case: %w", err)
	}

	audit, err := c.AuditUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit use case for erasure use case: %w", err)
	}

	baseUseCase := dsrUsecase.NewErasureUseCase(records, consents, audit, c.Logger())

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for erasure use case: %w", err)
		}
		return dsrUsecase.NewErasureUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initExportUseCase creates the export use case with all its dependencies.
func (c *Container) initExportUseCase() (dsrUsecase.ExportUseCase, error) {
	records, err := c.RecordUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get record use case for export use case: %w", err)
	}

	consents, err := c.ConsentUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get consent use case for export use case: %w", err)
	}

	audit, err := c.AuditUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit use case for export use case: %w", err)
	}

	baseUseCase := dsrUsecase.NewExportUseCase(records, consents, audit, c.Logger())

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for export use case: %w", err)
		}
		return dsrUsecase.NewExportUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initComplianceUseCase creates the compliance use case with its dependencies.
func (c *Container) initComplianceUseCase() (complianceUsecase.UseCase, error) {
	repo, err := c.RecordRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get record repository for compliance use case: %w", err)
	}

	consents, err := c.ConsentUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get consent use case for compliance use case: %w", err)
	}

	return complianceUsecase.NewUseCase(repo, consents, c.Logger()), nil
}
