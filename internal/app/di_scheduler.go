package app

import (
	"fmt"

	"github.com/plantwatch/privacy/internal/scheduler"
)

// Scheduler returns the lifecycle sweep scheduler.
func (c *Container) Scheduler() (*scheduler.Scheduler, error) {
	var err error
	c.schedulerInit.Do(func() {
		c.scheduler, err = c.initScheduler()
		if err != nil {
			c.initErrors["scheduler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["scheduler"]; exists {
		return nil, storedErr
	}
	return c.scheduler, nil
}

// initScheduler creates the scheduler with all its dependencies.
func (c *Container) initScheduler() (*scheduler.Scheduler, error) {
	records, err := c.RecordUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get record use case for scheduler: %w", err)
	}

	repo, err := c.RecordRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get record repository for scheduler: %w", err)
	}

	compliance, err := c.ComplianceUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get compliance use case for scheduler: %w", err)
	}

	audit, err := c.AuditUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit use case for scheduler: %w", err)
	}

	cfg := scheduler.Config{
		RetentionInterval:     c.config.RetentionSweepInterval,
		AnonymizationInterval: c.config.AnonymizationSweepInterval,
		ComplianceInterval:    c.config.ComplianceSweepInterval,
		RateLimit:             c.config.SweepRateLimit,
		RateBurst:             c.config.SweepRateBurst,
	}

	return scheduler.New(records, repo, compliance, audit, c.Logger(), cfg), nil
}
