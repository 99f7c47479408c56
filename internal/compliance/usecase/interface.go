// Package usecase implements the compliance reporter: rule evaluation over
// every data subject and the aggregate report the dashboard polls.
package usecase

import (
	"context"

	"github.com/plantwatch/privacy/internal/compliance/domain"
)

// UseCase defines the interface for compliance business logic.
type UseCase interface {
	// Check evaluates the compliance rules over every data subject:
	// subjects holding identifiable data without an active consent, and
	// records kept past their scheduled deletion time.
	Check(ctx context.Context) (*domain.CheckResult, error)
	// Report aggregates store-wide counts with a fresh check result.
	Report(ctx context.Context) (*domain.Report, error)
}
