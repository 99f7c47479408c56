// Package usecase implements consent tracking: storing decisions and
// withdrawing every active consent of a data subject.
package usecase

import (
	"context"
	"time"

	"github.com/plantwatch/privacy/internal/consent/domain"
	recordDomain "github.com/plantwatch/privacy/internal/personaldata/domain"
)

// Repository defines the interface for consent record persistence.
type Repository interface {
	Create(ctx context.Context, consent *domain.ConsentRecord) error
	// ListBySubject returns every consent record of the data subject, oldest
	// first, including withdrawn and refused ones.
	ListBySubject(ctx context.Context, dataSubjectID string) ([]*domain.ConsentRecord, error)
	// WithdrawAll sets WithdrawnAt and clears IsActive on every active consent
	// of the data subject, returning how many were withdrawn.
	WithdrawAll(ctx context.Context, dataSubjectID string, withdrawnAt time.Time) (int64, error)
	// CountActive returns the number of active consents across all subjects.
	CountActive(ctx context.Context) (int64, error)
	// CountActiveBySubject returns the number of active consents of one subject.
	CountActiveBySubject(ctx context.Context, dataSubjectID string) (int64, error)
}

// ConsentInput carries the caller-supplied attributes for a consent decision.
type ConsentInput struct {
	DataSubjectID  string
	Purpose        string
	LegalBasis     recordDomain.LegalBasis
	ConsentGiven   bool
	DataCategories []string
	Source         string
	IPAddress      string
	UserAgent      string
	// RetentionDaysOverride replaces the default retention when positive.
	RetentionDaysOverride int
}

// UseCase defines the interface for consent business logic.
type UseCase interface {
	// Record validates and stores a consent decision. The record is active
	// when the decision granted consent.
	Record(ctx context.Context, input ConsentInput) (*domain.ConsentRecord, error)
	// WithdrawAll withdraws every active consent of the data subject and
	// returns how many were withdrawn. Called by the erasure workflow and
	// available to operators directly.
	WithdrawAll(ctx context.Context, dataSubjectID string) (int64, error)
	// ListBySubject returns the full consent history of the data subject.
	ListBySubject(ctx context.Context, dataSubjectID string) ([]*domain.ConsentRecord, error)
	// CountActive returns the number of active consents across all subjects.
	CountActive(ctx context.Context) (int64, error)
	// CountActiveBySubject returns the number of active consents of one subject.
	CountActiveBySubject(ctx context.Context, dataSubjectID string) (int64, error)
}
