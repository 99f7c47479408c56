// Package usecase implements business logic orchestration for personal-data
// records: creation with privacy defaults, anonymization, legal-basis-gated
// deletion and purging of soft-deleted rows.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/plantwatch/privacy/internal/personaldata/domain"
)

// Repository defines the interface for personal-data record persistence.
//
// Lookup by record id is a native operation of every implementation (primary
// key in SQL, secondary index in memory); callers never scan subjects to
// resolve an id.
type Repository interface {
	Create(ctx context.Context, record *domain.Record) error
	// GetByID returns ErrNotFound when no record has the given id.
	GetByID(ctx context.Context, recordID uuid.UUID) (*domain.Record, error)
	Update(ctx context.Context, record *domain.Record) error
	ListBySubject(ctx context.Context, dataSubjectID string) ([]*domain.Record, error)
	// ListSubjectIDs returns the distinct data subjects with at least one record.
	ListSubjectIDs(ctx context.Context) ([]string, error)
	// ListDeletionDue returns non-deleted records with ScheduledDeletionAt <= now.
	ListDeletionDue(ctx context.Context, now time.Time) ([]*domain.Record, error)
	// ListAnonymizationDue returns non-deleted, non-anonymized records of the
	// given category created at or before the cutoff.
	ListAnonymizationDue(ctx context.Context, category domain.Category, cutoff time.Time) ([]*domain.Record, error)
	// Counts aggregates record totals, including deleted and anonymized records.
	Counts(ctx context.Context) (domain.RecordCounts, error)
	// PurgeDeleted physically removes soft-deleted records soft-deleted before
	// the cutoff. With dryRun it only reports how many would be removed.
	PurgeDeleted(ctx context.Context, cutoff time.Time, dryRun bool) (int64, error)
}

// RecordInput carries the caller-supplied attributes for a new record.
type RecordInput struct {
	DataSubjectID string
	FieldName     string
	Value         string
	Category      domain.Category
	LegalBasis    domain.LegalBasis
	// RetentionDaysOverride replaces the category default when positive.
	RetentionDaysOverride int
	// ConsentTimestamp is when consent was collected, if applicable.
	ConsentTimestamp *time.Time
}

// UseCase defines the interface for personal-data business logic.
type UseCase interface {
	// Record validates, encrypts and stores a new personal-data record.
	// Sensitive records are anonymized immediately on creation.
	Record(ctx context.Context, input RecordInput) (*domain.Record, error)
	// Anonymize irreversibly anonymizes the record with the given id.
	// Idempotent: returns true without reapplying if already anonymized.
	// Returns false when the record is missing, deleted, or has no registered
	// anonymization rule for its field.
	Anonymize(ctx context.Context, recordID uuid.UUID) (bool, error)
	// Delete soft-deletes the record and clears both value fields.
	// Returns false when the record is missing, already deleted, or protected
	// by a legal-obligation basis.
	Delete(ctx context.Context, recordID uuid.UUID) (bool, error)
	// ListBySubject returns every record of the data subject, including
	// anonymized and soft-deleted ones.
	ListBySubject(ctx context.Context, dataSubjectID string) ([]*domain.Record, error)
	// RevealValue returns the anonymized value for anonymized records and the
	// decrypted original otherwise. Deleted records have no value.
	RevealValue(record *domain.Record) (string, error)
	// PurgeDeleted physically removes records soft-deleted more than
	// olderThanDays days ago. With dryRun it only reports the count.
	PurgeDeleted(ctx context.Context, olderThanDays int, dryRun bool) (int64, error)
}
