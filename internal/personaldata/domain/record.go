// Package domain defines the core domain model for personal-data records.
// A record is one field+value pair belonging to one data subject, carrying the
// category, legal-basis and retention metadata that govern its lifecycle.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Record represents one personal-data field value belonging to a data subject.
//
// Lifecycle invariants:
//   - once IsAnonymized is true, EncryptedValue is empty
//   - once IsDeleted is true, both EncryptedValue and AnonymizedValue are empty
//   - records with LegalBasis legal-obligation are never deleted, only anonymized
//
// Records are soft-deleted: they stay in the store for counting and compliance
// purposes and are only physically removed by an explicit purge.
type Record struct {
	// ID is the unique identifier for the record.
	ID uuid.UUID
	// DataSubjectID identifies the natural person the value belongs to.
	DataSubjectID string
	// Category classifies the field (identifiable, sensitive, ...).
	Category Category
	// FieldName is the logical field name (e.g., "email", "location").
	FieldName string
	// EncryptedValue is the AEAD-protected original value; empty once cleared.
	EncryptedValue string
	// AnonymizedValue is set once the record has been anonymized.
	AnonymizedValue string
	// AppliedTechnique names the anonymization technique used, once applied.
	AppliedTechnique string
	// LegalBasis is the processing justification for this record.
	LegalBasis LegalBasis
	// ConsentTimestamp is when consent was collected, if the basis is consent.
	ConsentTimestamp *time.Time
	// RetentionPeriodDays is the retention period fixed at creation.
	RetentionPeriodDays int
	// CreatedAt is the UTC timestamp when the record was created.
	CreatedAt time.Time
	// ScheduledDeletionAt is CreatedAt + RetentionPeriodDays, fixed at creation.
	ScheduledDeletionAt time.Time
	// IsAnonymized marks the value as irreversibly anonymized.
	IsAnonymized bool
	// IsDeleted marks the record as soft-deleted.
	IsDeleted bool
	// DeletedAt is when the record was soft-deleted (nil while active).
	DeletedAt *time.Time
}

// Deletable reports whether the record's legal basis permits hard deletion.
// Records kept under a legal obligation may only be anonymized.
func (r *Record) Deletable() bool {
	return r.LegalBasis != LegalBasisLegalObligation
}

// Overdue reports whether the record is past its scheduled deletion time and
// still holds data (neither deleted nor anonymized).
func (r *Record) Overdue(now time.Time) bool {
	return !r.IsDeleted && !r.IsAnonymized && !r.ScheduledDeletionAt.After(now)
}

// RecordCounts aggregates record totals across the store. Deleted and
// anonymized records remain counted; they are excluded only from exports.
type RecordCounts struct {
	Total      int
	Anonymized int
	Deleted    int
}
