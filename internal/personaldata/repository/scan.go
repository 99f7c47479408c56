package repository

import (
	"github.com/plantwatch/privacy/internal/personaldata/domain"
)

// recordColumns is the canonical column list shared by both SQL backends.
const recordColumns = `id, data_subject_id, category, field_name, encrypted_value, anonymized_value,
		applied_technique, legal_basis, consent_timestamp, retention_period_days,
		created_at, scheduled_deletion_at, is_anonymized, is_deleted, deleted_at`

// rowScanner abstracts *sql.Row and *sql.Rows for scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRecord scans one row in recordColumns order into a Record.
func scanRecord(scanner rowScanner) (*domain.Record, error) {
	var record domain.Record
	var category, legalBasis string

	err := scanner.Scan(
		&record.ID,
		&record.DataSubjectID,
		&category,
		&record.FieldName,
		&record.EncryptedValue,
		&record.AnonymizedValue,
		&record.AppliedTechnique,
		&legalBasis,
		&record.ConsentTimestamp,
		&record.RetentionPeriodDays,
		&record.CreatedAt,
		&record.ScheduledDeletionAt,
		&record.IsAnonymized,
		&record.IsDeleted,
		&record.DeletedAt,
	)
	if err != nil {
		return nil, err
	}

	record.Category = domain.Category(category)
	record.LegalBasis = domain.LegalBasis(legalBasis)
	return &record, nil
}
