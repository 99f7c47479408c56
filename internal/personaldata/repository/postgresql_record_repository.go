package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/plantwatch/privacy/internal/database"
	apperrors "github.com/plantwatch/privacy/internal/errors"
	"github.com/plantwatch/privacy/internal/personaldata/domain"
)

// PostgreSQLRecordRepository implements Record persistence for PostgreSQL.
// Uses native UUID types with transaction support via database.GetTx().
type PostgreSQLRecordRepository struct {
	db *sql.DB
}

// Create inserts a new personal-data record into the PostgreSQL database.
func (p *PostgreSQLRecordRepository) Create(ctx context.Context, record *domain.Record) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO personal_data_records (` + recordColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := querier.ExecContext(
		ctx,
		query,
		record.ID,
		record.DataSubjectID,
		string(record.Category),
		record.FieldName,
		record.EncryptedValue,
		record.AnonymizedValue,
		record.AppliedTechnique,
		string(record.LegalBasis),
		record.ConsentTimestamp,
		record.RetentionPeriodDays,
		record.CreatedAt,
		record.ScheduledDeletionAt,
		record.IsAnonymized,
		record.IsDeleted,
		record.DeletedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create personal data record")
	}
	return nil
}

// GetByID retrieves a record by its id, including soft-deleted records.
func (p *PostgreSQLRecordRepository) GetByID(
	ctx context.Context,
	recordID uuid.UUID,
) (*domain.Record, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + recordColumns + `
			  FROM personal_data_records
			  WHERE id = $1
			  LIMIT 1`

	record, err := scanRecord(querier.QueryRowContext(ctx, query, recordID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get personal data record")
	}

	return record, nil
}

// Update replaces the mutable record state after anonymization or deletion.
func (p *PostgreSQLRecordRepository) Update(ctx context.Context, record *domain.Record) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE personal_data_records
			  SET encrypted_value = $1, anonymized_value = $2, applied_technique = $3,
				  is_anonymized = $4, is_deleted = $5, deleted_at = $6
			  WHERE id = $7`

	result, err := querier.ExecContext(
		ctx,
		query,
		record.EncryptedValue,
		record.AnonymizedValue,
		record.AppliedTechnique,
		record.IsAnonymized,
		record.IsDeleted,
		record.DeletedAt,
		record.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update personal data record")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to check updated personal data record")
	}
	if affected == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// ListBySubject retrieves every record of the data subject, oldest first.
func (p *PostgreSQLRecordRepository) ListBySubject(
	ctx context.Context,
	dataSubjectID string,
) ([]*domain.Record, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + recordColumns + `
			  FROM personal_data_records
			  WHERE data_subject_id = $1
			  ORDER BY created_at ASC, id ASC`

	rows, err := querier.QueryContext(ctx, query, dataSubjectID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list personal data records")
	}

	return collectRecords(rows)
}

// ListSubjectIDs retrieves the distinct data subjects with at least one record.
func (p *PostgreSQLRecordRepository) ListSubjectIDs(ctx context.Context) ([]string, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT DISTINCT data_subject_id
			  FROM personal_data_records
			  ORDER BY data_subject_id ASC`

	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list data subject ids")
	}
	defer func() {
		_ = rows.Close()
	}()

	subjects := make([]string, 0)
	for rows.Next() {
		var subject string
		if err := rows.Scan(&subject); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan data subject id")
		}
		subjects = append(subjects, subject)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate data subject ids")
	}

	return subjects, nil
}

// ListDeletionDue retrieves non-deleted records whose scheduled deletion time
// is at or before now.
func (p *PostgreSQLRecordRepository) ListDeletionDue(
	ctx context.Context,
	now time.Time,
) ([]*domain.Record, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + recordColumns + `
			  FROM personal_data_records
			  WHERE is_deleted = FALSE AND scheduled_deletion_at <= $1
			  ORDER BY scheduled_deletion_at ASC`

	rows, err := querier.QueryContext(ctx, query, now)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list deletion-due records")
	}

	return collectRecords(rows)
}

// ListAnonymizationDue retrieves non-deleted, non-anonymized records of the
// given category created at or before the cutoff.
func (p *PostgreSQLRecordRepository) ListAnonymizationDue(
	ctx context.Context,
	category domain.Category,
	cutoff time.Time,
) ([]*domain.Record, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + recordColumns + `
			  FROM personal_data_records
			  WHERE category = $1 AND is_deleted = FALSE AND is_anonymized = FALSE AND created_at <= $2
			  ORDER BY created_at ASC`

	rows, err := querier.QueryContext(ctx, query, string(category), cutoff)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list anonymization-due records")
	}

	return collectRecords(rows)
}

// Counts aggregates record totals, including deleted and anonymized records.
func (p *PostgreSQLRecordRepository) Counts(ctx context.Context) (domain.RecordCounts, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT COUNT(*),
				  COUNT(*) FILTER (WHERE is_anonymized),
				  COUNT(*) FILTER (WHERE is_deleted)
			  FROM personal_data_records`

	var counts domain.RecordCounts
	err := querier.QueryRowContext(ctx, query).Scan(&counts.Total, &counts.Anonymized, &counts.Deleted)
	if err != nil {
		return domain.RecordCounts{}, apperrors.Wrap(err, "failed to count personal data records")
	}

	return counts, nil
}

// PurgeDeleted physically removes records soft-deleted before the cutoff.
// With dryRun set it only counts the candidates.
func (p *PostgreSQLRecordRepository) PurgeDeleted(
	ctx context.Context,
	cutoff time.Time,
	dryRun bool,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	if dryRun {
		query := `SELECT COUNT(*)
				  FROM personal_data_records
				  WHERE is_deleted = TRUE AND deleted_at < $1`

		var count int64
		if err := querier.QueryRowContext(ctx, query, cutoff).Scan(&count); err != nil {
			return 0, apperrors.Wrap(err, "failed to count purgeable records")
		}
		return count, nil
	}

	query := `DELETE FROM personal_data_records
			  WHERE is_deleted = TRUE AND deleted_at < $1`

	result, err := querier.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to purge deleted records")
	}

	purged, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count purged records")
	}

	return purged, nil
}

// collectRecords drains rows into records, closing the result set.
func collectRecords(rows *sql.Rows) ([]*domain.Record, error) {
	defer func() {
		_ = rows.Close()
	}()

	records := make([]*domain.Record, 0)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan personal data record")
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate personal data records")
	}

	return records, nil
}

// NewPostgreSQLRecordRepository creates a new PostgreSQL Record repository.
func NewPostgreSQLRecordRepository(db *sql.DB) *PostgreSQLRecordRepository {
	return &PostgreSQLRecordRepository{db: db}
}
