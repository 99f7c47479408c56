package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/plantwatch/privacy/internal/consent/domain"
	"github.com/plantwatch/privacy/internal/database"
	apperrors "github.com/plantwatch/privacy/internal/errors"
)

// MySQLConsentRepository implements consent persistence for MySQL databases.
// UUIDs are stored as BINARY(16).
type MySQLConsentRepository struct {
	db *sql.DB
}

// Create inserts a new consent record.
func (m *MySQLConsentRepository) Create(ctx context.Context, consent *domain.ConsentRecord) error {
	querier := database.GetTx(ctx, m.db)

	categoriesJSON, err := marshalCategories(consent.DataCategories)
	if err != nil {
		return err
	}

	id, err := consent.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal consent id")
	}

	query := `INSERT INTO consent_records (` + consentColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		consent.DataSubjectID,
		consent.Purpose,
		string(consent.LegalBasis),
		consent.ConsentGiven,
		consent.ConsentTimestamp,
		consent.WithdrawnAt,
		consent.Source,
		consent.IPAddress,
		consent.UserAgent,
		categoriesJSON,
		consent.RetentionPeriodDays,
		consent.IsActive,
		consent.Version,
		consent.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create consent record")
	}

	return nil
}

// ListBySubject retrieves all consent records of the subject, oldest first.
func (m *MySQLConsentRepository) ListBySubject(
	ctx context.Context,
	dataSubjectID string,
) ([]*domain.ConsentRecord, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + consentColumns + `
			  FROM consent_records
			  WHERE data_subject_id = ?
			  ORDER BY created_at ASC, id ASC`

	rows, err := querier.QueryContext(ctx, query, dataSubjectID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list consent records")
	}

	return collectConsents(rows)
}

// WithdrawAll withdraws every active consent of the subject in one statement.
func (m *MySQLConsentRepository) WithdrawAll(
	ctx context.Context,
	dataSubjectID string,
	withdrawnAt time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE consent_records
			  SET withdrawn_at = ?, is_active = FALSE
			  WHERE data_subject_id = ? AND is_active = TRUE`

	result, err := querier.ExecContext(ctx, query, withdrawnAt, dataSubjectID)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to withdraw consents")
	}

	withdrawn, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count withdrawn consents")
	}

	return withdrawn, nil
}

// CountActive returns the number of active consents across all subjects.
func (m *MySQLConsentRepository) CountActive(ctx context.Context) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT COUNT(*) FROM consent_records WHERE is_active = TRUE`

	var count int64
	if err := querier.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count active consents")
	}
	return count, nil
}

// CountActiveBySubject returns the number of active consents of one subject.
func (m *MySQLConsentRepository) CountActiveBySubject(
	ctx context.Context,
	dataSubjectID string,
) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT COUNT(*) FROM consent_records WHERE data_subject_id = ? AND is_active = TRUE`

	var count int64
	if err := querier.QueryRowContext(ctx, query, dataSubjectID).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count active consents")
	}
	return count, nil
}

// NewMySQLConsentRepository creates a new MySQL consent repository.
func NewMySQLConsentRepository(db *sql.DB) *MySQLConsentRepository {
	return &MySQLConsentRepository{db: db}
}
